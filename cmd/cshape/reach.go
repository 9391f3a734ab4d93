package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reachLayouts bool

func init() {
	reachCmd.Flags().BoolVar(&reachLayouts, "layouts", false, "also resolve and print the layout of each kept type")
}

var reachCmd = &cobra.Command{
	Use:   "reach FILE ROOT...",
	Short: "Show the subgraph reachable from the given root types",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		narrowed, err := p.Facade.ReachableView(args[1:]...)
		if err != nil {
			return err
		}

		for _, id := range narrowed.View().Declared() {
			name := p.Types.NameOf(id)
			if !reachLayouts {
				fmt.Fprintln(out, name)
				continue
			}
			l, lerr := narrowed.LayoutOf(name)
			if lerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, lerr)
				continue
			}
			p.Renderer.Type(out, p.Types, id, l)
			fmt.Fprintln(out)
		}
		return p.finish(cmd)
	},
}
