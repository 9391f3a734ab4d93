package main

import (
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten FILE TYPE...",
	Short: "Print flattened member lists with anonymous composites promoted",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		flat := p.Facade.FlattenedView()
		for _, name := range args[1:] {
			ff, ferr := flat.FlatFields(name)
			if ferr != nil {
				return ferr
			}
			p.Renderer.Flat(out, p.Types, name, ff)
		}
		return p.finish(cmd)
	},
}
