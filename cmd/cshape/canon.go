package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var canonCmd = &cobra.Command{
	Use:   "canon FILE TYPE...",
	Short: "Resolve typedef chains to their canonical type names",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		for _, name := range args[1:] {
			canonical, cerr := p.Facade.Canonical(name)
			if cerr != nil {
				return cerr
			}
			if canonical == name {
				fmt.Fprintln(out, name)
			} else {
				fmt.Fprintf(out, "%s -> %s\n", name, canonical)
			}
		}
		return p.finish(cmd)
	},
}
