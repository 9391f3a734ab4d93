package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cshape/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cshape",
	Short: "C/C++ type layout resolution engine",
	Long:  `cshape resolves ABI-accurate size, alignment, offset, and bit-range information for C/C++ type declaration graphs`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(reachCmd)
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("target", "x86_64-linux-gnu", "ABI target triple")
	rootCmd.PersistentFlags().Int("pack", 0, "force a pack bound on structs without their own (0 = natural)")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel root resolution (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
