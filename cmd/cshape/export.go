package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cshape/internal/snapshot"
)

var (
	exportOut    string
	exportFormat string
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: FILE with .mp or .json extension)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "msgpack", "output format (msgpack|json)")
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Resolve every declared type and write the layouts to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		switch format {
		case "msgpack", "json":
		default:
			return fmt.Errorf("unsupported format %q (must be msgpack or json)", exportFormat)
		}

		p, err := loadPipeline(cmd, args[0])
		if err != nil {
			return err
		}

		payload := snapshot.Build(p.Types, p.Engine, p.Types.Declared())

		outPath := exportOut
		if outPath == "" {
			base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			if format == "json" {
				outPath = base + ".json"
			} else {
				outPath = base + ".mp"
			}
		}

		switch format {
		case "json":
			data, jerr := json.MarshalIndent(payload, "", "  ")
			if jerr != nil {
				return jerr
			}
			if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
				return err
			}
		case "msgpack":
			if err := snapshot.WriteFile(outPath, payload); err != nil {
				return err
			}
		}

		if !p.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d type(s) to %s\n", len(payload.Types), outPath)
		}
		return p.finish(cmd)
	},
}
