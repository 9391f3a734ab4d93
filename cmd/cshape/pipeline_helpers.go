package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cshape/internal/decl"
	"cshape/internal/diag"
	"cshape/internal/layout"
	"cshape/internal/names"
	"cshape/internal/query"
	"cshape/internal/report"
	"cshape/internal/types"
)

// pipeline bundles everything a subcommand needs after loading a document.
type pipeline struct {
	Types    *types.Interner
	Engine   *layout.Engine
	Facade   *query.Facade
	Bag      *diag.Bag
	Renderer *report.Renderer
	Quiet    bool
	Jobs     int
	DocBytes []byte
}

// loadPipeline parses flags, loads the declaration document, and builds the
// graph plus engine. Loader diagnostics land in the bag; the caller decides
// whether they are fatal.
func loadPipeline(cmd *cobra.Command, docPath string) (*pipeline, error) {
	colorMode, _ := cmd.Flags().GetString("color")
	quiet, _ := cmd.Flags().GetBool("quiet")
	targetName, _ := cmd.Flags().GetString("target")
	forcePack, _ := cmd.Flags().GetInt("pack")
	jobs, _ := cmd.Flags().GetInt("jobs")
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")

	target, err := targetByName(targetName)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", docPath, err)
	}
	doc, err := decl.Parse(string(raw))
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiag)
	typesIn := types.NewInterner(names.NewInterner())
	builder := decl.NewBuilder(typesIn, &diag.BagReporter{Bag: bag})
	builder.Build(doc)

	engine := layout.New(target, typesIn)
	engine.ForcePack = forcePack

	return &pipeline{
		Types:    typesIn,
		Engine:   engine,
		Facade:   query.New(typesIn, engine),
		Bag:      bag,
		Renderer: &report.Renderer{Color: useColor(colorMode)},
		Quiet:    quiet,
		Jobs:     jobs,
		DocBytes: raw,
	}, nil
}

// finish prints collected diagnostics and returns an error when any were
// fatal, so cobra exits non-zero.
func (p *pipeline) finish(cmd *cobra.Command) error {
	if p.Bag.Len() > 0 && !p.Quiet {
		p.Renderer.Diagnostics(cmd.ErrOrStderr(), p.Bag)
	}
	if p.Bag.HasErrors() {
		return fmt.Errorf("%d diagnostic(s)", p.Bag.Len())
	}
	return nil
}

func targetByName(name string) (layout.Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "x86_64-linux-gnu":
		return layout.X86_64LinuxGNU(), nil
	default:
		return layout.Target{}, fmt.Errorf("unsupported target %q", name)
	}
}

func useColor(mode string) bool {
	switch strings.ToLower(mode) {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
