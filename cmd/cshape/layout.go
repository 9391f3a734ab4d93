package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cshape/internal/snapshot"
)

var (
	layoutRoots   []string
	layoutFlatten bool
	layoutCache   bool
)

func init() {
	layoutCmd.Flags().StringArrayVar(&layoutRoots, "root", nil, "resolve only these root types (repeatable; default: all declared)")
	layoutCmd.Flags().BoolVar(&layoutFlatten, "flatten", false, "promote members of anonymous nested composites")
	layoutCmd.Flags().BoolVar(&layoutCache, "cache", false, "reuse the per-user layout cache when the document is unchanged")
}

var layoutCmd = &cobra.Command{
	Use:   "layout [FILE]",
	Short: "Resolve and print type layouts from a declaration document",
	Long:  `Resolve and print type layouts. Without FILE a cshape.toml manifest is looked up from the working directory and supplies the document plus default roots, target, pack, and flatten settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docPath := ""
		if len(args) == 1 {
			docPath = args[0]
		}
		if docPath == "" {
			manifest, ok, merr := loadProjectManifest(".")
			if merr != nil {
				return merr
			}
			if !ok {
				return fmt.Errorf("no declaration document given and no cshape.toml found")
			}
			docPath = manifest.manifestDocument()
			applyManifestDefaults(cmd, manifest)
		}

		p, err := loadPipeline(cmd, docPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if layoutCache && len(layoutRoots) == 0 && !layoutFlatten {
			forcePack, _ := cmd.Flags().GetInt("pack")
			if done, err := layoutFromCache(cmd, p, forcePack); err != nil {
				return err
			} else if done {
				return p.finish(cmd)
			}
		}

		facade := p.Facade
		if layoutFlatten {
			facade = facade.FlattenedView()
		}

		roots := layoutRoots
		if len(roots) == 0 {
			for _, id := range facade.View().Declared() {
				roots = append(roots, p.Types.NameOf(id))
			}
		}

		results, bag, err := facade.ResolveRoots(cmd.Context(), roots, p.Jobs)
		if err != nil {
			return err
		}
		p.Bag.Merge(bag)

		for _, res := range results {
			if res.Err != nil {
				continue
			}
			id, _ := p.Types.LookupQualified(res.Name)
			p.Renderer.Type(out, p.Types, id, res.Layout)
			if layoutFlatten {
				if ff, ferr := facade.FlatFields(res.Name); ferr == nil && len(ff) > 0 {
					p.Renderer.Flat(out, p.Types, res.Name, ff)
				}
			}
			fmt.Fprintln(out)
		}

		if layoutCache && len(layoutRoots) == 0 && !layoutFlatten && !p.Bag.HasErrors() {
			forcePack, _ := cmd.Flags().GetInt("pack")
			if err := layoutToCache(p, forcePack); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache write failed: %v\n", err)
			}
		}
		return p.finish(cmd)
	},
}

// applyManifestDefaults fills settings the user left untouched from the
// manifest. Explicit flags always win.
func applyManifestDefaults(cmd *cobra.Command, manifest *projectManifest) {
	lay := manifest.Config.Layout
	if lay.Target != "" && !cmd.Flags().Changed("target") {
		_ = cmd.Flags().Set("target", lay.Target)
	}
	if lay.Pack != 0 && !cmd.Flags().Changed("pack") {
		_ = cmd.Flags().Set("pack", fmt.Sprintf("%d", lay.Pack))
	}
	if len(lay.Roots) > 0 && !cmd.Flags().Changed("root") {
		layoutRoots = append([]string(nil), lay.Roots...)
	}
	if lay.Flatten && !cmd.Flags().Changed("flatten") {
		layoutFlatten = true
	}
}

// layoutFromCache replays a prior run when the document and engine
// configuration are byte-identical. Returns done=true on a hit.
func layoutFromCache(cmd *cobra.Command, p *pipeline, forcePack int) (bool, error) {
	cache, err := snapshot.Open("cshape")
	if err != nil {
		return false, err
	}
	key := snapshot.DigestOf(p.DocBytes, p.Engine.Target, forcePack)
	var payload snapshot.Payload
	hit, err := cache.Get(key, &payload)
	if err != nil || !hit {
		return false, err
	}
	out := cmd.OutOrStdout()
	for _, rec := range payload.Types {
		fmt.Fprintf(out, "%s (%s, size=%d, align=%d)\n", rec.Name, rec.Kind, rec.Size, rec.Align)
		for _, f := range rec.Fields {
			offset := fmt.Sprintf("%d", f.ByteOffset)
			if f.BitWidth >= 0 {
				offset = fmt.Sprintf("%d:%d+%d", f.ByteOffset, f.BitOffset, f.BitWidth)
			}
			fmt.Fprintf(out, "  %8s  %s  %s\n", offset, f.Name, f.Type)
		}
		fmt.Fprintln(out)
	}
	return true, nil
}

func layoutToCache(p *pipeline, forcePack int) error {
	cache, err := snapshot.Open("cshape")
	if err != nil {
		return err
	}
	key := snapshot.DigestOf(p.DocBytes, p.Engine.Target, forcePack)
	payload := snapshot.Build(p.Types, p.Engine, p.Types.Declared())
	return cache.Put(key, payload)
}
