// Package report renders resolved layouts and diagnostics for the CLI.
// The engine core stays print-free; everything human-readable lives here.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cshape/internal/layout"
	"cshape/internal/types"
	"cshape/internal/view"
)

// Renderer writes layout tables. With Color off every style collapses to
// plain text, so output stays pipe-friendly.
type Renderer struct {
	Color bool
}

func (r *Renderer) headerStyle() lipgloss.Style {
	if !r.Color {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
}

func (r *Renderer) holeStyle() lipgloss.Style {
	if !r.Color {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Faint(true)
}

// Type writes the resolved layout of one node. Struct and union nodes get
// a field table and a holes summary; everything else gets a one-liner.
func (r *Renderer) Type(w io.Writer, typesIn *types.Interner, id types.TypeID, l layout.TypeLayout) {
	name := typesIn.NameOf(id)
	if name == "" {
		name = typeString(typesIn, id)
	}
	info, isComposite := typesIn.StructInfo(id)
	kind := typesIn.MustLookup(id).Kind.String()
	if isComposite && info.IsUnion {
		kind = "union"
	}

	header := fmt.Sprintf("%s (%s, size=%d, align=%d)", name, kind, l.Size, l.Align)
	fmt.Fprintln(w, r.headerStyle().Render(header))
	if !isComposite {
		return
	}

	nameCol := 4
	labels := make([]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		fieldName, _ := typesIn.Strings().Lookup(f.Name)
		if fieldName == "" {
			if f.Anonymous {
				fieldName = "(anon)"
			} else {
				fieldName = "(pad)"
			}
		}
		labels = append(labels, fieldName)
		nameCol = max(nameCol, runewidth.StringWidth(fieldName))
	}

	for i, f := range info.Fields {
		if i >= len(l.Fields) {
			break
		}
		pos := l.Fields[i]
		offset := fmt.Sprintf("%d", pos.ByteOffset)
		if pos.IsBitfield() {
			offset = fmt.Sprintf("%d:%d+%d", pos.ByteOffset, pos.BitOffset, pos.BitWidth)
		}
		fmt.Fprintf(w, "  %8s  %s  %s\n",
			offset,
			runewidth.FillRight(labels[i], nameCol),
			typeString(typesIn, f.Type))
	}

	if len(l.Holes) > 0 {
		parts := make([]string, 0, len(l.Holes))
		for _, h := range l.Holes {
			parts = append(parts, fmt.Sprintf("[%d,+%d]", h.Offset, h.Len))
		}
		fmt.Fprintln(w, r.holeStyle().Render("  holes: "+strings.Join(parts, " ")))
	}
}

// Flat writes the promoted member list of a flattened struct view, sorted
// by parent-absolute position.
func (r *Renderer) Flat(w io.Writer, typesIn *types.Interner, qualified string, fields []view.FlatField) {
	fmt.Fprintln(w, r.headerStyle().Render(qualified+" (flattened)"))
	nameCol := 4
	for _, f := range fields {
		n, _ := typesIn.Strings().Lookup(f.Name)
		nameCol = max(nameCol, runewidth.StringWidth(n))
	}
	sorted := make([]view.FlatField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ByteOffset != sorted[j].ByteOffset {
			return sorted[i].ByteOffset < sorted[j].ByteOffset
		}
		return sorted[i].BitOffset < sorted[j].BitOffset
	})
	for _, f := range sorted {
		fieldName, _ := typesIn.Strings().Lookup(f.Name)
		if fieldName == "" {
			fieldName = "(unnamed)"
		}
		offset := fmt.Sprintf("%d", f.ByteOffset)
		if f.BitWidth >= 0 {
			offset = fmt.Sprintf("%d:%d+%d", f.ByteOffset, f.BitOffset, f.BitWidth)
		}
		fmt.Fprintf(w, "  %8s  %s  %s\n",
			offset,
			runewidth.FillRight(fieldName, nameCol),
			typeString(typesIn, f.Type))
	}
}
