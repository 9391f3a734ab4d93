package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"cshape/internal/diag"
)

var (
	errorTag   = color.New(color.FgRed, color.Bold)
	warningTag = color.New(color.FgYellow, color.Bold)
	infoTag    = color.New(color.FgCyan)
)

// Diagnostics writes the bag, sorted and deduplicated, one finding per
// line: "ERROR LAY2001 demo::Node: value-contained type cycle ...".
func (r *Renderer) Diagnostics(w io.Writer, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	bag.Dedup()
	for _, d := range bag.Items() {
		tag := d.Severity.String()
		if r.Color {
			switch d.Severity {
			case diag.SevError:
				tag = errorTag.Sprint(tag)
			case diag.SevWarning:
				tag = warningTag.Sprint(tag)
			default:
				tag = infoTag.Sprint(tag)
			}
		}
		if d.Subject != "" {
			fmt.Fprintf(w, "%s %s %s: %s\n", tag, d.Code, d.Subject, d.Message)
		} else {
			fmt.Fprintf(w, "%s %s %s\n", tag, d.Code, d.Message)
		}
	}
}
