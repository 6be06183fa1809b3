package upload

import (
	"fmt"
	"io"
	"text/tabwriter"
)

func RenderPreview(w io.Writer, p Preview) {
	fmt.Fprintf(w, "Selected %s (%s, %s, %s)\n", p.Name, p.SizeText(), p.ContentType, p.Dimensions())
}

func RenderResult(w io.Writer, r Result) error {
	fmt.Fprintln(w, "✨ Extracted Payment Details")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range r.Fields {
		fmt.Fprintf(tw, "%s %s\t%s\n", f.Icon, f.Label, f.Value)
	}
	if r.Screenshot != "" {
		fmt.Fprintf(tw, "🖼 Screenshot\t%s\n", r.Screenshot)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if r.RawOCRText != "" {
		fmt.Fprintf(w, "\n📝 Raw OCR Text\n%s\n", r.RawOCRText)
	}
	return nil
}

// RenderSportOptions lists the selector entries, marking the selected one.
func RenderSportOptions(w io.Writer, opts []SportOption) {
	for _, o := range opts {
		mark := " "
		if o.Selected {
			mark = "*"
		}
		value := o.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s %-4s %s\n", mark, value, o.Label)
	}
}
