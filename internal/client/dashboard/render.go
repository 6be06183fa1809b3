package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const EmptyStateText = "No payments found. Upload a screenshot to get started."

// Mark is the one-glyph badge printed in front of a status.
func (s Severity) Mark() string {
	switch s {
	case Positive:
		return "✔"
	case Caution:
		return "…"
	case Negative:
		return "✖"
	default:
		return "•"
	}
}

func RenderStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "Payments: %d   Total: %s   Completed: %d   Sports: %d\n",
		s.Total, s.AmountText(), s.Completed, s.SportsUsed)
}

// RenderSidebar lists sports; the active one is bracketed.
func RenderSidebar(w io.Writer, items []SidebarItem) {
	if len(items) == 0 {
		return
	}
	labels := make([]string, 0, len(items))
	for _, it := range items {
		if it.Active {
			labels = append(labels, "["+it.Label+"]")
			continue
		}
		labels = append(labels, it.Label)
	}
	fmt.Fprintf(w, "Sports: %s\n", strings.Join(labels, "  "))
}

func selectedLabel(opts []Option) string {
	for _, o := range opts {
		if o.Selected {
			return o.Label
		}
	}
	return ""
}

func RenderFilters(w io.Writer, v View) {
	search := v.Search
	if search == "" {
		search = "-"
	}
	fmt.Fprintf(w, "Filters: sport=%s  status=%s  search=%s\n",
		selectedLabel(v.SportOptions), selectedLabel(v.StatusOptions), search)
}

func RenderTable(w io.Writer, v View) error {
	if v.Empty {
		_, err := fmt.Fprintln(w, EmptyStateText)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTRANSACTION\tAMOUNT\tRECEIVER\tSPORT\tDATE\tSTATUS")
	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s %s\n",
			r.ID, r.TransactionID, r.Amount, r.Receiver, r.Sport, r.Date, r.Severity.Mark(), r.Status)
	}
	return tw.Flush()
}

// Render draws the whole dashboard.
func Render(w io.Writer, v View) error {
	RenderStats(w, v.Stats)
	RenderSidebar(w, v.Sidebar)
	RenderFilters(w, v)
	fmt.Fprintln(w)
	return RenderTable(w, v)
}

func RenderDetail(w io.Writer, d Detail) error {
	fmt.Fprintf(w, "📋 Extracted Details (payment %d)\n", d.ID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range d.Fields {
		if f.Label == "Status" {
			fmt.Fprintf(tw, "%s\t%s %s\n", f.Label, d.Severity.Mark(), f.Value)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", f.Label, f.Value)
	}
	if d.Screenshot != "" {
		fmt.Fprintf(tw, "Screenshot\t%s\n", d.Screenshot)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if d.RawOCRText != "" {
		fmt.Fprintf(w, "\n📝 Raw OCR Text\n%s\n", d.RawOCRText)
	}
	return nil
}
