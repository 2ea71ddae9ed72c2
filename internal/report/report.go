// Package report renders pipeline stages as plain text tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/rfp-responder/internal/matching"
	"github.com/spigell/rfp-responder/internal/pipeline"
	"github.com/spigell/rfp-responder/internal/pricing"
)

// View names one rendering of a run.
type View string

const (
	ViewMain      View = "main"
	ViewSales     View = "sales"
	ViewTechnical View = "technical"
	ViewPricing   View = "pricing"
	ViewFinal     View = "final"
)

const dateLayout = "2006-01-02"

// Views lists all views in menu order.
func Views() []View {
	return []View{ViewMain, ViewSales, ViewTechnical, ViewPricing, ViewFinal}
}

// Title returns the heading of the view.
func (v View) Title() string {
	switch v {
	case ViewMain:
		return "Orchestration & Capacity Control"
	case ViewSales:
		return "RFP Discovery & Qualification"
	case ViewTechnical:
		return "Specification Matching"
	case ViewPricing:
		return "Commercial Evaluation"
	case ViewFinal:
		return "Final Bid Recommendation"
	default:
		return string(v)
	}
}

// ParseView resolves a view by name.
func ParseView(name string) (View, error) {
	for _, v := range Views() {
		if strings.EqualFold(string(v), strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", name)
}

// Stages recomputes per-RFP stage output on demand.
type Stages interface {
	Matches(rfpID string) ([]matching.Result, error)
	Quote(rfpID string) (matching.Result, pricing.Quote, error)
}

// Render writes the view of the run to w.
func Render(w io.Writer, view View, state *pipeline.State, stages Stages) error {
	fmt.Fprintf(w, "== %s ==\n\n", view.Title())

	switch view {
	case ViewMain:
		return renderMain(w, state)
	case ViewSales:
		return renderSales(w, state)
	case ViewTechnical:
		return renderTechnical(w, state, stages)
	case ViewPricing:
		return renderPricing(w, state, stages)
	case ViewFinal:
		return renderFinal(w, state)
	default:
		return fmt.Errorf("unknown view %q", view)
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(tw *tabwriter.Writer, cells ...any) {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, fmt.Sprint(c))
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func renderMain(w io.Writer, state *pipeline.State) error {
	fmt.Fprintf(w, "Run: %s\n", state.RunID)
	fmt.Fprintf(w, "System executed at: %s\n", state.RanAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Reference date: %s\n", state.ReferenceDate.Format(dateLayout))
	fmt.Fprintf(w, "Bid capacity selected: %d\n\n", state.Capacity)

	tw := newTable(w)
	row(tw, "RFP ID", "Buyer", "Product", "Due Date", "Opportunity Score", "Priority")
	for _, s := range state.Selected {
		row(tw, s.RFP.ID, s.RFP.Buyer, s.RFP.Product, s.RFP.DueDate.Format(dateLayout), fmt.Sprintf("%.2f", s.Score), s.Priority)
	}
	return tw.Flush()
}

func renderSales(w io.Writer, state *pipeline.State) error {
	tw := newTable(w)
	row(tw, "RFP ID", "Buyer", "Product", "Due Date", "Days Left", "Opportunity Score", "Priority", "Relevant")
	for _, s := range state.Scored {
		row(tw, s.RFP.ID, s.RFP.Buyer, s.RFP.Product, s.RFP.DueDate.Format(dateLayout), s.DaysLeft,
			fmt.Sprintf("%.2f", s.Score), s.Priority, s.Relevant)
	}
	return tw.Flush()
}

func renderTechnical(w io.Writer, state *pipeline.State, stages Stages) error {
	for _, s := range state.Selected {
		results, err := stages.Matches(s.RFP.ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "### RFP %s - %s\n", s.RFP.ID, s.RFP.Product)

		tw := newTable(w)
		header := []any{"SKU"}
		for _, o := range results[0].Outcomes {
			header = append(header, o.Name+" ✓/✗")
		}
		header = append(header, "Spec Match %", "Deviations", "Overall Feasibility")
		row(tw, header...)

		for _, r := range results {
			cells := []any{r.Item.Name}
			for _, o := range r.Outcomes {
				cells = append(cells, mark(o.Passed))
			}
			cells = append(cells, fmt.Sprintf("%.1f", r.MatchPct), r.DeviationsLabel(), r.Feasibility)
			row(tw, cells...)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func renderPricing(w io.Writer, state *pipeline.State, stages Stages) error {
	for _, s := range state.Selected {
		best, quote, err := stages.Quote(s.RFP.ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "### RFP %s - %s | SKU: %s\n", s.RFP.ID, s.RFP.Buyer, best.Item.Name)

		tw := newTable(w)
		row(tw, "Cost Component", "Amount (₹)")
		for _, c := range quote.Components() {
			row(tw, c.Label, c.Amount)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func renderFinal(w io.Writer, state *pipeline.State) error {
	tw := newTable(w)
	row(tw, "RFP ID", "Buyer", "Product", "Selected SKU", "Spec Match %", "Final Bid Value (₹)", "Decision")
	for _, r := range state.Recommendations {
		row(tw, r.RFP.ID, r.RFP.Buyer, r.RFP.Product, r.Item.Name, fmt.Sprintf("%.1f", r.MatchPct), r.Quote.FinalBidValue, r.Decision)
	}
	return tw.Flush()
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
