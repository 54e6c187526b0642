package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tablescope/tablescope/pkg/cluster"
	"github.com/tablescope/tablescope/pkg/outlier"
	"github.com/tablescope/tablescope/pkg/profile"
)

// OverviewTable renders an overview report as an aligned text table.
func OverviewTable(w io.Writer, rep *profile.Report) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Column", "DType", "Kind", "Missing", "Missing %", "Distinct", "Samples"})
	for _, c := range rep.Columns {
		t.Append([]string{
			c.Name,
			c.DType,
			c.Kind,
			strconv.Itoa(c.Missing),
			formatPct(c.MissingPct),
			strconv.Itoa(c.Distinct),
			c.Samples,
		})
	}
	t.Render()
}

// MissingTable renders a missing-value summary as an aligned text table.
func MissingTable(w io.Writer, stats []profile.MissingStat) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Column", "Missing %", "Missing"})
	for _, s := range stats {
		t.Append([]string{s.Column, formatPct(s.MissingPct), strconv.Itoa(s.Missing)})
	}
	t.Render()
}

// FillTable renders the per-column imputation outcome.
func FillTable(w io.Writer, results []profile.FillResult) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Column", "Strategy", "Filled"})
	for _, r := range results {
		t.Append([]string{r.Column, string(r.Strategy), strconv.Itoa(r.Filled)})
	}
	t.Render()
}

// OutlierTable renders per-column fences and outlier counts.
func OutlierTable(w io.Writer, results []outlier.Result) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Column", "Q1", "Q3", "Lower", "Upper", "Outliers"})
	for _, r := range results {
		t.Append([]string{
			r.Column,
			formatFloat(r.Q1),
			formatFloat(r.Q3),
			formatFloat(r.Lower),
			formatFloat(r.Upper),
			strconv.Itoa(r.Outliers.NumRows()),
		})
	}
	t.Render()
}

// GroupTable renders the correlation groups and the variance-filtered
// columns.
func GroupTable(w io.Writer, res *cluster.Result) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Group", "Columns"})
	for _, g := range res.Groups {
		t.Append([]string{strconv.Itoa(g.ID), strings.Join(g.Columns, ", ")})
	}
	if len(res.LowVariance) > 0 {
		t.Append([]string{"low variance", strings.Join(res.LowVariance, ", ")})
	}
	t.Render()
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
