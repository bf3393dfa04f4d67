package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/render"
)

const meterCells = 20

// WriteView prints a rendered view for a terminal.
func WriteView(w io.Writer, v render.State) error {
	if !v.Visible {
		_, err := fmt.Fprintln(w, "No result.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", v.Heading)
	fmt.Fprintf(&b, "Risk  %s %s%%  %s (%s)\n", meterBar(v.MeterWidth), model.FormatNumber(v.MeterWidth), v.RiskLevel, render.TierFor(v.MeterWidth))
	fmt.Fprintf(&b, "      %s\n\n", v.RiskDetails)
	fmt.Fprintf(&b, "%s\n\n", v.Message)
	fmt.Fprintf(&b, "Safe Browsing: %s\n", v.SafeBrowsingMessage)
	for _, t := range v.Threats {
		fmt.Fprintf(&b, "  - %s\n", t.Text)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(v.Features) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nFeatures:"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range v.Features {
		fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// meterBar draws width (0..100) as a fixed-size bar.
func meterBar(width float64) string {
	filled := int(math.Round(math.Max(0, math.Min(100, width)) / 100 * meterCells))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", meterCells-filled) + "]"
}
