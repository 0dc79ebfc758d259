package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/dicesim/internal/session"
	"github.com/cory-johannsen/dicesim/internal/sim"
	"github.com/cory-johannsen/dicesim/internal/stats"
)

// DefaultBarWidth is the width of the longest histogram bar.
const DefaultBarWidth = 50

const (
	barCell     = "█"
	timeLayout  = "15:04:05.000"
	ruleWidth   = 72
	highlighted = " ◀"
)

// Text renders reports and query results as terminal text.
// It implements session.Renderer.
type Text struct {
	barWidth int
	color    bool
	printer  *message.Printer
}

// NewText creates a Text renderer. A barWidth below 1 selects DefaultBarWidth.
// With color disabled every ANSI sequence is stripped from the output.
func NewText(barWidth int, color bool) *Text {
	if barWidth < 1 {
		barWidth = DefaultBarWidth
	}
	return &Text{
		barWidth: barWidth,
		color:    color,
		printer:  message.NewPrinter(language.English),
	}
}

func (t *Text) paint(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

func (t *Text) finish(s string) string {
	if t.color {
		return s
	}
	return StripANSI(s)
}

// Report draws the full post-run report: header, distribution and statistics.
//
// Precondition: run must be a completed run and req its initial render request.
func (t *Text) Report(run *sim.Run, req session.RenderRequest) string {
	var b strings.Builder
	b.WriteString(t.header(run))
	b.WriteString("\n")
	b.WriteString(t.Distribution(req))
	b.WriteString("\n")
	b.WriteString(t.paint(Styles.Label, "SHAPE: "))
	b.WriteString(run.Shape().String())
	b.WriteString("\n")
	if run.Uniformity != nil {
		u := run.Uniformity
		verdict := "fair"
		if u.Rejects(0.01) {
			verdict = "biased"
		}
		b.WriteString(t.paint(Styles.Label, "UNIFORMITY: "))
		fmt.Fprintf(&b, "χ² = %.3f (df %d), p = %.4f (%s)\n", u.Statistic, u.DF, u.PValue, verdict)
	}
	maxRoll := float64(run.Pool.Max())
	b.WriteString(t.paint(Styles.Label, "MAX ROLL: "))
	fmt.Fprintf(&b, "%d (Z = %.2f)\n", run.Pool.Max(), req.Normal.ZScore(maxRoll))
	return t.finish(b.String())
}

func (t *Text) header(run *sim.Run) string {
	var b strings.Builder
	title := t.printer.Sprintf("SCENARIO: %s | %d ROLLS", run.Pool.String(), run.Summary.Trials)
	b.WriteString(t.paint(Styles.Title, title))
	b.WriteString("\n")
	b.WriteString(t.paint(Styles.Muted, fmt.Sprintf("Run %s  start %s  end %s  took %s",
		run.ID,
		run.Start.Format(timeLayout),
		run.End.Format(timeLayout),
		run.Duration().Round(time.Microsecond),
	)))
	b.WriteString("\n")
	b.WriteString(t.paint(Styles.Muted, strings.Repeat("─", ruleWidth)))
	b.WriteString("\n")
	return b.String()
}

// Distribution draws the outcome table with a bar per outcome. Outcomes
// inside the session's boundaries are highlighted.
func (t *Text) Distribution(req session.RenderRequest) string {
	var b strings.Builder
	h := req.Histogram
	fmt.Fprintf(&b, "%s\n", t.paint(Styles.Label, fmt.Sprintf("%6s | %12s | %10s |", "Sum", "Occurrences", "Percentage")))
	maxCount := h.MaxCount()
	for _, v := range h.Domain() {
		count := h.Count(v)
		cells := 0
		if maxCount > 0 {
			cells = int(count * int64(t.barWidth) / maxCount)
		}
		if cells == 0 && count > 0 {
			cells = 1
		}
		bar := strings.Repeat(barCell, cells)
		row := t.printer.Sprintf("%6d | %12d | %9.2f%% | ", v, count, h.Percent(v))
		if req.State.Contains(float64(v)) {
			b.WriteString(t.paint(Styles.Highlight, row+bar+highlighted))
		} else {
			b.WriteString(row)
			b.WriteString(t.paint(Styles.Bar, bar))
		}
		b.WriteString("\n")
	}
	b.WriteString(t.statsLine(req))
	return t.finish(b.String())
}

func (t *Text) statsLine(req session.RenderRequest) string {
	s := req.Summary
	var b strings.Builder
	b.WriteString(t.paint(Styles.Label, "STATS: "))
	fmt.Fprintf(&b, "Mean: %.4f | Median: %.1f | Mode: %d | Variance: %.4f | Std Dev: %.4f\n",
		s.Mean, s.Median, s.Mode, s.Variance, s.StdDev)
	b.WriteString(t.paint(Styles.Label, "NORMAL: "))
	fmt.Fprintf(&b, "μ = %.4f, σ = %.4f\n", req.Normal.Mu, req.Normal.Sigma)
	return b.String()
}

// Query reports one answered query with the z-score of each boundary.
func (t *Text) Query(req session.RenderRequest, res session.Result) string {
	var b strings.Builder
	b.WriteString(t.paint(Styles.Highlight, res.Label))
	b.WriteString("\n")
	names := boundaryNames(req.State)
	for i, z := range res.ZScores {
		name := "x"
		if i < len(names) {
			name = names[i]
		}
		fmt.Fprintf(&b, "  Z(%s) = %.4f\n", name, z)
	}
	return t.finish(b.String())
}

func boundaryNames(s session.State) []string {
	switch s.Kind {
	case session.KindUpperBound:
		return []string{fmt.Sprintf("%.1f", s.Upper)}
	case session.KindLowerBound:
		return []string{fmt.Sprintf("%.1f", s.Lower)}
	case session.KindRange:
		return []string{fmt.Sprintf("%.1f", s.Lower), fmt.Sprintf("%.1f", s.Upper)}
	default:
		return nil
	}
}

// Help lists the commands with their aliases.
func (t *Text) Help(cmds []*session.Command) string {
	var b strings.Builder
	b.WriteString(t.paint(Styles.Title, "Commands:"))
	b.WriteString("\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "  %-16s %s", c.Usage, c.Help)
		if len(c.Aliases) > 0 {
			b.WriteString(t.paint(Styles.Muted, fmt.Sprintf(" (aliases: %s)", strings.Join(c.Aliases, ", "))))
		}
		b.WriteString("\n")
	}
	return t.finish(strings.TrimRight(b.String(), "\n"))
}

// Error formats a rejected input.
func (t *Text) Error(err error) string {
	msg := err.Error()
	switch {
	case errors.Is(err, stats.ErrInvalidRange):
		msg = "Invalid range: the lower bound must not exceed the upper bound."
	case errors.Is(err, session.ErrClosed):
		msg = "Session closed."
	}
	return t.finish(t.paint(Styles.Error, msg))
}

// Prompt shows the current query state before the cursor.
func (t *Text) Prompt(req session.RenderRequest) string {
	return t.finish(t.paint(Styles.Prompt, fmt.Sprintf("[%s] > ", req.State)))
}
