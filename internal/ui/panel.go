package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/gomarketplace/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// Money formats a price the way the storefront shows it.
func Money(v float64) string { return fmt.Sprintf("R$ %.2f", v) }

// CartLines renders a header, one row per line item and the total.
func CartLines(products []model.Product) []string {
	t := Current()
	sum := model.Summarize(products)

	lines := []string{
		fmt.Sprintf("%s  %s  %s %d",
			C(t.Title, t.SymCart+" Cart"),
			C(t.Muted, fmt.Sprintf("%d lines", len(products))),
			C(t.Accent, "Items"), sum.Items),
		"",
	}
	if len(products) == 0 {
		lines = append(lines, C(t.Muted, "cart is empty"))
	}
	for _, p := range products {
		title := p.Title
		if lipgloss.Width(title) > 40 {
			title = string([]rune(title)[:37]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s %s %s",
			C(t.Muted, t.SymLine),
			C(t.Muted, "["+p.ID+"]"),
			title,
			C(t.Accent, fmt.Sprintf("%d", p.Quantity)),
			C(t.Muted, t.SymTimes+" "+Money(p.Price)),
			C(t.Price, "= "+Money(p.Price*float64(p.Quantity))),
		))
	}
	lines = append(lines, "", C(t.Title, "Total ")+C(t.Price, Money(sum.Total)))
	return lines
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	// compute visible width
	maxw := 0
	for _, ln := range lines {
		w := lipgloss.Width(stripANSI(ln))
		if w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		vis := lipgloss.Width(stripANSI(s))
		if vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(stdout, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(stdout, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(stdout, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
