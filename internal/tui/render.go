package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"

	"dangit/internal/gate"
	"dangit/internal/loop"
	"dangit/internal/nav"
)

// — styles ——————————————————————————————————————————————————————————————————

const highlight = "👉 "

var (
	accent = colorful.Color{R: 1, G: 0.37, B: 0.69} // #ff5faf
	muted  = colorful.Color{R: 0.35, G: 0.35, B: 0.4}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(accent.Hex())).
			MarginRight(2)

	dimStyle      = lipgloss.NewStyle().Faint(true)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().PaddingLeft(1)
)

// blend mixes from into to by t in Lab space.
func blend(from, to colorful.Color, t float64) lipgloss.Color {
	t = math.Max(0, math.Min(1, t))
	return lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// — frame ———————————————————————————————————————————————————————————————————

// renderFrame lays out a frame in width x height cells: tab bar, panes,
// status line, help line.
func renderFrame(f loop.Frame, width, height int, helpLine string) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	tabs := renderTabs(f)
	status := renderStatus(f, width)
	bodyHeight := height - lipgloss.Height(tabs) - 2

	var body string
	if f.View.TwoPane() {
		body = renderTwoPane(f, width, bodyHeight)
	} else {
		body = renderPane(f.View.LeftTitle, f.View.Left, selected(f.View), visibleRows(f, len(f.View.Left)),
			width, bodyHeight, paneBorder(f))
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, body, status, helpStyle.Render(helpLine))
}

func renderTabs(f loop.Frame) string {
	parts := make([]string, len(nav.Tabs))
	for i, t := range nav.Tabs {
		if t != f.View.Tab {
			parts[i] = dimStyle.Render(t.String())
			continue
		}
		style := boldStyle.Foreground(lipgloss.Color(accent.Hex())).Underline(true)
		if f.Effect == gate.EffectTab {
			style = style.Foreground(blend(muted, accent, f.Progress))
		}
		parts[i] = style.Render(t.String())
	}
	return titleStyle.Render("dangit!") + strings.Join(parts, dimStyle.Render(" • "))
}

func renderTwoPane(f loop.Frame, width, height int) string {
	leftWidth := width / 3
	rightWidth := width - leftWidth
	border := paneBorder(f)

	left := renderPane(f.View.LeftTitle, f.View.Left, selected(f.View), visibleRows(f, len(f.View.Left)),
		leftWidth, height, border)
	right := renderPane(f.View.RightTitle, f.View.Right, -1, visibleRows(f, len(f.View.Right)),
		rightWidth, height, border)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderPane draws a bordered list. sel < 0 draws no cursor. Only the
// first limit rows are shown.
func renderPane(title string, rows []string, sel, limit, width, height int, border lipgloss.Color) string {
	inner := width - 4
	capacity := height - 3 // border and title
	if inner < 1 || capacity < 1 {
		return ""
	}

	lines := []string{boldStyle.Render(clip(title, inner))}
	if len(rows) == 0 {
		lines = append(lines, dimStyle.Render(clip("nothing here", inner)))
	}

	start := 0
	if sel >= capacity {
		start = sel - capacity + 1
	}
	for i := start; i < len(rows) && i < limit && i < start+capacity; i++ {
		switch {
		case sel < 0:
			lines = append(lines, clip(rows[i], inner))
		case i == sel:
			lines = append(lines, selectedStyle.Render(highlight+clip(rows[i], inner-lipgloss.Width(highlight))))
		default:
			lines = append(lines, "   "+clip(rows[i], inner-3))
		}
	}

	return paneStyle.
		BorderForeground(border).
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}

func renderStatus(f loop.Frame, width int) string {
	switch {
	case f.Status != "":
		return errStyle.Render(clip(" ! "+f.Status, width))
	case f.View.Target != "":
		return dimStyle.Render(clip(" "+f.View.Target, width))
	default:
		return ""
	}
}

func paneBorder(f loop.Frame) lipgloss.Color {
	if f.Effect == gate.EffectReveal {
		return blend(muted, accent, f.Progress)
	}
	return lipgloss.Color(muted.Hex())
}

// visibleRows is how many of n rows the current effect has revealed.
func visibleRows(f loop.Frame, n int) int {
	if f.Effect != gate.EffectReveal {
		return n
	}
	return int(math.Ceil(float64(n) * f.Progress))
}

func selected(v nav.View) int {
	if i, ok := v.Selection.Index(); ok {
		return i
	}
	return -1
}
