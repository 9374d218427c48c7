package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smarttasks/internal/engine"
)

// Smart Tasks theme (CLI + TUI).
// Reusable styles, a few icons and the tag color swatches.

const (
	IconCalendar = "🗓️"
	IconPlus     = "➕"
	IconEdit     = "✏️"
	IconDone     = "✅"
	IconMove     = "↔️"
	IconTrash    = "🗑️"
	IconExport   = "📤"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconReset    = "🔄"
	IconHandle   = "⠿"
	IconSwatch   = "●"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Slot         = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SlotSelected = Slot.BorderForeground(cGold)
	SlotDragSrc  = Slot.BorderForeground(cAccent).BorderStyle(lipgloss.DoubleBorder())
	Modal        = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cPrimary).Padding(0, 2)
	Today        = lipgloss.NewStyle().Bold(true).Foreground(cGood).Underline(true)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Swatch renders the color indicator of one tag. Tags outside the catalog
// render muted.
func Swatch(cat engine.TypeCatalog, tag string) string {
	color, ok := cat.Color(tag)
	if !ok || color == "" {
		return Muted.Render(IconSwatch)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(IconSwatch)
}

// Swatches renders every tag of an entry in order.
func Swatches(cat engine.TypeCatalog, tags []string) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(Swatch(cat, t))
	}
	return b.String()
}

// EntryLine renders an entry as handle, swatches and description.
func EntryLine(cat engine.TypeCatalog, e *engine.Entry) string {
	if e == nil {
		return Muted.Render("(empty)")
	}
	desc := e.Description
	if desc == "" {
		desc = Muted.Render("(no description)")
	}
	return fmt.Sprintf("%s %s %s %s", Muted.Render(IconHandle), Swatches(cat, e.Types), desc, Muted.Render("["+strings.Join(e.Types, ", ")+"]"))
}

func OutcomeText(o engine.DropOutcome) string {
	switch o {
	case engine.DropMoved:
		return Good.Render("moved")
	case engine.DropSwapped:
		return Good.Render("swapped")
	case engine.DropNoop:
		return Muted.Render("unchanged")
	default:
		return Warn.Render("ignored")
	}
}
