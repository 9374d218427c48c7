package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service
	log logrus.FieldLogger

	width  int
	height int

	cursor int
	// focus inside the editor: 0 is the description, i>0 the i-th type checkbox.
	focus int

	lastLog string
	loading bool
	err     error
}

type startedMsg struct {
	decision engine.ResetDecision
	err      error
}

func newBoardModel(ctx context.Context, svc *engine.Service, log logrus.FieldLogger) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		log:     log,
		cursor:  engine.TodaySlot(svc.Now()),
		loading: true,
		lastLog: "Loading…",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.startCmd()
}

func (m boardModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		d, err := m.svc.Start(m.ctx)
		return startedMsg{decision: d, err: err}
	}
}

// Board mutations run inside Update: one key event is handled to completion
// (including its save) before the next one.
func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case startedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		if msg.decision.ShouldClear {
			m.lastLog = fmt.Sprintf("%s New week %s, board is fresh.", ui.IconReset, msg.decision.KeyToPersist)
		} else {
			m.lastLog = fmt.Sprintf("Loaded week %s.", m.svc.Week())
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading || m.err != nil {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.svc.Editor().IsOpen() {
			return m.updateEditor(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k", "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "right", "l":
		if m.cursor < engine.SlotCount-1 {
			m.cursor++
		}
	case "1", "2", "3", "4", "5", "6", "7":
		m.cursor = int(msg.String()[0] - '1')
	case "enter":
		if err := m.svc.OpenEditor(m.cursor); err != nil {
			m.lastLog = ui.Bad.Render(err.Error())
			return m, nil
		}
		m.focus = 0
		if m.svc.Editor().Mode() == engine.EditorEdit {
			m.lastLog = "Editing " + engine.SlotName(m.cursor) + "."
		} else {
			m.lastLog = "New entry for " + engine.SlotName(m.cursor) + "."
		}
	case "m", " ":
		if !m.svc.Session().Active {
			if err := m.svc.BeginDrag(m.cursor); err != nil {
				m.lastLog = ui.Warn.Render(err.Error())
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Dragging %s… move and press m to drop, esc to cancel.", engine.SlotName(m.cursor))
			return m, nil
		}
		src := m.svc.Session().Source
		out, err := m.svc.Drop(m.ctx, m.cursor)
		if err != nil {
			m.lastLog = ui.Bad.Render("Drop failed: " + err.Error())
			return m, nil
		}
		m.lastLog = fmt.Sprintf("%s %s → %s: %s", ui.IconMove, engine.SlotName(src), engine.SlotName(m.cursor), ui.OutcomeText(out))
	case "esc":
		if m.svc.Session().Active {
			m.svc.CancelDrag()
			m.lastLog = "Drag cancelled."
		}
	case "r":
		if err := m.svc.Reload(m.ctx); err != nil {
			m.lastLog = ui.Bad.Render("Reload failed: " + err.Error())
			return m, nil
		}
		m.lastLog = "Reloaded."
	case "e":
		payload, err := m.svc.Export(m.ctx)
		if err == nil {
			err = os.WriteFile(engine.ExportFileName, []byte(payload), 0o644)
		}
		if err != nil {
			m.lastLog = ui.Bad.Render("Export failed: " + err.Error())
			return m, nil
		}
		m.log.WithField("file", engine.ExportFileName).Info("entries exported")
		m.lastLog = fmt.Sprintf("%s Exported to %s.", ui.IconExport, engine.ExportFileName)
	}
	return m, nil
}

func (m boardModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.svc.Editor()
	tags := m.svc.Catalog().Names()
	fields := len(tags) + 1

	switch msg.Type {
	case tea.KeyEsc:
		m.svc.CloseEditor()
		m.lastLog = "Closed without changes."
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % fields
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + fields - 1) % fields
		return m, nil
	case tea.KeyEnter, tea.KeyCtrlS:
		slot, _ := ed.Selected()
		action, err := m.svc.SubmitEditor(m.ctx)
		if err != nil {
			var ve engine.ValidationError
			if errors.As(err, &ve) {
				m.lastLog = ui.Warn.Render(ui.IconWarn + " Please select at least one type.")
				return m, nil
			}
			m.lastLog = ui.Bad.Render("Save failed: " + err.Error())
			return m, nil
		}
		m.lastLog = fmt.Sprintf("%s %s %s.", ui.IconDone, engine.SlotName(slot), action)
		return m, nil
	case tea.KeyCtrlD:
		if ed.Mode() != engine.EditorEdit {
			m.lastLog = "Nothing to remove."
			return m, nil
		}
		slot, _ := ed.Selected()
		if err := m.svc.RemoveInEditor(m.ctx); err != nil {
			m.lastLog = ui.Bad.Render("Remove failed: " + err.Error())
			return m, nil
		}
		m.lastLog = fmt.Sprintf("%s %s cleared.", ui.IconTrash, engine.SlotName(slot))
		return m, nil
	}

	if m.focus == 0 {
		desc := ed.Form().Description
		switch msg.Type {
		case tea.KeyBackspace:
			r := []rune(desc)
			if len(r) > 0 {
				ed.SetDescription(string(r[:len(r)-1]))
			}
		case tea.KeySpace:
			ed.SetDescription(desc + " ")
		case tea.KeyRunes:
			ed.SetDescription(desc + string(msg.Runes))
		}
		return m, nil
	}

	if msg.Type == tea.KeySpace || msg.String() == "x" {
		ed.ToggleType(tags[m.focus-1])
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	if m.loading {
		return "Smart Tasks: loading…\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.svc.Editor().IsOpen() {
		b.WriteString(m.renderEditor())
	} else {
		b.WriteString(m.renderSlots())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m boardModel) renderHeader() string {
	now := m.svc.Now()
	return ui.Heading(ui.IconCalendar, engine.MonthLabel(now)) + "  " + ui.Muted.Render("week "+m.svc.Week())
}

func (m boardModel) renderSlots() string {
	now := m.svc.Now()
	dates := engine.WeekDates(now)
	today := engine.TodaySlot(now)
	session := m.svc.Session()
	cat := m.svc.Catalog()

	width := 48
	if m.width > 8 {
		width = m.width - 4
	}

	var rows []string
	for _, s := range m.svc.Slots() {
		label := engine.DayLabel(dates[s.Index])
		if s.Index == today {
			label = ui.Today.Render(label)
		} else {
			label = ui.H2.Render(label)
		}
		body := label + "  " + ui.EntryLine(cat, s.Entry)

		style := ui.Slot
		switch {
		case session.Active && session.Source == s.Index:
			style = ui.SlotDragSrc
		case s.Index == m.cursor:
			style = ui.SlotSelected
		}
		rows = append(rows, style.Width(width).Render(body))
	}
	return strings.Join(rows, "\n")
}

func (m boardModel) renderEditor() string {
	ed := m.svc.Editor()
	slot, _ := ed.Selected()
	form := ed.Form()
	cat := m.svc.Catalog()

	title := "Add Entry"
	actions := "enter: create · esc: cancel"
	if ed.Mode() == engine.EditorEdit {
		title = "Edit Entry"
		actions = "enter: update · ctrl+d: remove · esc: close"
	}
	dates := engine.WeekDates(m.svc.Now())

	lines := []string{
		ui.Heading(ui.IconEdit, title) + "  " + ui.Muted.Render(engine.DayLabel(dates[slot])),
		"",
	}
	cursor := func(i int) string {
		if m.focus == i {
			return ui.Gold.Render("> ")
		}
		return "  "
	}
	lines = append(lines, cursor(0)+ui.LabelValue("Description", form.Description+caret(m.focus == 0)))
	lines = append(lines, "", ui.Key.Render("Types:"))
	for i, name := range cat.Names() {
		box := "[ ]"
		if form.Checked(name) {
			box = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s", cursor(i+1), box, ui.Swatch(cat, name), name))
	}
	for _, t := range form.Types {
		if _, ok := cat.Color(t); !ok {
			lines = append(lines, fmt.Sprintf("  [x] %s %s %s", ui.Swatch(cat, t), t, ui.Muted.Render("(not in catalog)")))
		}
	}
	lines = append(lines, "", ui.Muted.Render(actions+" · tab: next field · space: toggle"))
	return ui.Modal.Render(strings.Join(lines, "\n"))
}

func (m boardModel) renderFooter() string {
	help := "↑/↓: move · 1-7: jump · enter: open · m/space: drag/drop · esc: cancel drag · e: export · r: reload · q: quit"
	return ui.Muted.Render(help) + "\n" + m.lastLog
}

func caret(on bool) string {
	if on {
		return "▏"
	}
	return ""
}
