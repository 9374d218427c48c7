package engine

import (
	"strings"

	"smarttasks/internal/storage"
)

type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorCreate
	EditorEdit
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreate:
		return "creating"
	case EditorEdit:
		return "editing"
	default:
		return "closed"
	}
}

type EditorAction int

const (
	ActionNone EditorAction = iota
	ActionCreated
	ActionUpdated
	ActionRemoved
)

func (a EditorAction) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionRemoved:
		return "removed"
	default:
		return "none"
	}
}

// Form is the editable content of the entry modal.
type Form struct {
	Description string
	Types       []string
}

func (f Form) Checked(name string) bool {
	for _, t := range f.Types {
		if t == name {
			return true
		}
	}
	return false
}

// Editor is the create/edit modal for a single selected slot.
type Editor struct {
	mode EditorMode
	slot int
	form Form
}

func (e *Editor) Mode() EditorMode { return e.mode }

func (e *Editor) IsOpen() bool { return e.mode != EditorClosed }

// Selected returns the slot the editor is open on.
func (e *Editor) Selected() (int, bool) {
	if e.mode == EditorClosed {
		return 0, false
	}
	return e.slot, true
}

func (e *Editor) Form() Form {
	types := make([]string, len(e.form.Types))
	copy(types, e.form.Types)
	return Form{Description: e.form.Description, Types: types}
}

func (e *Editor) SetDescription(desc string) {
	e.form.Description = desc
}

func (e *Editor) SetTypes(types []string) {
	e.form.Types = append([]string(nil), types...)
}

// ToggleType checks or unchecks name.
func (e *Editor) ToggleType(name string) {
	for i, t := range e.form.Types {
		if t == name {
			e.form.Types = append(e.form.Types[:i:i], e.form.Types[i+1:]...)
			return
		}
	}
	e.form.Types = append(e.form.Types, name)
}

// Close discards the form and clears the selection.
func (e *Editor) Close() {
	*e = Editor{}
}

func (e *Editor) open(b *SlotBoard, idx int, defaultType string) error {
	if err := checkSlot(idx); err != nil {
		return err
	}
	if e.mode != EditorClosed {
		if e.slot == idx {
			return nil
		}
		return EditorBusyError{Open: e.slot, Requested: idx}
	}

	e.slot = idx
	if cur := b.slots[idx]; cur != nil {
		c := cur.clone()
		e.mode = EditorEdit
		e.form = Form{Description: c.Description, Types: c.Types}
		return nil
	}
	e.mode = EditorCreate
	e.form = Form{}
	if defaultType != "" {
		e.form.Types = []string{defaultType}
	}
	return nil
}

// submit validates the form and writes it into the selected slot. The editor
// stays open; the caller closes it once the board is saved.
func (e *Editor) submit(b *SlotBoard) (EditorAction, error) {
	if e.mode == EditorClosed {
		return ActionNone, EditorStateError{Action: "submit", Mode: e.mode}
	}
	types := storage.TrimTypes(e.form.Types)
	if len(types) == 0 {
		return ActionNone, ValidationError{Field: "types", Message: "please select at least one type"}
	}

	action := ActionCreated
	if b.slots[e.slot] != nil {
		action = ActionUpdated
	}
	b.place(e.slot, Entry{Description: strings.TrimSpace(e.form.Description), Types: types})
	return action, nil
}

func (e *Editor) remove(b *SlotBoard) error {
	if e.mode != EditorEdit {
		return EditorStateError{Action: "remove", Mode: e.mode}
	}
	b.clear(e.slot)
	return nil
}
