package engine

import "fmt"

// ValidationError is returned when an entry form cannot be submitted.
// Nothing is mutated and the editor stays open.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SlotRangeError reports a slot index outside the week.
type SlotRangeError struct {
	Index int
}

func (e SlotRangeError) Error() string {
	return fmt.Sprintf("slot %d out of range (0-%d)", e.Index, SlotCount-1)
}

type SlotParseError struct {
	Input string
}

func (e SlotParseError) Error() string {
	return fmt.Sprintf("unknown slot %q (use 0-%d or a weekday)", e.Input, SlotCount-1)
}

// EmptySlotError is returned when an operation needs an entry that is not there.
type EmptySlotError struct {
	Index int
}

func (e EmptySlotError) Error() string {
	return fmt.Sprintf("slot %d (%s) is empty", e.Index, SlotName(e.Index))
}

// EditorBusyError is returned when another slot is selected while the editor
// is open. Close the editor first.
type EditorBusyError struct {
	Open      int
	Requested int
}

func (e EditorBusyError) Error() string {
	return fmt.Sprintf("editor is open on %s; close it before selecting %s", SlotName(e.Open), SlotName(e.Requested))
}

// EditorStateError reports an editor action that the current mode does not offer.
type EditorStateError struct {
	Action string
	Mode   EditorMode
}

func (e EditorStateError) Error() string {
	return fmt.Sprintf("cannot %s while editor is %s", e.Action, e.Mode)
}
