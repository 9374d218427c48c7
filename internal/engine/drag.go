package engine

// DragSession records the slot an entry was picked up from.
// The zero value is Idle.
type DragSession struct {
	Active bool
	Source int
}

type DropOutcome int

const (
	// DropIgnored: no session, or its source no longer holds an entry.
	DropIgnored DropOutcome = iota
	// DropNoop: dropped back onto the source slot.
	DropNoop
	// DropMoved: target was empty and now holds the entry; source is empty.
	DropMoved
	// DropSwapped: source and target exchanged entries.
	DropSwapped
)

func (o DropOutcome) String() string {
	switch o {
	case DropNoop:
		return "noop"
	case DropMoved:
		return "moved"
	case DropSwapped:
		return "swapped"
	default:
		return "ignored"
	}
}

// Changed reports whether the board differs after the drop.
func (o DropOutcome) Changed() bool {
	return o == DropMoved || o == DropSwapped
}

// Session returns the current drag session.
func (b *SlotBoard) Session() DragSession {
	return b.session
}

// BeginDrag picks up the entry in source. Any earlier session is replaced.
func (b *SlotBoard) BeginDrag(source int) (DragSession, error) {
	if err := checkSlot(source); err != nil {
		return DragSession{}, err
	}
	if b.slots[source] == nil {
		return DragSession{}, EmptySlotError{Index: source}
	}
	b.session = DragSession{Active: true, Source: source}
	return b.session, nil
}

// CancelDrag abandons the session without touching the slots.
func (b *SlotBoard) CancelDrag() {
	b.session = DragSession{}
}

// Drop ends the current session over target. The session ends even when the
// target is invalid.
func (b *SlotBoard) Drop(target int) (DropOutcome, error) {
	s := b.session
	b.session = DragSession{}
	return b.applyDrop(s, target)
}

func (b *SlotBoard) applyDrop(s DragSession, target int) (DropOutcome, error) {
	if !s.Active {
		return DropIgnored, nil
	}
	if err := checkSlot(target); err != nil {
		return DropIgnored, err
	}
	if checkSlot(s.Source) != nil || b.slots[s.Source] == nil {
		return DropIgnored, nil
	}
	if target == s.Source {
		return DropNoop, nil
	}

	dragged := b.slots[s.Source]
	if existing := b.slots[target]; existing != nil {
		b.slots[s.Source] = existing
		b.slots[target] = dragged
		return DropSwapped, nil
	}
	b.slots[target] = dragged
	b.slots[s.Source] = nil
	return DropMoved, nil
}
