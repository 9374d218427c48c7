package engine

import "smarttasks/internal/storage"

// SlotBoard holds the seven weekday slots and the current drag session.
// Each slot owns its entry; callers only ever receive copies.
type SlotBoard struct {
	slots   [SlotCount]*Entry
	session DragSession
}

func NewSlotBoard() *SlotBoard {
	return &SlotBoard{}
}

// BoardFromRecords builds a board from persisted records. Records are
// assumed valid (EntryStore.Load filters them).
func BoardFromRecords(recs []storage.PersistedRecord) *SlotBoard {
	b := NewSlotBoard()
	for _, r := range recs {
		if r.Idx < 0 || r.Idx >= SlotCount || len(r.Types) == 0 {
			continue
		}
		b.slots[r.Idx] = Entry{Description: r.Desc, Types: r.Types}.clone()
	}
	return b
}

// Records serializes every occupied slot.
func (b *SlotBoard) Records() []storage.PersistedRecord {
	out := make([]storage.PersistedRecord, 0, SlotCount)
	for i, e := range b.slots {
		if e == nil {
			continue
		}
		c := e.clone()
		out = append(out, storage.PersistedRecord{Idx: i, Desc: c.Description, Types: c.Types})
	}
	return out
}

func (b *SlotBoard) Slot(idx int) (Slot, error) {
	if err := checkSlot(idx); err != nil {
		return Slot{}, err
	}
	s := Slot{Index: idx}
	if e := b.slots[idx]; e != nil {
		s.Entry = e.clone()
	}
	return s, nil
}

func (b *SlotBoard) Slots() []Slot {
	out := make([]Slot, SlotCount)
	for i := range b.slots {
		out[i], _ = b.Slot(i)
	}
	return out
}

func (b *SlotBoard) Occupied() int {
	n := 0
	for _, e := range b.slots {
		if e != nil {
			n++
		}
	}
	return n
}

func (b *SlotBoard) place(idx int, e Entry) {
	b.slots[idx] = e.clone()
}

func (b *SlotBoard) clear(idx int) {
	b.slots[idx] = nil
}

func (b *SlotBoard) reset() {
	b.slots = [SlotCount]*Entry{}
	b.session = DragSession{}
}

// snapshot copies the slot contents; the drag session is not part of it.
func (b *SlotBoard) snapshot() [SlotCount]*Entry {
	var out [SlotCount]*Entry
	for i, e := range b.slots {
		if e != nil {
			out[i] = e.clone()
		}
	}
	return out
}

func (b *SlotBoard) restore(slots [SlotCount]*Entry) {
	b.slots = slots
}

func checkSlot(idx int) error {
	if idx < 0 || idx >= SlotCount {
		return SlotRangeError{Index: idx}
	}
	return nil
}
