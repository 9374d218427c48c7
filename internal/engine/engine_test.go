package engine

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"smarttasks/internal/storage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func newTestKV(t *testing.T) storage.KV {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	kv := storage.NewSQLiteKV(db, "")
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func newTestService(t *testing.T, kv storage.KV, now time.Time) *Service {
	t.Helper()
	svc := NewService(storage.NewEntryStore(kv, nil), WithClock(func() time.Time { return now }))
	if _, err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc
}

func put(t *testing.T, svc *Service, idx int, desc string, types ...string) {
	t.Helper()
	if _, err := svc.Put(context.Background(), idx, Form{Description: desc, Types: types}); err != nil {
		t.Fatalf("Put(%d): %v", idx, err)
	}
}

func descAt(t *testing.T, svc *Service, idx int) string {
	t.Helper()
	s, err := svc.Slot(idx)
	if err != nil {
		t.Fatalf("Slot(%d): %v", idx, err)
	}
	if s.Entry == nil {
		return ""
	}
	return s.Entry.Description
}

func persisted(t *testing.T, kv storage.KV) []storage.PersistedRecord {
	t.Helper()
	recs, err := storage.NewEntryStore(kv, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return recs
}

func assertAtMostOnePerSlot(t *testing.T, svc *Service) {
	t.Helper()
	slots := svc.Slots()
	if len(slots) != SlotCount {
		t.Fatalf("len(Slots())=%d, want %d", len(slots), SlotCount)
	}
	for i, s := range slots {
		if s.Index != i {
			t.Fatalf("slot %d has index %d", i, s.Index)
		}
		if s.Entry != nil && len(s.Entry.Types) == 0 {
			t.Fatalf("slot %d holds an entry without types", i)
		}
	}
}

func TestWeekKey(t *testing.T) {
	mon := WeekKey(date(2024, time.January, 1))
	fri := WeekKey(date(2024, time.January, 5))
	next := WeekKey(date(2024, time.January, 8))

	if mon != "2024-W1" {
		t.Fatalf("WeekKey(2024-01-01)=%q, want 2024-W1", mon)
	}
	if mon != fri {
		t.Fatalf("WeekKey(2024-01-05)=%q, want %q", fri, mon)
	}
	if next == mon {
		t.Fatalf("WeekKey(2024-01-08)=%q, want different from %q", next, mon)
	}
	if next != "2024-W2" {
		t.Fatalf("WeekKey(2024-01-08)=%q, want 2024-W2", next)
	}
}

func TestWeekKeyIgnoresTimeOfDay(t *testing.T) {
	early := time.Date(2025, time.March, 12, 0, 0, 1, 0, time.UTC)
	late := time.Date(2025, time.March, 12, 23, 59, 59, 0, time.UTC)
	if WeekKey(early) != WeekKey(late) {
		t.Fatalf("WeekKey differs within one day: %q vs %q", WeekKey(early), WeekKey(late))
	}
}

func TestWeekDatesAndLabels(t *testing.T) {
	// Wednesday.
	dates := WeekDates(date(2024, time.January, 10))
	if got := DayLabel(dates[0]); got != "Mon, 08" {
		t.Fatalf("DayLabel(dates[0])=%q, want Mon, 08", got)
	}
	if got := DayLabel(dates[6]); got != "Sun, 14" {
		t.Fatalf("DayLabel(dates[6])=%q, want Sun, 14", got)
	}
	if got := TodaySlot(date(2024, time.January, 10)); got != 2 {
		t.Fatalf("TodaySlot(wed)=%d, want 2", got)
	}
	if got := TodaySlot(date(2024, time.January, 14)); got != 6 {
		t.Fatalf("TodaySlot(sun)=%d, want 6", got)
	}
	if got := MonthLabel(date(2024, time.January, 10)); got != "January 2024" {
		t.Fatalf("MonthLabel=%q, want January 2024", got)
	}
}

func TestReconcile(t *testing.T) {
	cases := []struct {
		name      string
		stored    string
		hasStored bool
		current   string
		want      ResetDecision
	}{
		{"absent", "", false, "2024-W1", ResetDecision{ShouldClear: true, KeyToPersist: "2024-W1"}},
		{"changed", "2023-W52", true, "2024-W1", ResetDecision{ShouldClear: true, KeyToPersist: "2024-W1"}},
		{"same", "2024-W1", true, "2024-W1", ResetDecision{ShouldClear: false, KeyToPersist: "2024-W1"}},
	}
	for _, tc := range cases {
		if got := Reconcile(tc.stored, tc.hasStored, tc.current); got != tc.want {
			t.Fatalf("%s: Reconcile()=%+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestStartClearsOnNewWeek(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	svc := newTestService(t, kv, date(2024, time.January, 3))
	put(t, svc, 0, "Standup", "task")
	put(t, svc, 4, "Party", "event")

	again := NewService(storage.NewEntryStore(kv, nil), WithClock(func() time.Time { return date(2024, time.January, 5) }))
	d, err := again.Start(ctx)
	if err != nil {
		t.Fatalf("Start same week: %v", err)
	}
	if d.ShouldClear {
		t.Fatalf("same week cleared the board")
	}
	if got := len(persisted(t, kv)); got != 2 {
		t.Fatalf("records after same-week start=%d, want 2", got)
	}

	next := NewService(storage.NewEntryStore(kv, nil), WithClock(func() time.Time { return date(2024, time.January, 8) }))
	d, err = next.Start(ctx)
	if err != nil {
		t.Fatalf("Start next week: %v", err)
	}
	if !d.ShouldClear || d.KeyToPersist != "2024-W2" {
		t.Fatalf("decision=%+v, want clear with 2024-W2", d)
	}
	if got := persisted(t, kv); len(got) != 0 {
		t.Fatalf("records after new-week start=%+v, want none", got)
	}
	stored, _, _ := storage.NewEntryStore(kv, nil).WeekKey(ctx)
	if stored != "2024-W2" {
		t.Fatalf("stored week=%q, want 2024-W2", stored)
	}
	if next.Week() != "2024-W2" {
		t.Fatalf("Week()=%q, want 2024-W2", next.Week())
	}
	for _, s := range next.Slots() {
		if s.Occupied() {
			t.Fatalf("slot %d occupied after reset", s.Index)
		}
	}
}

func TestCreateModePreselectsDefaultType(t *testing.T) {
	svc := newTestService(t, newTestKV(t), date(2024, time.January, 3))

	if err := svc.OpenEditor(2); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if svc.Editor().Mode() != EditorCreate {
		t.Fatalf("mode=%v, want creating", svc.Editor().Mode())
	}
	form := svc.Editor().Form()
	if !reflect.DeepEqual(form.Types, []string{"task"}) || form.Description != "" {
		t.Fatalf("form=%+v, want empty description with task", form)
	}

	svc.Editor().SetDescription("  Write report  ")
	svc.Editor().ToggleType("deadline")
	action, err := svc.SubmitEditor(context.Background())
	if err != nil {
		t.Fatalf("SubmitEditor: %v", err)
	}
	if action != ActionCreated {
		t.Fatalf("action=%v, want created", action)
	}
	if svc.Editor().IsOpen() {
		t.Fatalf("editor still open after submit")
	}
	if _, ok := svc.Editor().Selected(); ok {
		t.Fatalf("selection not cleared after submit")
	}

	s, _ := svc.Slot(2)
	if s.Entry == nil || s.Entry.Description != "Write report" || !reflect.DeepEqual(s.Entry.Types, []string{"task", "deadline"}) {
		t.Fatalf("slot 2=%+v, want trimmed description with task+deadline", s.Entry)
	}
}

func TestEditModeUpdateAndClose(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv, date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 1, "Gym", "personal", "task")

	if err := svc.OpenEditor(1); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if svc.Editor().Mode() != EditorEdit {
		t.Fatalf("mode=%v, want editing", svc.Editor().Mode())
	}
	form := svc.Editor().Form()
	if form.Description != "Gym" || !reflect.DeepEqual(form.Types, []string{"personal", "task"}) {
		t.Fatalf("prefilled form=%+v", form)
	}

	// Close discards.
	svc.Editor().SetDescription("changed")
	svc.CloseEditor()
	if got := descAt(t, svc, 1); got != "Gym" {
		t.Fatalf("description after close=%q, want Gym", got)
	}

	if err := svc.OpenEditor(1); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	svc.Editor().SetDescription("Gym (legs)")
	svc.Editor().ToggleType("task")
	action, err := svc.SubmitEditor(ctx)
	if err != nil {
		t.Fatalf("SubmitEditor: %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("action=%v, want updated", action)
	}
	want := []storage.PersistedRecord{{Idx: 1, Desc: "Gym (legs)", Types: []string{"personal"}}}
	if got := persisted(t, kv); !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted=%+v, want %+v", got, want)
	}
}

func TestRemoveInEditor(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv, date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 5, "Brunch", "event")

	if err := svc.OpenEditor(5); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := svc.RemoveInEditor(ctx); err != nil {
		t.Fatalf("RemoveInEditor: %v", err)
	}
	if svc.Editor().IsOpen() {
		t.Fatalf("editor still open after remove")
	}
	if s, _ := svc.Slot(5); s.Occupied() {
		t.Fatalf("slot 5 still occupied")
	}
	if got := persisted(t, kv); len(got) != 0 {
		t.Fatalf("persisted=%+v, want none", got)
	}

	// Remove is not offered in create mode.
	if err := svc.OpenEditor(5); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	var se EditorStateError
	if err := svc.RemoveInEditor(ctx); !errors.As(err, &se) {
		t.Fatalf("RemoveInEditor in create mode err=%v, want EditorStateError", err)
	}

	if err := svc.Remove(ctx, 3); err == nil {
		t.Fatalf("expected error removing while editor open on another slot")
	}
	svc.CloseEditor()
	var ee EmptySlotError
	if err := svc.Remove(ctx, 3); !errors.As(err, &ee) {
		t.Fatalf("Remove(empty) err=%v, want EmptySlotError", err)
	}
}

func TestValidationGate(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv, date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 0, "keep", "task")
	before, _ := svc.Export(ctx)

	if err := svc.OpenEditor(0); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	svc.Editor().SetTypes(nil)
	svc.Editor().SetDescription("lost")
	_, err := svc.SubmitEditor(ctx)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("SubmitEditor err=%v, want ValidationError", err)
	}
	if !svc.Editor().IsOpen() {
		t.Fatalf("editor closed after validation failure")
	}
	if got := descAt(t, svc, 0); got != "keep" {
		t.Fatalf("board mutated: %q", got)
	}
	after, _ := svc.Export(ctx)
	if before != after {
		t.Fatalf("persisted state changed:\n%s\n%s", before, after)
	}

	// Whitespace-only tags count as none.
	svc.CloseEditor()
	if _, err := svc.Put(ctx, 3, Form{Description: "x", Types: []string{" "}}); !errors.As(err, &ve) {
		t.Fatalf("Put with blank type err=%v, want ValidationError", err)
	}
	if svc.Editor().IsOpen() {
		t.Fatalf("Put left editor open")
	}
}

func TestEmptyDescriptionAllowed(t *testing.T) {
	svc := newTestService(t, newTestKV(t), date(2024, time.January, 3))
	if _, err := svc.Put(context.Background(), 6, Form{Types: []string{"task"}}); err != nil {
		t.Fatalf("Put with empty description: %v", err)
	}
	if s, _ := svc.Slot(6); !s.Occupied() {
		t.Fatalf("slot 6 empty")
	}
}

func TestReselectionBlockedWhileEditing(t *testing.T) {
	svc := newTestService(t, newTestKV(t), date(2024, time.January, 3))

	if err := svc.OpenEditor(1); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	svc.Editor().SetDescription("draft")

	var be EditorBusyError
	if err := svc.OpenEditor(2); !errors.As(err, &be) {
		t.Fatalf("OpenEditor(2) err=%v, want EditorBusyError", err)
	}
	if be.Open != 1 || be.Requested != 2 {
		t.Fatalf("busy error=%+v", be)
	}
	// Same slot keeps the draft.
	if err := svc.OpenEditor(1); err != nil {
		t.Fatalf("reopen same slot: %v", err)
	}
	if got := svc.Editor().Form().Description; got != "draft" {
		t.Fatalf("draft=%q, want draft", got)
	}
}

func TestDragMoveToEmpty(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv, date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 0, "X", "task")
	put(t, svc, 3, "Z", "event")

	if err := svc.BeginDrag(0); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	out, err := svc.Drop(ctx, 2)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if out != DropMoved {
		t.Fatalf("outcome=%v, want moved", out)
	}
	if descAt(t, svc, 0) != "" || descAt(t, svc, 2) != "X" || descAt(t, svc, 3) != "Z" {
		t.Fatalf("slots after move: %+v", svc.Slots())
	}
	if svc.Session().Active {
		t.Fatalf("session still active after drop")
	}
	want := []storage.PersistedRecord{
		{Idx: 2, Desc: "X", Types: []string{"task"}},
		{Idx: 3, Desc: "Z", Types: []string{"event"}},
	}
	if got := persisted(t, kv); !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted=%+v, want %+v", got, want)
	}
	assertAtMostOnePerSlot(t, svc)
}

func TestDragSwapSymmetry(t *testing.T) {
	svc := newTestService(t, newTestKV(t), date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 1, "X", "task")
	put(t, svc, 4, "Y", "event")

	out, err := svc.Move(ctx, 1, 4)
	if err != nil || out != DropSwapped {
		t.Fatalf("Move #1 out=%v err=%v, want swapped", out, err)
	}
	if descAt(t, svc, 1) != "Y" || descAt(t, svc, 4) != "X" {
		t.Fatalf("after swap: 1=%q 4=%q", descAt(t, svc, 1), descAt(t, svc, 4))
	}

	out, err = svc.Move(ctx, 1, 4)
	if err != nil || out != DropSwapped {
		t.Fatalf("Move #2 out=%v err=%v, want swapped", out, err)
	}
	if descAt(t, svc, 1) != "X" || descAt(t, svc, 4) != "Y" {
		t.Fatalf("after second swap: 1=%q 4=%q", descAt(t, svc, 1), descAt(t, svc, 4))
	}
	assertAtMostOnePerSlot(t, svc)
}

func TestDropEdgeCases(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv, date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 0, "X", "task")
	before, _ := svc.Export(ctx)

	// Idle drop is ignored.
	out, err := svc.Drop(ctx, 3)
	if err != nil || out != DropIgnored {
		t.Fatalf("idle drop out=%v err=%v, want ignored", out, err)
	}

	// Drop onto the source is a no-op.
	if err := svc.BeginDrag(0); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if out, _ := svc.Drop(ctx, 0); out != DropNoop {
		t.Fatalf("self drop=%v, want noop", out)
	}

	// Cancel leaves the board untouched and the next drop is ignored.
	if err := svc.BeginDrag(0); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	svc.CancelDrag()
	if out, _ := svc.Drop(ctx, 5); out != DropIgnored {
		t.Fatalf("drop after cancel=%v, want ignored", out)
	}

	// Out-of-range target ends the session with an error.
	if err := svc.BeginDrag(0); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	var re SlotRangeError
	if _, err := svc.Drop(ctx, 9); !errors.As(err, &re) {
		t.Fatalf("drop(9) err=%v, want SlotRangeError", err)
	}
	if svc.Session().Active {
		t.Fatalf("session survived invalid drop")
	}

	// Picking up an empty slot fails.
	var ee EmptySlotError
	if err := svc.BeginDrag(2); !errors.As(err, &ee) {
		t.Fatalf("BeginDrag(empty) err=%v, want EmptySlotError", err)
	}

	after, _ := svc.Export(ctx)
	if before != after || descAt(t, svc, 0) != "X" {
		t.Fatalf("board changed by ignored drops")
	}
}

func TestStaleSessionIgnored(t *testing.T) {
	svc := newTestService(t, newTestKV(t), date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 0, "X", "task")

	if err := svc.BeginDrag(0); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if err := svc.Remove(ctx, 0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if out, err := svc.Drop(ctx, 1); err != nil || out != DropIgnored {
		t.Fatalf("stale drop out=%v err=%v, want ignored", out, err)
	}
	if s, _ := svc.Slot(1); s.Occupied() {
		t.Fatalf("stale drop filled slot 1")
	}
}

func TestRoundTripAfterReload(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	svc := newTestService(t, kv, date(2024, time.January, 3))
	put(t, svc, 6, "Sun", "personal")
	put(t, svc, 0, "Mon", "task", "meeting")
	put(t, svc, 3, "Thu", "custom-tag")
	first, _ := svc.Export(ctx)

	reloaded := newTestService(t, kv, date(2024, time.January, 4))
	for i, s := range svc.Slots() {
		r, _ := reloaded.Slot(i)
		if !reflect.DeepEqual(s, r) {
			t.Fatalf("slot %d: %+v after reload, want %+v", i, r, s)
		}
	}

	// Saving the reloaded board reproduces the payload.
	if err := reloaded.save(ctx, reloaded.board.snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, _ := reloaded.Export(ctx)
	if first != second {
		t.Fatalf("payload changed across reload:\n%s\n%s", first, second)
	}
}

func TestSlotsReturnCopies(t *testing.T) {
	svc := newTestService(t, newTestKV(t), date(2024, time.January, 3))
	put(t, svc, 0, "X", "task")

	s, _ := svc.Slot(0)
	s.Entry.Description = "mutated"
	s.Entry.Types[0] = "mutated"
	if got, _ := svc.Slot(0); got.Entry.Description != "X" || got.Entry.Types[0] != "task" {
		t.Fatalf("board entry shared with caller: %+v", got.Entry)
	}
}

type failingKV struct {
	storage.KV
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.KV.Set(ctx, key, value)
}

func TestFailedSaveRollsBack(t *testing.T) {
	kv := &failingKV{KV: newTestKV(t)}
	svc := newTestService(t, kv, date(2024, time.January, 3))
	ctx := context.Background()
	put(t, svc, 0, "X", "task")

	kv.failSet = true
	if _, err := svc.Move(ctx, 0, 1); err == nil {
		t.Fatalf("expected save error")
	}
	if descAt(t, svc, 0) != "X" || descAt(t, svc, 1) != "" {
		t.Fatalf("board not rolled back: %+v", svc.Slots())
	}
	if _, err := svc.Put(ctx, 2, Form{Description: "Y", Types: []string{"task"}}); err == nil {
		t.Fatalf("expected save error on put")
	}
	if s, _ := svc.Slot(2); s.Occupied() {
		t.Fatalf("slot 2 filled despite failed save")
	}
}

func TestParseSlot(t *testing.T) {
	cases := map[string]int{"0": 0, "6": 6, "mon": 0, "Friday": 4, " sun ": 6, "thurs": 3}
	for in, want := range cases {
		got, err := ParseSlot(in)
		if err != nil || got != want {
			t.Fatalf("ParseSlot(%q)=%d err=%v, want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"7", "-1", "someday", ""} {
		if _, err := ParseSlot(in); err == nil {
			t.Fatalf("ParseSlot(%q) expected error", in)
		}
	}
}

func TestParseTypes(t *testing.T) {
	got := ParseTypes([]string{"task,event", " meeting ", ",,"})
	want := []string{"task", "event", "meeting"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTypes=%v, want %v", got, want)
	}
}
