package engine

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"smarttasks/internal/storage"
)

// Service composes the board, the editor and the entry store. Every
// successful mutation is saved before the call returns; a failed save rolls
// the board back so memory never runs ahead of storage.
//
// Service is not safe for concurrent use; callers deliver one event at a time.
type Service struct {
	store   *storage.EntryStore
	catalog TypeCatalog
	log     logrus.FieldLogger
	now     func() time.Time

	board  *SlotBoard
	editor Editor
	week   string
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func WithCatalog(c TypeCatalog) Option {
	return func(s *Service) { s.catalog = c }
}

func NewService(store *storage.EntryStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: DefaultCatalog(),
		now:     time.Now,
		board:   NewSlotBoard(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Start runs the weekly reset check and loads the board. It must be called
// once before any other operation.
func (s *Service) Start(ctx context.Context) (ResetDecision, error) {
	current := WeekKey(s.now())
	stored, ok, err := s.store.WeekKey(ctx)
	if err != nil {
		return ResetDecision{}, err
	}

	d := Reconcile(stored, ok, current)
	if d.ShouldClear {
		if err := s.store.Reset(ctx, d.KeyToPersist); err != nil {
			return ResetDecision{}, err
		}
		s.log.WithFields(logrus.Fields{"stored": stored, "current": current}).Info("week changed, board cleared")
	}
	s.week = d.KeyToPersist

	if err := s.Reload(ctx); err != nil {
		return ResetDecision{}, err
	}
	return d, nil
}

// Reload replaces the in-memory board with the persisted one.
func (s *Service) Reload(ctx context.Context) error {
	recs, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.board = BoardFromRecords(recs)
	s.editor.Close()
	s.log.WithField("entries", len(recs)).Debug("board loaded")
	return nil
}

func (s *Service) Week() string               { return s.week }
func (s *Service) Now() time.Time             { return s.now() }
func (s *Service) Catalog() TypeCatalog       { return s.catalog }
func (s *Service) Slots() []Slot              { return s.board.Slots() }
func (s *Service) Session() DragSession       { return s.board.Session() }
func (s *Service) Editor() *Editor            { return &s.editor }
func (s *Service) Slot(idx int) (Slot, error) { return s.board.Slot(idx) }

// BeginDrag starts dragging the entry in source.
func (s *Service) BeginDrag(source int) error {
	_, err := s.board.BeginDrag(source)
	return err
}

func (s *Service) CancelDrag() {
	s.board.CancelDrag()
}

// Drop finishes the drag over target and saves when slots changed.
func (s *Service) Drop(ctx context.Context, target int) (DropOutcome, error) {
	session := s.board.Session()
	before := s.board.snapshot()
	out, err := s.board.Drop(target)
	if err != nil {
		return out, err
	}
	if !out.Changed() {
		if out == DropIgnored {
			s.log.WithField("target", target).Debug("drop without drag session ignored")
		}
		return out, nil
	}
	if err := s.save(ctx, before); err != nil {
		return DropIgnored, err
	}
	s.log.WithFields(logrus.Fields{"from": session.Source, "to": target, "outcome": out.String()}).Info("entry dropped")
	return out, nil
}

// Move drags the entry in from onto to in one step.
func (s *Service) Move(ctx context.Context, from, to int) (DropOutcome, error) {
	if err := s.BeginDrag(from); err != nil {
		return DropIgnored, err
	}
	return s.Drop(ctx, to)
}

// OpenEditor selects idx. Create mode preselects the catalog default type.
func (s *Service) OpenEditor(idx int) error {
	def := s.catalog.Default
	if def == "" {
		def = DefaultTypeName
	}
	return s.editor.open(s.board, idx, def)
}

func (s *Service) CloseEditor() {
	s.editor.Close()
}

// SubmitEditor creates or updates the selected slot from the form.
// On ValidationError nothing changes and the editor stays open.
func (s *Service) SubmitEditor(ctx context.Context) (EditorAction, error) {
	slot := s.editor.slot
	before := s.board.snapshot()
	action, err := s.editor.submit(s.board)
	if err != nil {
		return ActionNone, err
	}
	if err := s.save(ctx, before); err != nil {
		return ActionNone, err
	}
	s.editor.Close()
	s.log.WithFields(logrus.Fields{"slot": slot, "action": action.String()}).Info("entry saved")
	return action, nil
}

// RemoveInEditor empties the slot being edited.
func (s *Service) RemoveInEditor(ctx context.Context) error {
	slot := s.editor.slot
	before := s.board.snapshot()
	if err := s.editor.remove(s.board); err != nil {
		return err
	}
	if err := s.save(ctx, before); err != nil {
		return err
	}
	s.editor.Close()
	s.log.WithField("slot", slot).Info("entry removed")
	return nil
}

// Put runs the editor workflow in one call: select idx, fill the form,
// submit. Unlike the interactive flow the editor is closed on failure.
func (s *Service) Put(ctx context.Context, idx int, form Form) (EditorAction, error) {
	if err := s.OpenEditor(idx); err != nil {
		return ActionNone, err
	}
	s.editor.SetDescription(form.Description)
	s.editor.SetTypes(form.Types)
	action, err := s.SubmitEditor(ctx)
	if err != nil {
		s.editor.Close()
		return ActionNone, err
	}
	return action, nil
}

// Remove empties idx through the editor.
func (s *Service) Remove(ctx context.Context, idx int) error {
	if err := s.OpenEditor(idx); err != nil {
		return err
	}
	if s.editor.Mode() != EditorEdit {
		s.editor.Close()
		return EmptySlotError{Index: idx}
	}
	return s.RemoveInEditor(ctx)
}

// ExportFileName is the name exports are offered under.
const ExportFileName = "smart-tasks-entries.json"

// Export returns the persisted entries payload verbatim.
func (s *Service) Export(ctx context.Context) (string, error) {
	return s.store.Raw(ctx)
}

// StoredWeek reports the week key written at the last reset without
// starting the service.
func (s *Service) StoredWeek(ctx context.Context) (string, bool, error) {
	return s.store.WeekKey(ctx)
}

func (s *Service) save(ctx context.Context, before [SlotCount]*Entry) error {
	if err := s.store.Save(ctx, s.board.Records()); err != nil {
		s.board.restore(before)
		s.log.WithError(err).Error("save failed, board rolled back")
		return err
	}
	return nil
}
