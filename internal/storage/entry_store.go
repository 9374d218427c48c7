package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// EntryStore reads and writes the board payload and the week marker.
type EntryStore struct {
	kv  KV
	log logrus.FieldLogger
}

func NewEntryStore(kv KV, log logrus.FieldLogger) *EntryStore {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &EntryStore{kv: kv, log: log}
}

// Load returns the persisted records. A missing, empty or unparseable payload
// yields no records; invalid individual records are skipped. Only backend
// failures are returned as errors.
func (s *EntryStore) Load(ctx context.Context) ([]PersistedRecord, error) {
	raw, ok, err := s.kv.Get(ctx, EntriesKey)
	if err != nil {
		return nil, fmt.Errorf("entries load: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []PersistedRecord{}, nil
	}

	var recs []PersistedRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		s.log.WithError(err).Warn("persisted entries are malformed, starting empty")
		return []PersistedRecord{}, nil
	}

	out := make([]PersistedRecord, 0, len(recs))
	seen := map[int]bool{}
	for _, r := range recs {
		r.Types = TrimTypes(r.Types)
		switch {
		case r.Idx < 0 || r.Idx >= SlotCount:
			s.log.WithField("idx", r.Idx).Warn("dropping record with out-of-range slot")
			continue
		case seen[r.Idx]:
			s.log.WithField("idx", r.Idx).Warn("dropping duplicate record for slot")
			continue
		case len(r.Types) == 0:
			s.log.WithField("idx", r.Idx).Warn("dropping record without types")
			continue
		}
		seen[r.Idx] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Idx < out[j].Idx })
	return out, nil
}

// Save overwrites the payload with recs in one write.
func (s *EntryStore) Save(ctx context.Context, recs []PersistedRecord) error {
	payload, err := EncodeRecords(recs)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, EntriesKey, payload); err != nil {
		return fmt.Errorf("entries save: %w", err)
	}
	s.log.WithField("records", len(recs)).Debug("entries saved")
	return nil
}

// Raw returns the stored payload verbatim, or "[]" when nothing is stored.
func (s *EntryStore) Raw(ctx context.Context) (string, error) {
	raw, ok, err := s.kv.Get(ctx, EntriesKey)
	if err != nil {
		return "", fmt.Errorf("entries raw: %w", err)
	}
	if !ok || raw == "" {
		return "[]", nil
	}
	return raw, nil
}

// WeekKey returns the week marker written at the last reset.
func (s *EntryStore) WeekKey(ctx context.Context) (string, bool, error) {
	key, ok, err := s.kv.Get(ctx, WeekKeyKey)
	if err != nil {
		return "", false, fmt.Errorf("week key get: %w", err)
	}
	return key, ok, nil
}

// Reset drops every record and stores weekKey in a single batch.
func (s *EntryStore) Reset(ctx context.Context, weekKey string) error {
	err := s.kv.Batch(ctx, []Mutation{
		{Key: EntriesKey, Delete: true},
		{Key: WeekKeyKey, Value: weekKey},
	})
	if err != nil {
		return fmt.Errorf("entries reset: %w", err)
	}
	s.log.WithField("week", weekKey).Info("board reset for new week")
	return nil
}

// InvalidRecordError reports a record that cannot be persisted.
type InvalidRecordError struct {
	Idx    int
	Reason string
}

func (e InvalidRecordError) Error() string {
	return fmt.Sprintf("record for slot %d: %s", e.Idx, e.Reason)
}

// EncodeRecords renders recs in canonical form: sorted by index, types
// trimmed, no HTML escaping. Equal inputs give byte-identical output.
func EncodeRecords(recs []PersistedRecord) (string, error) {
	out := make([]PersistedRecord, 0, len(recs))
	seen := map[int]bool{}
	for _, r := range recs {
		if r.Idx < 0 || r.Idx >= SlotCount {
			return "", InvalidRecordError{Idx: r.Idx, Reason: "slot out of range"}
		}
		if seen[r.Idx] {
			return "", InvalidRecordError{Idx: r.Idx, Reason: "duplicate slot"}
		}
		types := TrimTypes(r.Types)
		if len(types) == 0 {
			return "", InvalidRecordError{Idx: r.Idx, Reason: "no types"}
		}
		seen[r.Idx] = true
		out = append(out, PersistedRecord{Idx: r.Idx, Desc: r.Desc, Types: types})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Idx < out[j].Idx })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// TrimTypes trims each tag, drops empty ones and keeps the first occurrence
// of duplicates.
func TrimTypes(types []string) []string {
	out := make([]string, 0, len(types))
	seen := map[string]bool{}
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
