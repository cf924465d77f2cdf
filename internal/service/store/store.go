package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"plant-logbook/internal/service/normalize"
	"plant-logbook/internal/storage"
	"plant-logbook/internal/storage/memory"
)

const (
	DefaultKey   = "plant-logbook"
	backupSuffix = ".backup."
)

// Locker guards a read-modify-write cycle across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithSeed sets the state written on first access and after a schema reset.
func WithSeed(seed func(now time.Time) storage.RootState) Option {
	return func(s *Store) { s.seed = seed }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLocker(l Locker) Option {
	return func(s *Store) { s.locker = l }
}

// Store persists the whole logbook as one JSON document under one key.
// When the medium fails it switches to an in-process memory slot for good.
type Store struct {
	log    *slog.Logger
	key    string
	seed   func(now time.Time) storage.RootState
	now    func() time.Time
	locker Locker

	mu       sync.Mutex
	medium   storage.Medium
	fallback *memory.Medium
	degraded bool
}

func New(log *slog.Logger, medium storage.Medium, opts ...Option) *Store {
	s := &Store{
		log:      log,
		key:      DefaultKey,
		seed:     func(time.Time) storage.RootState { return storage.Empty() },
		now:      time.Now,
		medium:   medium,
		fallback: memory.New(),
	}
	if medium == nil {
		s.degraded = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Degraded reports whether writes currently go to the memory slot.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Store) Key() string {
	return s.key
}

// Load reads, validates and normalizes the stored document. A missing document
// is seeded; an unparsable or outdated one is backed up and reseeded.
func (s *Store) Load(ctx context.Context) storage.RootState {
	const op = "service.store.Load"

	raw, err := s.get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Error("unexpected read error", slog.String("op", op), slog.String("error", err.Error()))
		}
		return s.reseed(ctx)
	}

	doc, err := decode(raw)
	if err != nil || doc.Version != storage.SchemaVersion {
		reason := "version mismatch"
		if err != nil {
			reason = err.Error()
		}
		s.backup(ctx, raw, reason)
		return s.reseed(ctx)
	}

	state, repaired := s.normalize(doc)
	if repaired {
		// synthesized ids and canonical plant codes must survive the next read
		s.log.Info("stored logbook repaired", slog.String("op", op))
		return s.Save(ctx, state)
	}
	return state
}

// Save normalizes state, writes the whole document and returns a fresh copy.
func (s *Store) Save(ctx context.Context, state storage.RootState) storage.RootState {
	const op = "service.store.Save"

	clean, _ := s.normalize(toDocument(state))

	b, err := json.Marshal(clean)
	if err != nil {
		// normalized state only holds plain values
		s.log.Error("failed to encode state", slog.String("op", op), slog.String("error", err.Error()))
		return clone(clean)
	}

	s.set(ctx, s.key, string(b))

	return clone(clean)
}

// Update loads a fresh copy, applies fn and saves the result. When fn returns
// an error nothing is written and the untouched state is returned with it.
func (s *Store) Update(ctx context.Context, fn func(state *storage.RootState) error) (storage.RootState, error) {
	const op = "service.store.Update"

	if s.locker != nil && !s.Degraded() {
		unlock, err := s.locker.Lock(ctx, s.key)
		if err != nil {
			// last write wins is acceptable, the lock only narrows the window
			s.log.Warn("proceeding without lock", slog.String("op", op), slog.String("error", err.Error()))
		} else {
			defer unlock()
		}
	}

	state := s.Load(ctx)
	working := clone(state)

	if err := fn(&working); err != nil {
		return state, err
	}

	return s.Save(ctx, working), nil
}

func (s *Store) reseed(ctx context.Context) storage.RootState {
	return s.Save(ctx, s.seed(s.now()))
}

func (s *Store) backup(ctx context.Context, raw, reason string) {
	const op = "service.store.backup"

	key := s.key + backupSuffix + s.now().UTC().Format("20060102T150405.000Z")
	s.set(ctx, key, raw)

	s.log.Warn("stored logbook rejected, backed up and reseeded",
		slog.String("op", op),
		slog.String("backup_key", key),
		slog.String("reason", reason),
	)
}

// normalize builds the typed state from a decoded document. repaired is true
// when ids had to be synthesized or plant codes canonicalized; plants whose
// codes collapse to the same canonical code are merged in key order.
func (s *Store) normalize(doc document) (state storage.RootState, repaired bool) {
	now := s.now()
	state = storage.Empty()

	keys := make([]string, 0, len(doc.Plants))
	for key := range doc.Plants {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		code := normalize.PlantCode(key)
		if code == "" {
			continue
		}
		if code != key {
			repaired = true
		}

		plant, _ := doc.Plants[key].(map[string]any)
		rawJobs := records(plant["jobs"])
		jobs := state.Plants[code].Jobs
		if jobs == nil {
			jobs = make([]storage.Job, 0, len(rawJobs))
		}
		for _, raw := range rawJobs {
			if !normalize.HasID(raw) {
				repaired = true
			}
			jobs = append(jobs, normalize.PlantJob(code, raw, len(jobs), now))
		}
		state.Plants[code] = storage.PlantState{Jobs: jobs}
	}

	for i, raw := range records(doc.Officer["entries"]) {
		if !normalize.HasID(raw) {
			repaired = true
		}
		state.Officer.Entries = append(state.Officer.Entries, normalize.OfficerEntry(raw, i, now))
	}

	if view, ok := doc.UI["technicianSelectedView"].(string); ok && view != "" {
		state.UI.TechnicianSelectedView = view
	}

	return state, repaired
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		v, err := s.medium.Get(ctx, key)
		if err == nil || errors.Is(err, storage.ErrKeyNotFound) {
			return v, err
		}
		s.degrade(err)
	}

	return s.fallback.Get(ctx, key)
}

func (s *Store) set(ctx context.Context, key, value string) {
	const op = "service.store.set"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		err := s.medium.Set(ctx, key, value)
		if err == nil {
			return
		}
		s.degrade(err)
	}

	if err := s.fallback.Set(ctx, key, value); err != nil {
		s.log.Error("memory slot write failed", slog.String("op", op), slog.String("error", err.Error()))
	}
}

// degrade must be called with mu held.
func (s *Store) degrade(cause error) {
	const op = "service.store.degrade"

	s.degraded = true
	s.log.Warn("persistence unavailable, falling back to memory",
		slog.String("op", op),
		slog.String("error", cause.Error()),
	)
}

// document is the persisted shape before normalization; records stay loose
// so that legacy or hand-edited entries can still be coerced.
type document struct {
	Version int            `json:"version"`
	Plants  map[string]any `json:"plants"`
	Officer map[string]any `json:"officer"`
	UI      map[string]any `json:"ui"`
}

func decode(raw string) (document, error) {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return document{}, fmt.Errorf("decode logbook: %w", err)
	}
	return doc, nil
}

func toDocument(state storage.RootState) document {
	b, err := json.Marshal(state)
	if err != nil {
		return document{}
	}
	doc, err := decode(string(b))
	if err != nil {
		return document{}
	}
	return doc
}

// records picks the object entries out of a loose list.
func records(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func clone(state storage.RootState) storage.RootState {
	out := storage.RootState{
		Version: state.Version,
		Plants:  make(map[string]storage.PlantState, len(state.Plants)),
		Officer: storage.OfficerState{Entries: append([]storage.OfficerEntry{}, state.Officer.Entries...)},
		UI:      state.UI,
	}
	for code, plant := range state.Plants {
		out.Plants[code] = storage.PlantState{Jobs: CloneJobs(plant.Jobs)}
	}
	return out
}

// CloneJobs copies jobs together with their remark slices.
func CloneJobs(jobs []storage.Job) []storage.Job {
	out := make([]storage.Job, len(jobs))
	for i, j := range jobs {
		j.Remarks = append([]storage.Remark{}, j.Remarks...)
		out[i] = j
	}
	return out
}
