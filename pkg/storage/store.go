package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"

	"github.com/cuemby/nurseduty/pkg/events"
	"github.com/cuemby/nurseduty/pkg/log"
	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/types"
	"github.com/rs/zerolog"
)

// Store defines the document operations the API is built on.
// Each method is one full read-modify-write of one document.
type Store interface {
	// Nurses
	GetRoster() (*types.Roster, error)
	UpdateNurse(id int, patch types.NursePatch) error
	ResetAllGroups() error
	ImportRoster(roster *types.Roster, overwrite bool) error

	// Formula schedules
	GetAllFormulas() ([]types.FormulaSchedule, error)
	ReplaceAllFormulas(schedules []types.FormulaSchedule) error

	// Settings
	GetSettings() (*types.Settings, error)
	SaveSettings(settings types.Settings) error

	// Monthly schedules
	GetMonthlySchedule(year, month int) (*types.MonthlySchedule, error)
	UpsertMonthlySchedule(schedule types.MonthlySchedule) error

	// Utility
	Seed() ([]Collection, error)
	Close() error
}

// emptyDocument is what LoadDocument returns for a key that was never written
var emptyDocument = json.RawMessage("[]")

// DocumentStore implements Store on top of a Backend.
//
// There is no cache: every call reads the document from the backend. Calls
// touching the same collection are serialized by a per-collection mutex held
// for the whole read-modify-write, so writes never interleave within this
// process. Nothing coordinates separate processes sharing a backend.
type DocumentStore struct {
	backend   Backend
	publisher events.Publisher
	logger    zerolog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// Option configures a DocumentStore
type Option func(*DocumentStore)

// WithPublisher sends a document event after every successful write
func WithPublisher(p events.Publisher) Option {
	return func(s *DocumentStore) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewDocumentStore creates a store over backend
func NewDocumentStore(backend Backend, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		backend:   backend,
		publisher: events.Discard,
		logger:    log.WithComponent("storage").With().Str("backend", backend.Name()).Logger(),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend
func (s *DocumentStore) Backend() Backend {
	return s.backend
}

// Close closes the backend
func (s *DocumentStore) Close() error {
	return s.backend.Close()
}

// EnsureStorageRoot creates the storage root if it does not exist
func (s *DocumentStore) EnsureStorageRoot() error {
	if err := s.backend.EnsureRoot(); err != nil {
		return &IOError{Op: "ensure root", Key: s.backend.Name(), Err: err}
	}
	return nil
}

// LoadDocument returns the raw document stored under key. A key that was
// never written loads as an empty JSON array, not an empty object.
func (s *DocumentStore) LoadDocument(key string) (json.RawMessage, error) {
	unlock := s.lock(key)
	defer unlock()

	data, found, err := s.read(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return append(json.RawMessage(nil), emptyDocument...), nil
	}
	return data, nil
}

// SaveDocument replaces the document stored under key with value
func (s *DocumentStore) SaveDocument(key string, value any) error {
	unlock := s.lock(key)
	defer unlock()

	if err := s.write(key, value); err != nil {
		return err
	}
	s.publishSaved(Collection(key), "save_document")
	return nil
}

func (s *DocumentStore) lock(key string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// read returns the stored bytes and whether the document exists.
// The caller must hold the collection lock.
func (s *DocumentStore) read(key string) ([]byte, bool, error) {
	data, err := s.backend.Read(key)
	if errors.Is(err, ErrNoDocument) {
		s.logger.Debug().Str("collection", key).Msg("document absent")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &IOError{Op: "read", Key: key, Err: err}
	}
	return data, true, nil
}

// write encodes value and replaces the document.
// The caller must hold the collection lock.
func (s *DocumentStore) write(key string, value any) error {
	if err := s.backend.EnsureRoot(); err != nil {
		return &IOError{Op: "ensure root", Key: key, Err: err}
	}
	data, err := encodeDocument(value)
	if err != nil {
		return &IOError{Op: "encode", Key: key, Err: err}
	}
	if err := s.backend.Write(key, data); err != nil {
		return &IOError{Op: "write", Key: key, Err: err}
	}
	s.logger.Debug().Str("collection", key).Int("bytes", len(data)).Msg("document written")
	return nil
}

func (s *DocumentStore) publishSaved(c Collection, operation string) {
	s.publisher.Publish(&events.Event{
		Type:       events.EventDocumentSaved,
		Collection: string(c),
		Message:    "document saved",
		Metadata:   map[string]string{"operation": operation},
	})
}

// observe records metrics and logs the outcome of one store operation.
// Use as: defer s.observe(c, "op", metrics.NewTimer(), &err)
func (s *DocumentStore) observe(c Collection, operation string, timer *metrics.Timer, errp *error) {
	timer.ObserveDurationVec(metrics.StoreOperationDuration, string(c), operation)

	result := metrics.ResultOK
	if err := *errp; err != nil {
		result = metrics.ResultError
		if errors.Is(err, ErrNotFound) {
			result = metrics.ResultNotFound
		} else {
			s.logger.Error().Err(err).Str("collection", string(c)).Str("operation", operation).Msg("store operation failed")
		}
	}
	metrics.StoreOperationsTotal.WithLabelValues(string(c), operation, result).Inc()
}

// encodeDocument renders value as 2-space indented JSON. Non-ASCII text is
// written as-is and HTML characters are not escaped.
func encodeDocument(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// isEmptyValue reports whether raw is null, {} or []
func isEmptyValue(raw []byte) (bool, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err
	}
	switch t := v.(type) {
	case nil:
		return true, nil
	case map[string]any:
		return len(t) == 0, nil
	case []any:
		return len(t) == 0, nil
	}
	return false, nil
}
