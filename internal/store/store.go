package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/planboard/internal/ident"
	"github.com/rpggio/planboard/internal/storage"
)

// Store is the single authority over the board document: it loads it from
// durable storage, migrates it, and persists it after every mutation.
//
// A mutex stands in for the original environment's single-threaded event
// loop: Patch and State are atomic with respect to each other, so mutators
// never observe a half-applied change.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	logger *slog.Logger
	doc    Document
}

// New loads the document stored under key, migrates it to the current
// schema and persists the result. Missing or unparseable stored data is
// treated as absent: the store starts from a fresh default document instead
// of failing. A storage write failure is returned.
func New(ctx context.Context, kv storage.KV, key string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{kv: kv, key: key, logger: logger}

	s.doc = s.load(ctx)
	migrate(&s.doc)
	if err := s.persist(ctx); err != nil {
		return nil, fmt.Errorf("persisting migrated document: %w", err)
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) Document {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read stored document, starting fresh", "key", s.key, "error", err)
		}
		return defaultDocument()
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn("stored document is corrupt, starting fresh", "key", s.key, "error", err)
		return defaultDocument()
	}
	return doc
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// EnsureSeed creates the starter project when no projects exist and marks
// it active. Calling it on a seeded store is a no-op.
func (s *Store) EnsureSeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc.Projects) > 0 {
		return nil
	}
	proj := Project{
		ID:        ident.New(),
		Name:      "default",
		Desc:      "starter project",
		Columns:   DefaultColumns(),
		CreatedAt: time.Now().UnixMilli(),
	}
	s.doc.Projects = append(s.doc.Projects, proj)
	s.doc.ActiveProjectID = proj.ID
	return s.persist(ctx)
}

// State returns a fully independent deep copy of the current document.
// Callers may inspect or mutate the copy freely without affecting the store.
func (s *Store) State() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Patch is the only sanctioned way to change state. The mutator runs
// against the live document under the store lock, then the whole document
// is persisted synchronously. Mutators must not retain the document past
// their own execution.
func (s *Store) Patch(ctx context.Context, mutator func(*Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutator(&s.doc)
	return s.persist(ctx)
}
