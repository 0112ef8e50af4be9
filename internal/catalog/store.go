package catalog

import (
	"context"
	"errors"
	"fmt"
	"lecturebot/internal/catalog/interfaces"
	"lecturebot/internal/models"
	"lecturebot/internal/providers"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

type StoreInterface interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	View(ctx context.Context) (*models.Document, error)
	Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error)
	SubjectCount() int
	EntryCount() int
	Revision() uint64
}

// Store owns the catalog document. Every mutation runs through Update,
// which holds the write lock across load, mutate and save, so two admin
// actions can never overwrite each other's changes.
type Store struct {
	mu       sync.RWMutex
	doc      *models.Document
	revision uint64
	backend  interfaces.BackendInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewStore(backend interfaces.BackendInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) StoreInterface {
	return &Store{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

func storageError(op string, err error) error {
	if errors.Is(err, models.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
}

// Load reads the document from the backend, seeding or upgrading it when
// needed, and replaces the in-memory copy.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.swap(doc)
	return doc.Clone(), nil
}

func (s *Store) load(ctx context.Context) (*models.Document, error) {
	raw, err := s.backend.Read(ctx)
	if errors.Is(err, interfaces.ErrNoDocument) {
		s.logger.Infof(providers.TypeStorage, "No catalog found, seeding %d subjects", len(models.SeedSubjects))
		doc := models.NewSeedDocument()
		if err := s.persist(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, storageError("read catalog", err)
	}

	doc, migrated, err := models.Upgrade(raw)
	if err != nil {
		return nil, storageError("upgrade catalog", err)
	}
	if migrated {
		s.logger.Warnf(providers.TypeStorage, "Catalog migrated to schema version %d", models.CurrentVersion)
		if err := s.persist(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Store) persist(ctx context.Context, doc *models.Document) error {
	start := time.Now()
	defer func() {
		s.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return storageError("encode catalog", err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return storageError("write catalog", err)
	}
	return nil
}

// Save replaces the whole document.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := doc.Clone()
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.swap(next)
	return nil
}

// View returns a private copy of the current document.
func (s *Store) View(ctx context.Context) (*models.Document, error) {
	s.mu.RLock()
	if s.doc != nil {
		doc := s.doc.Clone()
		s.mu.RUnlock()
		return doc, nil
	}
	s.mu.RUnlock()
	return s.Load(ctx)
}

// Update applies fn to a copy of the document and persists the result.
// When fn or the write fails the previous document stays in place.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		doc, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		s.swap(doc)
	}

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, next); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Catalog write failed, keeping previous state: %s", err)
		return nil, err
	}
	s.swap(next)
	return next.Clone(), nil
}

// swap installs doc as the current document. Callers hold the write lock.
func (s *Store) swap(doc *models.Document) {
	s.doc = doc
	s.revision++
}

// Revision changes every time the in-memory document is replaced.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) SubjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0
	}
	return len(models.GetSubjects(s.doc))
}

func (s *Store) EntryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0
	}
	return s.doc.EntryCount()
}
