package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/logging"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/domain"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/repository"
)

// EntryService handles reading-list business logic.
// Logs carry entry ids only; titles, authors and notes stay out of them.
type EntryService struct {
	store  *repository.EntryStore
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*EntryService)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *EntryService) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *EntryService) { s.logger = l }
}

// NewEntryService creates a new EntryService
func NewEntryService(store *repository.EntryStore, opts ...Option) *EntryService {
	s := &EntryService{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the payload and stores a new entry.
func (s *EntryService) Create(ctx context.Context, req domain.CreateEntryRequest) (*domain.Entry, error) {
	if err := domain.ValidateCreate(&req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := s.store.Create(func(id int64) domain.Entry {
		return domain.Entry{
			ID:        id,
			Title:     req.Title,
			Author:    req.Author,
			Status:    *req.Status,
			Notes:     req.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
	})

	s.log(ctx).Info("entry created", "entry_id", entry.ID, "status", entry.Status)
	return &entry, nil
}

// GetAll returns every entry in insertion order.
func (s *EntryService) GetAll(ctx context.Context) []domain.Entry {
	return s.store.ListAll()
}

// GetByID returns one entry or a *domain.NotFoundError.
func (s *EntryService) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	e, ok := s.store.Find(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return &e, nil
}

// Update applies the fields present in req and refreshes updated_at.
func (s *EntryService) Update(ctx context.Context, id int64, req domain.UpdateEntryRequest) (*domain.Entry, error) {
	existing, ok := s.store.Find(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}

	if err := domain.ValidateUpdate(&req); err != nil {
		return nil, err
	}

	updated := existing.Clone()
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Author != nil {
		updated.Author = *req.Author
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.ClearNotes {
		updated.Notes = nil
	} else if req.Notes != nil {
		n := *req.Notes
		updated.Notes = &n
	}

	now := s.now().UTC()
	if now.Before(updated.CreatedAt) {
		now = updated.CreatedAt
	}
	updated.UpdatedAt = now

	// The entry may have been deleted concurrently since Find.
	if !s.store.Replace(id, updated) {
		return nil, &domain.NotFoundError{ID: id}
	}

	s.log(ctx).Info("entry updated", "entry_id", id, "status", updated.Status)
	return &updated, nil
}

// Delete removes an entry. Its id is never reused.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	if !s.store.Remove(id) {
		return &domain.NotFoundError{ID: id}
	}
	s.log(ctx).Info("entry deleted", "entry_id", id)
	return nil
}

// Filter returns entries matching every given predicate: exact status and
// case-insensitive author substring. Empty params return everything.
func (s *EntryService) Filter(ctx context.Context, params domain.FilterParams) []domain.Entry {
	all := s.store.ListAll()
	if params.Status == "" && params.Author == "" {
		return all
	}

	needle := strings.ToLower(params.Author)
	out := make([]domain.Entry, 0, len(all))
	for _, e := range all {
		if params.Status != "" && e.Status != params.Status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Author), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count is used by the detailed health check.
func (s *EntryService) Count() int {
	return s.store.Count()
}

func (s *EntryService) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}
