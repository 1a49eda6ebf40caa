// Package ledger implements the per-user entry operations behind the HTTP
// API: create, list, get, update, delete, stats and profile lookups over an
// entry repository.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/theirongolddev/savearn/internal/identity"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"
	"github.com/theirongolddev/savearn/internal/state"
	"github.com/theirongolddev/savearn/internal/store"

	"golang.org/x/sync/errgroup"
)

// Repository is a per-user entry table.
type Repository interface {
	PutEntry(ctx context.Context, userID string, e model.SavingEntry) error
	GetEntry(ctx context.Context, userID, id string) (model.SavingEntry, error)
	UpdateEntry(ctx context.Context, userID string, e model.SavingEntry) error
	DeleteEntry(ctx context.Context, userID, id string) error
	ListEntries(ctx context.Context, userID string, limit int, after string) (store.Page, error)
	AllEntries(ctx context.Context, userID string) ([]model.SavingEntry, error)
}

// Options configures a Service. Zero values pick defaults.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	Directory       identity.Directory
	Env             state.Env
	Logger          *slog.Logger
}

// Service runs entry operations on behalf of an authenticated user.
// It holds no per-user state and is safe for concurrent use.
type Service struct {
	repo        Repository
	dir         identity.Directory
	env         state.Env
	log         *slog.Logger
	defaultPage int
	maxPage     int
}

// New creates a Service over repo.
func New(repo Repository, opts Options) *Service {
	s := &Service{
		repo:        repo,
		dir:         opts.Directory,
		env:         opts.Env,
		log:         opts.Logger,
		defaultPage: opts.DefaultPageSize,
		maxPage:     opts.MaxPageSize,
	}
	if s.dir == nil {
		s.dir = identity.Chain{}
	}
	if s.env.Now == nil || s.env.NewID == nil {
		s.env = state.DefaultEnv()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.defaultPage <= 0 {
		s.defaultPage = 50
	}
	if s.maxPage < s.defaultPage {
		s.maxPage = s.defaultPage
	}
	return s
}

// Create validates in and stores a new entry for userID.
func (s *Service) Create(ctx context.Context, userID string, in model.EntryInput) (model.SavingEntry, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.SavingEntry{}, err
	}

	e := model.NewEntry(s.env.NewID(), in)
	e.CreatedAt = s.env.Now().UTC()
	e.UpdatedAt = e.CreatedAt

	if err := s.repo.PutEntry(ctx, userID, e); err != nil {
		return model.SavingEntry{}, persistErr("save", err)
	}
	s.log.Debug("entry created", "user", userID, "id", e.ID, "earned", e.Earned.String())
	return e, nil
}

// List returns one page of userID's entries, newest first. limit <= 0 uses
// the default page size; larger limits are capped.
func (s *Service) List(ctx context.Context, userID string, limit int, lastKey string) (store.Page, error) {
	if limit <= 0 {
		limit = s.defaultPage
	}
	limit = min(limit, s.maxPage)

	page, err := s.repo.ListEntries(ctx, userID, limit, lastKey)
	if errors.Is(err, store.ErrBadCursor) {
		return store.Page{}, &model.ValidationError{Field: "lastKey", Reason: "is not a valid continuation key"}
	}
	if err != nil {
		return store.Page{}, persistErr("load", err)
	}
	if page.Entries == nil {
		page.Entries = []model.SavingEntry{}
	}
	return page, nil
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, userID, id string) (model.SavingEntry, error) {
	e, err := s.repo.GetEntry(ctx, userID, id)
	if err != nil {
		return model.SavingEntry{}, persistErr("load", err)
	}
	return e, nil
}

// Update replaces the entry with id. Earned is recomputed, CreatedAt kept,
// and a body without a category keeps the stored one.
func (s *Service) Update(ctx context.Context, userID, id string, in model.EntryInput) (model.SavingEntry, error) {
	old, err := s.repo.GetEntry(ctx, userID, id)
	if err != nil {
		return model.SavingEntry{}, persistErr("load", err)
	}

	if strings.TrimSpace(in.Category) == "" {
		in.Category = old.Category
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.SavingEntry{}, err
	}

	e := model.NewEntry(id, in)
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = s.env.Now().UTC()

	if err := s.repo.UpdateEntry(ctx, userID, e); err != nil {
		return model.SavingEntry{}, persistErr("save", err)
	}
	return e, nil
}

// Delete removes the entry with id.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteEntry(ctx, userID, id); err != nil {
		return persistErr("delete", err)
	}
	s.log.Debug("entry deleted", "user", userID, "id", id)
	return nil
}

// Stats is every projection of a user's entries.
type Stats struct {
	Summary    model.Summary         `json:"summary"`
	Daily      []model.DailyStats    `json:"daily"`
	LastDays   []model.DailyStats    `json:"lastDays"`
	Categories []model.CategoryStats `json:"categories"`
	Monthly    []model.MonthlyStats  `json:"monthly"`
	Recent     []model.SavingEntry   `json:"recent"`
}

// chartDays is the length of the zero-filled daily window.
const chartDays = 14

// recentCount is how many entries Stats.Recent holds.
const recentCount = 5

// Stats folds all of userID's entries into a fresh state and projects it.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	entries, err := s.repo.AllEntries(ctx, userID)
	if err != nil {
		return Stats{}, persistErr("load", err)
	}
	return s.project(entries), nil
}

func (s *Service) project(entries []model.SavingEntry) Stats {
	now := s.env.Now()
	st := state.Rebuild(entries, now)

	streak := pipeline.Streak{Current: st.CurrentStreak, Best: st.BestStreak}
	daily := pipeline.AggregateDays(st.Entries)
	return Stats{
		Summary:    pipeline.Summarize(st.Entries, streak, now),
		Daily:      daily,
		LastDays:   pipeline.FillDays(daily, now, chartDays),
		Categories: pipeline.AggregateCategories(st.Entries),
		Monthly:    pipeline.AggregateMonths(st.Entries),
		Recent:     pipeline.RecentEntries(st.Entries, recentCount),
	}
}

// Profile returns userID's profile from the identity directory.
func (s *Service) Profile(ctx context.Context, userID string) (identity.Profile, error) {
	return s.dir.FetchProfile(ctx, userID)
}

// Dashboard is the combined payload for a home screen.
type Dashboard struct {
	Stats   Stats             `json:"stats"`
	Profile *identity.Profile `json:"profile"`
}

// Dashboard loads stats and profile concurrently. A failed profile lookup
// leaves Profile nil; a failed entry load fails the whole call.
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	var (
		d       Dashboard
		entries []model.SavingEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.repo.AllEntries(gctx, userID)
		if err != nil {
			return persistErr("load", err)
		}
		return nil
	})
	g.Go(func() error {
		p, err := s.dir.FetchProfile(gctx, userID)
		if err != nil {
			s.log.Warn("profile lookup failed", "user", userID, "error", err)
			return nil
		}
		d.Profile = &p
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d.Stats = s.project(entries)
	return d, nil
}

// persistErr wraps repository failures. Not-found passes through untouched.
func persistErr(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	var perr *model.PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return &model.PersistenceError{Op: op, Err: fmt.Errorf("entry repository: %w", err)}
}
