package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/theirongolddev/savearn/internal/model"
)

// Memory is an in-process store for tests and throwaway servers.
type Memory struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	entries   map[string]map[string]model.SavingEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string][]byte),
		entries:   make(map[string]map[string]model.SavingEntry),
	}
}

// LoadSnapshot returns the stored snapshot for userID.
func (m *Memory) LoadSnapshot(_ context.Context, userID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.snapshots[userID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), data...), nil
}

// SaveSnapshot stores a copy of data.
func (m *Memory) SaveSnapshot(_ context.Context, userID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[userID] = append([]byte(nil), data...)
	return nil
}

// EraseSnapshot drops the snapshot for userID.
func (m *Memory) EraseSnapshot(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, userID)
	return nil
}

// PutEntry inserts or overwrites an entry.
func (m *Memory) PutEntry(_ context.Context, userID string, e model.SavingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.entries[userID]
	if !ok {
		byID = make(map[string]model.SavingEntry)
		m.entries[userID] = byID
	}
	byID[e.ID] = e
	return nil
}

// GetEntry returns one entry.
func (m *Memory) GetEntry(_ context.Context, userID, id string) (model.SavingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID][id]
	if !ok {
		return model.SavingEntry{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return e, nil
}

// UpdateEntry replaces an existing entry.
func (m *Memory) UpdateEntry(_ context.Context, userID string, e model.SavingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[userID][e.ID]; !ok {
		return fmt.Errorf("%w: %s", model.ErrNotFound, e.ID)
	}
	m.entries[userID][e.ID] = e
	return nil
}

// DeleteEntry removes an entry.
func (m *Memory) DeleteEntry(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[userID][id]; !ok {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	delete(m.entries[userID], id)
	return nil
}

// ListEntries pages through a user's entries, newest first.
func (m *Memory) ListEntries(ctx context.Context, userID string, limit int, after string) (Page, error) {
	c, err := DecodeCursor(after)
	if err != nil {
		return Page{}, err
	}
	all, _ := m.AllEntries(ctx, userID)

	var page Page
	for _, e := range all {
		if after != "" && !c.Before(e) {
			continue
		}
		if len(page.Entries) == limit {
			page.Next = EncodeCursor(page.Entries[len(page.Entries)-1])
			break
		}
		page.Entries = append(page.Entries, e)
	}
	return page, nil
}

// AllEntries returns every entry for userID, newest first.
func (m *Memory) AllEntries(_ context.Context, userID string) ([]model.SavingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.SavingEntry, 0, len(m.entries[userID]))
	for _, e := range m.entries[userID] {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		ti, tj := formatTime(all[i].CreatedAt), formatTime(all[j].CreatedAt)
		if ti != tj {
			return ti > tj
		}
		return all[i].ID > all[j].ID
	})
	return all, nil
}
