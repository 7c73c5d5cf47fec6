// Package store holds report cache implementations keyed by a content hash
// of the validated request.
package store

import (
	"context"
	"sync"
	"time"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/pkg/platform/sentinel"
)

type memoryEntry struct {
	report    *models.Report
	expiresAt time.Time
}

// Memory is an in-process cache. Expired entries are dropped lazily on
// access and by Sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory builds an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a deep copy of the cached report or sentinel.ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) (*models.Report, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	return entry.report.Clone(), nil
}

// Set stores a deep copy of report. A zero ttl never expires.
func (m *Memory) Set(_ context.Context, key string, report *models.Report, ttl time.Duration) error {
	entry := memoryEntry{report: report.Clone()}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, entry := range m.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
