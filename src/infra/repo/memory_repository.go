package repo

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
	"contactsapi/src/infra/logger"
)

// MemoryStore keeps contacts in process memory. Commits are all-or-nothing.
type MemoryStore struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]domain.Contact
	codes map[int]domain.AreaCode
	log   *slog.Logger
}

var (
	_ ports.ContactStore   = (*MemoryStore)(nil)
	_ ports.AreaCodeSeeder = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty store. log may be nil.
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		rows:  make(map[uuid.UUID]domain.Contact),
		codes: make(map[int]domain.AreaCode),
		log:   logger.WithComponent(log, "repo.memory"),
	}
}

func (m *MemoryStore) Session() ports.ContactRepository {
	return newSession(m, m.log)
}

func (m *MemoryStore) Health(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) SeedAreaCodes(_ context.Context, codes []domain.AreaCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ac := range codes {
		m.codes[ac.Code] = ac
	}
	return nil
}

func (m *MemoryStore) contacts(ctx context.Context) ([]domain.Contact, error) {
	return m.filter(ctx, func(domain.Contact) bool { return true })
}

func (m *MemoryStore) contactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error) {
	return m.filter(ctx, func(c domain.Contact) bool { return c.AreaCodeID == code })
}

func (m *MemoryStore) filter(ctx context.Context, keep func(domain.Contact) bool) ([]domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Contact, 0, len(m.rows))
	for _, c := range m.rows {
		if keep(c) {
			out = append(out, c)
		}
	}
	sortContacts(out)
	return out, nil
}

func (m *MemoryStore) contact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MemoryStore) areaCode(ctx context.Context, code int) (*domain.AreaCode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ac, ok := m.codes[code]
	if !ok {
		return nil, nil
	}
	return &ac, nil
}

func (m *MemoryStore) areaCodes(ctx context.Context) ([]domain.AreaCode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.AreaCode, 0, len(m.codes))
	for _, ac := range m.codes {
		out = append(out, ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *MemoryStore) apply(ctx context.Context, cs changeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check everything first so a failing commit leaves the maps untouched.
	for _, row := range cs.Inserts {
		if _, ok := m.rows[row.ID]; ok {
			return duplicateRow(row.ID)
		}
		if _, ok := m.codes[row.AreaCodeID]; !ok {
			return unregisteredAreaCode(row.AreaCodeID)
		}
	}
	for _, row := range cs.Updates {
		if _, ok := m.rows[row.ID]; !ok {
			return missingRow(row.ID)
		}
		if _, ok := m.codes[row.AreaCodeID]; !ok {
			return unregisteredAreaCode(row.AreaCodeID)
		}
	}
	for _, id := range cs.Deletes {
		if _, ok := m.rows[id]; !ok {
			return missingRow(id)
		}
	}

	for _, row := range cs.Inserts {
		m.rows[row.ID] = contactFromRow(row, cs.At, cs.At)
	}
	for _, row := range cs.Updates {
		m.rows[row.ID] = contactFromRow(row, m.rows[row.ID].CreatedAt, cs.At)
	}
	for _, id := range cs.Deletes {
		delete(m.rows, id)
	}
	return nil
}
