package membership

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/membership-slim/pkg/domain"
)

// memStore is an in-memory Store with the same constraints as the members table.
type memStore struct {
	mu      sync.Mutex
	members map[uuid.UUID]domain.Member
	err     error
	writes  int
}

func newMemStore() *memStore {
	return &memStore{members: make(map[uuid.UUID]domain.Member)}
}

func (m *memStore) Create(ctx context.Context, member *domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.members {
		if existing.Email == member.Email {
			return domain.ErrMemberAlreadyExists
		}
	}
	m.members[member.ID] = *member
	m.writes++
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	member, ok := m.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &member, nil
}

func (m *memStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, member := range m.members {
		if member.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) List(ctx context.Context, status *domain.MemberStatus) ([]*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Member{}
	for _, member := range m.members {
		if status != nil && member.Status != *status {
			continue
		}
		member := member
		out = append(out, &member)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *memStore) Stats(ctx context.Context, monthStart time.Time) (domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Stats{}, m.err
	}
	var stats domain.Stats
	for _, member := range m.members {
		stats.Total++
		switch member.Status {
		case domain.MemberStatusPending:
			stats.Pending++
		case domain.MemberStatusApproved:
			stats.Approved++
		case domain.MemberStatusRejected:
			stats.Rejected++
		case domain.MemberStatusBanned:
			stats.Banned++
		}
		if !member.CreatedAt.Before(monthStart) {
			stats.ThisMonth++
		}
	}
	return stats, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.MemberStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	member, ok := m.members[id]
	if !ok {
		return false, domain.ErrMemberNotFound
	}
	if member.Status != from {
		if member.Status == to {
			return false, nil
		}
		return false, domain.ErrStatusConflict
	}
	member.Status = to
	m.members[id] = member
	m.writes++
	return true, nil
}

// staleStore serves one outdated read from GetByID, as seen by an admin whose
// page loaded before another admin's decision landed.
type staleStore struct {
	*memStore
	stale *domain.Member
}

func (s *staleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	if s.stale != nil && s.stale.ID == id {
		m := *s.stale
		s.stale = nil
		return &m, nil
	}
	return s.memStore.GetByID(ctx, id)
}

func (m *memStore) count(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, member := range m.members {
		if member.Email == email {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu       sync.Mutex
	received []uuid.UUID
	changes  []domain.MemberStatus
	err      error
}

func (n *recordingNotifier) ApplicationReceived(ctx context.Context, member *domain.Member) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, member.ID)
	return n.err
}

func (n *recordingNotifier) StatusChanged(ctx context.Context, member *domain.Member, from domain.MemberStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, member.Status)
	return n.err
}
