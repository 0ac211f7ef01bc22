package membership

import (
	"context"
	"strings"

	"github.com/tendant/membership-slim/pkg/domain"
)

// View is one named tab of the admin roster.
type View struct {
	Name   string               `json:"name"`
	Status *domain.MemberStatus `json:"status,omitempty"`
	Count  int                  `json:"count"`
}

// Roster is the admin listing of members.
type Roster struct {
	Filter  *domain.MemberStatus
	Members []*domain.Member
	Stats   domain.Stats
	Views   []View
}

// Views returns the All, Pending, Approved, Rejected and Banned views with their counts.
func Views(stats domain.Stats) []View {
	views := []View{{Name: "All", Count: stats.Total}}
	for _, s := range domain.MemberStatuses {
		status := s
		views = append(views, View{
			Name:   strings.ToUpper(string(s[:1])) + string(s[1:]),
			Status: &status,
			Count:  stats.Count(s),
		})
	}
	return views
}

// ParseFilter parses a roster filter. Empty and "all" select every member.
func ParseFilter(value string) (*domain.MemberStatus, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "all") {
		return nil, nil
	}
	status, err := domain.ParseMemberStatus(v)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// IsAlreadyMember reports whether an application exists for email.
// Blank or malformed addresses are simply not members.
func (s *Service) IsAlreadyMember(ctx context.Context, email string) (bool, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || ValidateEmail(normalized, false) != nil {
		return false, nil
	}
	return s.store.ExistsByEmail(ctx, normalized)
}

// ListMembers returns members newest first, optionally narrowed to one status,
// together with aggregate counts over the whole table.
// Store failures are returned as-is; no substitute data is produced.
func (s *Service) ListMembers(ctx context.Context, filter *domain.MemberStatus) (*Roster, error) {
	if filter != nil && !filter.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	members, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}

	return &Roster{
		Filter:  filter,
		Members: members,
		Stats:   stats,
		Views:   Views(stats),
	}, nil
}
