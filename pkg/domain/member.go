package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemberStatus represents the moderation stage of a member.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusRejected MemberStatus = "rejected"
	MemberStatusBanned   MemberStatus = "banned"
)

// MemberStatuses lists every status in roster order.
var MemberStatuses = []MemberStatus{
	MemberStatusPending,
	MemberStatusApproved,
	MemberStatusRejected,
	MemberStatusBanned,
}

// Valid returns true if s is one of the known statuses.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusPending, MemberStatusApproved, MemberStatusRejected, MemberStatusBanned:
		return true
	}
	return false
}

// ParseMemberStatus parses a status tag, ignoring case and surrounding whitespace.
func ParseMemberStatus(value string) (MemberStatus, error) {
	s := MemberStatus(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return s, nil
}

// Member represents a person who has submitted a membership application.
type Member struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           string
	LinkedInProfile *string
	Status          MemberStatus
	AgreedToTerms   bool
	JoinMailingList bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Stats holds aggregate counts over the member table.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Banned    int `json:"banned"`
	ThisMonth int `json:"this_month"`
}

// Count returns the number of members with the given status.
func (s Stats) Count(status MemberStatus) int {
	switch status {
	case MemberStatusPending:
		return s.Pending
	case MemberStatusApproved:
		return s.Approved
	case MemberStatusRejected:
		return s.Rejected
	case MemberStatusBanned:
		return s.Banned
	}
	return 0
}

// StartOfMonth returns midnight on the first day of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
