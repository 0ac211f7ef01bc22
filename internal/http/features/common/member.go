package common

import (
	"time"

	"github.com/tendant/membership-slim/pkg/domain"
)

// MemberResponse is the JSON representation of a member.
// AllowedStatuses lists the statuses an admin may move the member to.
type MemberResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone"`
	LinkedInProfile *string               `json:"linkedin_profile,omitempty"`
	Status          domain.MemberStatus   `json:"status"`
	AgreedToTerms   bool                  `json:"agreed_to_terms"`
	JoinMailingList bool                  `json:"join_mailing_list"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	AllowedStatuses []domain.MemberStatus `json:"allowed_statuses"`
}

// NewMemberResponse converts a member for output.
func NewMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:              m.ID.String(),
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		LinkedInProfile: m.LinkedInProfile,
		Status:          m.Status,
		AgreedToTerms:   m.AgreedToTerms,
		JoinMailingList: m.JoinMailingList,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		AllowedStatuses: domain.NextStatuses(m.Status),
	}
}

// NewMemberResponses converts a slice of members, never returning nil.
func NewMemberResponses(members []*domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, NewMemberResponse(m))
	}
	return out
}
