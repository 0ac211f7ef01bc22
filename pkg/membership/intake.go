package membership

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/membership-slim/pkg/domain"
)

// ApplicationInput is a membership application submitted through the full form.
type ApplicationInput struct {
	Name            string
	Phone           string
	Email           string
	LinkedInProfile string
	AgreedToTerms   bool
	JoinMailingList bool
}

// ValidateApplication checks an application and returns the cleaned input.
// The error is a *ValidationError listing every failing field.
func (s *Service) ValidateApplication(in ApplicationInput) (ApplicationInput, error) {
	out := ApplicationInput{
		Name:            CleanText(in.Name),
		Phone:           CleanText(in.Phone),
		Email:           NormalizeEmail(in.Email),
		LinkedInProfile: CleanText(in.LinkedInProfile),
		AgreedToTerms:   in.AgreedToTerms,
		JoinMailingList: in.JoinMailingList,
	}

	verr := &ValidationError{}
	if err := validateName(out.Name); err != nil {
		verr.add("name", err.Error())
	}
	if err := validatePhone(out.Phone); err != nil {
		verr.add("phone", err.Error())
	}
	if err := ValidateEmail(in.Email, s.blockDisposable); err != nil {
		verr.add("email", err.Error())
	}
	if out.LinkedInProfile != "" {
		if err := validateProfileURL(out.LinkedInProfile); err != nil {
			verr.add("linkedin_profile", err.Error())
		}
	}
	if !out.AgreedToTerms {
		verr.add("agreed_to_terms", "you must agree to the terms and conditions")
	}

	return out, verr.orNil()
}

// SubmitApplication validates an application and stores it as a pending member.
// A second application for the same email fails with domain.ErrMemberAlreadyExists.
func (s *Service) SubmitApplication(ctx context.Context, in ApplicationInput) (*domain.Member, error) {
	clean, err := s.ValidateApplication(in)
	if err != nil {
		return nil, err
	}

	var profile *string
	if clean.LinkedInProfile != "" {
		profile = &clean.LinkedInProfile
	}

	return s.create(ctx, &domain.Member{
		Name:            clean.Name,
		Email:           clean.Email,
		Phone:           clean.Phone,
		LinkedInProfile: profile,
		AgreedToTerms:   true,
		JoinMailingList: clean.JoinMailingList,
	}, "form")
}

// SubmitQuickJoin creates a pending member from a signed-in visitor's profile.
// Terms and mailing list are implicitly accepted. A missing or invalid profile
// name falls back to the email local part, which must itself be a valid name.
func (s *Service) SubmitQuickJoin(ctx context.Context, principal *domain.Principal) (*domain.Member, error) {
	if !principal.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}

	if err := ValidateEmail(principal.Email, s.blockDisposable); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"email": err.Error()}}
	}
	email := NormalizeEmail(principal.Email)

	name := CleanText(principal.Name)
	if validateName(name) != nil {
		name = emailLocalPart(email)
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = strings.TrimSpace(string(r[:maxNameLength]))
	}
	if err := validateName(name); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"name": err.Error()}}
	}

	return s.create(ctx, &domain.Member{
		Name:            name,
		Email:           email,
		Phone:           CleanText(principal.Phone),
		AgreedToTerms:   true,
		JoinMailingList: true,
	}, "quick_join")
}

// create assigns identity and initial state, then inserts exactly one row.
func (s *Service) create(ctx context.Context, member *domain.Member, channel string) (*domain.Member, error) {
	now := s.now()
	member.ID = uuid.New()
	member.Status = domain.MemberStatusPending
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := s.store.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("membership application received",
		"member_id", member.ID,
		"channel", channel,
	)

	if s.notifier != nil {
		if err := s.notifier.ApplicationReceived(ctx, member); err != nil {
			s.logger.Warn("failed to send application confirmation", "error", err, "member_id", member.ID)
		}
	}

	return member, nil
}
