package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/membership-slim/pkg/domain"
)

// Transition is the outcome of a successful status change.
type Transition struct {
	Member *domain.Member
	From   domain.MemberStatus
	// Stats is recomputed after the write. Nil if the recount failed.
	Stats *domain.Stats
}

// Changed returns true if the status actually moved.
func (t *Transition) Changed() bool {
	return t.From != t.Member.Status
}

// SetStatus moves a member to a new status on behalf of an admin.
//
// Transitions are checked against the allow-list in domain.CanTransition.
// Setting the current status again is a no-op. The write is conditional on the
// status read here, so a concurrent decision by another admin yields
// domain.ErrStatusConflict instead of being silently overwritten. If that
// decision matches this one, the result is an unchanged transition from the
// stored status and nothing is logged or sent.
func (s *Service) SetStatus(ctx context.Context, principal *domain.Principal, id uuid.UUID, status domain.MemberStatus) (*Transition, error) {
	if !principal.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := member.Status
	if !domain.CanTransition(from, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, status)
	}

	if from != status {
		changed, err := s.store.UpdateStatus(ctx, id, from, status)
		if err != nil {
			return nil, err
		}
		if !changed {
			// Another admin already made the same decision.
			return s.unchanged(ctx, id)
		}
		member.Status = status
		member.UpdatedAt = s.now()

		s.logger.Info("member status changed",
			"member_id", id,
			"from", from,
			"to", status,
			"admin", principal.Subject,
		)

		if s.notifier != nil {
			if err := s.notifier.StatusChanged(ctx, member, from); err != nil {
				s.logger.Warn("failed to send status notification", "error", err, "member_id", id)
			}
		}
	}

	return s.transition(ctx, member, from), nil
}

// unchanged reports the stored member as a transition that moved nothing.
func (s *Service) unchanged(ctx context.Context, id uuid.UUID) (*Transition, error) {
	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, member, member.Status), nil
}

func (s *Service) transition(ctx context.Context, member *domain.Member, from domain.MemberStatus) *Transition {
	t := &Transition{Member: member, From: from}
	stats, err := s.stats(ctx)
	if err != nil {
		s.logger.Warn("failed to recompute member stats", "error", err)
	} else {
		t.Stats = &stats
	}
	return t
}
