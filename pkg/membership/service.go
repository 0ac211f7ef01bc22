// Package membership implements the membership application workflow:
// intake of new applications, moderation of their status by admins, and
// the read side used by the public "already a member" check and the admin roster.
package membership

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/membership-slim/pkg/domain"
)

// Store persists members. Implemented by repository.MembersRepository.
type Store interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, status *domain.MemberStatus) ([]*domain.Member, error)
	Stats(ctx context.Context, monthStart time.Time) (domain.Stats, error)
	// UpdateStatus reports false when the member already held to and nothing was written.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.MemberStatus) (bool, error)
}

// Notifier is told about workflow events. Failures never fail the request.
type Notifier interface {
	ApplicationReceived(ctx context.Context, member *domain.Member) error
	StatusChanged(ctx context.Context, member *domain.Member, from domain.MemberStatus) error
}

// Config holds workflow options.
type Config struct {
	Logger               *slog.Logger
	BlockDisposableEmail bool
	// Now returns the current time. The month boundary for statistics is taken in its location.
	Now func() time.Time
}

// Service runs the membership workflow.
type Service struct {
	store           Store
	notifier        Notifier
	logger          *slog.Logger
	now             func() time.Time
	blockDisposable bool
}

// NewService creates a new membership service. notifier may be nil.
func NewService(cfg Config, store Store, notifier Notifier) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:           store,
		notifier:        notifier,
		logger:          cfg.Logger,
		now:             cfg.Now,
		blockDisposable: cfg.BlockDisposableEmail,
	}
}

func (s *Service) stats(ctx context.Context) (domain.Stats, error) {
	return s.store.Stats(ctx, domain.StartOfMonth(s.now()))
}
