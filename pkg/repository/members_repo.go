package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/membership-slim/pkg/domain"
)

// MembersRepository handles member persistence.
type MembersRepository struct {
	db *sql.DB
}

// NewMembersRepository creates a new members repository.
func NewMembersRepository(db *sql.DB) *MembersRepository {
	return &MembersRepository{db: db}
}

const memberColumns = `id, name, email, phone, linkedin_profile, status, agreed_to_terms,
		       join_mailing_list, created_at, updated_at`

// Create inserts a new member.
func (r *MembersRepository) Create(ctx context.Context, member *domain.Member) error {
	return r.CreateTx(ctx, r.db, member)
}

// CreateTx inserts a new member using q.
// A duplicate email returns domain.ErrMemberAlreadyExists.
func (r *MembersRepository) CreateTx(ctx context.Context, q Querier, member *domain.Member) error {
	query := `
		INSERT INTO members (id, name, email, phone, linkedin_profile, status, agreed_to_terms,
		                     join_mailing_list, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Email,
		member.Phone,
		member.LinkedInProfile,
		member.Status,
		member.AgreedToTerms,
		member.JoinMailingList,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrMemberAlreadyExists
	}
	return storeError(err)
}

// GetByID retrieves a member by ID.
func (r *MembersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}
	return member, nil
}

// ExistsByEmail checks if a member exists for the given normalized email.
func (r *MembersRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE LOWER(email) = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, storeError(err)
}

// List returns members newest first, optionally narrowed to one status.
func (r *MembersRepository) List(ctx context.Context, status *domain.MemberStatus) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, storeError(err)
		}
		members = append(members, member)
	}

	return members, storeError(rows.Err())
}

// Stats returns per-status counts and the number of members created at or after monthStart.
func (r *MembersRepository) Stats(ctx context.Context, monthStart time.Time) (domain.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'banned'),
			COUNT(*) FILTER (WHERE created_at >= $1)
		FROM members
	`
	var stats domain.Stats
	err := r.db.QueryRowContext(ctx, query, monthStart).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
		&stats.Banned,
		&stats.ThisMonth,
	)
	if err != nil {
		return domain.Stats{}, storeError(err)
	}
	return stats, nil
}

// UpdateStatus moves a member from one status to another and reports whether
// this call made the write.
// The write only applies while the stored status still equals from. If another
// writer got there first the call fails with domain.ErrStatusConflict, unless
// the stored status already equals to, in which case it returns false.
func (r *MembersRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.MemberStatus) (bool, error) {
	query := `
		UPDATE members
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, storeError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, storeError(err)
	}
	if rows > 0 {
		return true, nil
	}

	var current domain.MemberStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM members WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrMemberNotFound
	}
	if err != nil {
		return false, storeError(err)
	}
	if current == to {
		return false, nil
	}
	return false, domain.ErrStatusConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	member := &domain.Member{}
	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Email,
		&member.Phone,
		&member.LinkedInProfile,
		&member.Status,
		&member.AgreedToTerms,
		&member.JoinMailingList,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return member, nil
}
