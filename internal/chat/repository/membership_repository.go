package repository

import (
	"context"
	"errors"

	"messaging_service/internal/chat/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// MembershipRepository definition user and group membership lookups
type MembershipRepository interface {
	FindUser(ctx context.Context, id uint) (*domain.User, error)
	ListGroupIDsForUser(ctx context.Context, userID uint) ([]uint, error)
	ListMemberIDs(ctx context.Context, groupID uint) ([]uint, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
}

type membershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository create a MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) FindUser(ctx context.Context, id uint) (*domain.User, error) {
	row := r.db.QueryRow(ctx, "SELECT id, username, created_at FROM users WHERE id = $1", id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("user", id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *membershipRepository) ListGroupIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	return r.queryIDs(ctx, "SELECT group_id FROM group_members WHERE user_id = $1 ORDER BY group_id", userID)
}

func (r *membershipRepository) ListMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	return r.queryIDs(ctx, "SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id", groupID)
}

func (r *membershipRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)",
		groupID, userID,
	).Scan(&ok)
	return ok, err
}

func (r *membershipRepository) queryIDs(ctx context.Context, query string, args ...interface{}) ([]uint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uint{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, rows.Err()
}
