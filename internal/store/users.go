package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, "SELECT id, email, name, sort_order, created_at FROM user WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListPartners returns every sharing relation pointed at the given user.
// Filtering on the consent flags is left to the caller.
func (s *Store) ListPartners(ctx context.Context, userID string) ([]Partner, error) {
	var partners []Partner
	query := "SELECT shared_by_id, shared_with_id, shared_by, in_timeline FROM partner WHERE shared_with_id = ?"
	if err := s.db.SelectContext(ctx, &partners, query, userID); err != nil {
		return nil, err
	}
	return partners, nil
}
