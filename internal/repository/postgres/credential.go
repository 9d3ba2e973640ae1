package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/credcheck/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

// COLLATE "C" keeps the comparison byte-exact even when the column uses a
// case-insensitive collation.
const authenticateQuery = `SELECT 1 FROM users
			  WHERE username = $1 COLLATE "C" AND password = $2 COLLATE "C"
			  LIMIT 1`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialRepository checks credentials against the users table.
type CredentialRepository struct {
	db      rowQuerier
	timeout time.Duration
}

// NewCredentialRepository creates a repository over db. A positive timeout bounds each lookup.
func NewCredentialRepository(db *Connection, timeout time.Duration) *CredentialRepository {
	return newCredentialRepository(db, timeout)
}

func newCredentialRepository(db rowQuerier, timeout time.Duration) *CredentialRepository {
	return &CredentialRepository{
		db:      db,
		timeout: timeout,
	}
}

func (r *CredentialRepository) Authenticate(ctx context.Context, req model.CredentialRequest) (model.AuthResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var found int
	err := r.db.QueryRow(ctx, authenticateQuery, req.Username, req.Password).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuthInvalid, nil
		}
		return model.AuthInvalid, fmt.Errorf("%w: failed to query users: %w", model.ErrLookup, err)
	}

	return model.AuthValid, nil
}
