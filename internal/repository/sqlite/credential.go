package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/credcheck/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

const authenticateQuery = `SELECT 1 FROM users
			  WHERE username = ? COLLATE BINARY AND password = ? COLLATE BINARY
			  LIMIT 1`

// CredentialRepository checks credentials against the users table.
type CredentialRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewCredentialRepository creates a repository over db. A positive timeout bounds each lookup.
func NewCredentialRepository(db *sql.DB, timeout time.Duration) *CredentialRepository {
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
	err := r.db.QueryRowContext(ctx, authenticateQuery, req.Username, req.Password).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AuthInvalid, nil
		}
		return model.AuthInvalid, fmt.Errorf("%w: failed to query users: %w", model.ErrLookup, err)
	}

	return model.AuthValid, nil
}
