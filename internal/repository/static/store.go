// Package static implements a credential store over an in-memory list of
// records loaded once at startup.
package static

import (
	"context"

	"github.com/dtroode/credcheck/internal/model"
)

var _ model.CredentialStore = (*Store)(nil)

// Store scans an immutable, ordered list of user records.
type Store struct {
	records []model.UserRecord
}

// NewStore creates a Store holding a private copy of records in the given order.
func NewStore(records []model.UserRecord) *Store {
	owned := make([]model.UserRecord, len(records))
	copy(owned, records)
	return &Store{records: owned}
}

// Authenticate scans the records in insertion order and reports AuthValid on the
// first exact match. It never returns an error.
func (s *Store) Authenticate(_ context.Context, req model.CredentialRequest) (model.AuthResult, error) {
	for _, rec := range s.records {
		if rec.Matches(req) {
			return model.AuthValid, nil
		}
	}
	return model.AuthInvalid, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}
