package model

import "errors"

var (
	// ErrSchema marks an inbound message that does not have the credential request shape.
	ErrSchema = errors.New("invalid credential request")
	// ErrStoreInit marks a credential store that could not be constructed.
	ErrStoreInit = errors.New("credential store initialization failed")
	// ErrLookup marks a failure of the backing store during a lookup.
	ErrLookup = errors.New("credential lookup failed")
	// ErrNotFound is returned by object sources when a key does not exist.
	ErrNotFound = errors.New("not found")
)
