package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/dtroode/credcheck/internal/model"
)

type rawRecord struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// Decode reads a JSON array of {"username","password"} objects.
// Every record must carry both fields as strings; unknown fields are ignored.
func Decode(r io.Reader) ([]model.UserRecord, error) {
	dec := json.NewDecoder(r)

	var raw *[]rawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user records: %w", model.ErrStoreInit, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after user records", model.ErrStoreInit)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: user records must be a json array", model.ErrStoreInit)
	}

	records := make([]model.UserRecord, 0, len(*raw))
	for i, rec := range *raw {
		if rec.Username == nil || rec.Password == nil {
			return nil, fmt.Errorf("%w: record %d must have username and password", model.ErrStoreInit, i)
		}
		records = append(records, model.UserRecord{Username: *rec.Username, Password: *rec.Password})
	}

	return records, nil
}

// LoadFile builds a Store from a local JSON file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open user records file: %w", model.ErrStoreInit, err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return NewStore(records), nil
}

// LoadObject builds a Store from a JSON object held in an object source.
func LoadObject(ctx context.Context, src model.ObjectSource, key string) (*Store, error) {
	exists, err := src.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat user records object: %w", model.ErrStoreInit, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user records object %q: %w", model.ErrStoreInit, key, model.ErrNotFound)
	}

	rc, err := src.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download user records object: %w", model.ErrStoreInit, err)
	}
	defer rc.Close()

	records, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to load object %s: %w", key, err)
	}

	return NewStore(records), nil
}
