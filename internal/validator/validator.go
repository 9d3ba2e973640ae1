// Package validator checks the structure of inbound credential requests.
package validator

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dtroode/credcheck/internal/model"
)

const (
	fieldUsername = "username"
	fieldPassword = "password"
)

// Validate parses raw as a credential request. The payload must be a JSON object
// holding exactly the string fields "username" and "password".
// Every rejection wraps model.ErrSchema.
func Validate(raw []byte) (model.CredentialRequest, error) {
	if !gjson.ValidBytes(raw) {
		return model.CredentialRequest{}, fmt.Errorf("%w: malformed json", model.ErrSchema)
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return model.CredentialRequest{}, fmt.Errorf("%w: payload is not an object", model.ErrSchema)
	}

	var (
		req                      model.CredentialRequest
		hasUsername, hasPassword bool
		err                      error
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		var seen *bool
		var dst *string
		switch key.Str {
		case fieldUsername:
			seen, dst = &hasUsername, &req.Username
		case fieldPassword:
			seen, dst = &hasPassword, &req.Password
		default:
			err = fmt.Errorf("%w: unexpected field %q", model.ErrSchema, key.Str)
			return false
		}
		if *seen {
			err = fmt.Errorf("%w: duplicate field %q", model.ErrSchema, key.Str)
			return false
		}
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: field %q must be a string", model.ErrSchema, key.Str)
			return false
		}
		*seen = true
		*dst = value.Str
		return true
	})
	if err != nil {
		return model.CredentialRequest{}, err
	}

	if !hasUsername {
		return model.CredentialRequest{}, fmt.Errorf("%w: missing field %q", model.ErrSchema, fieldUsername)
	}
	if !hasPassword {
		return model.CredentialRequest{}, fmt.Errorf("%w: missing field %q", model.ErrSchema, fieldPassword)
	}

	return req, nil
}
