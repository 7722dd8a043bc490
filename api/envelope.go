package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"food-marketplace-client/models"
)

// envelope is the common response body of the marketplace API
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
}

// call performs the request and insists on success:true.
func (c *Client) call(ctx context.Context, method, endpoint string, body any) (envelope, error) {
	var env envelope
	if err := c.Do(ctx, method, endpoint, body, &env); err != nil {
		return env, err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "the marketplace rejected the request"
		}
		return env, &DomainError{Message: msg}
	}
	return env, nil
}

// decodeOne decodes and validates a single entity from raw.
func decodeOne[T any](raw json.RawMessage, what string) (T, error) {
	var v T
	if isAbsent(raw) {
		return v, domainErrorf("response has no %s", what)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, domainErrorf("malformed %s in response", what)
	}
	if err := models.Validate(v); err != nil {
		return v, domainErrorf("invalid %s in response: %v", what, err)
	}
	return v, nil
}

// decodeList decodes and validates a list of entities from raw.
func decodeList[T any](raw json.RawMessage, what string) ([]T, error) {
	if isAbsent(raw) {
		return nil, domainErrorf("response has no %s list", what)
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, domainErrorf("malformed %s list in response", what)
	}
	for i := range list {
		if err := models.Validate(list[i]); err != nil {
			return nil, domainErrorf("invalid %s in response: %v", what, err)
		}
	}
	return list, nil
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// validateRequest runs the request schema's tags before anything is sent.
func validateRequest(v any) error {
	if err := models.Validate(v); err != nil {
		return NewValidationError(err)
	}
	return nil
}

func pathID(id models.ID) string {
	return url.PathEscape(id.String())
}
