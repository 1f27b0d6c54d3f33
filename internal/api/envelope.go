package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/avicena/avicena/internal/domain"
)

// decodeInto unwraps the standard {"data": ...} envelope when present,
// otherwise decodes the body directly.
func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		body = envelope.Data
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodePage decodes a paginated list response. The backend uses two
// envelope shapes depending on the resource group:
//
//	{"data": [...], "pagination": {...}}
//	{"data": {"items": [...], "pagination": {...}}}
//
// Both are legitimate and both are handled here.
func decodePage[T any](body []byte) (*domain.Page[T], error) {
	var outer struct {
		Data       json.RawMessage    `json:"data"`
		Pagination *domain.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}

	page := &domain.Page[T]{}

	data := bytes.TrimSpace(outer.Data)
	switch {
	case len(data) > 0 && data[0] == '[':
		// Flat shape: items alongside a top-level pagination block
		if err := json.Unmarshal(data, &page.Items); err != nil {
			return nil, fmt.Errorf("failed to parse list items: %w", err)
		}
		if outer.Pagination != nil {
			page.Pagination = *outer.Pagination
		}

	case len(data) > 0 && data[0] == '{':
		// Nested shape: data wraps items + pagination
		var inner struct {
			Items      []T               `json:"items"`
			Pagination domain.Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("failed to parse list items: %w", err)
		}
		page.Items = inner.Items
		page.Pagination = inner.Pagination

	default:
		return nil, fmt.Errorf("unrecognized list response shape")
	}

	return page, nil
}
