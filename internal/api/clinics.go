package api

import (
	"context"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// ClinicInput is the write payload for clinic create/update. Password is
// optional on update (partial password change is allowed).
type ClinicInput struct {
	Email        string                     `json:"email"`
	Password     string                     `json:"password,omitempty"`
	Phone        string                     `json:"phone,omitempty"`
	IsActive     *bool                      `json:"isActive,omitempty"`
	Translations []domain.ClinicTranslation `json:"translations,omitempty"`
	Locations    []domain.ClinicLocation    `json:"locations,omitempty"`
}

// ListClinics returns one page of clinics.
func (c *Client) ListClinics(ctx context.Context, params ListParams) (*domain.Page[domain.Clinic], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/clinic", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.Clinic](body)
}

// GetClinic returns a single clinic by id.
func (c *Client) GetClinic(ctx context.Context, id string) (*domain.Clinic, error) {
	var clinic domain.Clinic
	if err := c.get(ctx, "/admin/clinic/"+id, nil, &clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

// CreateClinic creates a clinic with its translations and locations.
func (c *Client) CreateClinic(ctx context.Context, input ClinicInput) (*domain.Clinic, error) {
	var clinic domain.Clinic
	if err := c.send(ctx, http.MethodPost, "/admin/clinic", input, &clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

// UpdateClinic updates a clinic.
func (c *Client) UpdateClinic(ctx context.Context, id string, input ClinicInput) (*domain.Clinic, error) {
	var clinic domain.Clinic
	if err := c.send(ctx, http.MethodPut, "/admin/clinic/"+id, input, &clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

// DeleteClinic deletes a clinic.
func (c *Client) DeleteClinic(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/clinic/"+id, nil, nil)
}
