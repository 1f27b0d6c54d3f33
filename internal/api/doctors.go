package api

import (
	"context"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// DoctorInput is the write payload for doctor create/update.
type DoctorInput struct {
	Email             string   `json:"email"`
	Password          string   `json:"password,omitempty"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Phone             string   `json:"phone,omitempty"`
	IsActive          *bool    `json:"isActive,omitempty"`
	SpecializationIDs []string `json:"specializationIds,omitempty"`
	PhotoURL          string   `json:"photoUrl,omitempty"`
}

// ListDoctors returns one page of doctors.
func (c *Client) ListDoctors(ctx context.Context, params ListParams) (*domain.Page[domain.Doctor], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/doctor", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.Doctor](body)
}

// GetDoctor returns a single doctor by id.
func (c *Client) GetDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	var doctor domain.Doctor
	if err := c.get(ctx, "/admin/doctor/"+id, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// CreateDoctor creates a doctor profile.
func (c *Client) CreateDoctor(ctx context.Context, input DoctorInput) (*domain.Doctor, error) {
	var doctor domain.Doctor
	if err := c.send(ctx, http.MethodPost, "/admin/doctor", input, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// AssignDoctorClinics replaces the set of clinics a doctor works at.
func (c *Client) AssignDoctorClinics(ctx context.Context, id string, clinicIDs []string) error {
	body := map[string][]string{"clinicIds": clinicIDs}
	return c.send(ctx, http.MethodPost, "/admin/doctor/"+id+"/clinics", body, nil)
}

// UpdateDoctor updates a doctor profile.
func (c *Client) UpdateDoctor(ctx context.Context, id string, input DoctorInput) (*domain.Doctor, error) {
	var doctor domain.Doctor
	if err := c.send(ctx, http.MethodPut, "/admin/doctor/"+id, input, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// DeleteDoctor deletes a doctor profile.
func (c *Client) DeleteDoctor(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/doctor/"+id, nil, nil)
}

// GetDoctorStats returns the dashboard counters for doctors.
func (c *Client) GetDoctorStats(ctx context.Context) (*domain.DoctorStats, error) {
	var stats domain.DoctorStats
	if err := c.get(ctx, "/admin/stats/doctor", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
