package api

import (
	"context"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// GetPatientSummary returns the patient counters.
func (c *Client) GetPatientSummary(ctx context.Context) (*domain.PatientSummary, error) {
	var summary domain.PatientSummary
	if err := c.get(ctx, "/admin/doctor-patients/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListPatients returns one page of patients.
func (c *Client) ListPatients(ctx context.Context, params ListParams) (*domain.Page[domain.Patient], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/doctor-patients/", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.Patient](body)
}

// ListPatientAppointments returns one page of a patient's appointments.
func (c *Client) ListPatientAppointments(ctx context.Context, patientID string, params ListParams) (*domain.Page[domain.Appointment], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/doctor-patients/"+patientID+"/appointments", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.Appointment](body)
}
