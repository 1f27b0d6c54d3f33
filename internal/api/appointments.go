package api

import (
	"context"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// GetAppointmentDashboard returns the appointment counters.
func (c *Client) GetAppointmentDashboard(ctx context.Context) (*domain.AppointmentDashboard, error) {
	var dash domain.AppointmentDashboard
	if err := c.get(ctx, "/admin/doctor-appointments/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// ListAppointments returns one page of appointments matching the filters.
func (c *Client) ListAppointments(ctx context.Context, params AppointmentListParams) (*domain.Page[domain.Appointment], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/doctor-appointments/", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.Appointment](body)
}

// UpdateAppointmentStatus transitions an appointment to the given status.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id, status string) (*domain.Appointment, error) {
	body := map[string]string{"status": status}
	var apt domain.Appointment
	if err := c.send(ctx, http.MethodPatch, "/admin/doctor-appointments/"+id+"/status", body, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}
