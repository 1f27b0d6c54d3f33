package api

import (
	"context"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// ExceptionInput is the write payload for schedule exceptions. ScheduleID
// is optional: a doctor-wide exception omits it from the request body.
type ExceptionInput struct {
	DoctorID    string `json:"doctorId"`
	ScheduleID  string `json:"scheduleId,omitempty"`
	Date        string `json:"date"` // YYYY-MM-DD
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
	Reason      string `json:"reason,omitempty"`
}

// wireFormat returns a copy with times in the wire format.
func (in ExceptionInput) wireFormat() ExceptionInput {
	in.StartTime = FormatClockTime(in.StartTime)
	in.EndTime = FormatClockTime(in.EndTime)
	return in
}

// ListScheduleExceptions returns one page of schedule exceptions.
func (c *Client) ListScheduleExceptions(ctx context.Context, params ListParams) (*domain.Page[domain.ScheduleException], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/doctor-schedule/exceptions/all", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.ScheduleException](body)
}

// GetScheduleException returns a single exception by id.
func (c *Client) GetScheduleException(ctx context.Context, id string) (*domain.ScheduleException, error) {
	var exc domain.ScheduleException
	if err := c.get(ctx, "/admin/doctor-schedule/exceptions/"+id, nil, &exc); err != nil {
		return nil, err
	}
	return &exc, nil
}

// CreateScheduleException creates a dated schedule override.
func (c *Client) CreateScheduleException(ctx context.Context, input ExceptionInput) (*domain.ScheduleException, error) {
	var exc domain.ScheduleException
	if err := c.send(ctx, http.MethodPost, "/admin/doctor-schedule/exceptions", input.wireFormat(), &exc); err != nil {
		return nil, err
	}
	return &exc, nil
}

// UpdateScheduleException updates a schedule override.
func (c *Client) UpdateScheduleException(ctx context.Context, id string, input ExceptionInput) (*domain.ScheduleException, error) {
	var exc domain.ScheduleException
	if err := c.send(ctx, http.MethodPut, "/admin/doctor-schedule/exceptions/"+id, input.wireFormat(), &exc); err != nil {
		return nil, err
	}
	return &exc, nil
}

// DeleteScheduleException deletes a schedule override.
func (c *Client) DeleteScheduleException(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/doctor-schedule/exceptions/"+id, nil, nil)
}
