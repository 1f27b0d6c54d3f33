package api

import (
	"context"
	"net/http"
	"time"

	"github.com/avicena/avicena/internal/domain"
)

// ScheduleInput is the write payload for schedule create/update. Times may
// be given as 24-hour "HH:MM" strings; they are converted to the wire
// format ("9:00 AM") before sending.
type ScheduleInput struct {
	DoctorID  string `json:"doctorId"`
	ClinicID  string `json:"clinicId,omitempty"`
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsOnline  *bool  `json:"isOnline,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// wireFormat returns a copy with StartTime/EndTime in the wire format.
func (in ScheduleInput) wireFormat() ScheduleInput {
	in.StartTime = FormatClockTime(in.StartTime)
	in.EndTime = FormatClockTime(in.EndTime)
	return in
}

// FormatClockTime converts a 24-hour "HH:MM" clock string to the
// "H:MM AM/PM" format the schedule endpoints expect ("09:00" -> "9:00 AM",
// "17:30" -> "5:30 PM"). Values already in wire format pass through.
func FormatClockTime(s string) string {
	if s == "" {
		return s
	}
	if t, err := time.Parse("3:04 PM", s); err == nil {
		return t.Format("3:04 PM")
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("3:04 PM")
}

// ListSchedules returns one page of doctor schedules.
func (c *Client) ListSchedules(ctx context.Context, params ScheduleListParams) (*domain.Page[domain.DoctorSchedule], error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/doctor-schedule", params.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[domain.DoctorSchedule](body)
}

// GetSchedule returns a single schedule by id.
func (c *Client) GetSchedule(ctx context.Context, id string) (*domain.DoctorSchedule, error) {
	var schedule domain.DoctorSchedule
	if err := c.get(ctx, "/admin/doctor-schedule/"+id, nil, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// CreateSchedule creates a weekly schedule slot.
func (c *Client) CreateSchedule(ctx context.Context, input ScheduleInput) (*domain.DoctorSchedule, error) {
	var schedule domain.DoctorSchedule
	if err := c.send(ctx, http.MethodPost, "/admin/doctor-schedule", input.wireFormat(), &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// UpdateSchedule updates a schedule slot.
func (c *Client) UpdateSchedule(ctx context.Context, id string, input ScheduleInput) (*domain.DoctorSchedule, error) {
	var schedule domain.DoctorSchedule
	if err := c.send(ctx, http.MethodPut, "/admin/doctor-schedule/"+id, input.wireFormat(), &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// DeleteSchedule deletes a schedule slot.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/doctor-schedule/"+id, nil, nil)
}
