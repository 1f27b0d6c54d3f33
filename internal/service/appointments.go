package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
)

// AppointmentService is the authenticated query client for the admin
// appointment list and dashboard.
type AppointmentService struct {
	api    *api.Client
	cache  *query.Store
	logger *slog.Logger
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(client *api.Client, cache *query.Store, logger *slog.Logger) *AppointmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppointmentService{api: client, cache: cache, logger: logger}
}

// Dashboard returns the appointment counters.
func (s *AppointmentService) Dashboard(ctx context.Context) (*domain.AppointmentDashboard, error) {
	key := query.NewKey("appointments.dashboard", nil)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagAppointments}, func(ctx context.Context) (*domain.AppointmentDashboard, error) {
		return s.api.GetAppointmentDashboard(ctx)
	})
}

// List returns one page of appointments matching the filters.
func (s *AppointmentService) List(ctx context.Context, params api.AppointmentListParams) (*domain.Page[domain.Appointment], error) {
	key := query.NewKey("appointments.list", params)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagAppointments}, func(ctx context.Context) (*domain.Page[domain.Appointment], error) {
		return s.api.ListAppointments(ctx, params)
	})
}

// UpdateStatus transitions an appointment and invalidates every cached
// appointment read. When the response names the patient, that patient's
// appointment list is invalidated too.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status string) (*domain.Appointment, error) {
	apt, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.Appointment, error) {
		return s.api.UpdateAppointmentStatus(ctx, id, status)
	}, query.TagAppointments)
	if err != nil {
		return nil, err
	}
	if apt.Patient != nil && apt.Patient.ID != "" {
		s.cache.Invalidate(query.PatientTag(apt.Patient.ID))
	}
	return apt, nil
}

// SubscribeList retains the appointment list entry while a view renders it.
func (s *AppointmentService) SubscribeList(params api.AppointmentListParams) func() {
	return s.cache.Subscribe(query.NewKey("appointments.list", params))
}
