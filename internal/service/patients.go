package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
)

// PatientService is the authenticated query client for patient records.
// A patient's appointment list carries a per-patient sub-tag alongside
// the broad tag, so related mutations can refetch just that patient.
type PatientService struct {
	api    *api.Client
	cache  *query.Store
	logger *slog.Logger
}

// NewPatientService creates a new patient service
func NewPatientService(client *api.Client, cache *query.Store, logger *slog.Logger) *PatientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatientService{api: client, cache: cache, logger: logger}
}

// Summary returns the patient counters.
func (s *PatientService) Summary(ctx context.Context) (*domain.PatientSummary, error) {
	key := query.NewKey("patients.summary", nil)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagPatients}, func(ctx context.Context) (*domain.PatientSummary, error) {
		return s.api.GetPatientSummary(ctx)
	})
}

// List returns one page of patients.
func (s *PatientService) List(ctx context.Context, params api.ListParams) (*domain.Page[domain.Patient], error) {
	key := query.NewKey("patients.list", params)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagPatients}, func(ctx context.Context) (*domain.Page[domain.Patient], error) {
		return s.api.ListPatients(ctx, params)
	})
}

// Appointments returns one page of a patient's appointments.
func (s *PatientService) Appointments(ctx context.Context, patientID string, params api.ListParams) (*domain.Page[domain.Appointment], error) {
	key := query.NewKey("patients.appointments", struct {
		PatientID string
		api.ListParams
	}{patientID, params})
	tags := []query.Tag{query.TagPatientAppointments, query.PatientTag(patientID)}
	return query.Fetch(ctx, s.cache, key, tags, func(ctx context.Context) (*domain.Page[domain.Appointment], error) {
		return s.api.ListPatientAppointments(ctx, patientID, params)
	})
}

// SubscribeList retains the patient list entry while a view renders it.
func (s *PatientService) SubscribeList(params api.ListParams) func() {
	return s.cache.Subscribe(query.NewKey("patients.list", params))
}
