package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
)

// DoctorService is the authenticated query client for the doctor resource
// group. Assigning a doctor to clinics also invalidates Clinics: the
// clinic detail view lists its doctors.
type DoctorService struct {
	api    *api.Client
	cache  *query.Store
	logger *slog.Logger
}

// NewDoctorService creates a new doctor service
func NewDoctorService(client *api.Client, cache *query.Store, logger *slog.Logger) *DoctorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DoctorService{api: client, cache: cache, logger: logger}
}

// List returns one page of doctors, served from cache when fresh.
func (s *DoctorService) List(ctx context.Context, params api.ListParams) (*domain.Page[domain.Doctor], error) {
	key := query.NewKey("doctors.list", params)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagDoctors}, func(ctx context.Context) (*domain.Page[domain.Doctor], error) {
		return s.api.ListDoctors(ctx, params)
	})
}

// Get returns a single doctor by id.
func (s *DoctorService) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	key := query.NewKey("doctors.get", id)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagDoctors}, func(ctx context.Context) (*domain.Doctor, error) {
		return s.api.GetDoctor(ctx, id)
	})
}

// Stats returns the dashboard counters for doctors.
func (s *DoctorService) Stats(ctx context.Context) (*domain.DoctorStats, error) {
	key := query.NewKey("doctors.stats", nil)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagDoctors}, func(ctx context.Context) (*domain.DoctorStats, error) {
		return s.api.GetDoctorStats(ctx)
	})
}

// Create creates a doctor and invalidates cached doctor reads.
func (s *DoctorService) Create(ctx context.Context, input api.DoctorInput) (*domain.Doctor, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.Doctor, error) {
		return s.api.CreateDoctor(ctx, input)
	}, query.TagDoctors)
}

// AssignClinics replaces the doctor's clinic assignments.
func (s *DoctorService) AssignClinics(ctx context.Context, id string, clinicIDs []string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.AssignDoctorClinics(ctx, id, clinicIDs)
	}, query.TagDoctors, query.TagClinics)
	return err
}

// Update updates a doctor and invalidates cached doctor reads.
func (s *DoctorService) Update(ctx context.Context, id string, input api.DoctorInput) (*domain.Doctor, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.Doctor, error) {
		return s.api.UpdateDoctor(ctx, id, input)
	}, query.TagDoctors)
}

// Delete deletes a doctor and invalidates cached doctor reads.
func (s *DoctorService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.DeleteDoctor(ctx, id)
	}, query.TagDoctors)
	return err
}

// SubscribeList retains the doctor list entry while a view renders it.
func (s *DoctorService) SubscribeList(params api.ListParams) func() {
	return s.cache.Subscribe(query.NewKey("doctors.list", params))
}
