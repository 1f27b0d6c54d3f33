package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
)

// ClinicService is the authenticated query client for the clinic resource
// group: every read is tagged Clinics, every write invalidates it.
type ClinicService struct {
	api    *api.Client
	cache  *query.Store
	logger *slog.Logger
}

// NewClinicService creates a new clinic service
func NewClinicService(client *api.Client, cache *query.Store, logger *slog.Logger) *ClinicService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClinicService{api: client, cache: cache, logger: logger}
}

// List returns one page of clinics, served from cache when fresh.
func (s *ClinicService) List(ctx context.Context, params api.ListParams) (*domain.Page[domain.Clinic], error) {
	key := query.NewKey("clinics.list", params)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagClinics}, func(ctx context.Context) (*domain.Page[domain.Clinic], error) {
		return s.api.ListClinics(ctx, params)
	})
}

// Get returns a single clinic by id.
func (s *ClinicService) Get(ctx context.Context, id string) (*domain.Clinic, error) {
	key := query.NewKey("clinics.get", id)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagClinics}, func(ctx context.Context) (*domain.Clinic, error) {
		return s.api.GetClinic(ctx, id)
	})
}

// Create creates a clinic and invalidates cached clinic reads.
func (s *ClinicService) Create(ctx context.Context, input api.ClinicInput) (*domain.Clinic, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.Clinic, error) {
		return s.api.CreateClinic(ctx, input)
	}, query.TagClinics)
}

// Update updates a clinic and invalidates cached clinic reads.
func (s *ClinicService) Update(ctx context.Context, id string, input api.ClinicInput) (*domain.Clinic, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.Clinic, error) {
		return s.api.UpdateClinic(ctx, id, input)
	}, query.TagClinics)
}

// Delete deletes a clinic and invalidates cached clinic reads.
func (s *ClinicService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.DeleteClinic(ctx, id)
	}, query.TagClinics)
	return err
}

// SubscribeList marks the clinic list for key retention while a view
// renders it; the returned release drops the subscription on unmount.
func (s *ClinicService) SubscribeList(params api.ListParams) func() {
	return s.cache.Subscribe(query.NewKey("clinics.list", params))
}
