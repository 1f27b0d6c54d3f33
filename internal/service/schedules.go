package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
)

// ScheduleService is the authenticated query client for doctor schedules
// and their dated exceptions. Exception writes invalidate both tags: an
// exception changes what the schedule views should display.
type ScheduleService struct {
	api    *api.Client
	cache  *query.Store
	logger *slog.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(client *api.Client, cache *query.Store, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{api: client, cache: cache, logger: logger}
}

// List returns one page of schedules matching the filters.
func (s *ScheduleService) List(ctx context.Context, params api.ScheduleListParams) (*domain.Page[domain.DoctorSchedule], error) {
	key := query.NewKey("schedules.list", params)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagSchedules}, func(ctx context.Context) (*domain.Page[domain.DoctorSchedule], error) {
		return s.api.ListSchedules(ctx, params)
	})
}

// Get returns a single schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*domain.DoctorSchedule, error) {
	key := query.NewKey("schedules.get", id)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagSchedules}, func(ctx context.Context) (*domain.DoctorSchedule, error) {
		return s.api.GetSchedule(ctx, id)
	})
}

// Create creates a schedule slot.
func (s *ScheduleService) Create(ctx context.Context, input api.ScheduleInput) (*domain.DoctorSchedule, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.DoctorSchedule, error) {
		return s.api.CreateSchedule(ctx, input)
	}, query.TagSchedules)
}

// Update updates a schedule slot.
func (s *ScheduleService) Update(ctx context.Context, id string, input api.ScheduleInput) (*domain.DoctorSchedule, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.DoctorSchedule, error) {
		return s.api.UpdateSchedule(ctx, id, input)
	}, query.TagSchedules)
}

// Delete deletes a schedule slot.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.DeleteSchedule(ctx, id)
	}, query.TagSchedules)
	return err
}

// ListExceptions returns one page of schedule exceptions.
func (s *ScheduleService) ListExceptions(ctx context.Context, params api.ListParams) (*domain.Page[domain.ScheduleException], error) {
	key := query.NewKey("exceptions.list", params)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagScheduleExceptions}, func(ctx context.Context) (*domain.Page[domain.ScheduleException], error) {
		return s.api.ListScheduleExceptions(ctx, params)
	})
}

// GetException returns a single exception by id.
func (s *ScheduleService) GetException(ctx context.Context, id string) (*domain.ScheduleException, error) {
	key := query.NewKey("exceptions.get", id)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagScheduleExceptions}, func(ctx context.Context) (*domain.ScheduleException, error) {
		return s.api.GetScheduleException(ctx, id)
	})
}

// CreateException creates a dated schedule override.
func (s *ScheduleService) CreateException(ctx context.Context, input api.ExceptionInput) (*domain.ScheduleException, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.ScheduleException, error) {
		return s.api.CreateScheduleException(ctx, input)
	}, query.TagScheduleExceptions, query.TagSchedules)
}

// UpdateException updates a schedule override.
func (s *ScheduleService) UpdateException(ctx context.Context, id string, input api.ExceptionInput) (*domain.ScheduleException, error) {
	return query.Mutate(ctx, s.cache, func(ctx context.Context) (*domain.ScheduleException, error) {
		return s.api.UpdateScheduleException(ctx, id, input)
	}, query.TagScheduleExceptions, query.TagSchedules)
}

// DeleteException deletes a schedule override.
func (s *ScheduleService) DeleteException(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.DeleteScheduleException(ctx, id)
	}, query.TagScheduleExceptions, query.TagSchedules)
	return err
}

// SubscribeList retains the schedule list entry while a view renders it.
func (s *ScheduleService) SubscribeList(params api.ScheduleListParams) func() {
	return s.cache.Subscribe(query.NewKey("schedules.list", params))
}

// SubscribeExceptions retains the exception list entry while a view renders it.
func (s *ScheduleService) SubscribeExceptions(params api.ListParams) func() {
	return s.cache.Subscribe(query.NewKey("exceptions.list", params))
}
