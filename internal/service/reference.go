package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
)

// ReferenceService serves the near-static lookup lists used by forms
// (roles, specializations).
type ReferenceService struct {
	api    *api.Client
	cache  *query.Store
	logger *slog.Logger
}

// NewReferenceService creates a new reference data service
func NewReferenceService(client *api.Client, cache *query.Store, logger *slog.Logger) *ReferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceService{api: client, cache: cache, logger: logger}
}

// Roles returns all staff roles.
func (s *ReferenceService) Roles(ctx context.Context) ([]domain.Role, error) {
	key := query.NewKey("roles.list", nil)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagRoles}, func(ctx context.Context) ([]domain.Role, error) {
		return s.api.ListRoles(ctx)
	})
}

// Specializations returns all medical specializations.
func (s *ReferenceService) Specializations(ctx context.Context) ([]domain.Specialization, error) {
	key := query.NewKey("specializations.list", nil)
	return query.Fetch(ctx, s.cache, key, []query.Tag{query.TagSpecializations}, func(ctx context.Context) ([]domain.Specialization, error) {
		return s.api.ListSpecializations(ctx)
	})
}
