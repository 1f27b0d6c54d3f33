package api

import (
	"context"

	"github.com/avicena/avicena/internal/domain"
)

// ListRoles returns all staff roles.
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := c.get(ctx, "/admin/role", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// ListSpecializations returns all medical specializations.
func (c *Client) ListSpecializations(ctx context.Context) ([]domain.Specialization, error) {
	var specs []domain.Specialization
	if err := c.get(ctx, "/admin/specialization", nil, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}
