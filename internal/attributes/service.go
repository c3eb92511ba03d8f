package attributes

import (
	"context"
	"strings"

	"github.com/stocklet/stocklet/internal/platform/cache"
)

// CreateInput carries a create request. Status is loosely typed on the wire
// (number, string or bool), hence any.
type CreateInput struct {
	Type      string
	Name      string
	ColorCode *string
	Status    any
}

// UpdateInput carries a partial update; nil fields keep their prior value.
type UpdateInput struct {
	Name      *string
	ColorCode *string
	Status    any
}

// Service coordinates attribute operations and the optional list cache.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns attributes ordered by (type, name) case-insensitively. An
// unknown type filter is ignored rather than rejected.
func (s *Service) List(ctx context.Context, typ string, onlyActive bool) ([]Attribute, error) {
	filter := ListFilter{OnlyActive: onlyActive}
	if ValidType(typ) {
		filter.Type = typ
	}
	active := "all"
	if onlyActive {
		active = "active"
	}
	key, err := s.cache.BuildKey(ctx, "attributes", "list", filter.Type, active)
	if err != nil {
		return s.repo.List(ctx, filter)
	}
	var attrs []Attribute
	err = s.cache.FetchJSON(ctx, key, &attrs, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx, filter)
	})
	return attrs, err
}

// Create inserts a new attribute, defaulting status to active.
func (s *Service) Create(ctx context.Context, input CreateInput) (Attribute, error) {
	if !ValidType(input.Type) {
		return Attribute{}, ErrInvalidType
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Attribute{}, ErrEmptyName
	}
	attr := Attribute{
		Type:      input.Type,
		Name:      name,
		ColorCode: trimOptional(input.ColorCode),
		Status:    StatusFromToken(input.Status),
	}
	created, err := s.repo.Create(ctx, attr)
	if err != nil {
		return Attribute{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}

// Update merges the supplied fields over the stored row.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Attribute, error) {
	attr, err := s.repo.Get(ctx, id)
	if err != nil {
		return Attribute{}, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Attribute{}, ErrEmptyName
		}
		attr.Name = name
	}
	if input.ColorCode != nil {
		attr.ColorCode = trimOptional(input.ColorCode)
	}
	if input.Status != nil {
		attr.Status = StatusFromToken(input.Status)
	}
	if err := s.repo.Update(ctx, attr); err != nil {
		return Attribute{}, err
	}
	_ = s.cache.Bump(ctx)
	return attr, nil
}

// Delete removes the attribute unconditionally; products referencing the
// name keep their plain-text copy.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	_ = s.cache.Bump(ctx)
	return deleted, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
