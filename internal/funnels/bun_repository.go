package funnels

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunFunnelRepository implements FunnelRepository with optional caching.
type BunFunnelRepository struct {
	repo         repository.Repository[*Funnel]
	cacheService cache.CacheService
	cachePrefix  string
}

const funnelNamespace = "funnel"

// NewBunFunnelRepository creates a funnel repository without caching.
func NewBunFunnelRepository(db *bun.DB) *BunFunnelRepository {
	return NewBunFunnelRepositoryWithCache(db, nil, nil)
}

// NewBunFunnelRepositoryWithCache creates a funnel repository with caching services.
func NewBunFunnelRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunFunnelRepository {
	base := NewFunnelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(funnelNamespace)
	}
	return &BunFunnelRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunFunnelRepository) Create(ctx context.Context, funnel *Funnel) (*Funnel, error) {
	record, err := r.repo.Create(ctx, funnel)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunFunnelRepository) GetByID(ctx context.Context, id uuid.UUID) (*Funnel, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "funnel", id.String())
	}
	return record, nil
}

func (r *BunFunnelRepository) GetBySlug(ctx context.Context, slug string) (*Funnel, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "funnel", slug)
	}
	return record, nil
}

func (r *BunFunnelRepository) List(ctx context.Context) ([]*Funnel, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunFunnelRepository) Update(ctx context.Context, funnel *Funnel) (*Funnel, error) {
	record, err := r.repo.Update(ctx, funnel)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunFunnelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Funnel{ID: id})
}

func (r *BunFunnelRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunStepRepository implements StepRepository with optional caching.
type BunStepRepository struct {
	repo         repository.Repository[*Step]
	cacheService cache.CacheService
	cachePrefix  string
}

const stepNamespace = "funnel_step"

// NewBunStepRepository creates a step repository without caching.
func NewBunStepRepository(db *bun.DB) *BunStepRepository {
	return NewBunStepRepositoryWithCache(db, nil, nil)
}

// NewBunStepRepositoryWithCache creates a step repository with caching services.
func NewBunStepRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStepRepository {
	base := NewStepRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(stepNamespace)
	}
	return &BunStepRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunStepRepository) Create(ctx context.Context, step *Step) (*Step, error) {
	record, err := r.repo.Create(ctx, step)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunStepRepository) GetByID(ctx context.Context, id uuid.UUID) (*Step, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "funnel_step", id.String())
	}
	return record, nil
}

func (r *BunStepRepository) ListByFunnel(ctx context.Context, funnelID uuid.UUID) ([]*Step, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.funnel_id = ?", funnelID).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	return records, err
}

func (r *BunStepRepository) Update(ctx context.Context, step *Step) (*Step, error) {
	record, err := r.repo.Update(ctx, step)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunStepRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Step{ID: id})
}

func (r *BunStepRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
