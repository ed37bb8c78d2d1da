package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-directory-service/internal/adapter/cache"
	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
)

// CachedUserRepository decorates a persistent user.Repository with a
// cache-aside read path. Writes go to the database first and drop the
// cached entry afterwards.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache disables the cache path entirely.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository. The new row is not cached until
// it is first read.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID serves reads from the cache when possible. Concurrent misses on
// the same id collapse into a single database query.
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.fromCache(ctx, id); u != nil {
		return u, nil
	}

	result, err, _ := r.group.Do(fmt.Sprintf("user:%d", id), func() (any, error) {
		// A concurrent caller may have filled the entry while this one
		// waited on the flight group.
		if u := r.fromCache(ctx, id); u != nil {
			return u, nil
		}
		return r.load(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// fromCache returns the cached user or nil. Cache failures only log; the
// database stays the source of truth.
func (r *CachedUserRepository) fromCache(ctx context.Context, id int64) *domain.User {
	if r.cache == nil {
		return nil
	}

	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	if u != nil {
		r.log.Debug("user served from cache", zap.Int64("id", id))
	}
	return u
}

// load reads the user from the database and fills the cache.
func (r *CachedUserRepository) load(ctx context.Context, id int64) (*domain.User, error) {
	u, err := r.dbRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
	}

	return u, nil
}

// GetByEmailOrMobile delegates to the DB repository. Uniqueness checks must
// always see current data, so this lookup is never served from cache.
func (r *CachedUserRepository) GetByEmailOrMobile(ctx context.Context, email, mobile string) (*domain.User, error) {
	return r.dbRepo.GetByEmailOrMobile(ctx, email, mobile)
}

// Update writes to the database and drops the stale cache entry.
func (r *CachedUserRepository) Update(ctx context.Context, u *domain.User) (int64, error) {
	id, err := r.dbRepo.Update(ctx, u)
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx, u.ID)
	return id, nil
}

// Delete removes the row and drops the cache entry.
func (r *CachedUserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	deletedID, err := r.dbRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx, id)
	return deletedID, nil
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cached user", zap.Int64("id", id), zap.Error(err))
	}
}

// List delegates to the DB repository.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}
