package caching

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"waiter/internal/models"
	"waiter/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "waiter:product:"

type CacheService interface {
	// GetProduct returns nil, nil on a cache miss.
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService accepts either host:port or a redis:// style address.
func NewRedisCacheService(addr, password string, db int, log *logger.Logger) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis ping failed on initialization", "addr", parsedAddr, "error", err)
	} else {
		log.Debug("redis connection established", "addr", parsedAddr)
	}

	return &redisCacheService{client: client}
}

func ProductKey(productID uuid.UUID) string {
	return productKeyPrefix + productID.String()
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := r.client.Get(ctx, ProductKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ProductKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, ProductKey(productID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// nopCacheService is used when no Redis address is configured. Every read
// is a miss.
type nopCacheService struct{}

func NewNopCacheService() CacheService {
	return nopCacheService{}
}

func (nopCacheService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, nil
}

func (nopCacheService) SetProduct(context.Context, *models.Product, time.Duration) error {
	return nil
}

func (nopCacheService) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

func (nopCacheService) Ping(context.Context) error {
	return nil
}
