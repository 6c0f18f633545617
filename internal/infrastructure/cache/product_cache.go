package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const notFoundMarker = "notfound"

// productSnapshot is the cached form of a product and its details
type productSnapshot struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	Status         string          `json:"status"`
	Category       string          `json:"category"`
	Color          string          `json:"color,omitempty"`
	Storage        string          `json:"storage,omitempty"`
	Wattage        string          `json:"wattage,omitempty"`
	IsFastCharging bool            `json:"is_fast_charging,omitempty"`
	CableType      string          `json:"cable_type,omitempty"`
	Length         string          `json:"length,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func snapshotOf(p *catalog.Product) productSnapshot {
	s := productSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      string(p.Status),
		Category:    string(p.Category()),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	switch d := p.Details().(type) {
	case catalog.IPhoneDetails:
		s.Color, s.Storage = string(d.Color), string(d.Storage)
	case catalog.ChargerDetails:
		s.Wattage, s.IsFastCharging = string(d.Wattage), d.IsFastCharging
	case catalog.CableDetails:
		s.CableType, s.Length = string(d.Type), d.Length
	}
	return s
}

func (s productSnapshot) product() *catalog.Product {
	var details catalog.Details
	switch catalog.Category(s.Category) {
	case catalog.CategoryIPhone:
		details = catalog.IPhoneDetails{Color: catalog.IPhoneColor(s.Color), Storage: catalog.IPhoneStorage(s.Storage)}
	case catalog.CategoryCharger:
		details = catalog.ChargerDetails{Wattage: catalog.ChargerWattage(s.Wattage), IsFastCharging: s.IsFastCharging}
	case catalog.CategoryCable:
		details = catalog.CableDetails{Type: catalog.CableType(s.CableType), Length: s.Length}
	case catalog.CategoryAirPod:
		details = catalog.AirPodDetails{}
	}
	return catalog.RestoreProduct(
		shared.BaseEntity{ID: s.ID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt},
		catalog.ProductInfo{
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Stock:       s.Stock,
			Status:      catalog.ProductStatus(s.Status),
		},
		details,
	)
}

// CachedProductRepository is a cache-aside decorator over a ProductRepository.
// Single-product reads are served from Redis; every write through the
// decorator drops the cached entry. Redis failures fall back to the store.
type CachedProductRepository struct {
	catalog.ProductRepository
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewCachedProductRepository wraps repo with a Redis read cache
func NewCachedProductRepository(repo catalog.ProductRepository, client redis.Cmdable, prefix string, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepository{
		ProductRepository: repo,
		client:            client,
		keyPrefix:         prefix + ":product:",
		ttl:               ttl,
		logger:            logger,
	}
}

// FindByID returns the cached product, loading and caching it on a miss.
// Missing products are cached briefly as well.
func (c *CachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	key := c.keyPrefix + id.String()

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, shared.ErrNotFound
		}
		var snap productSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return snap.product(), nil
		}
		c.logger.Warn("Failed to decode cached product, reading from store", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Redis error, reading product from store", zap.Error(err))
	}

	product, err := c.ProductRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if setErr := c.client.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
				c.logger.Warn("Failed to cache missing product", zap.Error(setErr))
			}
		}
		return nil, err
	}

	if data, err := json.Marshal(snapshotOf(product)); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache product", zap.Error(err))
		}
	}
	return product, nil
}

// Create inserts the base row and drops any cached not-found marker
func (c *CachedProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	err := c.ProductRepository.Create(ctx, product)
	c.Invalidate(ctx, product.ID)
	return err
}

// Update persists the base row and drops the cached entry
func (c *CachedProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	err := c.ProductRepository.Update(ctx, product)
	c.Invalidate(ctx, product.ID)
	return err
}

// Delete deletes the product and drops the cached entry
func (c *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.ProductRepository.Delete(ctx, id)
	c.Invalidate(ctx, id)
	return err
}

// SaveDetails writes the detail row and drops the cached entry
func (c *CachedProductRepository) SaveDetails(ctx context.Context, productID uuid.UUID, details catalog.Details) error {
	err := c.ProductRepository.SaveDetails(ctx, productID, details)
	c.Invalidate(ctx, productID)
	return err
}

// Invalidate drops the cached entries of the given products
func (c *CachedProductRepository) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.keyPrefix + id.String()
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to invalidate product cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidateAll drops every cached product
func (c *CachedProductRepository) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Failed to scan product cache", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("Failed to clear product cache", zap.Error(err))
		}
	}
}

// Ensure CachedProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*CachedProductRepository)(nil)
