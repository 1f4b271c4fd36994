package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"waiter/internal/caching"
	"waiter/internal/models"
	"waiter/internal/repositories"
	"waiter/pkg/logger"

	"github.com/google/uuid"
)

const productImagePrefix = "products/"

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Product, error)

	// Image storage. These return ErrImageStorageDisabled without a MinioService.
	UploadImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*models.Product, error)
	GetImageURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error)
}

// ImageStorage groups the object storage client with the bucket it writes to.
type ImageStorage struct {
	Client MinioService
	Bucket string
}

// fillGuardStripes is the number of locks cache fills and invalidations are
// spread over, keyed by product id.
const fillGuardStripes = 64

// fillGuard orders cache fills against invalidations. A fill only lands when
// the generation it saw before reading the database is still current.
type fillGuard struct {
	mu         sync.Mutex
	generation uint64
}

type productService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
	images       *ImageStorage
	cacheTTL     time.Duration
	log          *logger.Logger
	guards       [fillGuardStripes]fillGuard
}

// NewProductService wires the product service. images may be nil when no
// object storage is configured.
func NewProductService(productRepo repositories.ProductRepository, cacheService caching.CacheService, images *ImageStorage, cacheTTL time.Duration, log *logger.Logger) ProductService {
	if cacheService == nil {
		cacheService = caching.NewNopCacheService()
	}
	return &productService{
		productRepo:  productRepo,
		cacheService: cacheService,
		images:       images,
		cacheTTL:     cacheTTL,
		log:          log.WithComponent("product_service"),
	}
}

// ProductImageKey is the object key an uploaded product image is stored under.
func ProductImageKey(productID uuid.UUID, filename string) string {
	return productImagePrefix + productID.String() + "/" + path.Base(strings.ReplaceAll(filename, "\\", "/"))
}

func validateProduct(product *models.Product) error {
	if product.Category == "" {
		product.Category = models.CategoryMain
	}
	if !product.Category.Valid() {
		return newValidationError("category", "\"%s\" is not a valid choice.", product.Category)
	}
	if utf8.RuneCountInString(product.Name) > models.ProductNameMaxLen {
		return newValidationError("name", "Ensure this field has no more than %d characters.", models.ProductNameMaxLen)
	}
	if utf8.RuneCountInString(product.Img) > models.ProductImgMaxLen {
		return newValidationError("img", "Ensure this field has no more than %d characters.", models.ProductImgMaxLen)
	}
	if utf8.RuneCountInString(product.Description) > models.ProductDescriptionMaxLen {
		return newValidationError("description", "Ensure this field has no more than %d characters.", models.ProductDescriptionMaxLen)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	product.ID = uuid.New()
	return mapRepoError(s.productRepo.Create(ctx, product))
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.Warn("product cache read failed", "product_id", id, "error", err)
	}

	guard := s.guard(id)
	guard.mu.Lock()
	generation := guard.generation
	guard.mu.Unlock()

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.fillCache(ctx, guard, generation, product)
	return product, nil
}

func (s *productService) guard(id uuid.UUID) *fillGuard {
	return &s.guards[int(id[15])%fillGuardStripes]
}

// fillCache stores product unless an invalidation for the same stripe ran
// after generation was read. The row may be older than that write.
func (s *productService) fillCache(ctx context.Context, guard *fillGuard, generation uint64, product *models.Product) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	if guard.generation != generation {
		s.log.Debug("skipping product cache fill after invalidation", "product_id", product.ID)
		return
	}
	if err := s.cacheService.SetProduct(ctx, product, s.cacheTTL); err != nil {
		s.log.Warn("product cache write failed", "product_id", product.ID, "error", err)
	}
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return mapRepoError(err)
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.invalidate(ctx, id)

	if s.images != nil && strings.HasPrefix(product.Img, productImagePrefix) {
		if err := s.images.Client.DeleteImage(ctx, s.images.Bucket, product.Img); err != nil {
			s.log.Warn("failed to remove product image", "product_id", id, "object", product.Img, "error", err)
		}
	}
	return nil
}

func (s *productService) List(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productService) UploadImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	if s.images == nil {
		return nil, ErrImageStorageDisabled
	}
	if strings.TrimSpace(filename) == "" {
		return nil, newValidationError("image", "No file was submitted.")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	key := ProductImageKey(id, filename)
	if utf8.RuneCountInString(key) > models.ProductImgMaxLen {
		return nil, newValidationError("image", "File name is too long.")
	}
	if err := s.images.Client.UploadImage(ctx, s.images.Bucket, key, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	previous := product.Img
	product.Img = key
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, mapRepoError(err)
	}
	s.invalidate(ctx, id)

	if previous != key && strings.HasPrefix(previous, productImagePrefix) {
		if err := s.images.Client.DeleteImage(ctx, s.images.Bucket, previous); err != nil {
			s.log.Warn("failed to remove replaced product image", "product_id", id, "object", previous, "error", err)
		}
	}
	return product, nil
}

func (s *productService) GetImageURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	if s.images == nil {
		return "", ErrImageStorageDisabled
	}
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(product.Img, productImagePrefix) {
		return "", ErrNotFound
	}
	return s.images.Client.GetPresignedURL(ctx, s.images.Bucket, product.Img, expiry)
}

// invalidate bumps the fill generation before deleting the key, so a fill
// either sees the bump or lands before the delete.
func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	guard := s.guard(id)
	guard.mu.Lock()
	guard.generation++
	guard.mu.Unlock()

	if err := s.cacheService.DeleteProduct(ctx, id); err != nil {
		s.log.Warn("product cache invalidation failed", "product_id", id, "error", err)
	}
}
