package product

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-pricing/pkg/db"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes the catalog read and price update operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	FindProduct(ctx context.Context, id int64) (*ProductDTO, error)
	UpdatePrice(ctx context.Context, id int64, input UpdatePriceInput) (*ProductDTO, error)
}

// UpdatePriceInput carries the raw price text from the request. Nil means
// the price was not provided.
type UpdatePriceInput struct {
	Price *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    *Cache
	logg     *logger.Logger
}

// NewService constructs a product service instance. cache may be nil.
func NewService(repo *Repository, dbClient *db.Client, cache *Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cache:    cache,
		logg:     logg,
	}, nil
}

// ListProducts returns all products ordered by id, served from the cache when warm.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product list cache read failed")
	}
	cached, ok, err := s.cache.GetList(ctx, generation)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product list cache read failed")
	}
	if ok {
		return cached, nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	dtos := fromModels(products)
	if err := s.cache.SetList(ctx, generation, dtos); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product list cache write failed")
	}
	return dtos, nil
}

// FindProduct returns a single product or NOT_FOUND.
func (s *service) FindProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(product)
	return &dto, nil
}

// UpdatePrice validates and stores a new price. Only the price column is written.
func (s *service) UpdatePrice(ctx context.Context, id int64, input UpdatePriceInput) (*ProductDTO, error) {
	var result ProductDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		price, err := ParsePrice(input.Price)
		if err != nil {
			return err
		}
		product.Price = price
		if err := ValidateProduct(product); err != nil {
			return err
		}

		if err := repo.UpdatePrice(ctx, id, price); err != nil {
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product price")
		}
		result = FromModel(product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product list cache invalidation failed")
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithProductID(ctx, id), map[string]any{"price": result.Price.String()}), "product.price_updated")
	return &result, nil
}
