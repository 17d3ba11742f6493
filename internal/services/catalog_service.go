package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/storage"
	"storefront-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", domain.ErrNotFound)
)

const productImageDir = "products"

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,max=120"`
	Slug string `json:"slug" validate:"max=140"`
}

type CreateProductInput struct {
	CategoryID  uint64          `json:"category_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=200"`
	Slug        string          `json:"slug" validate:"max=240"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsActive    *bool           `json:"is_active"`
}

// UpdateProductInput is a patch; nil fields are left untouched.
type UpdateProductInput struct {
	CategoryID  *uint64          `json:"category_id"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"is_active"`
}

type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	files      storage.Storage
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, files storage.Storage, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		products:   products,
		categories: categories,
		files:      files,
		validate:   newValidator(),
		logger:     logger.Named("catalog"),
	}
}

// ListProducts returns active products, newest first, with image references
// replaced by public URLs.
func (s *CatalogService) ListProducts(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	list, err := s.products.List(ctx, repository.ProductFilter{
		CategorySlug: strings.TrimSpace(categorySlug),
		ActiveOnly:   true,
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.resolveImage(&list[i])
	}
	return list, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err)
	}

	c := &domain.Category{
		Name: strings.TrimSpace(in.Name),
		Slug: in.Slug,
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if !slug.IsSlug(c.Slug) {
		return nil, domain.NewValidationError("slug: enter a valid slug")
	}

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, duplicateError(err, "category")
	}
	s.logger.Info("category created", zap.Uint64("category_id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", zap.Uint64("category_id", id))
	return nil
}

// CreateProduct derives a unique slug from the name when none is supplied.
// New products are active unless IsActive says otherwise.
func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err)
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price: ensure this value is greater than or equal to 0")
	}

	cat, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}

	p := &domain.Product{
		CategoryID:  cat.ID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       uint(in.Stock),
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name) + "-" + uuid.NewString()[:8]
	}
	if !slug.IsSlug(p.Slug) {
		return nil, domain.NewValidationError("slug: enter a valid slug")
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, duplicateError(err, "product")
	}
	p.Category = cat

	s.logger.Info("product created", zap.Uint64("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint64, in UpdateProductInput) (*domain.Product, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.NewValidationError("price: ensure this value is greater than or equal to 0")
	}

	p, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		cat, err := s.categories.FindByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, ErrCategoryNotFound
		}
		p.CategoryID = cat.ID
		p.Category = cat
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.Stock != nil {
		p.Stock = uint(*in.Stock)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.Uint64("product_id", id))
	s.resolveImage(p)
	return p, nil
}

// SetProductImage replaces the product image; the previous file is removed
// once the new reference is saved.
func (s *CatalogService) SetProductImage(ctx context.Context, id uint64, file io.Reader, filename string) (*domain.Product, error) {
	if file == nil {
		return nil, domain.NewValidationError("file: this field is required")
	}
	p, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	ref, err := s.files.Store(ctx, file, productImageDir, filename)
	if err != nil {
		return nil, fmt.Errorf("store product image: %w", err)
	}

	previous := p.Image
	p.Image = ref
	if err := s.products.Update(ctx, p); err != nil {
		if derr := s.files.Delete(ctx, ref); derr != nil {
			s.logger.Warn("orphaned product image", zap.String("file", ref), zap.Error(derr))
		}
		return nil, err
	}
	if previous != "" {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.logger.Warn("previous product image not removed", zap.String("file", previous), zap.Error(err))
		}
	}

	s.logger.Info("product image set", zap.Uint64("product_id", id), zap.String("file", ref))
	s.resolveImage(p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	p, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	if p.Image != "" {
		if err := s.files.Delete(ctx, p.Image); err != nil {
			s.logger.Warn("product image not removed", zap.String("file", p.Image), zap.Error(err))
		}
	}
	s.logger.Info("product deleted", zap.Uint64("product_id", id))
	return nil
}

func (s *CatalogService) getProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) resolveImage(p *domain.Product) {
	if p.Image != "" {
		p.Image = s.files.URL(p.Image)
	}
}

func duplicateError(err error, resource string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewValidationError("%s with this name or slug already exists", resource)
	}
	return err
}
