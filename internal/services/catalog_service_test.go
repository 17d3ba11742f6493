package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type catalogDeps struct {
	products   *mocks.MockProductRepository
	categories *mocks.MockCategoryRepository
	files      *mocks.MockStorage
}

func newCatalogDeps() *catalogDeps {
	return &catalogDeps{
		products:   new(mocks.MockProductRepository),
		categories: new(mocks.MockCategoryRepository),
		files:      new(mocks.MockStorage),
	}
}

func (d *catalogDeps) service() *CatalogService {
	return NewCatalogService(d.products, d.categories, d.files, zap.NewNop())
}

func TestCatalogService_ListProducts(t *testing.T) {
	d := newCatalogDeps()
	withImage := CreateMockProduct(2, "Vitamin C", "250.00")
	withImage.Image = "products/vc.png"
	d.products.On("List", mock.Anything, repository.ProductFilter{CategorySlug: "vitamins", ActiveOnly: true}).
		Return([]domain.Product{*withImage, *CreateMockProduct(1, TestProductName, TestProductPrice)}, nil)
	d.files.On("URL", "products/vc.png").Return("http://127.0.0.1:8000/media/products/vc.png")

	list, err := d.service().ListProducts(context.Background(), " vitamins ")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "http://127.0.0.1:8000/media/products/vc.png", list[0].Image)
	assert.Empty(t, list[1].Image)

	d.products.AssertExpectations(t)
	d.files.AssertExpectations(t)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	tests := []struct {
		name          string
		input         CreateCategoryInput
		setupMocks    func(*catalogDeps)
		expectedSlug  string
		expectedError string
	}{
		{
			name:  "slug derived from name",
			input: CreateCategoryInput{Name: "Pain Relief"},
			setupMocks: func(d *catalogDeps) {
				d.categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)
			},
			expectedSlug: "pain-relief",
		},
		{
			name:  "explicit slug kept",
			input: CreateCategoryInput{Name: "Vitamins & Supplements", Slug: "vitamins"},
			setupMocks: func(d *catalogDeps) {
				d.categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)
			},
			expectedSlug: "vitamins",
		},
		{
			name:          "name required",
			input:         CreateCategoryInput{},
			setupMocks:    func(d *catalogDeps) {},
			expectedError: "name: this field is required",
		},
		{
			name:          "invalid slug",
			input:         CreateCategoryInput{Name: "Vitamins", Slug: "Not A Slug"},
			setupMocks:    func(d *catalogDeps) {},
			expectedError: "slug: enter a valid slug",
		},
		{
			name:  "duplicate",
			input: CreateCategoryInput{Name: "Vitamins"},
			setupMocks: func(d *catalogDeps) {
				d.categories.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: "category with this name or slug already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newCatalogDeps()
			tt.setupMocks(d)

			c, err := d.service().CreateCategory(context.Background(), tt.input)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, tt.expectedError, err.Error())
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedSlug, c.Slug)
			}
			d.categories.AssertExpectations(t)
		})
	}
}

func TestCatalogService_DeleteCategory_Referenced(t *testing.T) {
	d := newCatalogDeps()
	d.categories.On("Delete", mock.Anything, uint64(1)).
		Return(fmt.Errorf("category 1 has 2 products: %w", domain.ErrIntegrity))

	err := d.service().DeleteCategory(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	category := &domain.Category{ID: 1, Name: "Pain Relief", Slug: "pain-relief"}
	inactive := false

	tests := []struct {
		name          string
		input         CreateProductInput
		setupMocks    func(*catalogDeps)
		expectedError string
		check         func(*testing.T, *domain.Product)
	}{
		{
			name: "active by default with generated slug",
			input: CreateProductInput{
				CategoryID: 1,
				Name:       "Paracetamol 500mg",
				Price:      decimal.RequireFromString("500.005"),
				Stock:      20,
			},
			setupMocks: func(d *catalogDeps) {
				d.categories.On("FindByID", mock.Anything, uint64(1)).Return(category, nil)
				d.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
			},
			check: func(t *testing.T, p *domain.Product) {
				assert.True(t, p.IsActive)
				assert.True(t, strings.HasPrefix(p.Slug, "paracetamol-500mg-"))
				assert.Equal(t, "500.01", p.Price.StringFixed(2))
				assert.Equal(t, uint(20), p.Stock)
				assert.Equal(t, category, p.Category)
			},
		},
		{
			name: "explicitly inactive",
			input: CreateProductInput{
				CategoryID: 1,
				Name:       "Ibuprofen",
				Slug:       "ibuprofen",
				Price:      decimal.NewFromInt(700),
				IsActive:   &inactive,
			},
			setupMocks: func(d *catalogDeps) {
				d.categories.On("FindByID", mock.Anything, uint64(1)).Return(category, nil)
				d.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
			},
			check: func(t *testing.T, p *domain.Product) {
				assert.False(t, p.IsActive)
				assert.Equal(t, "ibuprofen", p.Slug)
			},
		},
		{
			name:          "negative price",
			input:         CreateProductInput{CategoryID: 1, Name: "Ibuprofen", Price: decimal.NewFromInt(-1)},
			setupMocks:    func(d *catalogDeps) {},
			expectedError: "price: ensure this value is greater than or equal to 0",
		},
		{
			name:          "negative stock",
			input:         CreateProductInput{CategoryID: 1, Name: "Ibuprofen", Stock: -3},
			setupMocks:    func(d *catalogDeps) {},
			expectedError: "stock: ensure this value is greater than or equal to 0",
		},
		{
			name:  "unknown category",
			input: CreateProductInput{CategoryID: 5, Name: "Ibuprofen"},
			setupMocks: func(d *catalogDeps) {
				d.categories.On("FindByID", mock.Anything, uint64(5)).Return(nil, nil)
			},
			expectedError: "category not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newCatalogDeps()
			tt.setupMocks(d)

			p, err := d.service().CreateProduct(context.Background(), tt.input)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err.Error())
				assert.Nil(t, p)
				d.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				tt.check(t, p)
			}
			d.categories.AssertExpectations(t)
			d.products.AssertExpectations(t)
		})
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	d := newCatalogDeps()
	existing := CreateMockProduct(1, TestProductName, TestProductPrice)
	d.products.On("FindByID", mock.Anything, uint64(1)).Return(existing, nil)
	d.products.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Price.StringFixed(2) == "650.00" && !p.IsActive && p.Name == TestProductName && p.Stock == 0
	})).Return(nil)

	price := decimal.RequireFromString("650")
	stock := 0
	active := false
	p, err := d.service().UpdateProduct(context.Background(), 1, UpdateProductInput{
		Price:    &price,
		Stock:    &stock,
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "650.00", p.Price.StringFixed(2))
	d.products.AssertExpectations(t)

	d.products.On("FindByID", mock.Anything, uint64(2)).Return(nil, nil)
	_, err = d.service().UpdateProduct(context.Background(), 2, UpdateProductInput{IsActive: &active})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_SetProductImage(t *testing.T) {
	t.Run("replaces previous image", func(t *testing.T) {
		d := newCatalogDeps()
		existing := CreateMockProduct(1, TestProductName, TestProductPrice)
		existing.Image = "products/old.png"

		d.products.On("FindByID", mock.Anything, uint64(1)).Return(existing, nil)
		d.files.On("Store", mock.Anything, mock.Anything, "products", "new.png").Return("products/new.png", nil)
		d.products.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
			return p.Image == "products/new.png"
		})).Return(nil)
		d.files.On("Delete", mock.Anything, "products/old.png").Return(nil)
		d.files.On("URL", "products/new.png").Return("http://127.0.0.1:8000/media/products/new.png")

		p, err := d.service().SetProductImage(context.Background(), 1, strings.NewReader("png"), "new.png")
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8000/media/products/new.png", p.Image)

		d.products.AssertExpectations(t)
		d.files.AssertExpectations(t)
	})

	t.Run("update failure removes the new file", func(t *testing.T) {
		d := newCatalogDeps()
		d.products.On("FindByID", mock.Anything, uint64(1)).Return(CreateMockProduct(1, TestProductName, TestProductPrice), nil)
		d.files.On("Store", mock.Anything, mock.Anything, "products", "new.png").Return("products/new.png", nil)
		d.products.On("Update", mock.Anything, mock.Anything).Return(errors.New("database error"))
		d.files.On("Delete", mock.Anything, "products/new.png").Return(nil)

		_, err := d.service().SetProductImage(context.Background(), 1, strings.NewReader("png"), "new.png")
		assert.EqualError(t, err, "database error")
		d.files.AssertExpectations(t)
	})
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	t.Run("referenced by order items", func(t *testing.T) {
		d := newCatalogDeps()
		d.products.On("FindByID", mock.Anything, uint64(1)).Return(CreateMockProduct(1, TestProductName, TestProductPrice), nil)
		d.products.On("Delete", mock.Anything, uint64(1)).
			Return(fmt.Errorf("product 1 is used by 3 order items: %w", domain.ErrIntegrity))

		err := d.service().DeleteProduct(context.Background(), 1)
		assert.ErrorIs(t, err, domain.ErrIntegrity)
		d.files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes image file", func(t *testing.T) {
		d := newCatalogDeps()
		p := CreateMockProduct(1, TestProductName, TestProductPrice)
		p.Image = "products/a.png"
		d.products.On("FindByID", mock.Anything, uint64(1)).Return(p, nil)
		d.products.On("Delete", mock.Anything, uint64(1)).Return(nil)
		d.files.On("Delete", mock.Anything, "products/a.png").Return(nil)

		require.NoError(t, d.service().DeleteProduct(context.Background(), 1))
		d.files.AssertExpectations(t)
	})
}
