package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canvasshub/canvasshub-backend/pkg/db/models"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
	"github.com/canvasshub/canvasshub-backend/pkg/pagination"
)

// Service exposes catalog reads for shoppers and catalog management for admins.
type Service interface {
	ListActive(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error)
	ListAll(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error)
	Categories(ctx context.Context) ([]string, error)
	GetActive(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, input ListInput) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *models.Product) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListActive(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error) {
	input.Filters.Status = enums.ProductStatusActive
	return s.list(ctx, input)
}

// ListAll is the admin listing; the status filter is honoured only when set.
func (s *service) ListAll(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error) {
	return s.list(ctx, input)
}

func (s *service) list(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return pagination.NewPage(fromModels(rows), input.Pagination, total), nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// GetActive hides inactive products the same way as missing ones.
func (s *service) GetActive(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" || category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and category are required")
	}

	status := enums.ProductStatusActive
	if req.Status != nil {
		parsed, err := enums.ParseProductStatus(strings.TrimSpace(*req.Status))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product status")
		}
		status = parsed
	}

	product := &models.Product{
		Name:        name,
		Description: trimmedOrNil(req.Description),
		Category:    category,
		ImageURL:    trimmedOrNil(req.ImageURL),
		Status:      status,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
