package canvass

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canvasshub/canvasshub-backend/pkg/db/models"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	"github.com/canvasshub/canvasshub-backend/pkg/pagination"
)

// Repository defines persistence for canvass requests and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRequest(ctx context.Context, request *models.CanvassRequest) error
	CreateItems(ctx context.Context, items []models.CanvassItem) error
	FindRequest(ctx context.Context, id uuid.UUID) (*models.CanvassRequest, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.CanvassRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CanvassStatus, at time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.CanvassRequest, int64, error)
	List(ctx context.Context, status enums.CanvassStatus, params pagination.Params) ([]models.CanvassRequest, int64, error)
	Count(ctx context.Context, status enums.CanvassStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, request *models.CanvassRequest) error {
	return r.db.WithContext(ctx).Omit("Items", "User").Create(request).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.CanvassItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product").Create(&items).Error
}

// FindRequest loads the bare row without associations.
func (r *repository) FindRequest(ctx context.Context, id uuid.UUID) (*models.CanvassRequest, error) {
	var request models.CanvassRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.CanvassRequest, error) {
	var request models.CanvassRequest
	err := r.db.WithContext(ctx).
		Scopes(withDetail).
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CanvassStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.CanvassRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.CanvassRequest, int64, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	}, params)
}

// List returns requests across all users; an empty status means any.
func (r *repository) List(ctx context.Context, status enums.CanvassStatus, params pagination.Params) ([]models.CanvassRequest, int64, error) {
	return r.page(ctx, statusScope(status), params)
}

func (r *repository) Count(ctx context.Context, status enums.CanvassStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.CanvassRequest{}).
		Scopes(statusScope(status)).
		Count(&n).Error
	return n, err
}

func (r *repository) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, params pagination.Params) ([]models.CanvassRequest, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.CanvassRequest{}).
		Scopes(scope).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CanvassRequest
	err := r.db.WithContext(ctx).
		Scopes(scope, withDetail).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func statusScope(status enums.CanvassStatus) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if status == "" {
			return q
		}
		return q.Where("status = ?", status)
	}
}

func withDetail(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product").
		Preload("User")
}
