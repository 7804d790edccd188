package repository

import (
	"context"
	"errors"

	"concierge/internal/models"

	"gorm.io/gorm"
)

// RequestRepository defines persistence operations for support requests.
type RequestRepository interface {
	Create(ctx context.Context, req *models.Request) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Request, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Request, error)
	UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error
	DeleteCascade(ctx context.Context, id uint) error
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository returns a new RequestRepository implementation.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *models.Request) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var req models.Request
	if err := r.db.WithContext(ctx).Preload("Owner").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *requestRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Request, error) {
	var reqs []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *requestRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Request, error) {
	var reqs []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Request", id)
	}
	return nil
}

// DeleteCascade deletes a request together with its messages and the
// notifications that reference it, in a single transaction.
func (r *requestRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Request{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Request", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}
