package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laurealim/acr-backend/internal/model"
)

// ACRRepo 年度考绩报告数据访问
type ACRRepo interface {
	Create(ctx context.Context, acr *model.ACR) error
	Save(ctx context.Context, acr *model.ACR) error
	Delete(ctx context.Context, acrID string) error

	// GetByID 按主键查询，带关联预载；不存在返回 (nil, nil)
	GetByID(ctx context.Context, acrID string) (*model.ACR, error)
	// GetByIDForUpdate 行锁查询，工作流状态变更前使用
	GetByIDForUpdate(ctx context.Context, acrID string) (*model.ACR, error)

	ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]model.ACR, int64, error)
	ListPendingForIO(ctx context.Context, officerID string, offset, limit int) ([]model.ACR, int64, error)
	ListPendingForCO(ctx context.Context, officerID string, offset, limit int) ([]model.ACR, int64, error)
	ListPendingForDossier(ctx context.Context, officeID string, offset, limit int) ([]model.ACR, int64, error)
	ListCompletedByOffice(ctx context.Context, officeID string) ([]model.ACR, error)

	// ExistsNonPartialForYear 同一职员同一年度是否已有非部分报告（排除指定报告自身）
	ExistsNonPartialForYear(ctx context.Context, employeeID, year, excludeACRID string) (bool, error)

	StatusCountsByEmployee(ctx context.Context, employeeID string) (map[string]int64, error)
	CountPendingForIO(ctx context.Context, officerID string) (int64, error)
	CountPendingForCO(ctx context.Context, officerID string) (int64, error)
	CountPendingForDossier(ctx context.Context, officeID string) (int64, error)
	CountReturnedTo(ctx context.Context, employeeID string) (int64, error)
}

type acrRepo struct {
	db *gorm.DB
}

func (r *acrRepo) Create(ctx context.Context, acr *model.ACR) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(acr).Error
}

// Save 全量保存；关联对象只读预载，不随保存回写
func (r *acrRepo) Save(ctx context.Context, acr *model.ACR) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(acr).Error
}

func (r *acrRepo) Delete(ctx context.Context, acrID string) error {
	return r.db.WithContext(ctx).Where("acr_id = ?", acrID).Delete(&model.ACR{}).Error
}

func (r *acrRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Office").
		Preload("InitiatingOfficer").
		Preload("CountersigningOfficer").
		Preload("DossierKeeper")
}

func (r *acrRepo) GetByID(ctx context.Context, acrID string) (*model.ACR, error) {
	var acr model.ACR
	err := r.preloaded(ctx).Where("acr_id = ?", acrID).First(&acr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acr, nil
}

func (r *acrRepo) GetByIDForUpdate(ctx context.Context, acrID string) (*model.ACR, error) {
	var acr model.ACR
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("acr_id = ?", acrID).
		First(&acr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acr, nil
}

func (r *acrRepo) list(q *gorm.DB, offset, limit int) ([]model.ACR, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var acrs []model.ACR
	err := q.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&acrs).Error
	return acrs, total, err
}

func (r *acrRepo) ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]model.ACR, int64, error) {
	q := r.preloaded(ctx).Model(&model.ACR{}).Where("employee_id = ?", employeeID)
	return r.list(q, offset, limit)
}

func (r *acrRepo) ListPendingForIO(ctx context.Context, officerID string, offset, limit int) ([]model.ACR, int64, error) {
	q := r.preloaded(ctx).Model(&model.ACR{}).
		Where("initiating_officer_id = ? AND status IN ?", officerID,
			[]string{model.StatusSubmittedToIO, model.StatusReturnedToIO})
	return r.list(q, offset, limit)
}

func (r *acrRepo) ListPendingForCO(ctx context.Context, officerID string, offset, limit int) ([]model.ACR, int64, error) {
	q := r.preloaded(ctx).Model(&model.ACR{}).
		Where("countersigning_officer_id = ? AND status = ?", officerID, model.StatusSubmittedToCO)
	return r.list(q, offset, limit)
}

func (r *acrRepo) ListPendingForDossier(ctx context.Context, officeID string, offset, limit int) ([]model.ACR, int64, error) {
	q := r.preloaded(ctx).Model(&model.ACR{}).
		Joins("JOIN employees ON employees.employee_id = acrs.employee_id").
		Where("employees.office_id = ? AND acrs.status = ?", officeID, model.StatusSubmittedToDossier)
	return r.list(q, offset, limit)
}

func (r *acrRepo) ListCompletedByOffice(ctx context.Context, officeID string) ([]model.ACR, error) {
	var acrs []model.ACR
	err := r.preloaded(ctx).
		Joins("JOIN employees ON employees.employee_id = acrs.employee_id").
		Where("employees.office_id = ? AND acrs.status = ?", officeID, model.StatusCompleted).
		Order("acrs.reporting_year DESC, acrs.completed_at DESC").
		Find(&acrs).Error
	return acrs, err
}

func (r *acrRepo) ExistsNonPartialForYear(ctx context.Context, employeeID, year, excludeACRID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.ACR{}).
		Where("employee_id = ? AND reporting_year = ? AND (partial_acr_reason IS NULL OR partial_acr_reason = '')",
			employeeID, year)
	if excludeACRID != "" {
		q = q.Where("acr_id <> ?", excludeACRID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *acrRepo) StatusCountsByEmployee(ctx context.Context, employeeID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.ACR{}).
		Select("status, COUNT(*) AS count").
		Where("employee_id = ?", employeeID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *acrRepo) CountPendingForIO(ctx context.Context, officerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ACR{}).
		Where("initiating_officer_id = ? AND status IN ?", officerID,
			[]string{model.StatusSubmittedToIO, model.StatusReturnedToIO}).
		Count(&count).Error
	return count, err
}

func (r *acrRepo) CountPendingForCO(ctx context.Context, officerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ACR{}).
		Where("countersigning_officer_id = ? AND status = ?", officerID, model.StatusSubmittedToCO).
		Count(&count).Error
	return count, err
}

func (r *acrRepo) CountPendingForDossier(ctx context.Context, officeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ACR{}).
		Joins("JOIN employees ON employees.employee_id = acrs.employee_id").
		Where("employees.office_id = ? AND acrs.status = ?", officeID, model.StatusSubmittedToDossier).
		Count(&count).Error
	return count, err
}

func (r *acrRepo) CountReturnedTo(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ACR{}).
		Where("(employee_id = ? AND status = ?) OR (initiating_officer_id = ? AND status = ?)",
			employeeID, model.StatusReturnedToEmployee, employeeID, model.StatusReturnedToIO).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/acr_repo.go
