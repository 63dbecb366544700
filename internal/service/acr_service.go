package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/internal/model"
	"github.com/laurealim/acr-backend/internal/repository"
	"github.com/laurealim/acr-backend/pkg/clock"
)

// ACRService 报告的创建、查询、编辑与删除
type ACRService interface {
	// Create 创建草稿；基本信息自职员档案预填。
	// 非部分报告同年度唯一，冲突返回 ErrDuplicateYear
	Create(ctx context.Context, actorUserID string, prov model.Provenance, req *dto.CreateACRRequest) (*model.ACR, error)
	// Show 报告详情，附带请求者的可编辑字段集与可执行动作
	Show(ctx context.Context, acrID, actorUserID string) (*dto.ACRDetail, error)
	// Update 职员草稿阶段更新：字段变更 + 送审官员选择
	Update(ctx context.Context, acrID, actorUserID string, prov model.Provenance, req *dto.UpdateACRRequest) (*model.ACR, error)
	// UpdateStage 持有人中途保存；按请求者身份解析可编辑字段集
	UpdateStage(ctx context.Context, acrID, actorUserID string, prov model.Provenance, fields map[string]any) (*model.ACR, error)
	// Destroy 仅创建者可删除，且仅限草稿
	Destroy(ctx context.Context, acrID, actorUserID string) error

	ListMine(ctx context.Context, actorUserID string, page *dto.PaginationRequest) ([]model.ACR, int64, error)
	// AvailableOfficers 可选 IO/CO 名录（Grade 1-9 在职，排除本人）
	AvailableOfficers(ctx context.Context, actorUserID string) ([]dto.OfficerOption, error)
	// OfficeDirectory 本机构在职职员名录；档案保管员整理档案时使用
	OfficeDirectory(ctx context.Context, actorUserID string) (*dto.OfficeDirectory, error)
	DashboardStats(ctx context.Context, actorUserID string) (*dto.DashboardStats, error)
}

type acrService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewACRService 创建报告服务
func NewACRService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ACRService {
	return &acrService{repo: repo, clock: clk, logger: logger}
}

// prefillFromEmployee 创建草稿时自职员档案预填基本信息
func prefillFromEmployee(acr *model.ACR, emp *model.Employee) {
	acr.NameBangla = emp.NameBangla
	acr.NameEnglish = emp.NameEnglish
	acr.IDNumber = emp.EmployeeNo
	acr.NIDNumber = emp.NIDNumber
	acr.Cadre = emp.Cadre
	acr.Batch = emp.Batch
	acr.CurrentDesignation = emp.Designation
	acr.FatherName = emp.FatherName
	acr.MotherName = emp.MotherName
	acr.DateOfBirth = emp.DateOfBirth
	acr.MaritalStatus = emp.MaritalStatus
	acr.NumberOfChildren = emp.NumberOfChildren
	acr.PersonalEmail = emp.PersonalEmail
	acr.HighestEducation = emp.HighestEducation
	acr.GovtServiceJoinDate = emp.GovtServiceJoinDate
	acr.GazettedPostJoinDate = emp.GazettedPostJoinDate
	acr.CadreJoinDate = emp.CadreJoinDate
	acr.PositionJoinDate = emp.CurrentPositionJoinDate
	acr.PRLStartDate = emp.PRLDate
	if emp.Office != nil {
		acr.CurrentWorkplace = emp.Office.NameBangla
	}
}

func (s *acrService) Create(ctx context.Context, actorUserID string, prov model.Provenance, req *dto.CreateACRRequest) (*model.ACR, error) {
	var created *model.ACR
	err := s.repo.Tx.InTx(ctx, func(r *repository.Repository) error {
		act, err := resolveActor(ctx, r, actorUserID)
		if err != nil {
			return err
		}
		emp, err := act.requireEmployee()
		if err != nil {
			return err
		}

		if req.PartialACRReason == "" {
			exists, err := r.ACRs.ExistsNonPartialForYear(ctx, emp.EmployeeID, req.ReportingYear, "")
			if err != nil {
				return fmt.Errorf("查询年度报告失败: %w", err)
			}
			if exists {
				return ErrDuplicateYear
			}
		}

		acr := &model.ACR{
			UserID:           &act.user.UserID,
			EmployeeID:       emp.EmployeeID,
			ReportingYear:    req.ReportingYear,
			PartialACRReason: req.PartialACRReason,
		}
		acr.SetState(model.StatusDraft)
		prefillFromEmployee(acr, emp)
		acr.RecomputeScores()

		if err := r.ACRs.Create(ctx, acr); err != nil {
			return fmt.Errorf("创建报告失败: %w", err)
		}
		if err := recordHistory(ctx, r, acr, model.ActionCreated,
			"", model.StatusDraft, roleEmployee, "", act, prov, s.clock.Now()); err != nil {
			return fmt.Errorf("写入审计记录失败: %w", err)
		}
		created = acr
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("报告草稿已创建",
		zap.String("acr_id", created.ACRID),
		zap.String("year", created.ReportingYear))
	return created, nil
}

func (s *acrService) Show(ctx context.Context, acrID, actorUserID string) (*dto.ACRDetail, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, err
	}
	acr, err := s.repo.ACRs.GetByID(ctx, acrID)
	if err != nil {
		return nil, fmt.Errorf("查询报告失败: %w", err)
	}
	if acr == nil {
		return nil, fmt.Errorf("%w: 报告不存在", ErrNotFound)
	}
	if !act.canAccessACR(acr) {
		return nil, ErrPermissionDenied
	}

	detail := &dto.ACRDetail{ACR: acr}
	if act.employee != nil {
		emp := act.employee
		detail.EditableFields = acr.EditableFieldsFor(emp)
		detail.CanSubmit = acr.EmployeeID == emp.EmployeeID && acr.CanBeEditedByEmployee() &&
			acr.InitiatingOfficerID != nil && acr.CountersigningOfficerID != nil
		switch {
		case acr.InitiatingOfficerID != nil && *acr.InitiatingOfficerID == emp.EmployeeID:
			detail.CanReturn = acr.CanIOReturnToEmployee()
		case acr.CountersigningOfficerID != nil && *acr.CountersigningOfficerID == emp.EmployeeID:
			detail.CanReturn = acr.CanCOReturnToIO()
		}
	}
	return detail, nil
}

// validateOfficer 校验送审官员人选：存在、非本人、具备资格
func validateOfficer(ctx context.Context, r *repository.Repository, officerID, selfID, label string) (*model.Employee, error) {
	if officerID == selfID {
		return nil, fmt.Errorf("%w: 不可选择本人担任%s", ErrValidation, label)
	}
	officer, err := r.Employees.GetByID(ctx, officerID)
	if err != nil {
		return nil, fmt.Errorf("查询%s失败: %w", label, err)
	}
	if officer == nil {
		return nil, fmt.Errorf("%w: %s不存在", ErrValidation, label)
	}
	if !officer.CanBeInitiatingOfficer() {
		return nil, fmt.Errorf("%w: %s须为一级在职官员", ErrValidation, label)
	}
	return officer, nil
}

func (s *acrService) Update(ctx context.Context, acrID, actorUserID string, prov model.Provenance, req *dto.UpdateACRRequest) (*model.ACR, error) {
	var updated *model.ACR
	err := s.repo.Tx.InTx(ctx, func(r *repository.Repository) error {
		act, err := resolveActor(ctx, r, actorUserID)
		if err != nil {
			return err
		}
		emp, err := act.requireEmployee()
		if err != nil {
			return err
		}
		acr, err := lockACR(ctx, r, acrID)
		if err != nil {
			return err
		}
		if acr.EmployeeID != emp.EmployeeID {
			return fmt.Errorf("%w: 仅当事职员可编辑草稿", ErrPermissionDenied)
		}
		if !acr.CanBeEditedByEmployee() {
			return fmt.Errorf("%w: 报告当前不在职员手中", ErrInvalidState)
		}

		// 同一人可同时担任 IO 与 CO；本人不可担任任一角色
		if req.InitiatingOfficerID != nil {
			if _, err := validateOfficer(ctx, r, *req.InitiatingOfficerID, emp.EmployeeID, "起草官"); err != nil {
				return err
			}
			acr.InitiatingOfficerID = req.InitiatingOfficerID
		}
		if req.CountersigningOfficerID != nil {
			if _, err := validateOfficer(ctx, r, *req.CountersigningOfficerID, emp.EmployeeID, "会签官"); err != nil {
				return err
			}
			acr.CountersigningOfficerID = req.CountersigningOfficerID
		}

		acr.ApplyFields(acr.FilterUpdate(req.Fields, emp))
		acr.RecomputeScores()

		if err := r.ACRs.Save(ctx, acr); err != nil {
			return fmt.Errorf("保存报告失败: %w", err)
		}
		if err := recordHistory(ctx, r, acr, model.ActionUpdated,
			"", "", roleEmployee, "", act, prov, s.clock.Now()); err != nil {
			return fmt.Errorf("写入审计记录失败: %w", err)
		}
		updated = acr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *acrService) UpdateStage(ctx context.Context, acrID, actorUserID string, prov model.Provenance, fields map[string]any) (*model.ACR, error) {
	var updated *model.ACR
	err := s.repo.Tx.InTx(ctx, func(r *repository.Repository) error {
		act, err := resolveActor(ctx, r, actorUserID)
		if err != nil {
			return err
		}
		emp, err := act.requireEmployee()
		if err != nil {
			return err
		}
		acr, err := lockACR(ctx, r, acrID)
		if err != nil {
			return err
		}
		editable := acr.EditableFieldsFor(emp)
		if len(editable) == 0 {
			return fmt.Errorf("%w: 报告当前对该职员只读", ErrPermissionDenied)
		}

		role := roleEmployee
		switch {
		case acr.InitiatingOfficerID != nil && *acr.InitiatingOfficerID == emp.EmployeeID && acr.EmployeeID != emp.EmployeeID:
			role = roleIO
		case acr.CountersigningOfficerID != nil && *acr.CountersigningOfficerID == emp.EmployeeID && acr.EmployeeID != emp.EmployeeID:
			role = roleCO
		case acr.EmployeeID != emp.EmployeeID && emp.ActsAsDossierKeeper():
			role = roleDossier
		}

		merged := acr.FilterUpdate(fields, emp)
		if err := validateRatingFields(merged); err != nil {
			return err
		}
		acr.ApplyFields(merged)
		acr.RecomputeScores()

		if err := r.ACRs.Save(ctx, acr); err != nil {
			return fmt.Errorf("保存报告失败: %w", err)
		}
		if err := recordHistory(ctx, r, acr, model.ActionUpdated,
			"", "", role, "", act, prov, s.clock.Now()); err != nil {
			return fmt.Errorf("写入审计记录失败: %w", err)
		}
		updated = acr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *acrService) Destroy(ctx context.Context, acrID, actorUserID string) error {
	return s.repo.Tx.InTx(ctx, func(r *repository.Repository) error {
		act, err := resolveActor(ctx, r, actorUserID)
		if err != nil {
			return err
		}
		acr, err := lockACR(ctx, r, acrID)
		if err != nil {
			return err
		}
		if acr.UserID == nil || *acr.UserID != act.user.UserID {
			return fmt.Errorf("%w: 仅创建者可删除", ErrPermissionDenied)
		}
		if acr.Status != model.StatusDraft {
			return fmt.Errorf("%w: 仅草稿可删除", ErrInvalidState)
		}
		if err := r.ACRs.Delete(ctx, acrID); err != nil {
			return fmt.Errorf("删除报告失败: %w", err)
		}
		s.logger.Info("草稿已删除", zap.String("acr_id", acrID))
		return nil
	})
}

func (s *acrService) ListMine(ctx context.Context, actorUserID string, page *dto.PaginationRequest) ([]model.ACR, int64, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, 0, err
	}
	emp, err := act.requireEmployee()
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ACRs.ListByEmployee(ctx, emp.EmployeeID, page.Offset(), page.Limit())
}

func (s *acrService) AvailableOfficers(ctx context.Context, actorUserID string) ([]dto.OfficerOption, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, err
	}
	emp, err := act.requireEmployee()
	if err != nil {
		return nil, err
	}
	officers, err := s.repo.Employees.ListFirstClassActive(ctx, emp.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("查询官员名录失败: %w", err)
	}
	options := make([]dto.OfficerOption, 0, len(officers))
	for _, o := range officers {
		opt := dto.OfficerOption{
			EmployeeID:  o.EmployeeID,
			EmployeeNo:  o.EmployeeNo,
			NameBangla:  o.NameBangla,
			NameEnglish: o.NameEnglish,
			Designation: o.Designation,
			Grade:       o.Grade,
		}
		if o.Office != nil {
			opt.OfficeName = o.Office.NameBangla
		}
		options = append(options, opt)
	}
	return options, nil
}

func (s *acrService) OfficeDirectory(ctx context.Context, actorUserID string) (*dto.OfficeDirectory, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, err
	}
	emp, err := act.requireEmployee()
	if err != nil {
		return nil, err
	}
	if !emp.ActsAsDossierKeeper() {
		return nil, ErrPermissionDenied
	}
	office, err := s.repo.Offices.GetByID(ctx, emp.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("查询机构失败: %w", err)
	}
	employees, err := s.repo.Employees.ListByOffice(ctx, emp.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("查询职员名录失败: %w", err)
	}
	return &dto.OfficeDirectory{Office: office, Employees: employees}, nil
}

func (s *acrService) DashboardStats(ctx context.Context, actorUserID string) (*dto.DashboardStats, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, err
	}
	emp, err := act.requireEmployee()
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{}
	stats.MyACRs, err = s.repo.ACRs.StatusCountsByEmployee(ctx, emp.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("统计报告状态失败: %w", err)
	}
	stats.CompletedTotal = stats.MyACRs[model.StatusCompleted]

	if stats.PendingAsIO, err = s.repo.ACRs.CountPendingForIO(ctx, emp.EmployeeID); err != nil {
		return nil, fmt.Errorf("统计起草待办失败: %w", err)
	}
	if stats.PendingAsCO, err = s.repo.ACRs.CountPendingForCO(ctx, emp.EmployeeID); err != nil {
		return nil, fmt.Errorf("统计会签待办失败: %w", err)
	}
	if emp.ActsAsDossierKeeper() {
		if stats.PendingDossier, err = s.repo.ACRs.CountPendingForDossier(ctx, emp.OfficeID); err != nil {
			return nil, fmt.Errorf("统计档案待办失败: %w", err)
		}
	}
	if stats.ReturnedToMe, err = s.repo.ACRs.CountReturnedTo(ctx, emp.EmployeeID); err != nil {
		return nil, fmt.Errorf("统计退回件失败: %w", err)
	}
	return stats, nil
}

// [自证通过] internal/service/acr_service.go
