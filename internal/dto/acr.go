package dto

import "github.com/laurealim/acr-backend/internal/model"

// CreateACRRequest 创建年度考绩报告草稿
type CreateACRRequest struct {
	ReportingYear    string `json:"reporting_year"     binding:"required,len=4,numeric"`
	PartialACRReason string `json:"partial_acr_reason" binding:"omitempty,max=2000"`
}

// UpdateACRRequest 草稿阶段更新（字段变更 + 送审官员选择）
// Fields 中越权的字段名会被静默丢弃，不报错
type UpdateACRRequest struct {
	Fields                  map[string]any `json:"fields"`
	InitiatingOfficerID     *string        `json:"initiating_officer_id"     binding:"omitempty,uuid"`
	CountersigningOfficerID *string        `json:"countersigning_officer_id" binding:"omitempty,uuid"`
}

// StageUpdateRequest IO/CO/档案阶段的字段更新
type StageUpdateRequest struct {
	Fields map[string]any `json:"fields" binding:"required"`
}

// ForwardRequest 流转提交（可携带同批字段变更，原子生效）
type ForwardRequest struct {
	Fields map[string]any `json:"fields"`
}

// ReturnACRRequest 退回请求，理由强制且不少于 10 字符
type ReturnACRRequest struct {
	Reason string `json:"reason" binding:"required,min=10,max=2000"`
}

// OfficerOption 可选 IO/CO 官员条目
type OfficerOption struct {
	EmployeeID  string `json:"employee_id"`
	EmployeeNo  string `json:"employee_no"`
	NameBangla  string `json:"name_bangla"`
	NameEnglish string `json:"name_english,omitempty"`
	Designation string `json:"designation,omitempty"`
	Grade       int    `json:"grade"`
	OfficeName  string `json:"office_name,omitempty"`
}

// ACRDetail 报告详情（附带当前请求者的可编辑字段集）
type ACRDetail struct {
	ACR            *model.ACR `json:"acr"`
	EditableFields []string   `json:"editable_fields"`
	CanSubmit      bool       `json:"can_submit"`
	CanReturn      bool       `json:"can_return"`
}

// OfficeDirectory 机构职员名录（档案保管员视角）
type OfficeDirectory struct {
	Office    *model.Office    `json:"office,omitempty"`
	Employees []model.Employee `json:"employees"`
}

// DashboardStats 工作台统计
type DashboardStats struct {
	MyACRs          map[string]int64 `json:"my_acrs"` // 按状态计数
	PendingAsIO     int64            `json:"pending_as_io"`
	PendingAsCO     int64            `json:"pending_as_co"`
	PendingDossier  int64            `json:"pending_dossier"` // 仅档案保管员非零
	CompletedTotal  int64            `json:"completed_total"`
	ReturnedToMe    int64            `json:"returned_to_me"`
}

// PdfInfo 文书记录响应
type PdfInfo struct {
	PdfID           string `json:"pdf_id"`
	ACRID           string `json:"acr_id"`
	ReportingYear   string `json:"reporting_year"`
	FileName        string `json:"file_name"`
	FileSize        int64  `json:"file_size"`
	Checksum        string `json:"checksum"`
	IsPartial       bool   `json:"is_partial"`
	PartialSequence int    `json:"partial_sequence"`
	GeneratedAt     string `json:"generated_at"`
	URL             string `json:"url,omitempty"`
}

// IntegrityResult 文书完整性校验结果
type IntegrityResult struct {
	PdfID            string `json:"pdf_id"`
	Valid            bool   `json:"valid"`
	StoredChecksum   string `json:"stored_checksum"`
	ComputedChecksum string `json:"computed_checksum,omitempty"`
	Reason           string `json:"reason,omitempty"` // 不通过时的原因说明
}
