package model

import "time"

// 审计动作常量
const (
	ActionCreated            = "created"
	ActionUpdated            = "updated"
	ActionSubmittedToIO      = "submitted_to_io"
	ActionReturnedToEmployee = "returned_to_employee"
	ActionSubmittedToCO      = "submitted_to_co"
	ActionReturnedToIO       = "returned_to_io"
	ActionSubmittedToDossier = "submitted_to_dossier"
	ActionDossierCompleted   = "dossier_completed"
	ActionPdfGenerated       = "pdf_generated"
)

// WorkflowHistory 工作流审计记录 — 对应 acr_workflow_history
// 只追加不修改；仅成功的状态变更产生记录，被拒绝的尝试不落库
type WorkflowHistory struct {
	HistoryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	ACRID     string `gorm:"type:uuid;not null" json:"acr_id"`

	Action     string  `gorm:"type:varchar(30);not null" json:"action"`
	FromStatus *string `gorm:"type:varchar(30)"          json:"from_status,omitempty"`
	ToStatus   *string `gorm:"type:varchar(30)"          json:"to_status,omitempty"`

	ActorUserID     *string `gorm:"type:uuid"         json:"actor_user_id,omitempty"`
	ActorEmployeeID *string `gorm:"type:uuid"         json:"actor_employee_id,omitempty"`
	ActorName       string  `gorm:"type:varchar(255)" json:"actor_name,omitempty"`
	ActorRole       string  `gorm:"type:varchar(20)"  json:"actor_role,omitempty"` // employee | io | co | dossier

	Comment   string `gorm:"type:text"         json:"comment,omitempty"`
	IPAddress string `gorm:"type:varchar(45)"  json:"ip_address,omitempty"`
	UserAgent string `gorm:"type:varchar(500)" json:"user_agent,omitempty"`
	RequestID string `gorm:"type:varchar(64)"  json:"request_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// 关联
	ActorEmployee *Employee `gorm:"foreignKey:ActorEmployeeID;references:EmployeeID" json:"actor_employee,omitempty"`
}

// TableName 指定表名
func (WorkflowHistory) TableName() string { return "acr_workflow_history" }

// [自证通过] internal/model/workflow_history.go
