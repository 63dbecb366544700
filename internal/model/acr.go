package model

import (
	"time"

	"gorm.io/datatypes"
)

// 工作流状态常量
const (
	StatusDraft              = "draft"
	StatusSubmittedToIO      = "submitted_to_io"
	StatusReturnedToEmployee = "returned_to_employee"
	StatusIOCompleted        = "io_completed"
	StatusSubmittedToCO      = "submitted_to_co"
	StatusReturnedToIO       = "returned_to_io"
	StatusCOCompleted        = "co_completed"
	StatusSubmittedToDossier = "submitted_to_dossier"
	StatusCompleted          = "completed"
)

// 当前持有人常量
const (
	HolderEmployee  = "employee"
	HolderIO        = "io"
	HolderCO        = "co"
	HolderDossier   = "dossier"
	HolderCompleted = "completed"
)

// 退回来源常量
const (
	ReturnedFromIO = "io"
	ReturnedFromCO = "co"
)

// statusHolder 状态 → 持有人对照表
// 状态与持有人永远成对出现，所有状态变更必须经 SetState 写入
var statusHolder = map[string]string{
	StatusDraft:              HolderEmployee,
	StatusSubmittedToIO:      HolderIO,
	StatusReturnedToEmployee: HolderEmployee,
	StatusIOCompleted:        HolderIO,
	StatusSubmittedToCO:      HolderCO,
	StatusReturnedToIO:       HolderIO,
	StatusCOCompleted:        HolderCO,
	StatusSubmittedToDossier: HolderDossier,
	StatusCompleted:          HolderCompleted,
}

// HolderForStatus 返回状态对应的唯一持有人；未知状态返回 false
func HolderForStatus(status string) (string, bool) {
	h, ok := statusHolder[status]
	return h, ok
}

// ACR 年度考绩报告（বার্ষিক গোপনীয় অনুবেদন）— 对应 acrs
type ACR struct {
	ACRID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"acr_id"`
	UserID     *string `gorm:"type:uuid" json:"user_id,omitempty"` // 创建该报告的账户
	EmployeeID string  `gorm:"type:uuid;not null" json:"employee_id"`

	InitiatingOfficerID     *string `gorm:"type:uuid" json:"initiating_officer_id,omitempty"`
	CountersigningOfficerID *string `gorm:"type:uuid" json:"countersigning_officer_id,omitempty"`
	DossierKeeperID         *string `gorm:"type:uuid" json:"dossier_keeper_id,omitempty"`

	// ── 工作流状态 ──
	Status        string     `gorm:"type:varchar(30);not null;default:'draft'"    json:"status"`
	CurrentHolder string     `gorm:"type:varchar(20);not null;default:'employee'" json:"current_holder"`
	IsReturned    bool       `gorm:"not null;default:false" json:"is_returned"`
	ReturnedFrom  *string    `gorm:"type:varchar(10)"       json:"returned_from,omitempty"`
	ReturnReason  *string    `gorm:"type:text"              json:"return_reason,omitempty"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`

	// ── 文书与快照 ──
	PdfPath          *string        `gorm:"type:varchar(500)" json:"pdf_path,omitempty"`
	PdfGeneratedAt   *time.Time     `json:"pdf_generated_at,omitempty"`
	EmployeeSnapshot datatypes.JSON `gorm:"type:jsonb" json:"employee_snapshot,omitempty"`
	IOSnapshot       datatypes.JSON `gorm:"type:jsonb" json:"io_snapshot,omitempty"`
	COSnapshot       datatypes.JSON `gorm:"type:jsonb" json:"co_snapshot,omitempty"`

	// ── 各阶段时间戳（只设置一次，不回退）──
	SentToIOAt      *time.Time `json:"sent_to_io_at,omitempty"`
	IOCompletedAt   *time.Time `json:"io_completed_at,omitempty"`
	SentToCOAt      *time.Time `json:"sent_to_co_at,omitempty"`
	COCompletedAt   *time.Time `json:"co_completed_at,omitempty"`
	SentToDossierAt *time.Time `json:"sent_to_dossier_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	// ── 基本信息 ──
	ReportingYear string `gorm:"type:varchar(10);not null" json:"reporting_year"`
	NameBangla    string `gorm:"type:varchar(255)" json:"name_bangla,omitempty"`
	NameEnglish   string `gorm:"type:varchar(255)" json:"name_english,omitempty"`
	IDNumber      string `gorm:"type:varchar(50)"  json:"id_number,omitempty"`
	Batch         string `gorm:"type:varchar(50)"  json:"batch,omitempty"`
	Cadre         string `gorm:"type:varchar(100)" json:"cadre,omitempty"`
	NIDNumber     string `gorm:"type:varchar(30)"  json:"nid_number,omitempty"`

	// ── 任职信息 ──
	DesignationDuringPeriod string `gorm:"type:varchar(255)" json:"designation_during_period,omitempty"`
	WorkplaceDuringPeriod   string `gorm:"type:varchar(255)" json:"workplace_during_period,omitempty"`
	CurrentDesignation      string `gorm:"type:varchar(255)" json:"current_designation,omitempty"`
	CurrentWorkplace        string `gorm:"type:varchar(255)" json:"current_workplace,omitempty"`

	// ── 第一部分：健康 ──
	HealthHeight          string     `gorm:"type:varchar(20)" json:"health_height,omitempty"`
	HealthWeight          string     `gorm:"type:varchar(20)" json:"health_weight,omitempty"`
	HealthEyesight        string     `gorm:"type:varchar(50)" json:"health_eyesight,omitempty"`
	HealthBloodGroup      string     `gorm:"type:varchar(10)" json:"health_blood_group,omitempty"`
	HealthBloodPressure   string     `gorm:"type:varchar(20)" json:"health_blood_pressure,omitempty"`
	HealthWeakness        string     `gorm:"type:text"        json:"health_weakness,omitempty"`
	HealthMedicalCategory string     `gorm:"type:varchar(50)" json:"health_medical_category,omitempty"`
	HealthCheckupDate     *time.Time `gorm:"type:date"        json:"health_checkup_date,omitempty"`

	// ── 第二部分：评审官（IO）信息 ──
	ReviewerName                string     `gorm:"type:varchar(255)" json:"reviewer_name,omitempty"`
	ReviewerDesignation         string     `gorm:"type:varchar(255)" json:"reviewer_designation,omitempty"`
	ReviewerWorkplace           string     `gorm:"type:varchar(255)" json:"reviewer_workplace,omitempty"`
	ReviewerIDNumber            string     `gorm:"type:varchar(50)"  json:"reviewer_id_number,omitempty"`
	ReviewerEmail               string     `gorm:"type:varchar(255)" json:"reviewer_email,omitempty"`
	ReviewerPeriodFrom          *time.Time `gorm:"type:date"         json:"reviewer_period_from,omitempty"`
	ReviewerPeriodTo            *time.Time `gorm:"type:date"         json:"reviewer_period_to,omitempty"`
	ReviewerPreviousDesignation string     `gorm:"type:varchar(255)" json:"reviewer_previous_designation,omitempty"`
	ReviewerPreviousWorkplace   string     `gorm:"type:varchar(255)" json:"reviewer_previous_workplace,omitempty"`

	// ── 会签官（CO）信息 ──
	CountersignerName                string     `gorm:"type:varchar(255)" json:"countersigner_name,omitempty"`
	CountersignerDesignation         string     `gorm:"type:varchar(255)" json:"countersigner_designation,omitempty"`
	CountersignerWorkplace           string     `gorm:"type:varchar(255)" json:"countersigner_workplace,omitempty"`
	CountersignerIDNumber            string     `gorm:"type:varchar(50)"  json:"countersigner_id_number,omitempty"`
	CountersignerEmail               string     `gorm:"type:varchar(255)" json:"countersigner_email,omitempty"`
	CountersignerPeriodFrom          *time.Time `gorm:"type:date"         json:"countersigner_period_from,omitempty"`
	CountersignerPeriodTo            *time.Time `gorm:"type:date"         json:"countersigner_period_to,omitempty"`
	CountersignerPreviousDesignation string     `gorm:"type:varchar(255)" json:"countersigner_previous_designation,omitempty"`
	CountersignerPreviousWorkplace   string     `gorm:"type:varchar(255)" json:"countersigner_previous_workplace,omitempty"`

	PartialACRReason string `gorm:"type:text" json:"partial_acr_reason,omitempty"` // আংশিক গোপনীয় অনুবেদনের কারণ

	// ── 第三部分：个人信息 ──
	MinistryName     string     `gorm:"type:varchar(255)" json:"ministry_name,omitempty"`
	ACRPeriodFrom    *time.Time `gorm:"type:date"         json:"acr_period_from,omitempty"`
	ACRPeriodTo      *time.Time `gorm:"type:date"         json:"acr_period_to,omitempty"`
	FatherName       string     `gorm:"type:varchar(255)" json:"father_name,omitempty"`
	MotherName       string     `gorm:"type:varchar(255)" json:"mother_name,omitempty"`
	DateOfBirth      *time.Time `gorm:"type:date"         json:"date_of_birth,omitempty"`
	PRLStartDate     *time.Time `gorm:"type:date"         json:"prl_start_date,omitempty"`
	MaritalStatus    string     `gorm:"type:varchar(20)"  json:"marital_status,omitempty"`
	NumberOfChildren *int       `json:"number_of_children,omitempty"`
	HighestEducation string     `gorm:"type:varchar(255)" json:"highest_education,omitempty"`
	PersonalEmail    string     `gorm:"type:varchar(255)" json:"personal_email,omitempty"`

	// ── 入职信息 ──
	GovtServiceJoinDate  *time.Time `gorm:"type:date" json:"govt_service_join_date,omitempty"`
	GazettedPostJoinDate *time.Time `gorm:"type:date" json:"gazetted_post_join_date,omitempty"`
	CadreJoinDate        *time.Time `gorm:"type:date" json:"cadre_join_date,omitempty"`

	// ── 现任职位 ──
	PositionName      string     `gorm:"type:varchar(255)" json:"position_name,omitempty"`
	PositionWorkplace string     `gorm:"type:varchar(255)" json:"position_workplace,omitempty"`
	PositionJoinDate  *time.Time `gorm:"type:date"         json:"position_join_date,omitempty"`
	PreviousPosition  string     `gorm:"type:varchar(255)" json:"previous_position,omitempty"`
	PreviousWorkplace string     `gorm:"type:varchar(255)" json:"previous_workplace,omitempty"`

	// ── 工作描述 ──
	WorkDescription1 string `gorm:"type:text" json:"work_description_1,omitempty"`
	WorkDescription2 string `gorm:"type:text" json:"work_description_2,omitempty"`
	WorkDescription3 string `gorm:"type:text" json:"work_description_3,omitempty"`
	WorkDescription4 string `gorm:"type:text" json:"work_description_4,omitempty"`
	WorkDescription5 string `gorm:"type:text" json:"work_description_5,omitempty"`

	// ── 第四部分：25 项评分（1-4 分制）──
	RatingEthics                 *int `json:"rating_ethics,omitempty"`
	RatingHonesty                *int `json:"rating_honesty,omitempty"`
	RatingDiscipline             *int `json:"rating_discipline,omitempty"`
	RatingJudgment               *int `json:"rating_judgment,omitempty"`
	RatingPersonality            *int `json:"rating_personality,omitempty"`
	RatingCooperation            *int `json:"rating_cooperation,omitempty"`
	RatingPunctuality            *int `json:"rating_punctuality,omitempty"`
	RatingReliability            *int `json:"rating_reliability,omitempty"`
	RatingResponsibility         *int `json:"rating_responsibility,omitempty"`
	RatingWorkInterest           *int `json:"rating_work_interest,omitempty"`
	RatingFollowingOrders        *int `json:"rating_following_orders,omitempty"`
	RatingInitiative             *int `json:"rating_initiative,omitempty"`
	RatingClientBehavior         *int `json:"rating_client_behavior,omitempty"`
	RatingProfessionalKnowledge  *int `json:"rating_professional_knowledge,omitempty"`
	RatingWorkQuality            *int `json:"rating_work_quality,omitempty"`
	RatingDedication             *int `json:"rating_dedication,omitempty"`
	RatingWorkQuantity           *int `json:"rating_work_quantity,omitempty"`
	RatingDecisionMaking         *int `json:"rating_decision_making,omitempty"`
	RatingDecisionImplementation *int `json:"rating_decision_implementation,omitempty"`
	RatingSupervision            *int `json:"rating_supervision,omitempty"`
	RatingTeamworkLeadership     *int `json:"rating_teamwork_leadership,omitempty"`
	RatingEfileInternet          *int `json:"rating_efile_internet,omitempty"`
	RatingInnovation             *int `json:"rating_innovation,omitempty"`
	RatingWrittenExpression      *int `json:"rating_written_expression,omitempty"`
	RatingVerbalExpression       *int `json:"rating_verbal_expression,omitempty"`

	TotalScore   int    `gorm:"not null;default:0" json:"total_score"` // 派生字段：每次保存前重算
	ScoreInWords string `gorm:"type:varchar(50)"   json:"score_in_words,omitempty"`

	// ── 第五部分：评审官评语 ──
	ReviewerAdditionalComments string     `gorm:"type:text"         json:"reviewer_additional_comments,omitempty"`
	CommentType                string     `gorm:"type:varchar(20)"  json:"comment_type,omitempty"`
	ReviewerSignatureDate      *time.Time `gorm:"type:date"         json:"reviewer_signature_date,omitempty"`
	ReviewerMemoNumber         string     `gorm:"type:varchar(100)" json:"reviewer_memo_number,omitempty"`

	// ── 第六部分：会签官评语 ──
	CountersignerAgrees           *bool      `json:"countersigner_agrees,omitempty"`
	CountersignerAgreeComment     string     `gorm:"type:text"         json:"countersigner_agree_comment,omitempty"`
	CountersignerDisagreeComment  string     `gorm:"type:text"         json:"countersigner_disagree_comment,omitempty"`
	CountersignerSamePersonReason string     `gorm:"type:text"         json:"countersigner_same_person_reason,omitempty"`
	CountersignerAdverseComment   string     `gorm:"type:text"         json:"countersigner_adverse_comment,omitempty"`
	CountersignerScore            *int       `json:"countersigner_score,omitempty"`
	CountersignerScoreInWords     string     `gorm:"type:varchar(50)"  json:"countersigner_score_in_words,omitempty"`
	CountersignerSignatureDate    *time.Time `gorm:"type:date"         json:"countersigner_signature_date,omitempty"`
	CountersignerMemoNumber       string     `gorm:"type:varchar(100)" json:"countersigner_memo_number,omitempty"`

	// ── 第七部分：档案处理 ──
	DossierReceivedDate        *time.Time `gorm:"type:date"        json:"dossier_received_date,omitempty"`
	DossierActionTaken         string     `gorm:"type:text"        json:"dossier_action_taken,omitempty"`
	DossierAverageScore        *int       `json:"dossier_average_score,omitempty"`
	DossierAverageScoreInWords string     `gorm:"type:varchar(50)" json:"dossier_average_score_in_words,omitempty"`

	BaseModel

	// 关联
	Employee              *Employee          `gorm:"foreignKey:EmployeeID;references:EmployeeID"              json:"employee,omitempty"`
	InitiatingOfficer     *Employee          `gorm:"foreignKey:InitiatingOfficerID;references:EmployeeID"     json:"initiating_officer,omitempty"`
	CountersigningOfficer *Employee          `gorm:"foreignKey:CountersigningOfficerID;references:EmployeeID" json:"countersigning_officer,omitempty"`
	DossierKeeper         *Employee          `gorm:"foreignKey:DossierKeeperID;references:EmployeeID"         json:"dossier_keeper,omitempty"`
	History               []WorkflowHistory  `gorm:"foreignKey:ACRID;references:ACRID"                        json:"history,omitempty"`
	Pdfs                  []AcrPdf           `gorm:"foreignKey:ACRID;references:ACRID"                        json:"pdfs,omitempty"`
}

// TableName 指定表名
func (ACR) TableName() string { return "acrs" }

// ── 状态与持有人 ──

// SetState 切换工作流状态，持有人由状态唯一推导；
// 这是状态/持有人两列的唯一写入口，保证二者永不失配
func (a *ACR) SetState(status string) {
	holder, ok := HolderForStatus(status)
	if !ok {
		return
	}
	a.Status = status
	a.CurrentHolder = holder
}

// ── 编辑权判定（均为 (status, holder) 的纯函数）──

// CanBeEditedByEmployee 当事职员可编辑
func (a *ACR) CanBeEditedByEmployee() bool {
	return (a.Status == StatusDraft || a.Status == StatusReturnedToEmployee) &&
		a.CurrentHolder == HolderEmployee
}

// CanBeEditedByIO 起草官可编辑
func (a *ACR) CanBeEditedByIO() bool {
	return (a.Status == StatusSubmittedToIO || a.Status == StatusReturnedToIO) &&
		a.CurrentHolder == HolderIO
}

// CanBeEditedByCO 会签官可编辑
func (a *ACR) CanBeEditedByCO() bool {
	return a.Status == StatusSubmittedToCO && a.CurrentHolder == HolderCO
}

// CanBeEditedByDossier 档案保管员可编辑
func (a *ACR) CanBeEditedByDossier() bool {
	return a.Status == StatusSubmittedToDossier && a.CurrentHolder == HolderDossier
}

// CanIOReturnToEmployee 起草官可退回当事职员
func (a *ACR) CanIOReturnToEmployee() bool {
	return a.Status == StatusSubmittedToIO && a.CurrentHolder == HolderIO
}

// CanCOReturnToIO 会签官可退回起草官
func (a *ACR) CanCOReturnToIO() bool {
	return a.Status == StatusSubmittedToCO && a.CurrentHolder == HolderCO
}

// IsCompleted 是否已完结
func (a *ACR) IsCompleted() bool { return a.Status == StatusCompleted }

// IsPartial 是否为不满整年的部分考绩（需填写原因）
func (a *ACR) IsPartial() bool { return a.PartialACRReason != "" }

// ── 评分计算 ──

// 评分等级（বাংলা）
const (
	GradeExceptional   = "অসাধারণ"        // ≥95
	GradeVeryGood      = "অত্যুত্তম"      // ≥90
	GradeGood          = "উত্তম"          // ≥80
	GradeSatisfactory  = "চলতিমান"        // ≥70
	GradeBelowStandard = "চলতি মানের নিচে" // <70
)

// ratings 25 项评分字段的汇总视图
func (a *ACR) ratings() []*int {
	return []*int{
		a.RatingEthics, a.RatingHonesty, a.RatingDiscipline, a.RatingJudgment,
		a.RatingPersonality, a.RatingCooperation, a.RatingPunctuality,
		a.RatingReliability, a.RatingResponsibility, a.RatingWorkInterest,
		a.RatingFollowingOrders, a.RatingInitiative, a.RatingClientBehavior,
		a.RatingProfessionalKnowledge, a.RatingWorkQuality, a.RatingDedication,
		a.RatingWorkQuantity, a.RatingDecisionMaking, a.RatingDecisionImplementation,
		a.RatingSupervision, a.RatingTeamworkLeadership, a.RatingEfileInternet,
		a.RatingInnovation, a.RatingWrittenExpression, a.RatingVerbalExpression,
	}
}

// CalculateTotalScore 计算 25 项评分合计，未评分项按 0 计
func (a *ACR) CalculateTotalScore() int {
	sum := 0
	for _, r := range a.ratings() {
		if r != nil {
			sum += *r
		}
	}
	return sum
}

// GradeLabel 按分数返回评级（总分、会签官评分、档案平均分共用同一分档）
func GradeLabel(score int) string {
	switch {
	case score >= 95:
		return GradeExceptional
	case score >= 90:
		return GradeVeryGood
	case score >= 80:
		return GradeGood
	case score >= 70:
		return GradeSatisfactory
	default:
		return GradeBelowStandard
	}
}

// RecomputeScores 重算全部派生评分字段。
// 每次持久化前由服务层显式调用（替代 ORM 保存钩子），幂等
func (a *ACR) RecomputeScores() {
	a.TotalScore = a.CalculateTotalScore()
	a.ScoreInWords = GradeLabel(a.TotalScore)

	if a.CountersignerScore != nil {
		a.CountersignerScoreInWords = GradeLabel(*a.CountersignerScore)
	}
	if a.DossierAverageScore != nil {
		a.DossierAverageScoreInWords = GradeLabel(*a.DossierAverageScore)
	}
}

// [自证通过] internal/model/acr.go
