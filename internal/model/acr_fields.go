package model

import "time"

// 五个互不相交的可编辑字段集。
// 字段名与 JSON/数据库列名一致；分区不重叠由单元测试保证。

// EmployeeEditableFields 当事职员可编辑字段（基本/任职/健康/个人/履历/工作描述）
var EmployeeEditableFields = []string{
	"reporting_year", "name_bangla", "name_english", "id_number", "batch", "cadre", "nid_number",
	"designation_during_period", "workplace_during_period", "current_designation", "current_workplace",
	"health_height", "health_weight", "health_eyesight", "health_blood_group", "health_blood_pressure",
	"health_weakness", "health_medical_category", "health_checkup_date",
	"ministry_name", "acr_period_from", "acr_period_to", "father_name", "mother_name", "date_of_birth",
	"prl_start_date", "marital_status", "number_of_children", "highest_education", "personal_email",
	"govt_service_join_date", "gazetted_post_join_date", "cadre_join_date",
	"position_name", "position_workplace", "position_join_date", "previous_position", "previous_workplace",
	"work_description_1", "work_description_2", "work_description_3", "work_description_4", "work_description_5",
	"partial_acr_reason",
}

// IOEditableFields 起草官可编辑字段（评审官身份 + 25 项评分 + 评语）
var IOEditableFields = []string{
	"reviewer_name", "reviewer_designation", "reviewer_workplace", "reviewer_id_number", "reviewer_email",
	"reviewer_period_from", "reviewer_period_to", "reviewer_previous_designation", "reviewer_previous_workplace",
	"rating_ethics", "rating_honesty", "rating_discipline", "rating_judgment", "rating_personality",
	"rating_cooperation", "rating_punctuality", "rating_reliability", "rating_responsibility",
	"rating_work_interest", "rating_following_orders", "rating_initiative", "rating_client_behavior",
	"rating_professional_knowledge", "rating_work_quality", "rating_dedication", "rating_work_quantity",
	"rating_decision_making", "rating_decision_implementation", "rating_supervision", "rating_teamwork_leadership",
	"rating_efile_internet", "rating_innovation", "rating_written_expression", "rating_verbal_expression",
	"reviewer_additional_comments", "comment_type", "reviewer_signature_date", "reviewer_memo_number",
}

// COEditableFields 会签官可编辑字段（会签官身份 + 同意/评分 + 评语）
var COEditableFields = []string{
	"countersigner_name", "countersigner_designation", "countersigner_workplace", "countersigner_id_number",
	"countersigner_email", "countersigner_period_from", "countersigner_period_to",
	"countersigner_previous_designation", "countersigner_previous_workplace",
	"countersigner_agrees", "countersigner_agree_comment", "countersigner_disagree_comment",
	"countersigner_same_person_reason", "countersigner_adverse_comment",
	"countersigner_score", "countersigner_score_in_words",
	"countersigner_signature_date", "countersigner_memo_number",
}

// DossierEditableFields 档案保管员可编辑字段（收档/处理/平均分）
var DossierEditableFields = []string{
	"dossier_received_date", "dossier_action_taken",
	"dossier_average_score", "dossier_average_score_in_words",
}

// EditableFieldsFor 计算职员对该报告的可编辑字段集。
// 判定顺序：当事职员 → 起草官 → 会签官 → 档案保管员，首个命中生效；
// 无身份匹配或对应阶段不可编辑时返回空集（只读）
func (a *ACR) EditableFieldsFor(emp *Employee) []string {
	if emp == nil {
		return nil
	}

	if a.EmployeeID == emp.EmployeeID && a.CanBeEditedByEmployee() {
		return EmployeeEditableFields
	}
	if a.InitiatingOfficerID != nil && *a.InitiatingOfficerID == emp.EmployeeID && a.CanBeEditedByIO() {
		return IOEditableFields
	}
	if a.CountersigningOfficerID != nil && *a.CountersigningOfficerID == emp.EmployeeID && a.CanBeEditedByCO() {
		return COEditableFields
	}
	// 档案保管员是职员属性，不与单个报告绑定
	if emp.ActsAsDossierKeeper() && a.CanBeEditedByDossier() {
		return DossierEditableFields
	}

	return nil
}

// FilterUpdate 将提交的变更收敛到该职员的可编辑字段集内。
// 越权字段静默丢弃而非报错——这是合并前唯一的净化边界；幂等
func (a *ACR) FilterUpdate(changes map[string]any, emp *Employee) map[string]any {
	editable := a.EditableFieldsFor(emp)
	allowed := make(map[string]bool, len(editable))
	for _, f := range editable {
		allowed[f] = true
	}

	filtered := make(map[string]any, len(changes))
	for name, value := range changes {
		if allowed[name] {
			filtered[name] = value
		}
	}
	return filtered
}

// ApplyFields 将（已过滤的）字段变更写入模型。
// 值来自 JSON 解码，数字为 float64、日期为字符串，此处统一做类型收敛；
// 未知字段名忽略
func (a *ACR) ApplyFields(changes map[string]any) {
	for name, v := range changes {
		switch name {
		// ── 基本信息 ──
		case "reporting_year":
			a.ReportingYear = asString(v)
		case "name_bangla":
			a.NameBangla = asString(v)
		case "name_english":
			a.NameEnglish = asString(v)
		case "id_number":
			a.IDNumber = asString(v)
		case "batch":
			a.Batch = asString(v)
		case "cadre":
			a.Cadre = asString(v)
		case "nid_number":
			a.NIDNumber = asString(v)

		// ── 任职信息 ──
		case "designation_during_period":
			a.DesignationDuringPeriod = asString(v)
		case "workplace_during_period":
			a.WorkplaceDuringPeriod = asString(v)
		case "current_designation":
			a.CurrentDesignation = asString(v)
		case "current_workplace":
			a.CurrentWorkplace = asString(v)

		// ── 健康 ──
		case "health_height":
			a.HealthHeight = asString(v)
		case "health_weight":
			a.HealthWeight = asString(v)
		case "health_eyesight":
			a.HealthEyesight = asString(v)
		case "health_blood_group":
			a.HealthBloodGroup = asString(v)
		case "health_blood_pressure":
			a.HealthBloodPressure = asString(v)
		case "health_weakness":
			a.HealthWeakness = asString(v)
		case "health_medical_category":
			a.HealthMedicalCategory = asString(v)
		case "health_checkup_date":
			a.HealthCheckupDate = asDatePtr(v)

		// ── 评审官信息 ──
		case "reviewer_name":
			a.ReviewerName = asString(v)
		case "reviewer_designation":
			a.ReviewerDesignation = asString(v)
		case "reviewer_workplace":
			a.ReviewerWorkplace = asString(v)
		case "reviewer_id_number":
			a.ReviewerIDNumber = asString(v)
		case "reviewer_email":
			a.ReviewerEmail = asString(v)
		case "reviewer_period_from":
			a.ReviewerPeriodFrom = asDatePtr(v)
		case "reviewer_period_to":
			a.ReviewerPeriodTo = asDatePtr(v)
		case "reviewer_previous_designation":
			a.ReviewerPreviousDesignation = asString(v)
		case "reviewer_previous_workplace":
			a.ReviewerPreviousWorkplace = asString(v)

		// ── 会签官信息 ──
		case "countersigner_name":
			a.CountersignerName = asString(v)
		case "countersigner_designation":
			a.CountersignerDesignation = asString(v)
		case "countersigner_workplace":
			a.CountersignerWorkplace = asString(v)
		case "countersigner_id_number":
			a.CountersignerIDNumber = asString(v)
		case "countersigner_email":
			a.CountersignerEmail = asString(v)
		case "countersigner_period_from":
			a.CountersignerPeriodFrom = asDatePtr(v)
		case "countersigner_period_to":
			a.CountersignerPeriodTo = asDatePtr(v)
		case "countersigner_previous_designation":
			a.CountersignerPreviousDesignation = asString(v)
		case "countersigner_previous_workplace":
			a.CountersignerPreviousWorkplace = asString(v)

		case "partial_acr_reason":
			a.PartialACRReason = asString(v)

		// ── 个人信息 ──
		case "ministry_name":
			a.MinistryName = asString(v)
		case "acr_period_from":
			a.ACRPeriodFrom = asDatePtr(v)
		case "acr_period_to":
			a.ACRPeriodTo = asDatePtr(v)
		case "father_name":
			a.FatherName = asString(v)
		case "mother_name":
			a.MotherName = asString(v)
		case "date_of_birth":
			a.DateOfBirth = asDatePtr(v)
		case "prl_start_date":
			a.PRLStartDate = asDatePtr(v)
		case "marital_status":
			a.MaritalStatus = asString(v)
		case "number_of_children":
			a.NumberOfChildren = asIntPtr(v)
		case "highest_education":
			a.HighestEducation = asString(v)
		case "personal_email":
			a.PersonalEmail = asString(v)

		// ── 入职信息 ──
		case "govt_service_join_date":
			a.GovtServiceJoinDate = asDatePtr(v)
		case "gazetted_post_join_date":
			a.GazettedPostJoinDate = asDatePtr(v)
		case "cadre_join_date":
			a.CadreJoinDate = asDatePtr(v)

		// ── 现任职位 ──
		case "position_name":
			a.PositionName = asString(v)
		case "position_workplace":
			a.PositionWorkplace = asString(v)
		case "position_join_date":
			a.PositionJoinDate = asDatePtr(v)
		case "previous_position":
			a.PreviousPosition = asString(v)
		case "previous_workplace":
			a.PreviousWorkplace = asString(v)

		// ── 工作描述 ──
		case "work_description_1":
			a.WorkDescription1 = asString(v)
		case "work_description_2":
			a.WorkDescription2 = asString(v)
		case "work_description_3":
			a.WorkDescription3 = asString(v)
		case "work_description_4":
			a.WorkDescription4 = asString(v)
		case "work_description_5":
			a.WorkDescription5 = asString(v)

		// ── 25 项评分 ──
		case "rating_ethics":
			a.RatingEthics = asIntPtr(v)
		case "rating_honesty":
			a.RatingHonesty = asIntPtr(v)
		case "rating_discipline":
			a.RatingDiscipline = asIntPtr(v)
		case "rating_judgment":
			a.RatingJudgment = asIntPtr(v)
		case "rating_personality":
			a.RatingPersonality = asIntPtr(v)
		case "rating_cooperation":
			a.RatingCooperation = asIntPtr(v)
		case "rating_punctuality":
			a.RatingPunctuality = asIntPtr(v)
		case "rating_reliability":
			a.RatingReliability = asIntPtr(v)
		case "rating_responsibility":
			a.RatingResponsibility = asIntPtr(v)
		case "rating_work_interest":
			a.RatingWorkInterest = asIntPtr(v)
		case "rating_following_orders":
			a.RatingFollowingOrders = asIntPtr(v)
		case "rating_initiative":
			a.RatingInitiative = asIntPtr(v)
		case "rating_client_behavior":
			a.RatingClientBehavior = asIntPtr(v)
		case "rating_professional_knowledge":
			a.RatingProfessionalKnowledge = asIntPtr(v)
		case "rating_work_quality":
			a.RatingWorkQuality = asIntPtr(v)
		case "rating_dedication":
			a.RatingDedication = asIntPtr(v)
		case "rating_work_quantity":
			a.RatingWorkQuantity = asIntPtr(v)
		case "rating_decision_making":
			a.RatingDecisionMaking = asIntPtr(v)
		case "rating_decision_implementation":
			a.RatingDecisionImplementation = asIntPtr(v)
		case "rating_supervision":
			a.RatingSupervision = asIntPtr(v)
		case "rating_teamwork_leadership":
			a.RatingTeamworkLeadership = asIntPtr(v)
		case "rating_efile_internet":
			a.RatingEfileInternet = asIntPtr(v)
		case "rating_innovation":
			a.RatingInnovation = asIntPtr(v)
		case "rating_written_expression":
			a.RatingWrittenExpression = asIntPtr(v)
		case "rating_verbal_expression":
			a.RatingVerbalExpression = asIntPtr(v)

		// ── 评审官评语 ──
		case "reviewer_additional_comments":
			a.ReviewerAdditionalComments = asString(v)
		case "comment_type":
			a.CommentType = asString(v)
		case "reviewer_signature_date":
			a.ReviewerSignatureDate = asDatePtr(v)
		case "reviewer_memo_number":
			a.ReviewerMemoNumber = asString(v)

		// ── 会签官评语 ──
		case "countersigner_agrees":
			a.CountersignerAgrees = asBoolPtr(v)
		case "countersigner_agree_comment":
			a.CountersignerAgreeComment = asString(v)
		case "countersigner_disagree_comment":
			a.CountersignerDisagreeComment = asString(v)
		case "countersigner_same_person_reason":
			a.CountersignerSamePersonReason = asString(v)
		case "countersigner_adverse_comment":
			a.CountersignerAdverseComment = asString(v)
		case "countersigner_score":
			a.CountersignerScore = asIntPtr(v)
		case "countersigner_score_in_words":
			a.CountersignerScoreInWords = asString(v)
		case "countersigner_signature_date":
			a.CountersignerSignatureDate = asDatePtr(v)
		case "countersigner_memo_number":
			a.CountersignerMemoNumber = asString(v)

		// ── 档案处理 ──
		case "dossier_received_date":
			a.DossierReceivedDate = asDatePtr(v)
		case "dossier_action_taken":
			a.DossierActionTaken = asString(v)
		case "dossier_average_score":
			a.DossierAverageScore = asIntPtr(v)
		case "dossier_average_score_in_words":
			a.DossierAverageScoreInWords = asString(v)
		}
	}
}

// ── JSON 值类型收敛 ──

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asIntPtr(v any) *int {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		i := int(n)
		return &i
	case int:
		i := n
		return &i
	case int64:
		i := int(n)
		return &i
	default:
		return nil
	}
}

func asBoolPtr(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func asDatePtr(v any) *time.Time {
	switch d := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &d
	case *time.Time:
		return d
	case string:
		if d == "" {
			return nil
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return &t
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return &t
		}
		return nil
	default:
		return nil
	}
}

// [自证通过] internal/model/acr_fields.go
