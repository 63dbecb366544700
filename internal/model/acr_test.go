package model

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newEmployee(id string, grade int) *Employee {
	return &Employee{
		EmployeeID: id,
		OfficeID:   "office-1",
		EmployeeNo: "E" + id,
		NameBangla: "কর্মচারী " + id,
		Grade:      grade,
		IsActive:   true,
	}
}

func newDraftACR(employeeID string) *ACR {
	acr := &ACR{
		ACRID:         "acr-1",
		EmployeeID:    employeeID,
		ReportingYear: "2025",
	}
	acr.SetState(StatusDraft)
	return acr
}

// ── 状态与持有人 ──

func TestStatusHolderPairing(t *testing.T) {
	cases := []struct {
		status string
		holder string
	}{
		{StatusDraft, HolderEmployee},
		{StatusSubmittedToIO, HolderIO},
		{StatusReturnedToEmployee, HolderEmployee},
		{StatusIOCompleted, HolderIO},
		{StatusSubmittedToCO, HolderCO},
		{StatusReturnedToIO, HolderIO},
		{StatusCOCompleted, HolderCO},
		{StatusSubmittedToDossier, HolderDossier},
		{StatusCompleted, HolderCompleted},
	}
	acr := newDraftACR("emp-1")
	for _, tc := range cases {
		acr.SetState(tc.status)
		if acr.Status != tc.status {
			t.Errorf("SetState(%s) 后状态为 %s", tc.status, acr.Status)
		}
		if acr.CurrentHolder != tc.holder {
			t.Errorf("状态 %s 的持有人应为 %s, 得到 %s", tc.status, tc.holder, acr.CurrentHolder)
		}
	}
}

func TestSetStateUnknownStatusIgnored(t *testing.T) {
	acr := newDraftACR("emp-1")
	acr.SetState("bogus")
	if acr.Status != StatusDraft || acr.CurrentHolder != HolderEmployee {
		t.Errorf("未知状态不应改变 (%s, %s)", acr.Status, acr.CurrentHolder)
	}
}

// ── 字段集 ──

func TestEditableFieldSetsDisjoint(t *testing.T) {
	sets := map[string][]string{
		"employee": EmployeeEditableFields,
		"io":       IOEditableFields,
		"co":       COEditableFields,
		"dossier":  DossierEditableFields,
	}
	seen := map[string]string{}
	for name, fields := range sets {
		for _, f := range fields {
			if owner, ok := seen[f]; ok {
				t.Errorf("字段 %s 同时出现在 %s 和 %s 集合中", f, owner, name)
			}
			seen[f] = name
		}
	}
}

func TestEditableFieldsForResolution(t *testing.T) {
	subject := newEmployee("emp-1", 12)
	io := newEmployee("io-1", 5)
	co := newEmployee("co-1", 3)
	keeper := newEmployee("keeper-1", 10)
	keeper.IsDossierKeeper = true
	stranger := newEmployee("x-1", 8)

	acr := newDraftACR(subject.EmployeeID)
	acr.InitiatingOfficerID = strPtr(io.EmployeeID)
	acr.CountersigningOfficerID = strPtr(co.EmployeeID)

	if got := acr.EditableFieldsFor(subject); len(got) != len(EmployeeEditableFields) {
		t.Errorf("草稿阶段当事职员应得职员字段集, 得到 %d 个字段", len(got))
	}
	if got := acr.EditableFieldsFor(io); len(got) != 0 {
		t.Errorf("草稿阶段起草官应为只读, 得到 %d 个字段", len(got))
	}

	acr.SetState(StatusSubmittedToIO)
	if got := acr.EditableFieldsFor(io); len(got) != len(IOEditableFields) {
		t.Errorf("IO 阶段起草官应得 IO 字段集, 得到 %d 个字段", len(got))
	}
	if got := acr.EditableFieldsFor(subject); len(got) != 0 {
		t.Errorf("IO 阶段当事职员应为只读, 得到 %d 个字段", len(got))
	}

	acr.SetState(StatusSubmittedToCO)
	if got := acr.EditableFieldsFor(co); len(got) != len(COEditableFields) {
		t.Errorf("CO 阶段会签官应得 CO 字段集, 得到 %d 个字段", len(got))
	}

	acr.SetState(StatusSubmittedToDossier)
	if got := acr.EditableFieldsFor(keeper); len(got) != len(DossierEditableFields) {
		t.Errorf("档案阶段保管员应得档案字段集, 得到 %d 个字段", len(got))
	}
	if got := acr.EditableFieldsFor(stranger); len(got) != 0 {
		t.Errorf("无关职员应为只读, 得到 %d 个字段", len(got))
	}
}

func TestEditableFieldsSubjectAsOwnIO(t *testing.T) {
	// 同一人既是当事职员又被误设为 IO 时，首个命中（当事职员）生效
	subject := newEmployee("emp-1", 5)
	acr := newDraftACR(subject.EmployeeID)
	acr.InitiatingOfficerID = strPtr(subject.EmployeeID)

	got := acr.EditableFieldsFor(subject)
	if len(got) != len(EmployeeEditableFields) {
		t.Errorf("草稿阶段应按当事职员身份解析, 得到 %d 个字段", len(got))
	}
}

func TestFilterUpdateDropsForbiddenFields(t *testing.T) {
	subject := newEmployee("emp-1", 12)
	acr := newDraftACR(subject.EmployeeID)

	changes := map[string]any{
		"name_bangla":   "নতুন নাম",
		"rating_ethics": float64(4), // 职员不可评分
		"total_score":   float64(99),
		"status":        StatusCompleted,
	}
	filtered := acr.FilterUpdate(changes, subject)
	if len(filtered) != 1 {
		t.Fatalf("期望仅保留 1 个字段, 得到 %d", len(filtered))
	}
	if _, ok := filtered["name_bangla"]; !ok {
		t.Error("name_bangla 应被保留")
	}

	// 幂等：再次过滤结果不变
	again := acr.FilterUpdate(filtered, subject)
	if len(again) != len(filtered) {
		t.Errorf("过滤应幂等, 二次过滤得到 %d 个字段", len(again))
	}
}

func TestApplyFieldsCoercion(t *testing.T) {
	acr := newDraftACR("emp-1")
	acr.ApplyFields(map[string]any{
		"name_bangla":          "আব্দুল করিম",
		"number_of_children":   float64(2),
		"rating_ethics":        3,
		"countersigner_agrees": true,
		"acr_period_from":      "2025-01-01",
		"reviewer_period_to":   "2025-06-30T00:00:00Z",
	})

	if acr.NameBangla != "আব্দুল করিম" {
		t.Errorf("字符串字段未写入: %q", acr.NameBangla)
	}
	if acr.NumberOfChildren == nil || *acr.NumberOfChildren != 2 {
		t.Error("float64 应收敛为 *int")
	}
	if acr.RatingEthics == nil || *acr.RatingEthics != 3 {
		t.Error("int 应收敛为 *int")
	}
	if acr.CountersignerAgrees == nil || !*acr.CountersignerAgrees {
		t.Error("bool 应收敛为 *bool")
	}
	if acr.ACRPeriodFrom == nil || !acr.ACRPeriodFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("日期字符串应解析为 *time.Time, 得到 %v", acr.ACRPeriodFrom)
	}
	if acr.ReviewerPeriodTo == nil {
		t.Error("RFC3339 字符串应解析为 *time.Time")
	}
}

// ── 评分 ──

func TestCalculateTotalScoreFullMarks(t *testing.T) {
	acr := newDraftACR("emp-1")
	for _, name := range IOEditableFields {
		if len(name) > 7 && name[:7] == "rating_" {
			acr.ApplyFields(map[string]any{name: 4})
		}
	}
	if got := acr.CalculateTotalScore(); got != 100 {
		t.Errorf("25 项满分应为 100, 得到 %d", got)
	}
	acr.RecomputeScores()
	if acr.ScoreInWords != GradeExceptional {
		t.Errorf("满分评级应为 %s, 得到 %s", GradeExceptional, acr.ScoreInWords)
	}
}

func TestCalculateTotalScoreNilAsZero(t *testing.T) {
	acr := newDraftACR("emp-1")
	acr.RatingEthics = intPtr(4)
	acr.RatingHonesty = intPtr(3)
	if got := acr.CalculateTotalScore(); got != 7 {
		t.Errorf("未评分项应按 0 计, 期望 7, 得到 %d", got)
	}
}

func TestGradeLabelBanding(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, GradeExceptional},
		{95, GradeExceptional},
		{94, GradeVeryGood},
		{90, GradeVeryGood},
		{89, GradeGood},
		{80, GradeGood},
		{79, GradeSatisfactory},
		{70, GradeSatisfactory},
		{69, GradeBelowStandard},
		{0, GradeBelowStandard},
	}
	for _, tc := range cases {
		if got := GradeLabel(tc.score); got != tc.want {
			t.Errorf("GradeLabel(%d) 期望 %s, 得到 %s", tc.score, tc.want, got)
		}
	}
}

func TestRecomputeScoresDerivedFields(t *testing.T) {
	acr := newDraftACR("emp-1")
	acr.CountersignerScore = intPtr(92)
	acr.DossierAverageScore = intPtr(85)
	acr.RecomputeScores()

	if acr.CountersignerScoreInWords != GradeVeryGood {
		t.Errorf("会签评分 92 评级应为 %s, 得到 %s", GradeVeryGood, acr.CountersignerScoreInWords)
	}
	if acr.DossierAverageScoreInWords != GradeGood {
		t.Errorf("平均分 85 评级应为 %s, 得到 %s", GradeGood, acr.DossierAverageScoreInWords)
	}
}

// ── 编辑权与流转判定 ──

func TestEditabilityPredicates(t *testing.T) {
	acr := newDraftACR("emp-1")

	if !acr.CanBeEditedByEmployee() {
		t.Error("草稿应可由职员编辑")
	}
	acr.SetState(StatusReturnedToEmployee)
	if !acr.CanBeEditedByEmployee() {
		t.Error("退回职员后应可由职员编辑")
	}

	acr.SetState(StatusSubmittedToIO)
	if acr.CanBeEditedByEmployee() {
		t.Error("提交后职员不应再可编辑")
	}
	if !acr.CanBeEditedByIO() || !acr.CanIOReturnToEmployee() {
		t.Error("IO 阶段起草官应可编辑并可退回")
	}

	acr.SetState(StatusReturnedToIO)
	if !acr.CanBeEditedByIO() {
		t.Error("CO 退回后起草官应可编辑")
	}
	if acr.CanIOReturnToEmployee() {
		t.Error("CO 退回状态下起草官不应再退回职员")
	}

	acr.SetState(StatusSubmittedToCO)
	if !acr.CanBeEditedByCO() || !acr.CanCOReturnToIO() {
		t.Error("CO 阶段会签官应可编辑并可退回")
	}

	acr.SetState(StatusSubmittedToDossier)
	if !acr.CanBeEditedByDossier() {
		t.Error("档案阶段保管员应可编辑")
	}

	acr.SetState(StatusCompleted)
	if acr.CanBeEditedByEmployee() || acr.CanBeEditedByIO() || acr.CanBeEditedByCO() || acr.CanBeEditedByDossier() {
		t.Error("完结后任何角色都不应可编辑")
	}
	if !acr.IsCompleted() {
		t.Error("IsCompleted 应为 true")
	}
}

func TestIsPartial(t *testing.T) {
	acr := newDraftACR("emp-1")
	if acr.IsPartial() {
		t.Error("无部分原因时不应为部分报告")
	}
	acr.PartialACRReason = "কর্মস্থল পরিবর্তন"
	if !acr.IsPartial() {
		t.Error("填写部分原因后应为部分报告")
	}
}

func TestEmployeeClassAndEligibility(t *testing.T) {
	cases := []struct {
		grade int
		class string
	}{
		{1, Class1st}, {9, Class1st}, {10, Class2nd}, {13, Class2nd},
		{14, Class3rd}, {16, Class3rd}, {17, Class4th}, {20, Class4th},
	}
	for _, tc := range cases {
		if got := CalculateClass(tc.grade); got != tc.class {
			t.Errorf("CalculateClass(%d) 期望 %s, 得到 %s", tc.grade, tc.class, got)
		}
	}

	officer := newEmployee("o-1", 9)
	if !officer.CanBeInitiatingOfficer() || !officer.CanBeCountersigningOfficer() {
		t.Error("Grade 9 在职官员应具备 IO/CO 资格")
	}
	officer.IsActive = false
	if officer.CanBeInitiatingOfficer() {
		t.Error("停职官员不应具备 IO 资格")
	}
	clerk := newEmployee("c-1", 10)
	if clerk.CanBeInitiatingOfficer() {
		t.Error("Grade 10 职员不应具备 IO 资格")
	}

	keeper := newEmployee("k-1", 12)
	keeper.IsDossierKeeper = true
	if !keeper.ActsAsDossierKeeper() {
		t.Error("在职保管员应具备档案权限")
	}
	keeper.IsActive = false
	if keeper.ActsAsDossierKeeper() {
		t.Error("停职保管员不应具备档案权限")
	}
}
