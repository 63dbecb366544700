package service

import (
	"context"
	"testing"

	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/internal/model"
)

func TestCreatePrefillsFromEmployeeProfile(t *testing.T) {
	env := newTestEnv(t)
	acr, err := env.acrs.Create(context.Background(), subjectUser, testProv(),
		&dto.CreateACRRequest{ReportingYear: "2025"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if acr.Status != model.StatusDraft || acr.CurrentHolder != model.HolderEmployee {
		t.Errorf("新草稿应为 (draft, employee), 得到 (%s, %s)", acr.Status, acr.CurrentHolder)
	}
	if acr.NameBangla != "কর্মচারী emp-subject" {
		t.Errorf("姓名应自职员档案预填, 得到 %q", acr.NameBangla)
	}
	if acr.IDNumber != "NO-emp-subject" {
		t.Errorf("编号应自职员档案预填, 得到 %q", acr.IDNumber)
	}
}

func TestCreateDuplicateYearRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.acrs.Create(ctx, subjectUser, testProv(), &dto.CreateACRRequest{ReportingYear: "2025"}); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	_, err := env.acrs.Create(ctx, subjectUser, testProv(), &dto.CreateACRRequest{ReportingYear: "2025"})
	if !errorIs(err, ErrDuplicateYear) {
		t.Fatalf("同年度重复创建应被拒绝, 得到 %v", err)
	}

	// 部分报告不受年度唯一限制
	if _, err := env.acrs.Create(ctx, subjectUser, testProv(), &dto.CreateACRRequest{
		ReportingYear:    "2025",
		PartialACRReason: "কর্মস্থল পরিবর্তনের কারণে আংশিক অনুবেদন",
	}); err != nil {
		t.Errorf("部分报告创建不应受限, 得到 %v", err)
	}
}

func TestUpdateOfficerValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acr, err := env.acrs.Create(ctx, subjectUser, testProv(), &dto.CreateACRRequest{ReportingYear: "2025"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 不可选择本人
	self := subjectEmp
	_, err = env.acrs.Update(ctx, acr.ACRID, subjectUser, testProv(),
		&dto.UpdateACRRequest{InitiatingOfficerID: &self})
	if !errorIs(err, ErrValidation) {
		t.Errorf("选择本人担任起草官应被拒绝, 得到 %v", err)
	}

	// 非一级官员不具资格（otherEmp Grade 8 是一级；用保管员以外的低职级验证需 Grade>9）
	clerk := otherEmp
	env.store.employees[otherEmp].Grade = 14
	_, err = env.acrs.Update(ctx, acr.ACRID, subjectUser, testProv(),
		&dto.UpdateACRRequest{CountersigningOfficerID: &clerk})
	if !errorIs(err, ErrValidation) {
		t.Errorf("Grade 14 职员担任会签官应被拒绝, 得到 %v", err)
	}

	// 同一人可同时担任 IO 与 CO
	officer := ioEmp
	if _, err := env.acrs.Update(ctx, acr.ACRID, subjectUser, testProv(), &dto.UpdateACRRequest{
		InitiatingOfficerID:     &officer,
		CountersigningOfficerID: &officer,
	}); err != nil {
		t.Errorf("同一官员兼任 IO 与 CO 应被允许, 得到 %v", err)
	}
	stored := env.store.acrs[acr.ACRID]
	if stored.InitiatingOfficerID == nil || stored.CountersigningOfficerID == nil ||
		*stored.InitiatingOfficerID != ioEmp || *stored.CountersigningOfficerID != ioEmp {
		t.Error("官员选择应被保存")
	}
}

func TestUpdateSilentlyDropsForbiddenFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acr, err := env.acrs.Create(ctx, subjectUser, testProv(), &dto.CreateACRRequest{ReportingYear: "2025"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	_, err = env.acrs.Update(ctx, acr.ACRID, subjectUser, testProv(), &dto.UpdateACRRequest{
		Fields: map[string]any{
			"ministry_name": "পরিকল্পনা মন্ত্রণালয়",
			"rating_ethics": 4, // 职员越权评分
		},
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	stored := env.store.acrs[acr.ACRID]
	if stored.MinistryName != "পরিকল্পনা মন্ত্রণালয়" {
		t.Error("合法字段应写入")
	}
	if stored.RatingEthics != nil {
		t.Error("越权字段应被静默丢弃")
	}
}

func TestDestroyRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acr := createDraft(t, env)

	if err := env.acrs.Destroy(ctx, acr.ACRID, ioUser); !errorIs(err, ErrPermissionDenied) {
		t.Errorf("非创建者删除应被拒绝, 得到 %v", err)
	}

	if err := env.workflow.SubmitToIO(ctx, acr.ACRID, subjectUser, testProv()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if err := env.acrs.Destroy(ctx, acr.ACRID, subjectUser); !errorIs(err, ErrInvalidState) {
		t.Errorf("非草稿删除应被拒绝, 得到 %v", err)
	}
}

func TestShowDetailEditableFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acr := createDraft(t, env)

	detail, err := env.acrs.Show(ctx, acr.ACRID, subjectUser)
	if err != nil {
		t.Fatalf("查询详情失败: %v", err)
	}
	if len(detail.EditableFields) != len(model.EmployeeEditableFields) {
		t.Errorf("草稿阶段当事职员可编辑字段应为职员集, 得到 %d", len(detail.EditableFields))
	}
	if !detail.CanSubmit {
		t.Error("官员已选定的草稿应可提交")
	}

	if err := env.workflow.SubmitToIO(ctx, acr.ACRID, subjectUser, testProv()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	detail, err = env.acrs.Show(ctx, acr.ACRID, ioUser)
	if err != nil {
		t.Fatalf("起草官查询详情失败: %v", err)
	}
	if len(detail.EditableFields) != len(model.IOEditableFields) {
		t.Errorf("IO 阶段起草官可编辑字段应为 IO 集, 得到 %d", len(detail.EditableFields))
	}
	if !detail.CanReturn {
		t.Error("IO 阶段起草官应可退回")
	}

	if _, err := env.acrs.Show(ctx, acr.ACRID, otherUser); !errorIs(err, ErrPermissionDenied) {
		t.Errorf("无关职员查看应被拒绝, 得到 %v", err)
	}
}

func TestUpdateStageByHolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acr := createDraft(t, env)

	if err := env.workflow.SubmitToIO(ctx, acr.ACRID, subjectUser, testProv()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	// 起草官中途保存评分
	if _, err := env.acrs.UpdateStage(ctx, acr.ACRID, ioUser, testProv(), map[string]any{
		"rating_ethics": 3,
	}); err != nil {
		t.Fatalf("起草官中途保存失败: %v", err)
	}
	stored := env.store.acrs[acr.ACRID]
	if stored.RatingEthics == nil || *stored.RatingEthics != 3 {
		t.Error("起草官评分应写入")
	}
	if stored.Status != model.StatusSubmittedToIO {
		t.Error("中途保存不应改变状态")
	}

	// 非持有人只读
	if _, err := env.acrs.UpdateStage(ctx, acr.ACRID, subjectUser, testProv(), map[string]any{
		"name_bangla": "হ্যাক",
	}); !errorIs(err, ErrPermissionDenied) {
		t.Errorf("非持有人保存应被拒绝, 得到 %v", err)
	}
}

func TestAvailableOfficersExcludesSelf(t *testing.T) {
	env := newTestEnv(t)
	options, err := env.acrs.AvailableOfficers(context.Background(), ioUser)
	if err != nil {
		t.Fatalf("查询官员名录失败: %v", err)
	}
	for _, o := range options {
		if o.EmployeeID == ioEmp {
			t.Error("名录不应包含本人")
		}
		if o.Grade > 9 {
			t.Errorf("名录不应包含非一级官员 (grade %d)", o.Grade)
		}
	}
}

func TestOfficeDirectoryKeeperOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	directory, err := env.acrs.OfficeDirectory(ctx, keeperUser)
	if err != nil {
		t.Fatalf("保管员查询名录失败: %v", err)
	}
	if directory.Office == nil || directory.Office.OfficeID != "office-1" {
		t.Error("名录应携带机构信息")
	}
	if len(directory.Employees) != 5 {
		t.Errorf("office-1 应有 5 名在职职员, 得到 %d", len(directory.Employees))
	}

	// 停职职员不在名录中
	env.store.employees[otherEmp].IsActive = false
	directory, err = env.acrs.OfficeDirectory(ctx, keeperUser)
	if err != nil {
		t.Fatalf("保管员查询名录失败: %v", err)
	}
	if len(directory.Employees) != 4 {
		t.Errorf("停职后应剩 4 名职员, 得到 %d", len(directory.Employees))
	}

	if _, err := env.acrs.OfficeDirectory(ctx, subjectUser); !errorIs(err, ErrPermissionDenied) {
		t.Errorf("非保管员查询名录应被拒绝, 得到 %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acr := createDraft(t, env)

	if err := env.workflow.SubmitToIO(ctx, acr.ACRID, subjectUser, testProv()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	subjectStats, err := env.acrs.DashboardStats(ctx, subjectUser)
	if err != nil {
		t.Fatalf("职员统计失败: %v", err)
	}
	if subjectStats.MyACRs[model.StatusSubmittedToIO] != 1 {
		t.Error("职员应有 1 件 submitted_to_io 报告")
	}

	ioStats, err := env.acrs.DashboardStats(ctx, ioUser)
	if err != nil {
		t.Fatalf("起草官统计失败: %v", err)
	}
	if ioStats.PendingAsIO != 1 {
		t.Errorf("起草官待办应为 1, 得到 %d", ioStats.PendingAsIO)
	}
}
