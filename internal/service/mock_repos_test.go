package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/laurealim/acr-backend/internal/model"
	"github.com/laurealim/acr-backend/internal/repository"
)

// mockStore 内存数据集，各 mock 仓库共享
type mockStore struct {
	seq       int
	acrs      map[string]*model.ACR
	employees map[string]*model.Employee
	users     map[string]*model.User
	offices   map[string]*model.Office
	pdfs      map[string]*model.AcrPdf
	history   []*model.WorkflowHistory
}

func newMockStore() *mockStore {
	return &mockStore{
		acrs:      map[string]*model.ACR{},
		employees: map[string]*model.Employee{},
		users:     map[string]*model.User{},
		offices:   map[string]*model.Office{},
		pdfs:      map[string]*model.AcrPdf{},
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// newMockRepository 构造内存实现的数据访问层聚合
func newMockRepository(s *mockStore) *repository.Repository {
	r := &repository.Repository{
		ACRs:      &mockACRRepo{s: s},
		Employees: &mockEmployeeRepo{s: s},
		Users:     &mockUserRepo{s: s},
		Offices:   &mockOfficeRepo{s: s},
		Pdfs:      &mockPdfRepo{s: s},
		History:   &mockHistoryRepo{s: s},
	}
	r.Tx = &mockTxManager{repo: r}
	return r
}

// mockTxManager 无事务语义：读取返回副本、保存写回副本，
// 失败路径在写回前返回即等效回滚
type mockTxManager struct {
	repo *repository.Repository
}

func (m *mockTxManager) InTx(_ context.Context, fn func(r *repository.Repository) error) error {
	return fn(m.repo)
}

// ── ACR ──

type mockACRRepo struct {
	s *mockStore
}

func (r *mockACRRepo) Create(_ context.Context, acr *model.ACR) error {
	if acr.ACRID == "" {
		acr.ACRID = r.s.nextID("acr")
	}
	cp := *acr
	r.s.acrs[acr.ACRID] = &cp
	return nil
}

func (r *mockACRRepo) Save(_ context.Context, acr *model.ACR) error {
	cp := *acr
	cp.Employee = nil
	cp.InitiatingOfficer = nil
	cp.CountersigningOfficer = nil
	cp.DossierKeeper = nil
	r.s.acrs[acr.ACRID] = &cp
	return nil
}

func (r *mockACRRepo) Delete(_ context.Context, acrID string) error {
	delete(r.s.acrs, acrID)
	return nil
}

func (r *mockACRRepo) getCopy(acrID string) *model.ACR {
	a, ok := r.s.acrs[acrID]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (r *mockACRRepo) GetByID(_ context.Context, acrID string) (*model.ACR, error) {
	acr := r.getCopy(acrID)
	if acr == nil {
		return nil, nil
	}
	if emp, ok := r.s.employees[acr.EmployeeID]; ok {
		cp := *emp
		acr.Employee = &cp
	}
	return acr, nil
}

func (r *mockACRRepo) GetByIDForUpdate(_ context.Context, acrID string) (*model.ACR, error) {
	return r.getCopy(acrID), nil
}

func (r *mockACRRepo) sorted() []*model.ACR {
	out := make([]*model.ACR, 0, len(r.s.acrs))
	for _, a := range r.s.acrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ACRID < out[j].ACRID })
	return out
}

func (r *mockACRRepo) filter(pred func(*model.ACR) bool) []model.ACR {
	var out []model.ACR
	for _, a := range r.sorted() {
		if pred(a) {
			out = append(out, *a)
		}
	}
	return out
}

func (r *mockACRRepo) ListByEmployee(_ context.Context, employeeID string, _, _ int) ([]model.ACR, int64, error) {
	out := r.filter(func(a *model.ACR) bool { return a.EmployeeID == employeeID })
	return out, int64(len(out)), nil
}

func pendingForIO(a *model.ACR, officerID string) bool {
	return a.InitiatingOfficerID != nil && *a.InitiatingOfficerID == officerID &&
		(a.Status == model.StatusSubmittedToIO || a.Status == model.StatusReturnedToIO)
}

func pendingForCO(a *model.ACR, officerID string) bool {
	return a.CountersigningOfficerID != nil && *a.CountersigningOfficerID == officerID &&
		a.Status == model.StatusSubmittedToCO
}

func (r *mockACRRepo) pendingForDossier(a *model.ACR, officeID string) bool {
	emp, ok := r.s.employees[a.EmployeeID]
	return ok && emp.OfficeID == officeID && a.Status == model.StatusSubmittedToDossier
}

func (r *mockACRRepo) ListPendingForIO(_ context.Context, officerID string, _, _ int) ([]model.ACR, int64, error) {
	out := r.filter(func(a *model.ACR) bool { return pendingForIO(a, officerID) })
	return out, int64(len(out)), nil
}

func (r *mockACRRepo) ListPendingForCO(_ context.Context, officerID string, _, _ int) ([]model.ACR, int64, error) {
	out := r.filter(func(a *model.ACR) bool { return pendingForCO(a, officerID) })
	return out, int64(len(out)), nil
}

func (r *mockACRRepo) ListPendingForDossier(_ context.Context, officeID string, _, _ int) ([]model.ACR, int64, error) {
	out := r.filter(func(a *model.ACR) bool { return r.pendingForDossier(a, officeID) })
	return out, int64(len(out)), nil
}

func (r *mockACRRepo) ListCompletedByOffice(_ context.Context, officeID string) ([]model.ACR, error) {
	out := r.filter(func(a *model.ACR) bool {
		emp, ok := r.s.employees[a.EmployeeID]
		return ok && emp.OfficeID == officeID && a.Status == model.StatusCompleted
	})
	for i := range out {
		if emp, ok := r.s.employees[out[i].EmployeeID]; ok {
			cp := *emp
			out[i].Employee = &cp
		}
	}
	return out, nil
}

func (r *mockACRRepo) ExistsNonPartialForYear(_ context.Context, employeeID, year, excludeACRID string) (bool, error) {
	for _, a := range r.s.acrs {
		if a.EmployeeID == employeeID && a.ReportingYear == year &&
			a.PartialACRReason == "" && a.ACRID != excludeACRID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockACRRepo) StatusCountsByEmployee(_ context.Context, employeeID string) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, a := range r.s.acrs {
		if a.EmployeeID == employeeID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (r *mockACRRepo) CountPendingForIO(_ context.Context, officerID string) (int64, error) {
	return int64(len(r.filter(func(a *model.ACR) bool { return pendingForIO(a, officerID) }))), nil
}

func (r *mockACRRepo) CountPendingForCO(_ context.Context, officerID string) (int64, error) {
	return int64(len(r.filter(func(a *model.ACR) bool { return pendingForCO(a, officerID) }))), nil
}

func (r *mockACRRepo) CountPendingForDossier(_ context.Context, officeID string) (int64, error) {
	return int64(len(r.filter(func(a *model.ACR) bool { return r.pendingForDossier(a, officeID) }))), nil
}

func (r *mockACRRepo) CountReturnedTo(_ context.Context, employeeID string) (int64, error) {
	return int64(len(r.filter(func(a *model.ACR) bool {
		return (a.EmployeeID == employeeID && a.Status == model.StatusReturnedToEmployee) ||
			(a.InitiatingOfficerID != nil && *a.InitiatingOfficerID == employeeID && a.Status == model.StatusReturnedToIO)
	}))), nil
}

// ── Employee ──

type mockEmployeeRepo struct {
	s *mockStore
}

func (r *mockEmployeeRepo) GetByID(_ context.Context, employeeID string) (*model.Employee, error) {
	e, ok := r.s.employees[employeeID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *mockEmployeeRepo) GetByUserID(_ context.Context, userID string) (*model.Employee, error) {
	for _, e := range r.s.employees {
		if e.UserID != nil && *e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockEmployeeRepo) ListFirstClassActive(_ context.Context, excludeEmployeeID string) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.s.employees {
		if e.IsFirstClassOfficer() && e.IsActive && e.EmployeeID != excludeEmployeeID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *mockEmployeeRepo) ListByOffice(_ context.Context, officeID string) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.s.employees {
		if e.OfficeID == officeID && e.IsActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *mockEmployeeRepo) Save(_ context.Context, emp *model.Employee) error {
	cp := *emp
	r.s.employees[emp.EmployeeID] = &cp
	return nil
}

// ── User ──

type mockUserRepo struct {
	s *mockStore
}

func (r *mockUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepo) Save(_ context.Context, user *model.User) error {
	cp := *user
	r.s.users[user.UserID] = &cp
	return nil
}

// ── Office ──

type mockOfficeRepo struct {
	s *mockStore
}

func (r *mockOfficeRepo) GetByID(_ context.Context, officeID string) (*model.Office, error) {
	o, ok := r.s.offices[officeID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *mockOfficeRepo) List(_ context.Context) ([]model.Office, error) {
	var out []model.Office
	for _, o := range r.s.offices {
		out = append(out, *o)
	}
	return out, nil
}

// ── Pdf ──

type mockPdfRepo struct {
	s *mockStore
}

func (r *mockPdfRepo) Create(_ context.Context, pdf *model.AcrPdf) error {
	if pdf.PdfID == "" {
		pdf.PdfID = r.s.nextID("pdf")
	}
	cp := *pdf
	r.s.pdfs[pdf.PdfID] = &cp
	return nil
}

func (r *mockPdfRepo) Delete(_ context.Context, pdfID string) error {
	delete(r.s.pdfs, pdfID)
	return nil
}

func (r *mockPdfRepo) GetByID(_ context.Context, pdfID string) (*model.AcrPdf, error) {
	p, ok := r.s.pdfs[pdfID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *mockPdfRepo) listSorted(pred func(*model.AcrPdf) bool) []model.AcrPdf {
	var out []model.AcrPdf
	for _, p := range r.s.pdfs {
		if pred(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartialSequence < out[j].PartialSequence })
	return out
}

func (r *mockPdfRepo) ListByACR(_ context.Context, acrID string) ([]model.AcrPdf, error) {
	return r.listSorted(func(p *model.AcrPdf) bool { return p.ACRID == acrID }), nil
}

func (r *mockPdfRepo) ListByEmployeeYear(_ context.Context, employeeID, year string) ([]model.AcrPdf, error) {
	return r.listSorted(func(p *model.AcrPdf) bool {
		return p.EmployeeID == employeeID && p.ReportingYear == year
	}), nil
}

func (r *mockPdfRepo) CountByEmployeeYear(_ context.Context, employeeID, year string) (int64, error) {
	var count int64
	for _, p := range r.s.pdfs {
		if p.EmployeeID == employeeID && p.ReportingYear == year {
			count++
		}
	}
	return count, nil
}

// ── History ──

type mockHistoryRepo struct {
	s *mockStore
}

func (r *mockHistoryRepo) Create(_ context.Context, h *model.WorkflowHistory) error {
	if h.HistoryID == "" {
		h.HistoryID = r.s.nextID("hist")
	}
	cp := *h
	r.s.history = append(r.s.history, &cp)
	return nil
}

func (r *mockHistoryRepo) ListByACR(_ context.Context, acrID string) ([]model.WorkflowHistory, error) {
	var out []model.WorkflowHistory
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].ACRID == acrID {
			out = append(out, *r.s.history[i])
		}
	}
	return out, nil
}

// fixedClock 固定时间源
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func errorIs(err, target error) bool { return errors.Is(err, target) }
