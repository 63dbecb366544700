package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Provenance 请求来源信息，由 Handler 层显式构造并传入工作流引擎，
// 用于审计记录；禁止在服务层隐式读取请求上下文
type Provenance struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// [自证通过] internal/model/base.go
