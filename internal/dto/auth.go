package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	TokenPair
	User UserInfo `json:"user"`
}

// UserInfo 当前账户信息（含职员身份与角色能力）
type UserInfo struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	EmployeeID      string `json:"employee_id,omitempty"`
	EmployeeNo      string `json:"employee_no,omitempty"`
	NameBangla      string `json:"name_bangla,omitempty"`
	Designation     string `json:"designation,omitempty"`
	Grade           int    `json:"grade,omitempty"`
	OfficeID        string `json:"office_id,omitempty"`
	IsFirstClass    bool   `json:"is_first_class"`
	IsDossierKeeper bool   `json:"is_dossier_keeper"`
}
