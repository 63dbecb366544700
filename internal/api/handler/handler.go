package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laurealim/acr-backend/internal/api/middleware"
	"github.com/laurealim/acr-backend/internal/model"
	"github.com/laurealim/acr-backend/internal/service"
	"github.com/laurealim/acr-backend/pkg/jwt"
	"github.com/laurealim/acr-backend/pkg/response"
)

// currentUserID 取当前登录账户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// currentClaims 取当前令牌声明
func currentClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// provenance 采集请求来源信息，随状态变更写入审计记录
func provenance(c *gin.Context) model.Provenance {
	return model.Provenance{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(middleware.CtxRequestID),
	}
}

// writeError 业务错误 → HTTP 响应映射
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, 40400, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, 40300, err.Error())
	case errors.Is(err, service.ErrNoEmployeeIdentity):
		response.Forbidden(c, 40301, err.Error())
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, 40000, err.Error())
	case errors.Is(err, service.ErrDuplicateYear):
		response.Conflict(c, 40900, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		response.Error(c, http.StatusUnprocessableEntity, 42200, err.Error())
	case errors.Is(err, service.ErrMissingPrerequisite):
		response.Error(c, http.StatusUnprocessableEntity, 42201, err.Error())
	case errors.Is(err, service.ErrIntegrityFailure):
		response.Conflict(c, 40901, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenInvalid):
		response.Unauthorized(c, 40100, err.Error())
	default:
		logger.Error("请求处理失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/handler.go
