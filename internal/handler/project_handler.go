package handler

import (
	"net/http"
	"strconv"

	"github.com/booster-finance/bes/internal/logic"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
}

func NewProjectHandler(db *gorm.DB, reg *registry.Registry, collab logic.Collaborators) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: logic.NewProjectLogic(db, reg, collab),
	}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projectLogic.CreateProject(&logic.CreateProjectParams{
		Title:             req.Title,
		Description:       req.Description,
		MetadataURL:       req.MetadataURL,
		Creator:           req.Creator,
		FundingGoal:       req.FundingGoal,
		StartTime:         req.StartTime,
		MilestoneDates:    req.MilestoneDates,
		MilestonePercents: req.MilestonePercents,
	})
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", project)
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	status := c.Query("status")
	creator := c.Query("creator")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(status, creator, page, pageSize)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProject 获取单个项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	project, err := h.projectLogic.GetProject(id)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", project)
}

// GetProjectStats 获取项目统计信息
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	stats, err := h.projectLogic.GetProjectStats(id)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// CancelProject 创建者取消项目
func (h *ProjectHandler) CancelProject(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.projectLogic.CancelProject(id, req.Caller); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目已取消", nil)
}

// parseId 解析路径里的项目id，失败时已写入响应
func parseId(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return 0, err
	}
	return id, nil
}
