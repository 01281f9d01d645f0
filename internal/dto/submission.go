package dto

// ── 成绩提交模块 DTO ──

// SubmitGradesRequest 提交成绩请求
// 快照由服务端从当前在库成绩生成；重复提交必须附 resubmission_reason
type SubmitGradesRequest struct {
	PeriodID           string `json:"period_id"           binding:"required,uuid"`
	ClassID            string `json:"class_id"            binding:"required,uuid"`
	SubjectID          string `json:"subject_id"          binding:"required,uuid"`
	ResubmissionReason string `json:"resubmission_reason" binding:"omitempty,max=500"`
}

// SubmissionListRequest 提交列表查询
type SubmissionListRequest struct {
	PaginationRequest
	PeriodID  string `form:"period_id"  binding:"omitempty,uuid"`
	ClassID   string `form:"class_id"   binding:"omitempty,uuid"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	Status    string `form:"status"     binding:"omitempty,oneof=draft submitted approved rejected"`
}

// RejectSubmissionRequest 驳回提交请求
type RejectSubmissionRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ApproveSubmissionRequest 批准提交请求
type ApproveSubmissionRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// SnapshotEntryResponse 快照中单个学生的成绩行
type SnapshotEntryResponse struct {
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	RegularGrades []float64 `json:"regular_grades"`
	MidtermGrade  *float64  `json:"midterm_grade,omitempty"`
	FinalGrade    *float64  `json:"final_grade,omitempty"`
	SummaryGrade  *float64  `json:"summary_grade,omitempty"`
	LastModified  string    `json:"last_modified,omitempty"`
	ModifiedBy    string    `json:"modified_by,omitempty"`
}

// SubmissionResponse 提交信息响应
type SubmissionResponse struct {
	ID                 string                  `json:"id"`
	PeriodID           string                  `json:"period_id"`
	ClassID            string                  `json:"class_id"`
	SubjectID          string                  `json:"subject_id"`
	TeacherID          string                  `json:"teacher_id"`
	PeriodName         string                  `json:"period_name,omitempty"`
	ClassName          string                  `json:"class_name,omitempty"`
	SubjectName        string                  `json:"subject_name,omitempty"`
	TeacherName        string                  `json:"teacher_name,omitempty"`
	Status             string                  `json:"status"`
	SubmissionCount    int                     `json:"submission_count"`
	ResubmissionReason string                  `json:"resubmission_reason,omitempty"`
	SnapshotVersion    int                     `json:"snapshot_version"`
	Snapshot           []SnapshotEntryResponse `json:"snapshot,omitempty"`
	SubmittedAt        string                  `json:"submitted_at,omitempty"`
	DecidedBy          string                  `json:"decided_by,omitempty"`
	DecidedAt          string                  `json:"decided_at,omitempty"`
	DecisionNote       string                  `json:"decision_note,omitempty"`
}

// [自证通过] internal/dto/submission.go
