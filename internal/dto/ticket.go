package dto

// ── 修改工单模块 DTO ──

// TicketListRequest 工单列表查询
type TicketListRequest struct {
	PaginationRequest
	PeriodID  string `form:"period_id"  binding:"omitempty,uuid"`
	ClassID   string `form:"class_id"   binding:"omitempty,uuid"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
}

// DecideTicketRequest 工单决定请求（approve 时 note 可选，reject 时 reason 必填）
type DecideTicketRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// RejectTicketRequest 驳回工单请求
type RejectTicketRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// TicketResponse 工单信息响应
type TicketResponse struct {
	ID            string   `json:"id"`
	GradeRecordID string   `json:"grade_record_id"`
	OldValue      *float64 `json:"old_value,omitempty"`
	NewValue      *float64 `json:"new_value,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Status        string   `json:"status"`
	RequestedBy   string   `json:"requested_by"`
	RequestedAt   string   `json:"requested_at"`
	DecidedBy     string   `json:"decided_by,omitempty"`
	DecidedAt     string   `json:"decided_at,omitempty"`
	DecisionNote  string   `json:"decision_note,omitempty"`

	// 审批队列展示用联表数据
	StudentName   string `json:"student_name,omitempty"`
	SubjectName   string `json:"subject_name,omitempty"`
	ClassName     string `json:"class_name,omitempty"`
	RequesterName string `json:"requester_name,omitempty"`
	ComponentType string `json:"component_type,omitempty"`
}

// [自证通过] internal/dto/ticket.go
