package model

// Class 班级表 — 对应 classes
type Class struct {
	ClassID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name              string  `gorm:"type:varchar(50);not null"                      json:"name"`
	GradeLevel        int     `gorm:"type:smallint;not null"                         json:"grade_level"`
	AcademicYear      string  `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	HomeroomTeacherID *string `gorm:"type:uuid"                                      json:"homeroom_teacher_id,omitempty"`
	SoftDeleteModel

	// 关联
	HomeroomTeacher *User `gorm:"foreignKey:HomeroomTeacherID;references:UserID" json:"homeroom_teacher,omitempty"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// [自证通过] internal/model/class.go
