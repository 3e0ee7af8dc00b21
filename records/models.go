package records

import (
	"github.com/uptrace/bun"
)

// ScheduleEntry is one course slot of a student
type ScheduleEntry struct {
	bun.BaseModel `bun:"table:schedule,alias:sch"`
	ID            string `bun:"id,pk" json:"-"`
	StudentID     string `bun:"student_id,notnull" json:"-"`
	CourseName    string `bun:"course_name,notnull" json:"course_name"`
	CourseTime    string `bun:"course_time,notnull" json:"course_time"`
}

// StudentProfile is the public view of a student
type StudentProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// TableDump is one table inside an export document
type TableDump struct {
	Type     string           `json:"type"`
	Name     string           `json:"name"`
	Database string           `json:"database"`
	Data     []map[string]any `json:"data"`
}

// ExportDocument mirrors the phpMyAdmin JSON export layout
type ExportDocument struct {
	Type    string      `json:"type"`
	Version string      `json:"version"`
	Comment string      `json:"comment"`
	Data    []TableDump `json:"data"`
}
