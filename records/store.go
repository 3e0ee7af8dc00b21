package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	auth "github.com/goliatone/go-campus-auth"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store reads the campus records tables
type Store struct {
	db bun.IDB
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// ScheduleByStudent returns the schedule rows of studentID in course
// time order. No rows is an empty slice, not an error.
func (s *Store) ScheduleByStudent(ctx context.Context, studentID string) ([]ScheduleEntry, error) {
	entries := make([]ScheduleEntry, 0)
	err := s.db.NewSelect().
		Model(&entries).
		Column("course_name", "course_time").
		Where("?TableAlias.student_id = ?", studentID).
		OrderExpr("?TableAlias.course_time ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, auth.WrapError(auth.ErrStoreFailure, err)
	}
	return entries, nil
}

// AddScheduleEntry inserts a course slot, an empty id gets a random uuid
func (s *Store) AddScheduleEntry(ctx context.Context, entry *ScheduleEntry) error {
	if entry == nil {
		return auth.WrapError(auth.ErrStoreFailure, errors.New("entry must not be nil"))
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return auth.WrapError(auth.ErrStoreFailure, err)
	}
	return nil
}

// SelectAll returns every row of table. The name must be a plain
// identifier, it is quoted before reaching the query.
func (s *Store) SelectAll(ctx context.Context, table string) ([]map[string]any, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, auth.WrapError(auth.ErrStoreFailure, fmt.Errorf("invalid table name %q", table))
	}

	rows := make([]map[string]any, 0)
	err := s.db.NewSelect().
		TableExpr("?", bun.Ident(table)).
		ColumnExpr("*").
		Scan(ctx, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, auth.WrapError(auth.ErrStoreFailure, err)
	}

	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}

	return rows, nil
}
