package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

type students struct {
	repository.Repository[*Student]
}

var (
	_ StudentStore                    = (*students)(nil)
	_ repository.Repository[*Student] = (*students)(nil)
)

// NewStudentsRepository returns the bun backed StudentStore. Lookups by
// identifier resolve against the email column.
func NewStudentsRepository(db bun.IDB) StudentStore {
	return &students{
		Repository: repository.NewRepository[*Student](db, repository.ModelHandlers[*Student]{
			NewRecord: func() *Student { return &Student{} },
			GetID: func(s *Student) uuid.UUID {
				if s == nil {
					return uuid.Nil
				}
				return s.ID
			},
			SetID: func(s *Student, id uuid.UUID) {
				if s != nil {
					s.ID = id
				}
			},
			GetIdentifier: func() string {
				return "email"
			},
		}),
	}
}

// Create inserts record. The unique index on email is what makes two
// concurrent registrations of one address resolve to a single winner.
func (s *students) Create(ctx context.Context, record *Student) (*Student, error) {
	if record == nil {
		return nil, WrapError(ErrStoreFailure, errors.New("record must not be nil"))
	}

	prepareStudentDefaults(record)

	created, err := s.Repository.Create(ctx, record)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapError(ErrDuplicateEmail, err)
		}
		return nil, WrapError(ErrStoreFailure, err)
	}

	return created, nil
}

func (s *students) FindByEmail(ctx context.Context, email string) (*Student, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, WithMetadata(ErrRecordNotFound, map[string]any{"email": email})
	}
	record, err := s.GetByIdentifier(ctx, email)
	return s.found(record, err, "email", email)
}

func (s *students) FindByID(ctx context.Context, id string) (*Student, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, WithMetadata(ErrRecordNotFound, map[string]any{"id": id})
	}
	record, err := s.GetByID(ctx, uid.String())
	return s.found(record, err, "id", uid.String())
}

func (s *students) found(record *Student, err error, column, value string) (*Student, error) {
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, WithMetadata(ErrRecordNotFound, map[string]any{column: value})
		}
		return nil, WrapError(ErrStoreFailure, err)
	}
	return record, nil
}

// IsDuplicateKeyError reports unique constraint violations from the
// postgres and sqlite drivers.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
