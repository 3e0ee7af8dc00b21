package auth

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

const registerTimeout = time.Second * 10

type RegisterStudentMessage struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (e RegisterStudentMessage) Type() string { return "student.register" }

// Validate requires every field to be present and non empty
func (e RegisterStudentMessage) Validate() error {
	n := e.normalized()
	if err := validation.ValidateStruct(&n,
		validation.Field(&n.Name, validation.Required),
		validation.Field(&n.Email, validation.Required),
		validation.Field(&n.Password, validation.Required),
	); err != nil {
		return WrapError(ErrMissingField, err).WithMetadata(map[string]any{
			"fields": validationFields(err),
		})
	}
	return nil
}

// normalized trims the name and lower cases the email, the password is
// kept byte for byte.
func (e RegisterStudentMessage) normalized() RegisterStudentMessage {
	return RegisterStudentMessage{
		Name:     strings.TrimSpace(e.Name),
		Email:    NormalizeEmail(e.Email),
		Password: e.Password,
	}
}

// NormalizeEmail is applied on both registration and login so lookups
// are case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterStudentHandler struct {
	store     StudentStore
	hasher    PasswordHasher
	logger    Logger
	sink      ActivitySink
	useHashid bool
}

type RegisterOption func(*RegisterStudentHandler)

func WithRegisterLogger(logger Logger) RegisterOption {
	return func(h *RegisterStudentHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithRegisterActivitySink(sink ActivitySink) RegisterOption {
	return func(h *RegisterStudentHandler) {
		h.sink = normalizeActivitySink(sink)
	}
}

// WithHashidIDs derives the student id from the email instead of a random uuid
func WithHashidIDs(enabled bool) RegisterOption {
	return func(h *RegisterStudentHandler) {
		h.useHashid = enabled
	}
}

func NewRegisterStudentHandler(store StudentStore, hasher PasswordHasher, opts ...RegisterOption) *RegisterStudentHandler {
	h := &RegisterStudentHandler{
		store:  store,
		hasher: hasher,
		sink:   noopActivitySink{},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = ResolveLogger("auth.register", nil, nil)
	}
	return h
}

// Execute creates a student account. It fails with ErrMissingField,
// ErrDuplicateEmail, ErrHashFailure or ErrStoreFailure.
func (h *RegisterStudentHandler) Execute(ctx context.Context, msg RegisterStudentMessage) (*Student, error) {
	select {
	case <-ctx.Done():
		return nil, WrapError(ErrStoreFailure, ctx.Err())
	default:
		return h.execute(ctx, msg)
	}
}

func (h *RegisterStudentHandler) execute(ctx context.Context, msg RegisterStudentMessage) (*Student, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	msg = msg.normalized()

	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	hash, err := h.hasher.Hash(ctx, msg.Password)
	if err != nil {
		h.logger.Error("Register failed to hash password", "error", err)
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, WrapError(ErrHashFailure, err)
	}

	record := &Student{
		Name:         msg.Name,
		Email:        msg.Email,
		PasswordHash: hash,
	}
	if h.useHashid {
		if id, err := hashid.NewUUID(msg.Email); err == nil {
			record.ID = id
		}
	}

	student, err := h.store.Create(ctx, record)
	if err != nil {
		if ErrorIs(err, ErrDuplicateEmail) {
			emitActivity(ctx, h.sink, h.logger, ActivityEvent{
				EventType: ActivityEventRegisterDuplicate,
			})
			return nil, ErrDuplicateEmail
		}
		h.logger.Error("Register failed to create student", "error", err)
		if ErrorIs(err, ErrStoreFailure) {
			return nil, err
		}
		return nil, WrapError(ErrStoreFailure, err)
	}

	emitActivity(ctx, h.sink, h.logger, ActivityEvent{
		EventType: ActivityEventRegisterSuccess,
		StudentID: student.ID.String(),
	})

	return student, nil
}

func validationFields(err error) []string {
	errs, ok := err.(validation.Errors)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	return fields
}
