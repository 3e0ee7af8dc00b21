package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/goliatone/go-campus-auth"
)

// MockStudentStore implements auth.StudentStore
type MockStudentStore struct {
	mock.Mock
}

func (m *MockStudentStore) Create(ctx context.Context, record *auth.Student) (*auth.Student, error) {
	args := m.Called(ctx, record)
	if s, ok := args.Get(0).(*auth.Student); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStudentStore) FindByEmail(ctx context.Context, email string) (*auth.Student, error) {
	args := m.Called(ctx, email)
	if s, ok := args.Get(0).(*auth.Student); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStudentStore) FindByID(ctx context.Context, id string) (*auth.Student, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*auth.Student); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockHasher implements auth.PasswordHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	args := m.Called(ctx, plaintext, digest)
	return args.Bool(0), args.Error(1)
}

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subjectID string) (string, error) {
	args := m.Called(subjectID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (*auth.SessionClaims, error) {
	args := m.Called(token)
	if c, ok := args.Get(0).(*auth.SessionClaims); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLogger implements auth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.Called(msg, args)
}

// recordingSink collects activity events
type recordingSink struct {
	events []auth.ActivityEvent
	err    error
}

func (s *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) types() []auth.ActivityEventType {
	out := make([]auth.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}
