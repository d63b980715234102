package accounts_test

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements accounts.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) FindByUsername(ctx context.Context, username string) (*accounts.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockAccountStore) Save(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockNotifier implements accounts.NotificationGateway
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendActivation(ctx context.Context, token string, req accounts.RegistrationRequest) error {
	args := m.Called(ctx, token, req)
	return args.Error(0)
}

// MockHasher implements accounts.PasswordAuthenticator without paying the
// bcrypt cost on every test
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) ComparePasswordAndHash(password, hash string) error {
	args := m.Called(password, hash)
	return args.Error(0)
}

// MockAuthenticator implements accounts.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Register(ctx context.Context, req accounts.RegistrationRequest) (accounts.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(accounts.Result), args.Error(1)
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (accounts.LoginResult, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(accounts.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) Activate(ctx context.Context, token string) (accounts.Result, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(accounts.Result), args.Error(1)
}

// MockLogger implements accounts.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// fakePasswordHasher is a deterministic stand-in used by flow tests
type fakePasswordHasher struct{}

func (fakePasswordHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordHasher) ComparePasswordAndHash(password, hash string) error {
	if hash != "hashed:"+password {
		return accounts.ErrMismatchedHashAndPassword
	}
	return nil
}

// memoryStore is an in-memory AccountStore for end-to-end scenario tests
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*accounts.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*accounts.User{}}
}

func (s *memoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.records {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[username]
	return ok, nil
}

func (s *memoryStore) FindByUsername(_ context.Context, username string) (*accounts.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.records[username]
	if !ok {
		return nil, accounts.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memoryStore) Save(_ context.Context, user *accounts.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *user
	s.records[user.Username] = &clone
	return nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
