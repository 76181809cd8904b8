package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type reset struct {
	userID  string
	expires time.Time
	used    bool
}

// MemoryStore keeps users in memory. Handler tests and local dry runs use it.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[string]User
	resets map[string]*reset
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]User{}, resets: map[string]*reset{}}
}

func (m *MemoryStore) FindActiveUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.IsActive && strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *MemoryStore) GetUser(_ context.Context, userID string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, user User, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrUserExists
		}
	}
	user.ID = uuid.NewString()
	user.IsActive = true
	user.CreatedAt = time.Now().UTC()
	user.passwordHash = passwordHash
	m.users[user.ID] = user
	return user, nil
}

func (m *MemoryStore) UpdateLastLogin(context.Context, string) error {
	return nil
}

func (m *MemoryStore) update(userID string, fn func(*User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	fn(&user)
	m.users[userID] = user
	return nil
}

func (m *MemoryStore) UpdateMFASecret(_ context.Context, userID string, secretEnc []byte) error {
	return m.update(userID, func(u *User) {
		u.mfaSecretEnc = secretEnc
		u.MFAEnabled = false
	})
}

func (m *MemoryStore) SetMFAEnabled(_ context.Context, userID string, enabled bool) error {
	return m.update(userID, func(u *User) { u.MFAEnabled = enabled })
}

func (m *MemoryStore) CreatePasswordReset(_ context.Context, userID, tokenHash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[tokenHash] = &reset{userID: userID, expires: expires}
	return nil
}

func (m *MemoryStore) ResetPassword(_ context.Context, tokenHash, passwordHash string) error {
	m.mu.Lock()
	entry, ok := m.resets[tokenHash]
	if !ok || entry.used || time.Now().After(entry.expires) {
		m.mu.Unlock()
		return ErrInvalidResetToken
	}
	entry.used = true
	m.mu.Unlock()
	return m.update(entry.userID, func(u *User) {
		u.passwordHash = passwordHash
		u.MustChangePassword = false
	})
}

var _ StoreAPI = (*MemoryStore)(nil)
