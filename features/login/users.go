package login

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/featurekit/database"
	"github.com/kbukum/featurekit/errors"
)

type user struct {
	id       string
	username string
	hash     []byte
}

// userStore keeps accounts keyed by lowercase username.
type userStore interface {
	create(ctx context.Context, u user) error
	byUsername(ctx context.Context, username string) (user, error)
	count(ctx context.Context) (int, error)
}

func usernameKey(username string) string { return strings.ToLower(strings.TrimSpace(username)) }

type memoryUsers struct {
	mu    sync.RWMutex
	users map[string]user
}

func newMemoryUsers() *memoryUsers { return &memoryUsers{users: make(map[string]user)} }

func (m *memoryUsers) create(_ context.Context, u user) error {
	key := usernameKey(u.username)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[key]; exists {
		return errors.AlreadyExists("user")
	}
	m.users[key] = u
	return nil
}

func (m *memoryUsers) byUsername(_ context.Context, username string) (user, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[usernameKey(username)]
	if !ok {
		return user{}, errors.NotFound("user", "")
	}
	return u, nil
}

func (m *memoryUsers) count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// userRecord is the persisted account row.
type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:32;not null"`
	UsernameKey  string `gorm:"size:32;uniqueIndex;not null"`
	PasswordHash []byte `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type sqlUsers struct {
	db *database.DB
}

func newSQLUsers(db *database.DB) (*sqlUsers, error) {
	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, err
	}
	return &sqlUsers{db: db}, nil
}

func (s *sqlUsers) create(ctx context.Context, u user) error {
	rec := userRecord{ID: u.id, Username: u.username, UsernameKey: usernameKey(u.username), PasswordHash: u.hash}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return database.FromDatabase(err, "user")
	}
	return nil
}

func (s *sqlUsers) byUsername(ctx context.Context, username string) (user, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("username_key = ?", usernameKey(username)).Take(&rec).Error
	if err != nil {
		return user{}, database.FromDatabase(err, "user")
	}
	return user{id: rec.ID, username: rec.Username, hash: rec.PasswordHash}, nil
}

func (s *sqlUsers) count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&userRecord{}).Count(&n).Error; err != nil {
		return 0, database.FromDatabase(err, "user")
	}
	return int(n), nil
}
