package login

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/validation"
)

// LoginRegisterUseCase manages accounts and the current session.
type LoginRegisterUseCase interface {
	// Register creates an account and starts a session for it.
	Register(ctx context.Context, username, password string) (datastore.Session, error)
	// Login checks the credentials and starts a session.
	Login(ctx context.Context, username, password string) (datastore.Session, error)
	// Authenticate returns the user id carried by a session token.
	Authenticate(ctx context.Context, token string) (string, error)
	// Logout clears the stored session.
	Logout(ctx context.Context) error
}

type loginRegister struct {
	store  datastore.Repository
	users  userStore
	tokens *tokenIssuer
	cost   int
}

func (l *loginRegister) Register(ctx context.Context, username, password string) (datastore.Session, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return datastore.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return datastore.Session{}, errors.Internal(err)
	}

	u := user{id: uuid.NewString(), username: username, hash: hash}
	if err := l.users.create(ctx, u); err != nil {
		if errors.HasCode(err, errors.ErrCodeAlreadyExists) {
			return datastore.Session{}, errors.AlreadyExists("user").WithDetail("username", username)
		}
		return datastore.Session{}, err
	}

	logger.Get("login").Info("user registered", logger.Fields(logger.FieldUserID, u.id))
	return l.startSession(ctx, u)
}

func (l *loginRegister) Login(ctx context.Context, username, password string) (datastore.Session, error) {
	u, err := l.users.byUsername(ctx, username)
	if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
		return datastore.Session{}, err
	}
	if err != nil || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return datastore.Session{}, errors.Unauthorized("Invalid username or password.")
	}
	return l.startSession(ctx, u)
}

func (l *loginRegister) Authenticate(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.Unauthorized("")
	}
	c, err := l.tokens.parse(token)
	if err != nil {
		return "", errors.InvalidToken().WithCause(err)
	}
	return c.Subject, nil
}

func (l *loginRegister) Logout(ctx context.Context) error {
	return l.store.ClearSession(ctx)
}

func (l *loginRegister) startSession(ctx context.Context, u user) (datastore.Session, error) {
	token, expires, err := l.tokens.issue(u.id, u.username)
	if err != nil {
		return datastore.Session{}, errors.Internal(err)
	}
	s := datastore.Session{Token: token, UserID: u.id, Username: u.username, ExpiresAt: expires}
	if err := l.store.SaveSession(ctx, s); err != nil {
		return datastore.Session{}, err
	}
	return s, nil
}

// bcrypt ignores input past 72 bytes.
func validateCredentials(username, password string) error {
	return validation.New().
		Required("username", username).
		MinLength("username", username, 3).
		MaxLength("username", username, 32).
		Required("password", password).
		MinLength("password", password, 8).
		MaxLength("password", password, 72).
		Err()
}
