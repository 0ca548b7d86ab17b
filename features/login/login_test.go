package login

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/featurekit/database"
	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/testutil"
)

const testSecret = "0123456789abcdef-test"

func setup(t *testing.T, secret string) {
	t.Helper()
	testutil.ResetOnCleanup(t, datastore.Entry(), Entry())
	datastore.Holder().SetDependencyProvider(func() datastore.Dependencies {
		return datastore.Dependencies{Namespace: "login-test"}
	})
	installProvider(secret, nil)
}

func installProvider(secret string, db *database.DB) {
	Holder().SetDependencyProvider(func() Dependencies {
		return Dependencies{
			DataStore:  datastore.Holder().MustGet().Repository(),
			Secret:     secret,
			TokenTTL:   time.Minute,
			BcryptCost: bcrypt.MinCost,
			DB:         db,
		}
	})
}

func TestBuildResolvesDataStoreLazily(t *testing.T) {
	setup(t, testSecret)

	if datastore.Entry().Built() {
		t.Fatal("datastore built before login was requested")
	}
	if _, err := Holder().Get(); err != nil {
		t.Fatal(err)
	}
	if !datastore.Entry().Built() {
		t.Error("login build should have built datastore")
	}
}

func TestShortSecretFailsValidation(t *testing.T) {
	setup(t, "short")

	_, err := Holder().Get()
	if !errors.HasCode(err, errors.ErrCodeBuildFailed) || !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	setup(t, testSecret)
	ctx := context.Background()
	uc := Holder().MustGet().LoginRegister()

	s, err := uc.Register(ctx, "Ash", "pikachu-123")
	if err != nil {
		t.Fatal(err)
	}
	if s.Token == "" || s.UserID == "" || s.Username != "Ash" {
		t.Fatalf("session = %+v", s)
	}

	stored, err := datastore.Holder().MustGet().Repository().Session(ctx)
	if err != nil || stored.Token != s.Token {
		t.Fatalf("stored session = %+v, %v", stored, err)
	}

	userID, err := uc.Authenticate(ctx, s.Token)
	if err != nil || userID != s.UserID {
		t.Fatalf("Authenticate() = %q, %v", userID, err)
	}

	again, err := uc.Login(ctx, "ash", "pikachu-123")
	if err != nil {
		t.Fatal(err)
	}
	if again.UserID != s.UserID {
		t.Errorf("login user = %q, want %q", again.UserID, s.UserID)
	}

	c, err := component()
	if err != nil {
		t.Fatal(err)
	}
	if n, err := c.Users(ctx); err != nil || n != 1 {
		t.Errorf("Users() = %d, %v", n, err)
	}
}

func TestRegisterErrors(t *testing.T) {
	setup(t, testSecret)
	ctx := context.Background()
	uc := Holder().MustGet().LoginRegister()
	if _, err := uc.Register(ctx, "misty", "starmie-99"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		password string
		code     errors.ErrorCode
	}{
		{"duplicate", "Misty", "another-pass", errors.ErrCodeAlreadyExists},
		{"short username", "ab", "long-enough", errors.ErrCodeInvalidInput},
		{"empty password", "brock", "", errors.ErrCodeInvalidInput},
		{"short password", "brock", "short", errors.ErrCodeInvalidInput},
		{"long password", "brock", strings.Repeat("x", 73), errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.username, tt.password)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setup(t, testSecret)
	ctx := context.Background()
	uc := Holder().MustGet().LoginRegister()
	if _, err := uc.Register(ctx, "gary", "eevee-4ever"); err != nil {
		t.Fatal(err)
	}

	for _, creds := range [][2]string{{"gary", "wrong-pass"}, {"nobody", "eevee-4ever"}} {
		if _, err := uc.Login(ctx, creds[0], creds[1]); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
			t.Errorf("Login(%q) err = %v", creds[0], err)
		}
	}
}

func TestAuthenticateRejects(t *testing.T) {
	setup(t, testSecret)
	ctx := context.Background()
	uc := Holder().MustGet().LoginRegister()

	other := newTokenIssuer("a-completely-different-secret", time.Minute)
	forged, _, err := other.issue("u1", "eve")
	if err != nil {
		t.Fatal(err)
	}
	expiredIssuer := newTokenIssuer(testSecret, time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := expiredIssuer.issue("u1", "eve")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
		code  errors.ErrorCode
	}{
		{"empty", "", errors.ErrCodeUnauthorized},
		{"garbage", "not-a-jwt", errors.ErrCodeInvalidToken},
		{"wrong secret", forged, errors.ErrCodeInvalidToken},
		{"expired", expired, errors.ErrCodeInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Authenticate(ctx, tt.token); !errors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	setup(t, testSecret)
	ctx := context.Background()
	uc := Holder().MustGet().LoginRegister()
	if _, err := uc.Register(ctx, "brock", "onix-rocks"); err != nil {
		t.Fatal(err)
	}
	if err := uc.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := datastore.Holder().MustGet().Repository().Session(ctx); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestNewComponentRejectsBadCost(t *testing.T) {
	_, err := newComponent(Dependencies{Secret: testSecret, BcryptCost: 99})
	if err == nil {
		t.Fatal("expected cost error")
	}
}

func TestAccountsPersistInDatabase(t *testing.T) {
	setup(t, testSecret)
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	installProvider(testSecret, db)

	first, err := Holder().MustGet().LoginRegister().Register(ctx, "Erika", "tangela-leaf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Holder().MustGet().LoginRegister().Register(ctx, "erika", "other-pass"); !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Fatalf("duplicate err = %v", err)
	}

	// A rebuilt component reads the same table.
	Entry().Reset()
	installProvider(testSecret, db)
	again, err := Holder().MustGet().LoginRegister().Login(ctx, "ERIKA", "tangela-leaf")
	if err != nil {
		t.Fatal(err)
	}
	if again.UserID != first.UserID || again.Username != "Erika" {
		t.Errorf("login = %+v, want user %q", again, first.UserID)
	}

	c, err := component()
	if err != nil {
		t.Fatal(err)
	}
	if n, err := c.Users(ctx); err != nil || n != 1 {
		t.Errorf("Users() = %d, %v", n, err)
	}
	if _, err := Holder().MustGet().LoginRegister().Login(ctx, "koga", "whatever-1"); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("unknown user err = %v", err)
	}
}
