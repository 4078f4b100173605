package auth

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/session"
	"github.com/xelth-com/jobintake/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	u, err := url.Parse(m.sent[len(m.sent)-1].Link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func newTestService(t *testing.T) (*Service, *recordingMailer, *session.MemoryRevoker) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	db := database.Wrap(gdb, logger.Nop())
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{JWTSecret: "test-secret", PublicBaseURL: "https://jobs.example.com"}
	mailer := &recordingMailer{}
	revoker := session.NewMemoryRevoker()
	return NewService(db, cfg, revoker, mailer, logger.Nop()), mailer, revoker
}

func TestSignUpRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	s, mailer, _ := newTestService(t)

	user, err := s.SignUp(ctx, " Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.Confirmed())
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Link, "https://jobs.example.com/confirm?token=")

	_, _, err = s.SignIn(ctx, "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)
	assert.Equal(t, "Please verify your email address before logging in.", err.Error())

	require.NoError(t, s.ConfirmEmail(ctx, mailer.lastToken(t)))
	// confirming twice is harmless
	require.NoError(t, s.ConfirmEmail(ctx, mailer.lastToken(t)))

	signedIn, tokens, err := s.SignIn(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotNil(t, signedIn.LastLogin)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	_, err := s.SignUp(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = s.SignUp(ctx, "bob@example.com", "12345")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = s.SignUp(ctx, "bob@example.com", "123456")
	require.NoError(t, err)
	_, err = s.SignUp(ctx, "BOB@example.com", "123456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	s, mailer, _ := newTestService(t)

	_, err := s.SignUp(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.ConfirmEmail(ctx, mailer.lastToken(t)))

	_, _, err = s.SignIn(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConfirmEmailRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	assert.ErrorIs(t, s.ConfirmEmail(ctx, "garbage"), ErrInvalidToken)

	reset, err := utils.GenerateActionToken(uuid.NewString(), utils.PurposeResetPassword, time.Hour, "test-secret")
	require.NoError(t, err)
	assert.ErrorIs(t, s.ConfirmEmail(ctx, reset), ErrInvalidToken)

	unknown, err := utils.GenerateActionToken(uuid.NewString(), utils.PurposeConfirmEmail, time.Hour, "test-secret")
	require.NoError(t, err)
	assert.ErrorIs(t, s.ConfirmEmail(ctx, unknown), ErrInvalidToken)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	s, mailer, _ := newTestService(t)

	_, err := s.SignUp(ctx, "dave@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.ConfirmEmail(ctx, mailer.lastToken(t)))

	// unknown addresses succeed without sending anything
	sentBefore := len(mailer.sent)
	require.NoError(t, s.SendPasswordReset(ctx, "ghost@example.com"))
	assert.Len(t, mailer.sent, sentBefore)

	require.NoError(t, s.SendPasswordReset(ctx, "dave@example.com"))
	require.Len(t, mailer.sent, sentBefore+1)
	assert.Contains(t, mailer.sent[sentBefore].Link, "/update-password?token=")
	token := mailer.lastToken(t)

	assert.ErrorIs(t, s.UpdatePassword(ctx, token, "123"), ErrWeakPassword)
	assert.ErrorIs(t, s.UpdatePassword(ctx, "garbage", "newsecret"), ErrInvalidToken)
	require.NoError(t, s.UpdatePassword(ctx, token, "newsecret"))

	_, _, err = s.SignIn(ctx, "dave@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.SignIn(ctx, "dave@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestSignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	s, _, revoker := newTestService(t)

	require.NoError(t, s.SignOut(ctx, "token-1", time.Now().Add(time.Hour)))
	revoked, err := revoker.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, s.SignOut(ctx, "", time.Now().Add(time.Hour)), ErrInvalidToken)
}

func TestRefreshRotatesTokens(t *testing.T) {
	ctx := context.Background()
	s, mailer, _ := newTestService(t)

	user, err := s.SignUp(ctx, "erin@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.ConfirmEmail(ctx, mailer.lastToken(t)))
	_, tokens, err := s.SignIn(ctx, "erin@example.com", "secret1")
	require.NoError(t, err)

	refreshed, next, err := s.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEmpty(t, next.AccessToken)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	// a refresh token works once
	_, _, err = s.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// access tokens are not refresh tokens
	_, _, err = s.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, s.RevokeRefresh(ctx, next.RefreshToken))
	_, _, err = s.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
