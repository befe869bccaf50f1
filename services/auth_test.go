package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/notify"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/repository/memory"
	"github.com/apebrain/shop-api/utils"
)

const testSecret = "test-secret"

type authFixture struct {
	store *repository.Store
	queue *recordingQueue
	auth  *AuthService
}

func newAuthFixture(t *testing.T, verify GoogleVerifier) *authFixture {
	t.Helper()
	store := memory.New()
	queue := &recordingQueue{}
	composer := &notify.Composer{Operator: "ops@apebrain.cloud", Now: fixedClock}
	auth := NewAuthService(store.Users, store.ResetTokens, queue, composer, AuthOptions{
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		AdminUsername:  "admin",
		AdminPassword:  "s3cret-pass",
		FrontendURL:    "https://apebrain.cloud",
		GoogleClientID: "client-123",
	}, verify, fixedClock)
	return &authFixture{store: store, queue: queue, auth: auth}
}

func register(t *testing.T, f *authFixture, email, password string) *Session {
	t.Helper()
	session, err := f.auth.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Ada",
		LastName:  "Ape",
	})
	require.NoError(t, err)
	return session
}

func TestRegisterIssuesCustomerToken(t *testing.T) {
	f := newAuthFixture(t, nil)

	session := register(t, f, "Ada@Example.com", "password123")

	assert.True(t, session.Success)
	assert.Equal(t, "bearer", session.TokenType)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.True(t, session.User.IsMember)

	claims, err := utils.ValidateToken(testSecret, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)
	assert.Equal(t, utils.RoleCustomer, claims.Role)

	msgs := f.queue.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.SubjectNewRegistration, msgs[0].Subject)
	assert.Equal(t, "ops@apebrain.cloud", msgs[0].To)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, nil)
	register(t, f, "ada@example.com", "password123")

	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "ADA@example.com", Password: "password456"})

	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "ada@example.com", Password: "short"})

	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t, nil)
	registered := register(t, f, "ada@example.com", "password123")
	ctx := context.Background()

	session, err := f.auth.Login(ctx, LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	user, err := f.auth.Me(ctx, session.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, testNow, *user.LastLogin)

	_, err = f.auth.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))

	_, err = f.auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
}

func TestMeUnknownUser(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.auth.Me(context.Background(), "missing")

	assert.True(t, utils.IsNotFoundError(err))
}

func resetTokenFrom(t *testing.T, msg notify.Message) string {
	t.Helper()
	start := strings.Index(msg.HTMLBody, "token=")
	require.GreaterOrEqual(t, start, 0)
	rest := msg.HTMLBody[start+len("token="):]
	end := strings.IndexByte(rest, '"')
	require.Greater(t, end, 0)
	token, err := url.QueryUnescape(rest[:end])
	require.NoError(t, err)
	return token
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t, nil)
	register(t, f, "ada@example.com", "password123")
	f.queue.reset()
	ctx := context.Background()

	answer := f.auth.RequestPasswordReset(ctx, "ada@example.com")
	assert.Equal(t, resetNeutralAnswer, answer)

	msgs := f.queue.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ada@example.com", msgs[0].To)
	assert.Equal(t, notify.SubjectPasswordReset, msgs[0].Subject)
	token := resetTokenFrom(t, msgs[0])

	require.NoError(t, f.auth.ResetPassword(ctx, PasswordResetInput{Token: token, NewPassword: "brand-new-pass"}))

	_, err := f.auth.Login(ctx, LoginInput{Email: "ada@example.com", Password: "brand-new-pass"})
	require.NoError(t, err)

	err = f.auth.ResetPassword(ctx, PasswordResetInput{Token: token, NewPassword: "another-pass"})
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))
}

func TestPasswordResetRequestForUnknownEmailIsNeutral(t *testing.T) {
	f := newAuthFixture(t, nil)

	answer := f.auth.RequestPasswordReset(context.Background(), "nobody@example.com")

	assert.Equal(t, resetNeutralAnswer, answer)
	assert.Empty(t, f.queue.messages())
}

func TestPasswordResetRejectsLoginToken(t *testing.T) {
	f := newAuthFixture(t, nil)
	session := register(t, f, "ada@example.com", "password123")

	err := f.auth.ResetPassword(context.Background(), PasswordResetInput{Token: session.AccessToken, NewPassword: "brand-new-pass"})

	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Invalid reset token", appErr.Message)
}

func TestGoogleAuthURL(t *testing.T) {
	f := newAuthFixture(t, nil)

	authURL, err := f.auth.GoogleAuthURL("state-1")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "https://apebrain.cloud/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "state-1", q.Get("state"))
}

func TestGoogleLoginCreatesAccount(t *testing.T) {
	var audience string
	f := newAuthFixture(t, func(_ context.Context, credential, aud string) (*GoogleIdentity, error) {
		audience = aud
		return &GoogleIdentity{Subject: "g-1", Email: "grace@example.com", GivenName: "Grace"}, nil
	})
	ctx := context.Background()

	session, err := f.auth.GoogleLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "client-123", audience)
	assert.Equal(t, "grace@example.com", session.User.Email)

	user, err := f.store.Users.FindByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuthProviderGoogle, user.AuthProvider)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-1", *user.GoogleID)
	assert.Len(t, f.queue.messages(), 1)

	again, err := f.auth.GoogleLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, again.User.ID)
	assert.Len(t, f.queue.messages(), 1)
}

func TestGoogleLoginLinksExistingEmailAccount(t *testing.T) {
	f := newAuthFixture(t, func(context.Context, string, string) (*GoogleIdentity, error) {
		return &GoogleIdentity{Subject: "g-2", Email: "ada@example.com"}, nil
	})
	registered := register(t, f, "ada@example.com", "password123")
	ctx := context.Background()

	session, err := f.auth.GoogleLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	user, err := f.store.Users.FindByID(ctx, registered.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-2", *user.GoogleID)
	assert.Equal(t, models.AuthProviderEmail, user.AuthProvider)
}

func TestGoogleLoginRejectsBadToken(t *testing.T) {
	f := newAuthFixture(t, func(context.Context, string, string) (*GoogleIdentity, error) {
		return nil, errors.New("signature mismatch")
	})

	_, err := f.auth.GoogleLogin(context.Background(), "forged")
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))

	_, err = f.auth.GoogleLogin(context.Background(), "")
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture(t, nil)

	session, err := f.auth.AdminLogin(AdminLoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", session.Message)

	claims, err := utils.ValidateToken(testSecret, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, claims.Role)

	_, err = f.auth.AdminLogin(AdminLoginInput{Username: "admin", Password: "guess"})
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
}

func TestAdminLoginLockedWithoutCredentials(t *testing.T) {
	store := memory.New()
	auth := NewAuthService(store.Users, store.ResetTokens, &recordingQueue{}, notify.NewComposer(""),
		AuthOptions{JWTSecret: testSecret}, nil, fixedClock)

	_, err := auth.AdminLogin(AdminLoginInput{Username: "", Password: ""})

	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
}
