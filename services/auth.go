package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/notify"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/utils"
)

const (
	resetTokenTTL      = time.Hour
	resetNeutralAnswer = "If your email is registered, you will receive a password reset link"
)

// AuthOptions holds secrets and admin credentials for AuthService.
type AuthOptions struct {
	JWTSecret          string
	TokenTTL           time.Duration
	AdminUsername      string
	AdminPassword      string
	FrontendURL        string
	GoogleClientID     string
	GoogleClientSecret string
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject   string
	Email     string
	GivenName string
	LastName  string
}

// GoogleVerifier checks a Google ID token issued for audience.
type GoogleVerifier func(ctx context.Context, credential, audience string) (*GoogleIdentity, error)

// VerifyGoogleIDToken validates credential against Google's public keys.
func VerifyGoogleIDToken(ctx context.Context, credential, audience string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, credential, audience)
	if err != nil {
		return nil, err
	}
	claim := func(name string) string {
		v, _ := payload.Claims[name].(string)
		return v
	}
	return &GoogleIdentity{
		Subject:   payload.Subject,
		Email:     claim("email"),
		GivenName: claim("given_name"),
		LastName:  claim("family_name"),
	}, nil
}

// AuthService handles customer accounts and the admin login.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.ResetTokenRepository
	queue  notify.Queue
	mail   *notify.Composer
	opts   AuthOptions
	verify GoogleVerifier
	now    func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.ResetTokenRepository,
	queue notify.Queue,
	mail *notify.Composer,
	opts AuthOptions,
	verify GoogleVerifier,
	now func() time.Time,
) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	if verify == nil {
		verify = VerifyGoogleIDToken
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		queue:  queue,
		mail:   mail,
		opts:   opts,
		verify: verify,
		now:    now,
	}
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type AdminLoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserSummary is the account shape returned with a fresh token.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsMember  bool   `json:"is_member"`
}

// Session is a signed-in customer.
type Session struct {
	Success     bool        `json:"success"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

// AdminSession is a signed-in operator.
type AdminSession struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := utils.GenerateToken(s.opts.JWTSecret, user.ID, utils.RoleCustomer, s.opts.TokenTTL)
	if err != nil {
		return nil, utils.InternalError("Failed to issue token", err)
	}
	return &Session{
		Success:     true,
		AccessToken: token,
		TokenType:   "bearer",
		User: UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsMember:  user.IsMember,
		},
	}, nil
}

// Register creates an e-mail account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if ok, msg := utils.ValidatePassword(in.Password); !ok {
		return nil, utils.InvalidInputError(msg, nil)
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, utils.ConflictError("Email already registered", nil)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.InternalError("Registration failed", err)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.InternalError("Registration failed", err)
	}
	user := &models.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashed,
		FirstName:      utils.SanitizeString(in.FirstName),
		LastName:       utils.SanitizeString(in.LastName),
		AuthProvider:   models.AuthProviderEmail,
		IsMember:       true,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ConflictError("Email already registered", nil)
		}
		return nil, utils.InternalError("Registration failed", err)
	}
	utils.LogInfo("User registered: %s", user.ID)

	s.queue.Dispatch(s.mail.NewRegistration(*user))
	return s.issue(user)
}

// Login checks e-mail credentials and stamps last_login.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	invalid := utils.UnauthorizedError("Invalid email or password", nil)

	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, utils.InternalError("Login failed", err)
	}
	if user.HashedPassword == "" || !utils.CheckPassword(in.Password, user.HashedPassword) {
		return nil, invalid
	}

	if err := s.users.Update(ctx, user.ID, repository.Fields{
		models.UserFieldLastLogin: s.now().UTC(),
	}); err != nil {
		utils.LogError("Failed to stamp last login for %s: %v", user.ID, err)
	}
	return s.issue(user)
}

// Me returns the account behind a validated token subject.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("User not found", nil)
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch user info", err)
	}
	return user, nil
}

// RequestPasswordReset mails a one-hour reset link when the account exists.
// The answer never reveals whether it does.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) string {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			utils.LogError("Error requesting password reset: %v", err)
		}
		return resetNeutralAnswer
	}

	token, err := utils.GeneratePurposeToken(s.opts.JWTSecret, user.ID, utils.PurposePasswordReset, resetTokenTTL)
	if err != nil {
		utils.LogError("Error signing reset token: %v", err)
		return resetNeutralAnswer
	}
	if err := s.tokens.Create(ctx, &models.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		utils.LogError("Error storing reset token: %v", err)
		return resetNeutralAnswer
	}

	link := s.opts.FrontendURL + "/reset-password?token=" + token
	s.queue.Dispatch(s.mail.PasswordReset(user.Email, link))
	return resetNeutralAnswer
}

// ResetPassword consumes a reset token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, in PasswordResetInput) error {
	claims, err := utils.ValidateToken(s.opts.JWTSecret, in.Token)
	if err != nil {
		return utils.InvalidInputError("Invalid or expired reset token", err)
	}
	if claims.Purpose != utils.PurposePasswordReset {
		return utils.InvalidInputError("Invalid reset token", nil)
	}
	if ok, msg := utils.ValidatePassword(in.NewPassword); !ok {
		return utils.InvalidInputError(msg, nil)
	}

	if _, err := s.tokens.FindUnused(ctx, in.Token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.InvalidInputError("Reset token already used or invalid", nil)
		}
		return utils.InternalError("Password reset failed", err)
	}

	hashed, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return utils.InternalError("Password reset failed", err)
	}
	if err := s.users.Update(ctx, claims.Subject, repository.Fields{
		models.UserFieldHashedPassword: hashed,
	}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundError("User not found", nil)
		}
		return utils.InternalError("Password reset failed", err)
	}
	if err := s.tokens.MarkUsed(ctx, in.Token); err != nil {
		utils.LogError("Failed to mark reset token used: %v", err)
	}
	utils.LogInfo("Password reset for user %s", claims.Subject)
	return nil
}

func (s *AuthService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.opts.GoogleClientID,
		ClientSecret: s.opts.GoogleClientSecret,
		RedirectURL:  s.opts.FrontendURL + "/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleAuthURL is the consent page the frontend redirects to.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.opts.GoogleClientID == "" {
		return "", utils.InternalError("Google login not configured", nil)
	}
	return s.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// GoogleLogin signs in the owner of a Google ID token, creating the account
// on first use and linking an existing e-mail account otherwise.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (*Session, error) {
	if credential == "" {
		return nil, utils.InvalidInputError("Token missing", nil)
	}
	identity, err := s.verify(ctx, credential, s.opts.GoogleClientID)
	if err != nil {
		utils.LogError("Invalid Google token: %v", err)
		return nil, utils.UnauthorizedError("Invalid token", err)
	}
	email := normalizeEmail(identity.Email)
	if identity.Subject == "" || email == "" {
		return nil, utils.UnauthorizedError("Invalid token", nil)
	}
	now := s.now().UTC()

	user, err := s.users.FindByGoogleIDOrEmail(ctx, identity.Subject, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		googleID := identity.Subject
		user = &models.User{
			ID:           uuid.New().String(),
			Email:        email,
			FirstName:    identity.GivenName,
			LastName:     identity.LastName,
			AuthProvider: models.AuthProviderGoogle,
			GoogleID:     &googleID,
			IsMember:     true,
			CreatedAt:    now,
			LastLogin:    &now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, utils.InternalError("Failed to verify Google login", err)
		}
		utils.LogInfo("User registered via Google: %s", user.ID)
		s.queue.Dispatch(s.mail.NewRegistration(*user))
	case err != nil:
		return nil, utils.InternalError("Failed to verify Google login", err)
	default:
		fields := repository.Fields{models.UserFieldLastLogin: now}
		if user.GoogleID == nil || *user.GoogleID == "" {
			fields[models.UserFieldGoogleID] = identity.Subject
		}
		if err := s.users.Update(ctx, user.ID, fields); err != nil {
			utils.LogError("Failed to update Google user %s: %v", user.ID, err)
		}
	}
	return s.issue(user)
}

// AdminLogin checks the operator credentials. Without configured
// credentials the admin area stays locked.
func (s *AuthService) AdminLogin(in AdminLoginInput) (*AdminSession, error) {
	invalid := utils.UnauthorizedError("Invalid credentials", nil)
	if s.opts.AdminUsername == "" || s.opts.AdminPassword == "" {
		utils.LogWarn("Admin login attempted but ADMIN_USERNAME/ADMIN_PASSWORD are not set")
		return nil, invalid
	}
	userOK := subtle.ConstantTimeCompare([]byte(in.Username), []byte(s.opts.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(in.Password), []byte(s.opts.AdminPassword)) == 1
	if !userOK || !passOK {
		return nil, invalid
	}

	token, err := utils.GenerateToken(s.opts.JWTSecret, s.opts.AdminUsername, utils.RoleAdmin, s.opts.TokenTTL)
	if err != nil {
		return nil, utils.InternalError("Failed to issue token", err)
	}
	return &AdminSession{
		Success:     true,
		Message:     "Login successful",
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// AdminUsername is shown on the admin settings page.
func (s *AuthService) AdminUsername() string {
	return s.opts.AdminUsername
}
