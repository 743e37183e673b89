// Package auth owns account registration and session login for the gate.
// Clearance checks never happen here; this layer only establishes who the
// subject is and whether the account may start a session.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/metrics"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
	"blpgate/pkg/requestcontext"
)

// DefaultMaxLoginAttempts locks an account after this many consecutive
// failed logins inside the lockout window.
const DefaultMaxLoginAttempts = 3

// Service registers accounts and runs the login/logout flows.
type Service struct {
	users       storage.UserStore
	lockouts    LockoutStore
	tokens      *TokenService
	auditor     *audit.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	maxAttempts int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithMaxLoginAttempts(n int) Option {
	return func(s *Service) {
		s.maxAttempts = n
	}
}

func New(users storage.UserStore, lockouts LockoutStore, tokens *TokenService, auditor *audit.Publisher, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user store is required")
	}
	if lockouts == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "lockout store is required")
	}
	if tokens == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "token service is required")
	}
	if auditor == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audit publisher is required")
	}
	svc := &Service{
		users:       users,
		lockouts:    lockouts,
		tokens:      tokens,
		auditor:     auditor,
		logger:      slog.Default(),
		maxAttempts: DefaultMaxLoginAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates an account. The first account in an empty directory
// becomes a Top Secret super admin so a fresh deployment can be
// administered; every later account starts at Public until an admin raises
// its clearance.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username cannot be empty")
	}
	if len(password) < 8 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}

	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		s.emit(ctx, audit.Event{
			Type:    audit.EventUserRegister,
			Details: "Registration rejected: username already taken",
			Success: false,
		})
		return nil, dErrors.New(dErrors.CodeConflict, "username already taken")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "lookup username")
	}

	counts, err := s.users.Counts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count users")
	}
	level := id.LevelPublic
	superAdmin := false
	if counts.Total == 0 {
		level = id.LevelTopSecret
		superAdmin = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	user, err := domain.NewUser(id.NewUserID(), username, string(hash), level, superAdmin, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save user")
	}

	s.emit(ctx, audit.Event{
		Type:      audit.EventUserRegister,
		SubjectID: user.ID,
		Details:   "User registered with level: " + user.SecurityLevel.String(),
		Success:   true,
	})
	s.logger.Info("user registered",
		"user_id", user.ID.String(),
		"username", username,
		"security_level", user.SecurityLevel.String(),
		"super_admin", superAdmin,
	)
	return user, nil
}

// Login verifies credentials and issues a session token. Failure responses
// are deliberately uniform so callers cannot distinguish a wrong password
// from an unknown username.
func (s *Service) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	now := requestcontext.Now(ctx)

	count, err := s.lockouts.FailureCount(ctx, username, now)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "check lockout")
	}
	if count >= s.maxAttempts {
		s.emit(ctx, audit.Event{
			Type:    audit.EventUserLogin,
			Details: "Login rejected: account temporarily locked",
			Success: false,
		})
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "account temporarily locked")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, s.recordFailure(ctx, username, now, "Login failed: unknown username")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "lookup username")
	}
	if !user.IsActive {
		s.emit(ctx, audit.Event{
			Type:      audit.EventUserLogin,
			SubjectID: user.ID,
			Details:   "Login rejected: account is deactivated",
			Success:   false,
		})
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, s.recordFailure(ctx, username, now, "Login failed: invalid password")
	}

	if err := s.lockouts.Clear(ctx, username); err != nil {
		s.logger.Warn("clear lockout counter failed", "username", username, "error", err)
	}
	token, err := s.tokens.Issue(user, now)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}

	s.emit(ctx, audit.Event{
		Type:      audit.EventUserLogin,
		SubjectID: user.ID,
		Details:   "Login successful",
		Success:   true,
	})
	return token, user, nil
}

func (s *Service) recordFailure(ctx context.Context, username string, now time.Time, detail string) error {
	count, err := s.lockouts.RecordFailure(ctx, username, now)
	if err != nil {
		s.logger.Warn("record login failure", "username", username, "error", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementLoginFailures()
	}
	s.emit(ctx, audit.Event{
		Type:    audit.EventUserLogin,
		Details: detail,
		Success: false,
	})
	if count == s.maxAttempts {
		if s.metrics != nil {
			s.metrics.IncrementAuthLockouts()
		}
		s.emit(ctx, audit.Event{
			Type:    audit.EventAuthLockout,
			Details: "Account locked after repeated failed logins",
			Success: true,
		})
		s.logger.Warn("account locked", "username", username, "failures", count)
	}
	return dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
}

// Logout records the end of a session. Tokens are short-lived and not
// revoked server-side.
func (s *Service) Logout(ctx context.Context, subjectID id.UserID) error {
	s.emit(ctx, audit.Event{
		Type:      audit.EventUserLogout,
		SubjectID: subjectID,
		Details:   "Logout",
		Success:   true,
	})
	return nil
}

// Authenticate resolves a session token to its live account record. The
// stored account is authoritative; claims only identify the subject.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	subjectID, err := s.tokens.SubjectID(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "lookup user")
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account is deactivated")
	}
	return user, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementAuditAppendFailures()
		}
	}
}
