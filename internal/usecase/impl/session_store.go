package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	apivalidator "portal/internal/delivery/api/validator"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/infra/apiclient"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	msgInvalidResetToken = "Your reset session has expired. Please verify your code again."
	msgSaveFailed        = "Unable to keep you signed in. Please try again."
	msgNoRegistration    = "Registration is not available on this portal"
)

// UpstreamClient is the part of the API client the use cases rely on.
type UpstreamClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	PostMultipart(ctx context.Context, path string, fields map[string]string, files []entity.RegistrationFile, out any) error
}

type loginRecorder interface {
	Login(tenant string, success bool)
}

// sessionDeps are shared by every session a provider mounts.
type sessionDeps struct {
	api       UpstreamClient
	validate  *validator.Validate
	verifier  service.PushTokenVerifier
	publisher service.EventPublisher
	recorder  loginRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// SessionProviderParams holds dependencies for the session provider, injected by Fx.
type SessionProviderParams struct {
	fx.In

	Tenant    entity.Tenant
	API       UpstreamClient
	Verifier  service.PushTokenVerifier
	Publisher service.EventPublisher
	Metrics   *metrics.Collector `optional:"true"`
	Logger    *slog.Logger
}

// NewSessionProvider returns the session provider of the mounted tenant.
func NewSessionProvider(params SessionProviderParams) (usecase.SessionProvider, error) {
	deps := &sessionDeps{
		api:       params.API,
		validate:  apivalidator.NewValidate(),
		verifier:  params.Verifier,
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       time.Now,
	}
	if params.Metrics != nil {
		deps.recorder = params.Metrics
	}

	switch params.Tenant {
	case entity.TenantAdmin:
		return newSessionProvider[entity.Admin](AdminProfile, deps), nil
	case entity.TenantVendor:
		return newSessionProvider[entity.Vendor](VendorProfile, deps), nil
	case entity.TenantEmployee:
		return newSessionProvider[entity.Employee](EmployeeProfile, deps), nil
	default:
		return nil, errors.Errorf("no session profile for tenant %q", params.Tenant)
	}
}

type sessionProvider[P entity.Principal] struct {
	profile TenantProfile
	deps    *sessionDeps
}

func newSessionProvider[P entity.Principal](profile TenantProfile, deps *sessionDeps) *sessionProvider[P] {
	return &sessionProvider[P]{profile: profile, deps: deps}
}

func (p *sessionProvider[P]) Tenant() entity.Tenant {
	return p.profile.Tenant
}

func (p *sessionProvider[P]) LoginRoute() string {
	return p.profile.LoginRoute
}

func (p *sessionProvider[P]) SupportsRegistration() bool {
	return p.profile.RegisterPath != ""
}

// Mount binds a new store to one browser's storage. The store starts loading until Init runs.
func (p *sessionProvider[P]) Mount(scopes repository.ScopePair) usecase.SessionUsecase {
	return &sessionStore[P]{
		profile: &p.profile,
		deps:    p.deps,
		scopes:  scopes,
		loading: true,
	}
}

// sessionStore owns the in-memory view of who is signed in and mirrors it to storage.
// Token and principal are always written, read and removed as one pair.
type sessionStore[P entity.Principal] struct {
	profile *TenantProfile
	deps    *sessionDeps
	scopes  repository.ScopePair

	mu            sync.Mutex
	token         string
	currentUser   entity.Principal
	scope         entity.StorageScope
	authenticated bool
	loading       bool
	errMsg        string
}

func (s *sessionStore[P]) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.deps.logger).With(slog.String("tenant", s.profile.Tenant.String()))
}

// Token returns the bearer token of the authenticated session.
func (s *sessionStore[P]) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

// State returns a snapshot of the session.
func (s *sessionStore[P]) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return entity.SessionState{
		CurrentUser:     s.currentUser,
		IsAuthenticated: s.authenticated,
		Loading:         s.loading,
		Error:           s.errMsg,
	}
}

// Init restores the session from storage. Incomplete or unparseable pairs are purged,
// and once a pair wins every other scope is cleared.
func (s *sessionStore[P]) Init(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var (
		found     bool
		token     string
		principal P
		scope     entity.StorageScope
	)

	for _, candidate := range s.profile.scopes() {
		store := s.scopes.Get(candidate)

		values, err := store.Load(ctx, s.profile.TokenKey, s.profile.DataKey)
		if err != nil {
			s.log(ctx).Warn("Failed to read session storage", slog.String("scope", string(candidate)), slog.Any("error", err))

			continue
		}

		rawToken, rawData := values[s.profile.TokenKey], values[s.profile.DataKey]
		if rawToken == "" && rawData == "" {
			continue
		}

		if found {
			s.purge(ctx, candidate)

			continue
		}

		if rawToken == "" || rawData == "" {
			s.log(ctx).Debug("Purging incomplete session", slog.String("scope", string(candidate)))
			s.purge(ctx, candidate)

			continue
		}

		decoded, err := entity.DecodePrincipal[P]([]byte(rawData))
		if err != nil {
			s.log(ctx).Debug("Purging unreadable session", slog.String("scope", string(candidate)), slog.Any("error", err))
			s.purge(ctx, candidate)

			continue
		}

		found, token, principal, scope = true, rawToken, decoded, candidate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if found {
		s.token = token
		s.currentUser = principal
		s.scope = scope
		s.authenticated = true
	} else {
		s.reset()
	}
	s.loading = false
}

// Login authenticates once against the upstream API and stores token and principal together.
func (s *sessionStore[P]) Login(ctx context.Context, creds entity.Credentials) entity.Result {
	if err := s.deps.validate.Struct(creds); err != nil {
		return s.loginFailed(ctx, apivalidator.Message(err))
	}

	pushToken := s.checkPushToken(ctx, creds.PushToken)

	body := map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
		"fcmToken": pushToken,
	}

	var raw json.RawMessage
	if err := s.deps.api.Post(apiclient.WithBearer(ctx, ""), s.profile.LoginPath, body, &raw); err != nil {
		s.logUpstreamFailure(ctx, "login", err)

		return s.loginFailed(ctx, apiclient.MessageOf(err, s.profile.LoginFailure))
	}

	var issued struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &issued); err != nil || issued.Token == "" {
		s.log(ctx).Warn("Login response carried no token")

		return s.loginFailed(ctx, s.profile.LoginFailure)
	}

	principal, err := entity.DecodePrincipal[P](raw)
	if err != nil {
		s.log(ctx).Warn("Login response carried no principal", slog.Any("error", err))

		return s.loginFailed(ctx, s.profile.LoginFailure)
	}

	data, err := json.Marshal(principal)
	if err != nil {
		s.log(ctx).Error("Failed to serialize principal", slog.Any("error", err))

		return s.loginFailed(ctx, s.profile.LoginFailure)
	}

	scope := s.profile.scopeFor(creds.Remember)
	if err := s.scopes.Get(scope).Save(ctx, map[string]string{
		s.profile.TokenKey: issued.Token,
		s.profile.DataKey:  string(data),
	}); err != nil {
		s.log(ctx).Error("Failed to save session", slog.String("scope", string(scope)), slog.Any("error", err))

		return s.loginFailed(ctx, msgSaveFailed)
	}

	if s.profile.DualScope {
		s.purge(ctx, scope.Other())
	}

	s.mu.Lock()
	s.token = issued.Token
	s.currentUser = principal
	s.scope = scope
	s.authenticated = true
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()

	s.recordLogin(true)
	s.log(ctx).Info("Login succeeded", slog.Int64("subject_id", principal.SubjectID()), slog.String("scope", string(scope)))
	s.publish(ctx, entity.SessionEventLogin, principal, scope)

	return entity.Succeeded()
}

// Logout clears every scope and resets the session. Calling it again is a no-op.
func (s *sessionStore[P]) Logout(ctx context.Context) {
	s.mu.Lock()
	principal, scope, wasAuthenticated := s.currentUser, s.scope, s.authenticated
	s.reset()
	s.loading = false
	s.mu.Unlock()

	s.purge(ctx, entity.ScopeDurable)
	s.purge(ctx, entity.ScopeEphemeral)

	if wasAuthenticated {
		s.log(ctx).Info("Logged out", slog.Int64("subject_id", principal.SubjectID()))
		s.publish(ctx, entity.SessionEventLogout, principal, scope)
	}
}

// RequestPasswordReset asks the upstream API to send a reset code.
func (s *sessionStore[P]) RequestPasswordReset(ctx context.Context, email string) entity.Result {
	if err := s.deps.validate.Var(email, "required,email"); err != nil {
		return entity.Failed("A valid email is required")
	}

	if err := s.deps.api.Post(apiclient.WithBearer(ctx, ""), s.profile.RequestResetPath, map[string]string{"email": email}, nil); err != nil {
		s.logUpstreamFailure(ctx, "request password reset", err)

		return entity.Failed(apiclient.MessageOf(err, s.profile.ResetFailure))
	}

	return entity.Succeeded()
}

// VerifyResetCode exchanges the emailed code for a reset token.
func (s *sessionStore[P]) VerifyResetCode(ctx context.Context, email, code string) entity.Result {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return entity.Failed("Email and reset code are required")
	}

	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "resetCode": code}
	if err := s.deps.api.Post(apiclient.WithBearer(ctx, ""), s.profile.VerifyResetPath, body, &out); err != nil {
		s.logUpstreamFailure(ctx, "verify reset code", err)

		return entity.Failed(apiclient.MessageOf(err, s.profile.ResetFailure))
	}
	if out.Token == "" {
		return entity.Failed(s.profile.ResetFailure)
	}

	return entity.Result{Success: true, ResetToken: out.Token}
}

// ResetPassword sets a new password using resetToken as a one-shot bearer.
// An empty token fails before any network call.
func (s *sessionStore[P]) ResetPassword(ctx context.Context, resetToken, newPassword string) entity.Result {
	if resetToken == "" {
		return entity.Failed(msgInvalidResetToken)
	}
	if strings.TrimSpace(newPassword) == "" {
		return entity.Failed("A new password is required")
	}

	body := map[string]string{"newPassword": newPassword}
	if err := s.deps.api.Post(apiclient.WithBearer(ctx, resetToken), s.profile.ResetPasswordPath, body, nil); err != nil {
		s.logUpstreamFailure(ctx, "reset password", err)

		return entity.Failed(apiclient.MessageOf(err, s.profile.ResetFailure))
	}

	return entity.Succeeded()
}

// Register submits a new vendor's form and documents.
func (s *sessionStore[P]) Register(ctx context.Context, form entity.VendorRegistration) entity.Result {
	if s.profile.RegisterPath == "" {
		return entity.Failed(msgNoRegistration)
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := s.deps.api.PostMultipart(apiclient.WithBearer(ctx, ""), s.profile.RegisterPath, form.Fields, form.Files, &out); err != nil {
		s.logUpstreamFailure(ctx, "register", err)

		return entity.Failed(apiclient.MessageOf(err, "Registration failed"))
	}

	s.log(ctx).Info("Vendor registration submitted", slog.Int("files", len(form.Files)))

	return entity.Succeeded()
}

// reset drops the in-memory session. Callers hold mu.
func (s *sessionStore[P]) reset() {
	s.token = ""
	s.currentUser = nil
	s.scope = ""
	s.authenticated = false
	s.errMsg = ""
}

func (s *sessionStore[P]) purge(ctx context.Context, scope entity.StorageScope) {
	if err := s.scopes.Get(scope).Remove(ctx, s.profile.TokenKey, s.profile.DataKey); err != nil {
		s.log(ctx).Warn("Failed to clear session storage", slog.String("scope", string(scope)), slog.Any("error", err))
	}
}

func (s *sessionStore[P]) loginFailed(ctx context.Context, message string) entity.Result {
	s.mu.Lock()
	s.errMsg = message
	s.mu.Unlock()

	s.recordLogin(false)
	s.log(ctx).Info("Login failed", slog.String("reason", message))

	return entity.Failed(message)
}

// checkPushToken drops a messaging token the backend rejects. Verification errors keep the token.
func (s *sessionStore[P]) checkPushToken(ctx context.Context, token string) string {
	if token == "" || s.deps.verifier == nil {
		return token
	}

	valid, err := s.deps.verifier.VerifyToken(ctx, token)
	if err != nil {
		s.log(ctx).Warn("Push token check failed", slog.Any("error", err))

		return token
	}
	if !valid {
		s.log(ctx).Info("Dropping rejected push token")

		return ""
	}

	return token
}

func (s *sessionStore[P]) recordLogin(success bool) {
	if s.deps.recorder != nil {
		s.deps.recorder.Login(s.profile.Tenant.String(), success)
	}
}

// publish emits a session event. Failures are logged only.
func (s *sessionStore[P]) publish(ctx context.Context, kind entity.SessionEventType, principal entity.Principal, scope entity.StorageScope) {
	if s.deps.publisher == nil || principal == nil {
		return
	}

	event := &service.SessionEvent{
		RequestID:  deliverycontext.RequestIDFrom(ctx),
		EventID:    uuid.NewString(),
		Type:       kind,
		Tenant:     s.profile.Tenant,
		SubjectID:  principal.SubjectID(),
		Role:       principal.RoleName(),
		Scope:      scope,
		OccurredAt: s.deps.now().UTC(),
	}
	if err := s.deps.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.log(ctx).Warn("Failed to publish session event", slog.String("type", string(kind)), slog.Any("error", err))
	}
}

func (s *sessionStore[P]) logUpstreamFailure(ctx context.Context, op string, err error) {
	if errors.Is(err, apiclient.ErrTransport) {
		s.log(ctx).Error("Upstream unreachable", slog.String("op", op), slog.Any("error", err))

		return
	}
	s.log(ctx).Warn("Upstream rejected request", slog.String("op", op), slog.Any("error", err))
}
