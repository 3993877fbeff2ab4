// Package handler contains the HTTP handlers of the portal.
package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"portal/config"
	"portal/internal/delivery/api/middleware"
	"portal/internal/delivery/api/response"
	"portal/internal/delivery/api/view"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	resetFlowCookie = "portal_reset_flow"
	resetFlowPath   = "/api/auth/password"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	Provider   usecase.SessionProvider
	ResetFlows usecase.ResetFlowUsecase
	Config     *config.Config
	Logger     *slog.Logger
}

// AuthHandler serves sign-in, sign-out, password reset and registration
type AuthHandler struct {
	provider      usecase.SessionProvider
	resetFlows    usecase.ResetFlowUsecase
	resetFlowTTL  int
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		provider:      params.Provider,
		resetFlows:    params.ResetFlows,
		resetFlowTTL:  int(params.Config.Auth.ResetFlowTTL.Seconds()),
		secureCookies: params.Config.Storage.SecureCookies,
		logger:        params.Logger,
	}
}

// PasswordResetRequest is the body of a reset code request
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// VerifyResetCodeRequest is the body of a reset code verification
type VerifyResetCodeRequest struct {
	Email     string `json:"email"`
	ResetCode string `json:"resetCode"`
}

// ResetPasswordRequest is the body of the final reset step
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// LoginPage handles GET on the tenant's login route
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if session, ok := middleware.GetSession(c); ok && session.State().IsAuthenticated {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	return c.Render(http.StatusOK, view.Login, view.LoginPage{
		Title:        tenantTitle(h.provider.Tenant()),
		CanRegister:  h.provider.SupportsRegistration(),
		ResetEnabled: true,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var creds entity.Credentials
	if err := c.Bind(&creds); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	result := session.Login(c.Request().Context(), creds)

	return response.Result(c, result, session.State())
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	session.Logout(c.Request().Context())

	return response.Result(c, entity.Succeeded(), session.State())
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, session.State())
}

// RequestPasswordReset handles POST /api/auth/password/request
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset request")
	}

	flowID, result := h.resetFlows.Request(c.Request().Context(), session, readCookie(c, resetFlowCookie), req.Email)
	if result.Success {
		h.setFlowCookie(c, flowID, h.resetFlowTTL)
	}

	return response.Result(c, result, nil)
}

// VerifyResetCode handles POST /api/auth/password/verify
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req VerifyResetCodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}

	result := h.resetFlows.Verify(c.Request().Context(), session, readCookie(c, resetFlowCookie), req.Email, req.ResetCode)

	return response.Result(c, result, nil)
}

// ResetPassword handles POST /api/auth/password/reset
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}

	result := h.resetFlows.Reset(c.Request().Context(), session, readCookie(c, resetFlowCookie), req.NewPassword)
	if result.Success {
		h.setFlowCookie(c, "", -1)
	}

	return response.Result(c, result, nil)
}

// Register handles POST /api/auth/register (multipart)
func (h *AuthHandler) Register(c echo.Context) error {
	if !h.provider.SupportsRegistration() {
		return domainerrors.ErrNotSupportedByTenant.WrapMessage("register")
	}

	session, err := currentSession(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Registration must be sent as multipart form data")
	}

	registration, err := registrationFromForm(form)
	if err != nil {
		deliverycontext.LoggerFrom(c.Request().Context(), h.logger).
			Warn("Failed to read registration upload", slog.Any("error", err))

		return response.BindingError(c, "INVALID_INPUT", "Unable to read uploaded files")
	}

	result := session.Register(c.Request().Context(), registration)

	return response.Result(c, result, nil)
}

func (h *AuthHandler) setFlowCookie(c echo.Context, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     resetFlowCookie,
		Value:    value,
		Path:     resetFlowPath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func currentSession(c echo.Context) (usecase.SessionUsecase, error) {
	session, ok := middleware.GetSession(c)
	if !ok {
		return nil, domainerrors.ErrSessionUnavailable.WrapMessage("no session mounted")
	}

	return session, nil
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// registrationFromForm keeps the first value of each field and every uploaded file.
func registrationFromForm(form *multipart.Form) (entity.VendorRegistration, error) {
	registration := entity.VendorRegistration{Fields: make(map[string]string, len(form.Value))}
	for name, values := range form.Value {
		if len(values) > 0 {
			registration.Fields[name] = values[0]
		}
	}

	for field, headers := range form.File {
		for _, header := range headers {
			content, err := readUpload(header)
			if err != nil {
				return entity.VendorRegistration{}, err
			}
			registration.Files = append(registration.Files, entity.RegistrationFile{
				Field:       field,
				Filename:    header.Filename,
				ContentType: header.Header.Get(echo.HeaderContentType),
				Content:     content,
			})
		}
	}

	return registration, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open upload %s", header.Filename)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read upload %s", header.Filename)
	}

	return content, nil
}
