package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portal/config"
	"portal/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resultBody struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newAuthEcho(provider stubProvider, flows *stubResetFlows, session *stubSession) *echo.Echo {
	h := NewAuthHandler(AuthHandlerParams{
		Provider:   provider,
		ResetFlows: flows,
		Config: &config.Config{
			Auth:    &config.AuthConfig{ResetFlowTTL: 15 * time.Minute},
			Storage: &config.StorageConfig{},
		},
		Logger: discardLogger(),
	})

	e := newTestEcho()
	e.GET("/login", h.LoginPage, withSession(session))
	g := e.Group("/api/auth", withSession(session))
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Session)
	g.POST("/password/request", h.RequestPasswordReset)
	g.POST("/password/verify", h.VerifyResetCode)
	g.POST("/password/reset", h.ResetPassword)
	g.POST("/register", h.Register)

	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("failure is a tagged result", func(t *testing.T) {
		session := &stubSession{loginResult: entity.Failed("Invalid credentials")}
		e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, &stubResetFlows{}, session)

		rec := serve(e, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"x","fcmToken":"tok"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		var body resultBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Invalid credentials", body.Error)
		assert.Equal(t, "tok", session.creds.PushToken)
	})

	t.Run("success returns the session state", func(t *testing.T) {
		session := &stubSession{loginResult: entity.Succeeded()}
		e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, &stubResetFlows{}, session)

		rec := serve(e, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"x","remember":true}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		assert.Contains(t, rec.Body.String(), `"isAuthenticated":true`)
		assert.True(t, session.creds.Remember)
	})

	t.Run("malformed body", func(t *testing.T) {
		e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, &stubResetFlows{}, &stubSession{})

		rec := serve(e, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	session := authenticatedSession("ann")
	e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, &stubResetFlows{}, session)

	for range 2 {
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
	}
	assert.True(t, session.loggedOut)
	assert.False(t, session.State().IsAuthenticated)
}

func TestAuthHandler_LoginPage(t *testing.T) {
	t.Run("anonymous sees the form", func(t *testing.T) {
		e := newAuthEcho(stubProvider{tenant: entity.TenantVendor, register: true}, &stubResetFlows{}, &stubSession{})

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/login", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Professionals Portal")
		assert.Contains(t, rec.Body.String(), "Register as a professional")
	})

	t.Run("signed in visitor goes to the dashboard", func(t *testing.T) {
		e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, &stubResetFlows{}, authenticatedSession("ann"))

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestAuthHandler_PasswordResetFlowCookie(t *testing.T) {
	flows := &stubResetFlows{result: entity.Succeeded()}
	e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, flows, &stubSession{})

	rec := serve(e, jsonRequest(http.MethodPost, "/api/auth/password/request", `{"email":"a@b.co"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, resetFlowCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "flow-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, resetFlowPath, cookie.Path)
	assert.Empty(t, flows.requestFlowID)

	req := jsonRequest(http.MethodPost, "/api/auth/password/verify", `{"email":"a@b.co","resetCode":"123456"}`)
	req.AddCookie(&http.Cookie{Name: resetFlowCookie, Value: "flow-1"})
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "flow-1", flows.verifyFlowID)
	assert.NotContains(t, rec.Body.String(), "token")

	req = jsonRequest(http.MethodPost, "/api/auth/password/reset", `{"newPassword":"s3cret!"}`)
	req.AddCookie(&http.Cookie{Name: resetFlowCookie, Value: "flow-1"})
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "flow-1", flows.resetFlowID)
	cleared := findCookie(rec, resetFlowCookie)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestAuthHandler_PasswordRequestFailureKeepsNoCookie(t *testing.T) {
	flows := &stubResetFlows{result: entity.Failed("Email not found")}
	e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, flows, &stubSession{})

	rec := serve(e, jsonRequest(http.MethodPost, "/api/auth/password/request", `{"email":"a@b.co"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email not found")
	assert.Nil(t, findCookie(rec, resetFlowCookie))
}

func TestAuthHandler_Register(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Acme Cleaning"))
	require.NoError(t, mw.WriteField("vendorType", "company"))
	fw, err := mw.CreateFormFile("businessLicense", "license.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	t.Run("vendor submits the form", func(t *testing.T) {
		session := &stubSession{}
		e := newAuthEcho(stubProvider{tenant: entity.TenantVendor, register: true}, &stubResetFlows{}, session)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(buf.Bytes()))
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		rec := serve(e, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, session.registered)
		assert.Equal(t, "Acme Cleaning", session.registered.Fields["name"])
		require.Len(t, session.registered.Files, 1)
		assert.Equal(t, "businessLicense", session.registered.Files[0].Field)
		assert.Equal(t, "license.pdf", session.registered.Files[0].Filename)
		assert.Equal(t, []byte("%PDF-1.4"), session.registered.Files[0].Content)
	})

	t.Run("other tenants do not register", func(t *testing.T) {
		session := &stubSession{}
		e := newAuthEcho(stubProvider{tenant: entity.TenantAdmin}, &stubResetFlows{}, session)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(buf.Bytes()))
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		rec := serve(e, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_SUPPORTED_BY_TENANT")
		assert.Nil(t, session.registered)
	})
}
