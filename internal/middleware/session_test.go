package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lodging-booking/internal/utils"
)

const secret = "test-secret"

// serve runs req through mws and returns the response together with the
// principal the final handler saw.
func serve(t *testing.T, req *http.Request, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *utils.Principal) {
	t.Helper()
	e := echo.New()
	var seen *utils.Principal
	h := func(c echo.Context) error {
		if p, ok := PrincipalFrom(c); ok {
			seen = &p
		}
		return c.String(http.StatusOK, currentUserID(c))
	}
	e.GET("/", h, mws...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func token(t *testing.T, p utils.Principal) string {
	t.Helper()
	tok, err := utils.NewSessionToken(secret, p, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func TestSessionReadsCookieAndBearer(t *testing.T) {
	p := utils.Principal{UserID: "7", Email: "a@b.c", Name: "A"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token(t, p)})
	rec, got := serve(t, req, Session(secret))
	assert.Equal(t, "7", rec.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, p))
	rec, _ = serve(t, req, Session(secret))
	assert.Equal(t, "7", rec.Body.String())
}

func TestSessionIgnoresBadTokens(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	rec, got := serve(t, req, Session(secret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anon", rec.Body.String())
	assert.Nil(t, got)

	other, err := utils.NewSessionToken("other-secret", utils.Principal{UserID: "7"}, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+other.Token)
	rec, _ = serve(t, req, Session(secret))
	assert.Equal(t, "anon", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := serve(t, req, Session(secret), RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token(t, utils.Principal{UserID: "7"})})
	rec, _ = serve(t, req, Session(secret), RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token(t, utils.Principal{UserID: utils.AdminUserID, IsAdmin: true})})
	rec, _ = serve(t, req, Session(secret), RequireAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, utils.AdminUserID, rec.Body.String())
}

func TestRequestLoggerSetsID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := serve(t, req, RequestLogger(nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec, _ = serve(t, req, RequestLogger(nil))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCachePayloadDecodeRejectsShortInput(t *testing.T) {
	payload, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, []byte(`{"ok":true}`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload(payload[:5])
	assert.False(t, ok)
}
