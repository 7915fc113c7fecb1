package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{TrustedOrigins: []string{"https://shop.example.com"}, SkipPaths: []string{"/webhook"}}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/", ok)
	e.POST("/", ok)
	e.POST("/webhook", ok)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSafeMethodIssuesToken(t *testing.T) {
	rec := serve(newEcho(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, token, cookies[0].Value)
}

func TestUnsafeMethodChecks(t *testing.T) {
	e := newEcho()
	cookie := &http.Cookie{Name: "XSRF-TOKEN", Value: "abc"}

	cases := []struct {
		name   string
		origin string
		header string
		want   int
	}{
		{"matching token same host", "http://example.com", "abc", http.StatusOK},
		{"trusted origin", "https://shop.example.com", "abc", http.StatusOK},
		{"wrong token", "http://example.com", "xyz", http.StatusForbidden},
		{"missing token", "http://example.com", "", http.StatusForbidden},
		{"foreign origin", "https://evil.example.net", "abc", http.StatusForbidden},
		{"no origin", "", "abc", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.AddCookie(cookie)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.header != "" {
				req.Header.Set("X-CSRF-Token", tc.header)
			}
			assert.Equal(t, tc.want, serve(e, req).Code)
		})
	}
}

func TestSkipPaths(t *testing.T) {
	rec := serve(newEcho(), httptest.NewRequest(http.MethodPost, "/webhook", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
