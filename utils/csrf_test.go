package utils

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errorTemplate = template.Must(template.New("error.html").Parse(`{{.Message}}`))

func csrfRouter(x *CSRF) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(errorTemplate)
	r.GET("/form", func(c *gin.Context) {
		tok, err := x.Token(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, tok)
	})
	r.POST("/submit", x.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func issue(t *testing.T, r *gin.Engine) (string, *http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CSRFCookie {
			return w.Body.String(), ck
		}
	}
	t.Fatal("no nonce cookie")
	return "", nil
}

func submit(r *gin.Engine, token string, header bool, cookies ...*http.Cookie) int {
	var body string
	if !header {
		body = url.Values{CSRFField: {token}}.Encode()
	}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if header {
		req.Header.Set(CSRFHeader, token)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestCSRF_TokenNeedsItsCookie(t *testing.T) {
	r := csrfRouter(NewCSRF(NewTokens("s3cret", time.Hour), true, false))
	token, nonce := issue(t, r)
	assert.Equal(t, http.SameSiteStrictMode, nonce.SameSite)

	assert.Equal(t, http.StatusNoContent, submit(r, token, false, nonce))
	assert.Equal(t, http.StatusNoContent, submit(r, token, true, nonce))

	assert.Equal(t, http.StatusForbidden, submit(r, token, false))
	assert.Equal(t, http.StatusForbidden, submit(r, "", false, nonce))

	otherToken, otherNonce := issue(t, r)
	assert.Equal(t, http.StatusForbidden, submit(r, token, false, otherNonce))
	assert.Equal(t, http.StatusForbidden, submit(r, otherToken, false, nonce))
}

func TestCSRF_ReusesExistingNonce(t *testing.T) {
	r := csrfRouter(NewCSRF(NewTokens("s3cret", time.Hour), true, false))
	_, nonce := issue(t, r)

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(nonce)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, http.StatusNoContent, submit(r, w.Body.String(), false, nonce))
}

func TestCSRF_Disabled(t *testing.T) {
	r := csrfRouter(NewCSRF(NewTokens("s3cret", time.Hour), false, false))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, http.StatusNoContent, submit(r, "", false))
}

func TestCSRF_BearerRequestsPass(t *testing.T) {
	r := csrfRouter(NewCSRF(NewTokens("s3cret", time.Hour), true, false))

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLimitBody(t *testing.T) {
	r := gin.New()
	r.SetHTMLTemplate(errorTemplate)
	r.POST("/submit", LimitBody(16), NewCSRF(NewTokens("s3cret", time.Hour), true, false).Middleware(),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
