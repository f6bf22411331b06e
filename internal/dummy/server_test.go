package dummy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Result(), string(body)
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func TestHomePage(t *testing.T) {
	resp, body := get(t, Handler(), "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>QuickPizza Demo</title>")
}

func TestUnknownPathIs404(t *testing.T) {
	resp, _ := get(t, Handler(), "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginPageHasForm(t *testing.T) {
	_, body := get(t, Handler(), "/login")
	assert.Contains(t, body, `name="user"`)
	assert.Contains(t, body, `name="password"`)
	assert.Contains(t, body, `type="submit"`)
}

func TestLoginRedirectsOnValidCredentials(t *testing.T) {
	resp := postForm(t, Handler(), "/login", url.Values{
		"user": {"admin"}, "password": {"admin"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboards", resp.Header.Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	resp := postForm(t, Handler(), "/login", url.Values{
		"user": {"admin"}, "password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardHasContainer(t *testing.T) {
	resp, body := get(t, Handler(), "/dashboards")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `class="dashboard-container"`)
}

func TestFastEndpoint(t *testing.T) {
	resp, body := get(t, Handler(), "/fast")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fast response", body)
}

func TestErrorEndpointReturnsKnownStatuses(t *testing.T) {
	h := Handler()
	allowed := map[int]bool{
		http.StatusOK:                  true,
		http.StatusInternalServerError: true,
		http.StatusTooManyRequests:     true,
	}
	for i := 0; i < 30; i++ {
		resp, _ := get(t, h, "/error")
		assert.True(t, allowed[resp.StatusCode], "unexpected status %d", resp.StatusCode)
	}
}
