package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userfront/userfront/client"
	"github.com/userfront/userfront/internal/health"
	"github.com/userfront/userfront/internal/logger"
	"github.com/userfront/userfront/tokenstore"
)

// fakeBackend records the Authorization header of each call and answers
// from the handlers a test installs.
type fakeBackend struct {
	mu    sync.Mutex
	auths []string
	mux   *http.ServeMux
	srv   *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.auths = append(b.auths, r.Header.Get("Authorization"))
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auths) == 0 {
		return "<none>"
	}
	return b.auths[len(b.auths)-1]
}

func backendJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// browser is an HTTP client with a cookie jar that does not follow redirects.
type browser struct {
	t    *testing.T
	base string
	hc   *http.Client
}

func newSite(t *testing.T, backend *fakeBackend) *browser {
	t.Helper()
	c, err := client.New(backend.srv.URL,
		client.WithTokenStore(tokenstore.Context{}),
		client.WithSessionExpired(SessionExpired),
		client.WithHTTPTimeout(2*time.Second),
	)
	require.NoError(t, err)
	s, err := New(c, health.NewProbe(backend.srv.URL, time.Second), []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	site := httptest.NewServer(s.Handler())
	t.Cleanup(site.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: site.URL, hc: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.hc.Get(b.base + path)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.hc.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func readBody(t *testing.T, resp *http.Response) (*http.Response, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (b *browser) login(token string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"token": {token}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, "/users", resp.Header.Get("Location"))
}

func TestUsersPage_SendsSessionToken(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusOK, `[{"_id":7,"firstName":"Ada"},{"id":"8","firstName":"Grace","lastName":"Hopper"}]`)
	})
	b := newSite(t, backend)

	b.login("abc")
	resp, body := b.get("/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer abc", backend.lastAuth())
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, `href="/users/7"`)
	assert.Contains(t, body, "Hopper")
	assert.Contains(t, body, "Log out")
}

func TestUsersPage_Filter(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusOK, `[{"id":"1","firstName":"Ada","lastName":"Lovelace"},{"id":"2","firstName":"Grace","lastName":"Hopper"}]`)
	})
	b := newSite(t, backend)

	_, body := b.get("/users?q=hop")
	assert.Contains(t, body, "Grace")
	assert.NotContains(t, body, "Lovelace")

	_, body = b.get("/users?q=nobody")
	assert.Contains(t, body, "No users found")
}

func TestUsersPage_NonArrayIsEmpty(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusOK, `{"items":[]}`)
	})
	b := newSite(t, backend)

	resp, body := b.get("/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No users found")
}

func TestUnauthorized_RedirectsToLoginAndErasesToken(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusUnauthorized, `{"detail":"expired"}`)
	})
	b := newSite(t, backend)

	b.login("stale")
	resp, _ := b.get("/users")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, "Bearer stale", backend.lastAuth())

	// the cookie no longer carries the token
	_, _ = b.get("/users")
	assert.Equal(t, "", backend.lastAuth())

	_, body := b.get("/login")
	assert.Contains(t, body, "session has expired")
	assert.Contains(t, body, "Log in")
}

func TestUnauthorizedOnCreate_Redirects(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusUnauthorized, `{}`)
	})
	b := newSite(t, backend)

	resp, _ := b.post("/users", url.Values{"firstName": {"Ada"}, "lastName": {"Lovelace"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestCreateUser(t *testing.T) {
	backend := newFakeBackend(t)
	var (
		mu  sync.Mutex
		got map[string]any
	)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		mu.Lock()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		mu.Unlock()
		backendJSON(w, http.StatusCreated, `{"id":"42","firstName":"Grace","lastName":"Hopper"}`)
	})
	b := newSite(t, backend)

	resp, body := b.post("/users", url.Values{"firstName": {" "}, "lastName": {"Hopper"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "firstName is required")
	assert.Contains(t, body, `value="Hopper"`)
	mu.Lock()
	assert.Nil(t, got, "invalid form must not reach the backend")
	mu.Unlock()

	resp, _ = b.post("/users", url.Values{"firstName": {"Grace"}, "lastName": {"Hopper"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/users/42", resp.Header.Get("Location"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]any{"firstName": "Grace", "lastName": "Hopper"}, got)
}

func TestCreateUser_BackendError(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusInternalServerError, `{"detail":"boom"}`)
	})
	b := newSite(t, backend)

	resp, body := b.post("/users", url.Values{"firstName": {"Grace"}, "lastName": {"Hopper"}})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Failed to create user")
	assert.Contains(t, body, `value="Grace"`)
}

func TestUserDetail(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users/42", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusOK, `{"id":42,"firstName":"Grace","lastName":null}`)
	})
	backend.mux.HandleFunc("/users/missing", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusNotFound, `{"detail":"User not found"}`)
	})
	backend.mux.HandleFunc("/users/broken", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusInternalServerError, `{}`)
	})
	b := newSite(t, backend)

	resp, body := b.get("/users/42")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Grace")
	assert.Contains(t, body, ">42<")

	resp, body = b.get("/users/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "User not found")

	resp, _ = b.get("/users/broken")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestLoginLogout(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusOK, `[]`)
	})
	b := newSite(t, backend)

	resp, body := b.post("/login", url.Values{"token": {"  "}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "token is required")

	b.login("abc")
	resp, _ = b.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body = b.get("/users")
	assert.Equal(t, "", backend.lastAuth())
	assert.Contains(t, body, "Log in")
}

func TestHome(t *testing.T) {
	backend := newFakeBackend(t)
	b := newSite(t, backend)

	resp, body := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, backend.srv.URL)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestOperationalEndpoints(t *testing.T) {
	backend := newFakeBackend(t)
	var unhealthy atomic.Bool
	backend.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !unhealthy.Load() {
			backendJSON(w, http.StatusOK, `{"status":"ok"}`)
			return
		}
		backendJSON(w, http.StatusServiceUnavailable, `{"status":"error","reason":"db down"}`)
	})
	b := newSite(t, backend)

	resp, body := b.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, body = b.get("/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ready","backend":"ok"}`, body)

	unhealthy.Store(true)
	resp, body = b.get("/ready")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.Contains(t, envelope["message"], "db down")
	assert.EqualValues(t, http.StatusServiceUnavailable, envelope["code"])
	assert.Equal(t, resp.Header.Get(RequestIDHeader), envelope["requestId"])

	// unknown backend route: counted by the client as a 404
	resp, _ = b.get("/users")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = b.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, `userfront_client_requests_total{code="404",method="GET"}`))
	assert.Contains(t, body, "userfront_web_requests_total")
}

func TestNew_Validation(t *testing.T) {
	c, err := client.New("")
	require.NoError(t, err)

	_, err = New(nil, nil, []byte("k"))
	require.Error(t, err)
	_, err = New(c, nil, nil)
	require.Error(t, err)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, []byte("configured"), SessionKey("configured"))
	a, b := SessionKey(""), SessionKey("")
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestSessionCookie_DoesNotExposeToken(t *testing.T) {
	backend := newFakeBackend(t)
	b := newSite(t, backend)

	b.login("super-secret-token-value")
	u, err := url.Parse(b.base)
	require.NoError(t, err)
	cookies := b.hc.Jar.Cookies(u)
	require.NotEmpty(t, cookies)
	for _, c := range cookies {
		assert.NotContains(t, c.Value, "super-secret-token-value")
	}
}

// syncBuffer lets the server goroutine log while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestUpstreamFailure_LoggedWithStack(t *testing.T) {
	var logs syncBuffer
	prev := log.Logger
	log.Logger = logger.NewWithWriter(&logs, "userfront-web")
	t.Cleanup(func() { log.Logger = prev })

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/users/broken", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusInternalServerError, `{}`)
	})
	backend.mux.HandleFunc("/users/missing", func(w http.ResponseWriter, r *http.Request) {
		backendJSON(w, http.StatusNotFound, `{}`)
	})
	b := newSite(t, backend)

	resp, _ := b.get("/users/broken")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp, _ = b.get("/users/missing")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	byStatus := map[float64]map[string]any{}
	for _, line := range strings.Split(logs.String(), "\n") {
		if !strings.Contains(line, `"Failed to load user"`) {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		status, _ := entry["status"].(float64)
		byStatus[status] = entry
	}
	require.Contains(t, byStatus, float64(http.StatusBadGateway), "logs:\n%s", logs.String())
	require.Contains(t, byStatus, float64(http.StatusNotFound), "logs:\n%s", logs.String())

	upstream := byStatus[http.StatusBadGateway]
	assert.Equal(t, "error", upstream["level"])
	assert.Contains(t, upstream, "stack")

	notFound := byStatus[http.StatusNotFound]
	assert.Equal(t, "warn", notFound["level"])
	assert.NotContains(t, notFound, "stack")
}

func TestMalformedForms_AreBadRequests(t *testing.T) {
	backend := newFakeBackend(t)
	b := newSite(t, backend)

	for _, path := range []string{"/login", "/users"} {
		resp, err := b.hc.Post(b.base+path, "application/x-www-form-urlencoded", strings.NewReader("token=%zz&firstName=%"))
		require.NoError(t, err)
		resp, body := readBody(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Contains(t, body, "invalid form", path)
	}
	assert.Equal(t, "<none>", backend.lastAuth(), "no backend call expected")
}
