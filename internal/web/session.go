package web

import (
	"context"
	"crypto/sha256"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/userfront/userfront/tokenstore"
)

const sessionName = "userfront_session"

// SessionKey returns the cookie signing key. An empty configured key
// yields a random one, which logs every browser out on restart.
func SessionKey(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}
	return securecookie.GenerateRandomKey(32)
}

// NewCookieStore builds the cookie store holding browser sessions. The
// cookie is signed with key and encrypted with a key derived from it, since
// it carries the bearer token.
func NewCookieStore(key []byte) *sessions.CookieStore {
	blockKey := sha256.Sum256(append([]byte("userfront-session-block:"), key...))
	cs := sessions.NewCookieStore(key, blockKey[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// sessionToken is a tokenstore.Store over one request's cookie session.
// Writes re-issue the cookie, so they must happen before the response
// header is written.
type sessionToken struct {
	mu   sync.Mutex
	sess *sessions.Session
	r    *http.Request
	w    http.ResponseWriter
}

func (s *sessionToken) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := s.sess.Values[tokenstore.Key].(string)
	return v, nil
}

func (s *sessionToken) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Values[tokenstore.Key] = token
	return s.sess.Save(s.r, s.w)
}

func (s *sessionToken) Remove(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sess.Values, tokenstore.Key)
	return s.sess.Save(s.r, s.w)
}

// addFlash queues a one-shot message for the next rendered page.
func (s *sessionToken) addFlash(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.AddFlash(msg)
	return s.sess.Save(s.r, s.w)
}

// flashes drains queued messages.
func (s *sessionToken) flashes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw := s.sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			out = append(out, m)
		}
	}
	_ = s.sess.Save(s.r, s.w)
	return out
}

// requestState is per-request bookkeeping shared between the page
// handlers and the client's session-expired hook.
type requestState struct {
	expired atomic.Bool
	session *sessionToken
}

type stateKey struct{}

func stateFrom(ctx context.Context) *requestState {
	st, _ := ctx.Value(stateKey{}).(*requestState)
	return st
}

// SessionExpired is the client hook for the web host. It marks the
// current request so its handler answers with a redirect to /login.
// Contexts that did not come through the session middleware are ignored.
func SessionExpired(ctx context.Context) {
	if st := stateFrom(ctx); st != nil {
		st.expired.Store(true)
	}
}

func sessionExpired(ctx context.Context) bool {
	st := stateFrom(ctx)
	return st != nil && st.expired.Load()
}

// withSession loads the cookie session and exposes it to the client as
// the request's token store.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r, sessionName)
		if err != nil {
			// tampered or stale cookie; sess is a fresh session
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("discarding invalid session cookie")
		}
		tok := &sessionToken{sess: sess, r: r, w: w}
		ctx := tokenstore.WithStore(r.Context(), tok)
		ctx = context.WithValue(ctx, stateKey{}, &requestState{session: tok})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
