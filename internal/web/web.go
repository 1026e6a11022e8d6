// Package web serves the browser front-end: server-rendered pages over the
// user client, a cookie-session login and the operational endpoints.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/userfront/userfront/client"
	"github.com/userfront/userfront/internal/health"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "users", "user", "new", "login", "error"}

// Server renders the user pages. Its client must read the token through
// tokenstore.Context and report expiry through SessionExpired, so that the
// credential lives in the browser's session cookie.
type Server struct {
	client   *client.Client
	probe    *health.Probe
	sessions sessions.Store
	pages    map[string]*template.Template
	router   *mux.Router
}

// New builds a Server. sessionKey signs the session cookie.
func New(c *client.Client, probe *health.Probe, sessionKey []byte) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("nil client")
	}
	if len(sessionKey) == 0 {
		return nil, fmt.Errorf("empty session key")
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{
		client:   c,
		probe:    probe,
		sessions: NewCookieStore(sessionKey),
		pages:    pages,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	// Global middlewares
	r.Use(RequestLog, Recovery, s.withSession)

	// Operational endpoints
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Pages
	r.HandleFunc("/", s.home).Methods(http.MethodGet)
	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/new", s.newUserForm).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", s.showUser).Methods(http.MethodGet)
	r.HandleFunc("/login", s.loginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodPost)

	return r
}

func parsePages() (map[string]*template.Template, error) {
	base, err := template.New("layout").Funcs(template.FuncMap{
		"statusText": http.StatusText,
	}).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// pageData is the model shared by every template.
type pageData struct {
	Title    string
	BaseURL  string
	LoggedIn bool
	Flashes  []string
	Query    string
	Users    []client.User
	User     *client.User
	Form     client.NewUser
	Error    string
	Status   int
}

// render executes page into a buffer first so a template error still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	if st := stateFrom(r.Context()); st != nil {
		tok, _ := st.session.Get(r.Context())
		data.LoggedIn = tok != ""
		data.Flashes = append(data.Flashes, st.session.flashes()...)
	}
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
