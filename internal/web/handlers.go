package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/userfront/userfront/client"
	"github.com/userfront/userfront/tokenstore"
)

const expiredMessage = "Your session has expired. Please log in again."

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", &pageData{Title: "Home", BaseURL: s.client.BaseURL()})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.client.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, "Failed to load users", err)
		return
	}
	q := r.URL.Query().Get("q")
	s.render(w, r, http.StatusOK, "users", &pageData{
		Title: "Users",
		Query: q,
		Users: client.FilterUsers(users, q),
	})
}

func (s *Server) showUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := s.client.GetUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, "Failed to load user", err)
		return
	}
	s.render(w, r, http.StatusOK, "user", &pageData{Title: "User Details", User: user})
}

func (s *Server) newUserForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "new", &pageData{Title: "Create User"})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "new", &pageData{Title: "Create User", Error: "invalid form"})
		return
	}
	form := client.NewUser{
		FirstName: strings.TrimSpace(r.PostForm.Get("firstName")),
		LastName:  strings.TrimSpace(r.PostForm.Get("lastName")),
	}
	if err := client.ValidateNewUser(form); err != nil {
		s.render(w, r, http.StatusBadRequest, "new", &pageData{Title: "Create User", Form: form, Error: err.Error()})
		return
	}

	created, err := s.client.CreateUser(r.Context(), form)
	if err != nil {
		if sessionExpired(r.Context()) || client.IsUnauthorized(err) {
			s.fail(w, r, "", err)
			return
		}
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("create user failed")
		s.render(w, r, http.StatusBadGateway, "new", &pageData{Title: "Create User", Form: form, Error: err.Error()})
		return
	}

	// a backend that echoes no identifier leaves nothing to link to
	if created.ID == "" {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/users/"+url.PathEscape(created.ID), http.StatusSeeOther)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", &pageData{Title: "Log in"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login", &pageData{Title: "Log in", Error: "invalid form"})
		return
	}
	token := strings.TrimSpace(r.PostForm.Get("token"))
	if token == "" {
		s.render(w, r, http.StatusBadRequest, "login", &pageData{Title: "Log in", Error: "token is required"})
		return
	}
	if err := s.client.SetToken(r.Context(), token); err != nil {
		s.fail(w, r, "Failed to log in", err)
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.client.ClearToken(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to clear session token")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.probe == nil {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	st, err := s.probe.Check(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("backend not ready")
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready", "backend": st.Status})
}

// fail turns a client error into a response. An expired session always
// becomes a 303 to /login; everything else renders the error page with a
// status derived from the upstream failure.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	ctx := r.Context()
	if sessionExpired(ctx) || client.IsUnauthorized(err) {
		if st := stateFrom(ctx); st != nil {
			if ferr := st.session.addFlash(expiredMessage); ferr != nil {
				zerolog.Ctx(ctx).Warn().Err(ferr).Msg("failed to save session flash")
			}
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	status := http.StatusBadGateway
	msg := what + ": " + err.Error()
	var netErr *client.NetworkError
	switch {
	case client.IsNotFound(err):
		status = http.StatusNotFound
		msg = "User not found"
	case client.IsTimeout(err):
		status = http.StatusGatewayTimeout
	case errors.As(err, &netErr):
		msg = what + ": backend unreachable"
	case errors.Is(err, tokenstore.ErrUnavailable):
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(ctx).Error().Stack().Err(err).Int("status", status).Msg(what)
	} else {
		zerolog.Ctx(ctx).Warn().Err(err).Int("status", status).Msg(what)
	}
	s.render(w, r, status, "error", &pageData{Title: http.StatusText(status), Status: status, Error: msg})
}
