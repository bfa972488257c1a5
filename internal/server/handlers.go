package server

import (
	"errors"
	"net/http"

	"github.com/performate/performate/internal/auth"
	"github.com/performate/performate/internal/store"
	"github.com/performate/performate/pkg/renderers/htmlform"
)

const sessionCookie = "performate_session"

// currentSession resolves the request cookie to an active session.
func (s *Server) currentSession(r *http.Request) (auth.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return auth.Session{}, false
	}
	return s.sessions.Get(cookie.Value)
}

// requireSession redirects anonymous requests to the sign-in page.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	session, ok := s.currentSession(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
	}
	return session, ok
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	session, ok := s.currentSession(r)
	data := map[string]any{}
	if ok {
		data["session"] = session
	}
	s.renderPage(w, "landing.tmpl", data)
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentSession(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.renderPage(w, "auth.tmpl", map[string]any{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	user, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		message := "something went wrong, try again"
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			message = "no account with that username"
		case errors.Is(err, auth.ErrInvalidPassword):
			message = "incorrect password"
		case errors.Is(err, auth.ErrMissingFields):
			message = "username and password are required"
		default:
			s.log.Error().Err(err).Str("username", username).Msg("login failed")
		}
		s.renderPage(w, "auth.tmpl", map[string]any{"error": message})
		return
	}

	session := s.sessions.Issue(user.Username, user.APIToken)
	setSessionCookie(w, session.Token, 0)
	s.log.Info().Str("username", user.Username).Msg("user logged in")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	apiToken := r.PostForm.Get("apiToken")

	if err := s.auth.Register(r.Context(), username, password, apiToken); err != nil {
		message := "something went wrong, try again"
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			message = "that username is already taken"
		case errors.Is(err, auth.ErrMissingFields):
			message = "all fields are required"
		default:
			s.log.Error().Err(err).Str("username", username).Msg("signup failed")
		}
		s.renderPage(w, "auth.tmpl", map[string]any{"error": message})
		return
	}

	s.log.Info().Str("username", username).Msg("account created")
	s.renderPage(w, "auth.tmpl", map[string]any{
		"notice": "Account created, sign in to continue.",
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(cookie.Value)
		s.forms.dropSession(cookie.Value)
	}
	setSessionCookie(w, "", -1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	data := map[string]any{"session": session}
	actors, err := s.source(session.APIToken).ListActors(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Str("username", session.Username).Msg("actor list failed")
		data["error"] = userMessage(err)
	} else {
		data["actors"] = actors
	}
	s.renderPage(w, "dashboard.tmpl", data)
}

func (s *Server) handleActorPage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	username, name := r.PathValue("username"), r.PathValue("name")
	fs := s.forms.get(formKey(session.Token, username, name))

	gen := fs.beginFetch()
	detail, err := s.source(session.APIToken).ActorDetail(r.Context(), username, name)
	if err != nil {
		s.log.Warn().Err(err).
			Str("actor", username+"/"+name).
			Msg("actor detail failed")
		s.renderPage(w, "actor.tmpl", map[string]any{
			"session": session,
			"actor":   map[string]string{"Username": username, "Name": name},
			"error":   userMessage(err),
		})
		return
	}
	fs.install(gen, detail)

	snap := fs.snapshot()
	formHTML, err := s.renderer.RenderForm(htmlform.FormState{
		Schema:  snap.Schema,
		Values:  snap.Values,
		Tracker: snap.Tracker,
		Action:  actorRef(username, name),
		Pending: snap.Pending,
	})
	if err != nil {
		s.log.Error().Err(err).Str("actor", username+"/"+name).Msg("form render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, "actor.tmpl", map[string]any{
		"session":  session,
		"actor":    detail,
		"formHTML": formHTML,
		"run":      snap.Run,
		"runError": snap.RunError,
		"problems": snap.Problems,
	})
}

func (s *Server) handleActorSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	username, name := r.PathValue("username"), r.PathValue("name")
	src := s.source(session.APIToken)
	fs := s.forms.get(formKey(session.Token, username, name))

	// A POST can arrive before any GET primed the form, or after the server
	// restarted. Fetch the detail so the schema and actor id are in place.
	if snap := fs.snapshot(); snap.Values == nil {
		gen := fs.beginFetch()
		detail, err := src.ActorDetail(r.Context(), username, name)
		if err != nil {
			s.renderPage(w, "actor.tmpl", map[string]any{
				"session": session,
				"actor":   map[string]string{"Username": username, "Name": name},
				"error":   userMessage(err),
			})
			return
		}
		fs.install(gen, detail)
	}

	op := htmlform.OpValue(r.PostForm)
	redirect := func() {
		http.Redirect(w, r, actorRef(username, name), http.StatusSeeOther)
	}

	fs.mu.Lock()
	fs.values = htmlform.DecodeValues(fs.schema, r.PostForm, fs.values)
	fs.problems = nil
	if op.Kind != "run" {
		fs.values = htmlform.ApplyOp(fs.values, fs.tracker, op)
		fs.mu.Unlock()
		redirect()
		return
	}

	problems := htmlform.ValidateRequired(fs.schema, fs.values)
	if len(problems) > 0 {
		fs.problems = problems
		fs.mu.Unlock()
		redirect()
		return
	}
	if fs.pending {
		fs.mu.Unlock()
		redirect()
		return
	}
	fs.pending = true
	fs.run = nil
	fs.runError = ""
	actorID := fs.actorID
	values := fs.values
	fs.mu.Unlock()

	run, err := src.StartRun(r.Context(), actorID, values, "latest")
	if err != nil {
		s.log.Warn().Err(err).
			Str("actor", username+"/"+name).
			Msg("run start failed")
	} else {
		s.log.Info().
			Str("actor", username+"/"+name).
			Str("run_id", run.ID).
			Msg("run started")
	}
	fs.finishRun(run, err)
	redirect()
}
