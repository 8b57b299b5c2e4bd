package server

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/me/spq/internal/auth"
)

// handleDashboard renders the landing page with quotes pulled straight
// from the external API, independent of the persisted dataset.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	records, err := s.fetch(r.Context())
	if err != nil {
		s.logger.Error("dashboard fetch failed", "error", err)
		s.renderError(w, http.StatusBadGateway, "Unable to load South Park quotes at this time.")
		return
	}

	s.render(w, http.StatusOK, "dashboard", map[string]any{
		"Title":  "Dashboard - SPQ",
		"User":   user,
		"Quotes": records,
	})
}

// handleLogin renders the login form with contextual messaging supplied
// by the route guard's redirect parameters.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo := r.URL.Query().Get("redirectTo")
	if redirectTo == "" {
		redirectTo = "/quotes"
	}

	// Already signed in: nothing to do here.
	if user := UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	reason := r.URL.Query().Get("reason")
	requiredRole := r.URL.Query().Get("requiredRole")
	if failure := AuthFailureFromContext(r.Context()); failure != nil && reason == "" {
		reason = string(failure.Reason)
		requiredRole = failure.RequiredRole
	}

	s.render(w, http.StatusOK, "login", map[string]any{
		"Title":        "Login - SPQ",
		"Reason":       reason,
		"RequiredRole": requiredRole,
		"RedirectTo":   redirectTo,
		"Username":     "",
		"Error":        "",
	})
}

// handleLoginPost checks submitted credentials and issues the auth cookie.
func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLoginError(w, http.StatusBadRequest, "Invalid form submission.", "", "/quotes")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	redirectTo := strings.TrimSpace(r.FormValue("redirectTo"))
	if redirectTo == "" {
		redirectTo = "/quotes"
	}

	if username == "" || password == "" {
		s.renderLoginError(w, http.StatusBadRequest, "Username and password are required.", username, redirectTo)
		return
	}

	user, err := s.creds.FindByCredentials(username, password)
	if err != nil {
		s.logger.Error("credential lookup failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}
	if user == nil {
		s.logger.Warn("login rejected", "username", username)
		s.renderLoginError(w, http.StatusUnauthorized, "Those credentials were not recognised.", username, redirectTo)
		return
	}

	token := auth.EncodeToken(username, password)
	auth.SetAuthCookie(w, token, s.config.Secure)

	s.logger.Info("user logged in", "username", user.Username)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// handleLogout clears the auth cookie and returns to the login page.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user := UserFromContext(r.Context()); user != nil {
		s.logger.Info("user logged out", "username", user.Username)
	}
	auth.ClearAuthCookie(w, s.config.Secure)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// handleQuotes renders the editable quotes dashboard, seeding the
// dataset from the external API on first use.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := s.store.EnsureSeeded(r.Context(), s.fetch); err != nil {
		s.logger.Error("quote seeding failed", "error", err)
		s.renderError(w, http.StatusBadGateway, "Unable to load South Park quotes at this time.")
		return
	}

	records, err := s.store.ReadAll(r.Context())
	if err != nil {
		s.logger.Error("quote read failed", "error", err)
		s.renderError(w, http.StatusBadGateway, "Unable to load South Park quotes at this time.")
		return
	}

	s.render(w, http.StatusOK, "quotes", map[string]any{
		"Title":   "Quotes - SPQ",
		"User":    user,
		"Quotes":  records,
		"Updated": r.URL.Query().Get("updated"),
	})
}

// handleQuoteUpdate persists an inline quote edit. Authorization is
// re-checked here: a form action never trusts the page gating alone.
func (s *Server) handleQuoteUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil || !user.HasRole("quotes") {
		s.renderError(w, http.StatusForbidden, "You do not have permission to update quotes.")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	id := strings.TrimSpace(r.FormValue("id"))
	quote := strings.TrimSpace(r.FormValue("quote"))
	character := strings.TrimSpace(r.FormValue("character"))

	if id == "" || quote == "" || character == "" {
		s.renderError(w, http.StatusBadRequest, "Quote, character, and identifier are required.")
		return
	}

	if _, err := s.store.Update(r.Context(), id, quote, character); err != nil {
		// Includes the strict-update miss: the client gets a generic
		// failure, the cause stays in the log.
		s.logger.Error("quote update failed", "id", id, "error", err)
		s.renderError(w, http.StatusInternalServerError, "Unable to update quote. Please try again later.")
		return
	}

	http.Redirect(w, r, "/quotes?updated="+url.QueryEscape(id), http.StatusSeeOther)
}

// handleFilters renders the filters prototype with the account's display
// information.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	s.render(w, http.StatusOK, "filters", map[string]any{
		"Title": "Filters - SPQ",
		"User":  user,
	})
}

// --- Render helpers ---

func (s *Server) render(w http.ResponseWriter, status int, template string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		s.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	s.render(w, status, "error", map[string]any{
		"Title":   "Error - SPQ",
		"Message": message,
	})
}

func (s *Server) renderLoginError(w http.ResponseWriter, status int, message, username, redirectTo string) {
	s.render(w, status, "login", map[string]any{
		"Title":        "Login - SPQ",
		"Error":        message,
		"Username":     username,
		"RedirectTo":   redirectTo,
		"Reason":       "",
		"RequiredRole": "",
	})
}
