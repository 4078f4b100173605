package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xelth-com/jobintake/internal/middleware"
	authService "github.com/xelth-com/jobintake/internal/services/auth"
)

// CredentialsRequest is the sign-up and login payload
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenRequest carries a confirmation or reset token
type TokenRequest struct {
	Token    string `json:"token"`
	Password string `json:"password,omitempty"`
}

// respondAuthError maps auth failures to HTTP responses
func (r *Router) respondAuthError(w http.ResponseWriter, err error) {
	var authErr *authService.Error
	if !errors.As(err, &authErr) {
		r.log.Error("Auth request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusBadRequest
	switch authErr.Kind {
	case authService.KindUnauthorized:
		status = http.StatusUnauthorized
	case authService.KindConflict:
		status = http.StatusConflict
	}
	respondError(w, status, authErr.Message)
}

// signUp handles account registration
func (r *Router) signUp(w http.ResponseWriter, req *http.Request) {
	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := r.auth.SignUp(req.Context(), body.Email, body.Password)
	if err != nil {
		r.respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created! Please check your email to confirm.",
		"user":    user,
	})
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, tokens, err := r.auth.SignIn(req.Context(), body.Email, body.Password)
	if err != nil {
		r.respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": tokens,
		"user":   user,
	})
}

// logout revokes the access token used for this request
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.ClaimsFromContext(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	if err := r.auth.SignOut(req.Context(), jti, exp.Time); err != nil {
		r.respondAuthError(w, err)
		return
	}

	// the body is optional; when it names a refresh token, that one goes too
	var body RefreshRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err == nil && body.RefreshToken != "" {
		if err := r.auth.RevokeRefresh(req.Context(), body.RefreshToken); err != nil {
			r.respondAuthError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// refresh issues a new token pair for a refresh token
func (r *Router) refresh(w http.ResponseWriter, req *http.Request) {
	var body RefreshRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, tokens, err := r.auth.Refresh(req.Context(), body.RefreshToken)
	if err != nil {
		r.respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": tokens,
		"user":   user,
	})
}

// getSession returns the current session
func (r *Router) getSession(w http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.ClaimsFromContext(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	session := map[string]interface{}{
		"user": map[string]interface{}{
			"id":    claims["id"],
			"email": claims["email"],
		},
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session["expiresAt"] = exp.Time.UTC()
	}
	respondJSON(w, http.StatusOK, session)
}

// confirmEmail consumes an email confirmation token
func (r *Router) confirmEmail(w http.ResponseWriter, req *http.Request) {
	var body TokenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.auth.ConfirmEmail(req.Context(), body.Token); err != nil {
		r.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed. You can now log in."})
}

// resetPassword mails a password reset link
func (r *Router) resetPassword(w http.ResponseWriter, req *http.Request) {
	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.auth.SendPasswordReset(req.Context(), body.Email); err != nil {
		r.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "If that address has an account, a reset link is on its way."})
}

// updatePassword sets a new password from a reset token
func (r *Router) updatePassword(w http.ResponseWriter, req *http.Request) {
	var body TokenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.auth.UpdatePassword(req.Context(), body.Token, body.Password); err != nil {
		r.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
