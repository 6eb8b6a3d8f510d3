// internal/httpserver/auth.go
//
// Account endpoints and token handling.
//   - POST /auth/signup, POST /auth/login, POST /auth/logout, GET /auth/me.
//   - bcrypt password hashes, HS256 JWT carried in a cookie or bearer header.
//   - withOptionalAuth / requireAuth middleware.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/cosmicword/internal/users"
)

var (
	errInvalidInput = errors.New("invalid input")
	errUnauthorized = errors.New("unauthorized")
)

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// mountAuth registers the /auth routes.
func (s *Server) mountAuth(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(requireAuth).Get("/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, currentUser(r.Context()))
		})
	})
}

// handleSignup creates an account, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := decodeJSON(w, r, &body); err != nil {
		fail(w, err)
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if err := validateSignup(body); err != nil {
		fail(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(w, fmt.Errorf("hash password: %w", err))
		return
	}
	u, err := s.users.Create(r.Context(), users.NewUser{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		fail(w, err)
		return
	}
	log.Info().Str("user", u.ID).Str("username", u.Username).Msg("signup")

	if err := s.issueToken(w, u); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleLogin verifies credentials and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := decodeJSON(w, r, &body); err != nil {
		fail(w, err)
		return
	}
	u, err := s.users.FindByEmail(r.Context(), strings.TrimSpace(body.Email))
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		fail(w, err)
		return
	}
	if u == nil || u.PasswordHash == "" || !checkPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := s.issueToken(w, u); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// validateSignup enforces basic username/email/password rules.
func validateSignup(b signupReq) error {
	if len(b.Username) < 3 || len(b.Username) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", errInvalidInput)
	}
	for _, r := range b.Username {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", errInvalidInput)
		}
	}
	if a, err := mail.ParseAddress(b.Email); err != nil || a.Address != b.Email {
		return fmt.Errorf("%w: email is not valid", errInvalidInput)
	}
	if len(b.Password) < 8 || len(b.Password) > 100 {
		return fmt.Errorf("%w: password must be 8-100 chars", errInvalidInput)
	}
	return nil
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ------------------------------ JWT & cookies ------------------------------

// issueToken signs a JWT for u and writes it as the auth cookie.
func (s *Server) issueToken(w http.ResponseWriter, u *users.User) error {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	s.setAuthCookie(w, tok, exp, 0)
	w.Header().Set("Authorization", "Bearer "+tok)
	return nil
}

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseJWT validates tokenStr and returns the user ID it carries.
func (s *Server) parseJWT(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", errUnauthorized
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errUnauthorized
	}
	return id, nil
}

// setAuthCookie writes (maxAge 0) or deletes (maxAge -1) the auth cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// ctxUserKey is the context key type for storing the signed-in user.
type ctxUserKey struct{}

// currentUser returns the signed-in user, or nil for guests.
func currentUser(ctx context.Context) *users.User {
	u, _ := ctx.Value(ctxUserKey{}).(*users.User)
	return u
}

// withOptionalAuth decorates requests with the user if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if id, err := s.parseJWT(tok); err == nil {
				// the account must still exist
				if u, err := s.users.FindByID(r.Context(), id); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
				} else if !errors.Is(err, users.ErrNotFound) {
					log.Warn().Err(err).Str("user", id).Msg("load token user")
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests withOptionalAuth could not attach a user to.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
