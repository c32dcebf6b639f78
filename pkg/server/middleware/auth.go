package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kickshopping/kickshop/pkg/audit"
	"github.com/kickshopping/kickshop/pkg/identity"
	"github.com/kickshopping/kickshop/pkg/server/routes"
	"github.com/kickshopping/kickshop/pkg/server/store"
	"github.com/kickshopping/kickshop/pkg/token"
)

// Authenticator gates every request. Public routes pass untouched;
// everything else needs a valid access token, and routes outside the
// authenticated-only set additionally need a permission grant for the
// caller's role.
type Authenticator struct {
	tokens *token.Service
	table  *routes.Table
	authz  store.AuthzStore
}

// NewAuthenticator creates the request gate middleware.
func NewAuthenticator(tokens *token.Service, table *routes.Table, authz store.AuthzStore) *Authenticator {
	return &Authenticator{tokens: tokens, table: table, authz: authz}
}

// Middleware returns an HTTP middleware enforcing the gate.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A panic while authenticating must never leak past the gate as a
		// 200 or a 500 with internals; callers get a generic denial.
		defer func() {
			if rec := recover(); rec != nil {
				logrus.WithField("panic", rec).Error("authentication failure")
				deny(w, http.StatusUnauthorized, "Error de autenticación")
			}
		}()

		class := a.table.Classify(r.URL.Path, r.Method)
		if class == routes.ClassPublic {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr, errMsg := bearerToken(r)
		if errMsg != "" {
			deny(w, http.StatusUnauthorized, errMsg)
			return
		}

		claims, err := a.tokens.Validate(tokenStr)
		if err != nil {
			deny(w, http.StatusUnauthorized, validationMessage(err))
			return
		}

		// Refresh tokens only buy new tokens; they never authorize API
		// access.
		if claims.Kind == token.KindRefresh {
			deny(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		id := identity.FromClaims(claims)
		r = r.WithContext(identity.Set(r.Context(), id))

		if class == routes.ClassAuthAndPermission && id.HasRole() {
			template := routes.Normalize(r.URL.Path)
			allowed := a.authz.HasPermission(id.RoleID, template, r.Method)
			audit.Log(audit.CheckEvent{
				Subject:  id.Subject,
				RoleID:   id.RoleID,
				ClientIP: r.RemoteAddr,
				Path:     template,
				Method:   r.Method,
				Allowed:  allowed,
			})
			if !allowed {
				deny(w, http.StatusForbidden, "No tiene permisos para acceder a este recurso")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header. The header
// must be exactly "Bearer <token>"; the returned message is empty on
// success.
func bearerToken(r *http.Request) (string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "Token de autorización requerido"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return "", "Formato de Authorization inválido"
	}
	if parts[0] != "Bearer" {
		return "", "Esquema de autorización inválido. Use 'Bearer <token>'"
	}

	return parts[1], ""
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "Token expirado"
	case errors.Is(err, token.ErrMissingIdentity):
		return "Token inválido: falta user_id"
	default:
		return "Token inválido"
	}
}

func deny(w http.ResponseWriter, code int, detail string) {
	body, _ := json.Marshal(map[string]string{"detail": detail})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
