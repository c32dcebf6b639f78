package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/kickshopping/kickshop/pkg/audit"
	"github.com/kickshopping/kickshop/pkg/identity"
	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/store"
	"github.com/kickshopping/kickshop/pkg/token"
)

const birthdateLayout = "2006-01-02"

// RegisterRequest is the body of POST /usuarios.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Birthdate string `json:"birthdate,omitempty"`
}

// LoginRequest is the body of POST /usuarios/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /usuarios/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by registration, login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
}

// UserUpdateRequest is the body of PATCH /usuarios/{id}. Nil fields are
// left untouched.
type UserUpdateRequest struct {
	FullName  *string `json:"usu_nombre_completo,omitempty"`
	Password  *string `json:"usu_contrasenia,omitempty"`
	RoleID    *int    `json:"usu_rol_id,omitempty"`
	Birthdate *string `json:"birthdate,omitempty"`
}

// RegisterUsersEndpoints registers the /usuarios endpoints
func RegisterUsersEndpoints(srv *server.Server) {
	users := srv.Stores.Users
	tokens := srv.Tokens

	router := srv.Router.PathPrefix("/usuarios").Subrouter()

	// Fixed paths before /{usu_id} so mux never swallows them.
	router.HandleFunc("/me", handleProfile(users)).Methods("GET")
	router.HandleFunc("/login", handleLogin(users, tokens)).Methods("POST")
	router.HandleFunc("/refresh", handleRefresh(users, tokens)).Methods("POST")

	router.HandleFunc("", handleListUsers(users)).Methods("GET")
	router.HandleFunc("", handleRegister(users, tokens)).Methods("POST")
	router.HandleFunc("/{usu_id:[0-9]+}", handleGetUser(users)).Methods("GET")
	router.HandleFunc("/{usu_id:[0-9]+}", handleUpdateUser(users)).Methods("PATCH")
	router.HandleFunc("/{usu_id:[0-9]+}", handleDeleteUser(users)).Methods("DELETE")
}

func handleListUsers(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.ListUsers()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener los usuarios")
			return
		}
		if list == nil {
			list = []model.User{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["usu_id"])
		user, err := users.UserByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Usuario con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener el usuario")
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

// handleProfile returns the authenticated user's record, resolved from the
// identity the gate attached.
func handleProfile(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Usuario no autenticado")
			return
		}

		user, err := users.UserByID(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleRegister(users store.UsersStore, tokens *token.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "Datos inválidos: email y password son obligatorios")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al crear el usuario")
			return
		}

		user := model.User{
			Username:     req.Email,
			PasswordHash: string(hash),
			FullName:     fullName(req.FirstName, req.LastName),
			RoleID:       model.RoleBuyerID,
		}
		if req.Birthdate != "" {
			birthdate, err := time.Parse(birthdateLayout, req.Birthdate)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Fecha de nacimiento inválida")
				return
			}
			user.Birthdate = &birthdate
		}

		if err := users.CreateUser(&user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "El usuario ya existe")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al crear el usuario")
			return
		}

		respondWithTokens(w, http.StatusCreated, tokens, &user)
	}
}

func handleLogin(users store.UsersStore, tokens *token.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := users.UserByUsername(req.Username)
		if err != nil {
			// Not-found and bad-password respond identically so usernames
			// cannot be probed.
			audit.Log(audit.LoginEvent{Username: req.Username, ClientIP: r.RemoteAddr, ErrorMessage: "unknown user"})
			respondWithError(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			audit.Log(audit.LoginEvent{Username: req.Username, ClientIP: r.RemoteAddr, ErrorMessage: "bad password"})
			respondWithError(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}

		audit.Log(audit.LoginEvent{Username: user.Username, ClientIP: r.RemoteAddr, Success: true})
		respondWithTokens(w, http.StatusOK, tokens, user)
	}
}

// handleRefresh exchanges a refresh token for a fresh token pair. This is
// the only place refresh tokens are accepted.
func handleRefresh(users store.UsersStore, tokens *token.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		claims, err := tokens.Validate(req.RefreshToken)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				respondWithError(w, http.StatusUnauthorized, "Token expirado")
				return
			}
			respondWithError(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		if claims.Kind != token.KindRefresh {
			respondWithError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		// The role may have changed since the refresh token was minted;
		// re-read the user so new tokens carry the current role.
		user, err := users.UserByID(claims.UserID)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		respondWithTokens(w, http.StatusOK, tokens, user)
	}
}

func handleUpdateUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["usu_id"])

		var req UserUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := users.UserByID(id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Usuario con ID %d no encontrado", id))
			return
		}

		if req.FullName != nil {
			user.FullName = *req.FullName
		}
		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Error interno al actualizar el usuario")
				return
			}
			user.PasswordHash = string(hash)
		}
		if req.RoleID != nil {
			user.RoleID = *req.RoleID
		}
		if req.Birthdate != nil {
			birthdate, err := time.Parse(birthdateLayout, *req.Birthdate)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Fecha de nacimiento inválida")
				return
			}
			user.Birthdate = &birthdate
		}

		if err := users.UpdateUser(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al actualizar el usuario")
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleDeleteUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["usu_id"])
		if err := users.DeleteUser(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Usuario con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al eliminar el usuario")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{
			"detail": fmt.Sprintf("Usuario %d eliminado exitosamente", id),
		})
	}
}

func respondWithTokens(w http.ResponseWriter, code int, tokens *token.Service, user *model.User) {
	access, err := tokens.Issue(user.Username, user.RoleID, user.ID, token.KindAccess)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error interno al generar el token")
		return
	}
	refresh, err := tokens.Issue(user.Username, user.RoleID, user.ID, token.KindRefresh)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error interno al generar el token")
		return
	}

	respondWithJSON(w, code, TokenResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		RefreshToken: refresh,
		UserID:       user.ID,
		Username:     user.Username,
	})
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
