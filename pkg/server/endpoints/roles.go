package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// RoleRequest is the body of POST and PATCH on /roles.
type RoleRequest struct {
	Name string `json:"rol_nombre"`
}

// RegisterRolesEndpoints registers the /roles endpoints
func RegisterRolesEndpoints(srv *server.Server) {
	roles := srv.Stores.Roles

	router := srv.Router.PathPrefix("/roles").Subrouter()
	router.HandleFunc("", handleListRoles(roles)).Methods("GET")
	router.HandleFunc("", handleCreateRole(roles)).Methods("POST")
	router.HandleFunc("/{rol_id:[0-9]+}", handleGetRole(roles)).Methods("GET")
	router.HandleFunc("/{rol_id:[0-9]+}", handleUpdateRole(roles)).Methods("PATCH")
	router.HandleFunc("/{rol_id:[0-9]+}", handleDeleteRole(roles)).Methods("DELETE")
}

func handleListRoles(roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := roles.ListRoles()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener los roles")
			return
		}
		if list == nil {
			list = []model.Role{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetRole(roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["rol_id"])
		role, err := roles.RoleByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Rol con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener el rol")
			return
		}
		respondWithJSON(w, http.StatusOK, role)
	}
}

func handleCreateRole(roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RoleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "El nombre del rol es obligatorio")
			return
		}

		role := model.Role{Name: req.Name}
		if err := roles.CreateRole(&role); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "Error de integridad de datos al crear el rol")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al crear el rol")
			return
		}
		respondWithJSON(w, http.StatusCreated, role)
	}
}

func handleUpdateRole(roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["rol_id"])

		var req RoleRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		role, err := roles.RoleByID(id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Rol con ID %d no encontrado", id))
			return
		}

		if req.Name != "" {
			role.Name = req.Name
		}
		if err := roles.UpdateRole(role); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al actualizar el rol")
			return
		}
		respondWithJSON(w, http.StatusOK, role)
	}
}

func handleDeleteRole(roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["rol_id"])
		if err := roles.DeleteRole(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Rol con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al eliminar el rol")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{
			"detail": fmt.Sprintf("Rol con ID %d eliminado exitosamente", id),
		})
	}
}
