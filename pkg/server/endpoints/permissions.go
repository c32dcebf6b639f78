package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// PermissionRequest is the body of POST and PUT on /permisos. Nil fields
// on update are left untouched.
type PermissionRequest struct {
	Name        *string `json:"permiso_nombre,omitempty"`
	Path        *string `json:"permiso_ruta,omitempty"`
	Method      *string `json:"permiso_metodo,omitempty"`
	Description *string `json:"permiso_descripcion,omitempty"`
	Active      *bool   `json:"permiso_activo,omitempty"`
}

// RolePermissionRequest is the body of the assign and remove operations.
type RolePermissionRequest struct {
	RoleID        int   `json:"rol_id"`
	PermissionIDs []int `json:"permiso_ids"`
}

// VerifyRequest is the body of POST /permisos/usuario/verify.
type VerifyRequest struct {
	RoleID int    `json:"user_rol_id"`
	Path   string `json:"ruta"`
	Method string `json:"metodo"`
}

// RoleWithPermissions is returned by GET /permisos/rol/{id}.
type RoleWithPermissions struct {
	RoleID      int                `json:"rol_id"`
	RoleName    string             `json:"rol_nombre"`
	Permissions []model.Permission `json:"permisos"`
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
}

// RegisterPermissionsEndpoints registers the /permisos endpoints
func RegisterPermissionsEndpoints(srv *server.Server) {
	permissions := srv.Stores.Permissions
	roles := srv.Stores.Roles
	authz := srv.Stores.Authz

	// Permission mutations must be visible on the next request, so every
	// write drops the gate's decision cache.
	invalidate := func() {
		if inv, ok := authz.(store.AuthzCacheInvalidator); ok {
			inv.InvalidateAuthz()
		}
	}

	router := srv.Router.PathPrefix("/permisos").Subrouter()

	// Fixed paths before /{permiso_id} so mux never swallows them.
	router.HandleFunc("/rol/assign", handleAssignPermissions(permissions, invalidate)).Methods("POST")
	router.HandleFunc("/rol/remove", handleRemovePermissions(permissions, invalidate)).Methods("POST")
	router.HandleFunc("/rol/{rol_id:[0-9]+}", handleRolePermissions(permissions, roles)).Methods("GET")
	router.HandleFunc("/usuario/verify", handleVerifyPermission(authz)).Methods("POST")
	router.HandleFunc("/usuario/{rol_id:[0-9]+}/permisos", handleUserPermissions(permissions)).Methods("GET")
	// Path templates carry slashes, so the route needs the greedy pattern.
	router.HandleFunc("/ruta/{ruta:.+}/metodo/{metodo}", handlePermissionByPathMethod(permissions)).Methods("GET")

	router.HandleFunc("", handleListPermissions(permissions)).Methods("GET")
	router.HandleFunc("", handleCreatePermission(permissions, invalidate)).Methods("POST")
	router.HandleFunc("/{permiso_id:[0-9]+}", handleGetPermission(permissions)).Methods("GET")
	router.HandleFunc("/{permiso_id:[0-9]+}", handleUpdatePermission(permissions, invalidate)).Methods("PUT")
	router.HandleFunc("/{permiso_id:[0-9]+}", handleDeletePermission(permissions, invalidate)).Methods("DELETE")
}

func handleListPermissions(permissions store.PermissionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.PermissionFilter{Limit: 100}
		query := r.URL.Query()
		if skip, err := strconv.Atoi(query.Get("skip")); err == nil && skip >= 0 {
			filter.Skip = skip
		}
		if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit >= 1 && limit <= 100 {
			filter.Limit = limit
		}
		if activo := query.Get("activo"); activo != "" {
			active := activo == "true"
			filter.Active = &active
		}

		list, err := permissions.ListPermissions(filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener los permisos")
			return
		}
		if list == nil {
			list = []model.Permission{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetPermission(permissions store.PermissionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["permiso_id"])
		permission, err := permissions.PermissionByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Permiso no encontrado")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener el permiso")
			return
		}
		respondWithJSON(w, http.StatusOK, permission)
	}
}

func handleCreatePermission(permissions store.PermissionsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PermissionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == nil || *req.Name == "" || req.Path == nil || *req.Path == "" ||
			req.Method == nil || !validMethods[*req.Method] {
			respondWithError(w, http.StatusBadRequest, "Datos inválidos: nombre, ruta y método son obligatorios")
			return
		}

		permission := model.Permission{
			Name:   *req.Name,
			Path:   *req.Path,
			Method: *req.Method,
			Active: true,
		}
		if req.Description != nil {
			permission.Description = *req.Description
		}
		if req.Active != nil {
			permission.Active = *req.Active
		}

		if err := permissions.CreatePermission(&permission); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "Ya existe un permiso con ese nombre o ruta y método")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al crear el permiso")
			return
		}

		invalidate()
		respondWithJSON(w, http.StatusCreated, permission)
	}
}

func handleUpdatePermission(permissions store.PermissionsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["permiso_id"])

		var req PermissionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		permission, err := permissions.PermissionByID(id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Permiso no encontrado")
			return
		}

		if req.Name != nil {
			permission.Name = *req.Name
		}
		if req.Path != nil {
			permission.Path = *req.Path
		}
		if req.Method != nil {
			if !validMethods[*req.Method] {
				respondWithError(w, http.StatusBadRequest, "Método HTTP inválido")
				return
			}
			permission.Method = *req.Method
		}
		if req.Description != nil {
			permission.Description = *req.Description
		}
		if req.Active != nil {
			permission.Active = *req.Active
		}

		if err := permissions.UpdatePermission(permission); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "Ya existe un permiso con esa ruta y método")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al actualizar el permiso")
			return
		}

		invalidate()
		respondWithJSON(w, http.StatusOK, permission)
	}
}

func handleDeletePermission(permissions store.PermissionsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["permiso_id"])
		if err := permissions.DeletePermission(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Permiso no encontrado")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al eliminar el permiso")
			return
		}

		invalidate()
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Permiso eliminado correctamente"})
	}
}

func handlePermissionByPathMethod(permissions store.PermissionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		path := "/" + vars["ruta"]
		method := vars["metodo"]

		permission, err := permissions.PermissionByPathMethod(path, method)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Permiso no encontrado")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener el permiso")
			return
		}
		respondWithJSON(w, http.StatusOK, permission)
	}
}

func handleAssignPermissions(permissions store.PermissionsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RolePermissionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := permissions.AssignToRole(req.RoleID, req.PermissionIDs); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Rol no encontrado")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno al asignar los permisos")
			return
		}

		invalidate()
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":       "Permisos asignados correctamente",
			"rol_id":        req.RoleID,
			"permiso_count": len(req.PermissionIDs),
		})
	}
}

func handleRemovePermissions(permissions store.PermissionsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RolePermissionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := permissions.RemoveFromRole(req.RoleID, req.PermissionIDs); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al remover los permisos")
			return
		}

		invalidate()
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":       "Permisos removidos correctamente",
			"rol_id":        req.RoleID,
			"permiso_count": len(req.PermissionIDs),
		})
	}
}

func handleRolePermissions(permissions store.PermissionsStore, roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, _ := strconv.Atoi(mux.Vars(r)["rol_id"])

		role, err := roles.RoleByID(roleID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Rol no encontrado")
			return
		}

		list, err := permissions.PermissionsForRole(roleID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener los permisos del rol")
			return
		}
		if list == nil {
			list = []model.Permission{}
		}

		respondWithJSON(w, http.StatusOK, RoleWithPermissions{
			RoleID:      role.ID,
			RoleName:    role.Name,
			Permissions: list,
		})
	}
}

func handleUserPermissions(permissions store.PermissionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, _ := strconv.Atoi(mux.Vars(r)["rol_id"])
		list, err := permissions.PermissionsForRole(roleID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno al obtener los permisos")
			return
		}
		if list == nil {
			list = []model.Permission{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

// handleVerifyPermission answers the same question the gate asks, for
// admin tooling and debugging.
func handleVerifyPermission(authz store.AuthzStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"has_permission": authz.HasPermission(req.RoleID, req.Path, req.Method),
			"user_rol_id":    req.RoleID,
			"ruta":           req.Path,
			"metodo":         req.Method,
		})
	}
}
