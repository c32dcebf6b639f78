package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickshopping/kickshop/pkg/model"
)

func seedPermission(t *testing.T, env *testEnv, name, path, method string) *model.Permission {
	t.Helper()
	permission := &model.Permission{Name: name, Path: path, Method: method, Active: true}
	require.NoError(t, env.permissions.CreatePermission(permission))
	return permission
}

func seedRole(t *testing.T, env *testEnv, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name}
	require.NoError(t, env.roles.CreateRole(role))
	return role
}

func TestCreatePermission(t *testing.T) {
	env := newTestEnv(t)

	name := "productos.crear"
	path := "/productos"
	method := "POST"
	rr := env.do(t, http.MethodPost, "/permisos", PermissionRequest{
		Name: &name, Path: &path, Method: &method,
	}, nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created model.Permission
	decodeBody(t, rr, &created)
	assert.True(t, created.Active)
	assert.Equal(t, 1, env.authz.invalidations)
}

func TestCreatePermissionConflicts(t *testing.T) {
	env := newTestEnv(t)
	seedPermission(t, env, "productos.crear", "/productos", "POST")

	name := "otro.nombre"
	path := "/productos"
	method := "POST"
	rr := env.do(t, http.MethodPost, "/permisos", PermissionRequest{
		Name: &name, Path: &path, Method: &method,
	}, nil)

	requireDetail(t, rr, http.StatusConflict, "Ya existe un permiso con ese nombre o ruta y método")
}

func TestUpdatePermissionInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	permission := seedPermission(t, env, "productos.crear", "/productos", "POST")

	active := false
	rr := env.do(t, http.MethodPut, "/permisos/1", PermissionRequest{Active: &active}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	updated, err := env.permissions.PermissionByID(permission.ID)
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, 1, env.authz.invalidations)
}

func TestDeletePermissionDropsGrants(t *testing.T) {
	env := newTestEnv(t)
	role := seedRole(t, env, "comprador")
	permission := seedPermission(t, env, "productos.crear", "/productos", "POST")
	require.NoError(t, env.permissions.AssignToRole(role.ID, []int{permission.ID}))

	rr := env.do(t, http.MethodDelete, "/permisos/1", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	list, err := env.permissions.PermissionsForRole(role.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, env.authz.invalidations)
}

func TestAssignReplacesRolePermissions(t *testing.T) {
	env := newTestEnv(t)
	role := seedRole(t, env, "comprador")
	first := seedPermission(t, env, "productos.crear", "/productos", "POST")
	second := seedPermission(t, env, "productos.editar", "/productos/{id}", "PATCH")
	require.NoError(t, env.permissions.AssignToRole(role.ID, []int{first.ID}))

	rr := env.do(t, http.MethodPost, "/permisos/rol/assign", RolePermissionRequest{
		RoleID:        role.ID,
		PermissionIDs: []int{second.ID},
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	list, err := env.permissions.PermissionsForRole(role.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, 1, env.authz.invalidations)
}

func TestAssignUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/permisos/rol/assign", RolePermissionRequest{
		RoleID:        99,
		PermissionIDs: []int{1},
	}, nil)

	requireDetail(t, rr, http.StatusNotFound, "Rol no encontrado")
	assert.Zero(t, env.authz.invalidations)
}

func TestRemovePermissionsFromRole(t *testing.T) {
	env := newTestEnv(t)
	role := seedRole(t, env, "comprador")
	first := seedPermission(t, env, "productos.crear", "/productos", "POST")
	second := seedPermission(t, env, "productos.editar", "/productos/{id}", "PATCH")
	require.NoError(t, env.permissions.AssignToRole(role.ID, []int{first.ID, second.ID}))

	rr := env.do(t, http.MethodPost, "/permisos/rol/remove", RolePermissionRequest{
		RoleID:        role.ID,
		PermissionIDs: []int{first.ID},
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	list, err := env.permissions.PermissionsForRole(role.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestRolePermissions(t *testing.T) {
	env := newTestEnv(t)
	role := seedRole(t, env, "comprador")
	permission := seedPermission(t, env, "productos.crear", "/productos", "POST")
	require.NoError(t, env.permissions.AssignToRole(role.ID, []int{permission.ID}))

	rr := env.do(t, http.MethodGet, "/permisos/rol/1", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp RoleWithPermissions
	decodeBody(t, rr, &resp)
	assert.Equal(t, "comprador", resp.RoleName)
	require.Len(t, resp.Permissions, 1)
	assert.Equal(t, "productos.crear", resp.Permissions[0].Name)
}

func TestPermissionByPathMethod(t *testing.T) {
	env := newTestEnv(t)
	seedPermission(t, env, "usuarios.borrar", "/usuarios/{id}", "DELETE")

	// The path template rides inside the URL path.
	rr := env.do(t, http.MethodGet, "/permisos/ruta/usuarios/{id}/metodo/DELETE", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var got model.Permission
	decodeBody(t, rr, &got)
	assert.Equal(t, "usuarios.borrar", got.Name)
}

func TestVerifyPermission(t *testing.T) {
	env := newTestEnv(t)
	role := seedRole(t, env, "comprador")
	permission := seedPermission(t, env, "carrito.agregar", "/cart_items", "POST")
	require.NoError(t, env.permissions.AssignToRole(role.ID, []int{permission.ID}))

	rr := env.do(t, http.MethodPost, "/permisos/usuario/verify", VerifyRequest{
		RoleID: role.ID, Path: "/cart_items", Method: "POST",
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	decodeBody(t, rr, &resp)
	assert.Equal(t, true, resp["has_permission"])

	rr = env.do(t, http.MethodPost, "/permisos/usuario/verify", VerifyRequest{
		RoleID: role.ID, Path: "/cart_items", Method: "DELETE",
	}, nil)
	decodeBody(t, rr, &resp)
	assert.Equal(t, false, resp["has_permission"])
}

func TestListPermissionsFilters(t *testing.T) {
	env := newTestEnv(t)
	seedPermission(t, env, "a", "/a", "GET")
	inactive := seedPermission(t, env, "b", "/b", "GET")
	inactive.Active = false
	require.NoError(t, env.permissions.UpdatePermission(inactive))

	rr := env.do(t, http.MethodGet, "/permisos?activo=true", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var list []model.Permission
	decodeBody(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Name)
}
