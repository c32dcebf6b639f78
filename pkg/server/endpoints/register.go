package endpoints

import (
	"github.com/kickshopping/kickshop/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterUsersEndpoints(srv)
	RegisterRolesEndpoints(srv)
	RegisterProductsEndpoints(srv)
	RegisterCartEndpoints(srv)
	RegisterPermissionsEndpoints(srv)
	RegisterStatusEndpoints(srv)
	RegisterDocsEndpoints(srv)

	// Static files
	RegisterStaticFiles(srv)
}
