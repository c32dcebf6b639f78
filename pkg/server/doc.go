// Package server provides the HTTP server for the Kick Shopping API.
//
// This package implements the core HTTP server that handles all API
// requests. It uses gorilla/mux for routing and wraps the router in the
// authentication gate and CORS middleware.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, tokens, stores, db, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: runtime configuration
//   - Tokens: JWT issuing and validation
//   - Stores: storage interfaces for users, roles, products, cart,
//     purchases and permissions
//   - Router: HTTP request router
//   - DB: database connection
//
// # Request gate
//
// Every request passes through the gate before routing. Public routes go
// straight through, authenticated-only routes need a valid access token,
// and the rest additionally need a permission grant for the caller's role
// against the normalized path template.
package server
