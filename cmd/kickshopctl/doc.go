// Package main provides the kickshopctl CLI for the Kick Shopping API.
//
// The Kick Shopping API is a REST backend for a sneaker store: users and
// roles, a product catalog, per-user carts with checkout, and data-driven
// authorization where roles are granted permissions on (path template,
// HTTP method) pairs.
//
// # Architecture
//
//   - pkg/server: HTTP server, routing and the request gate
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/routes: route classification and path normalization
//   - pkg/server/store: storage interfaces and their GORM implementations
//   - pkg/token: JWT issuing and validation
//   - pkg/identity: per-request authenticated identity
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	kickshopctl db migrate
//
//	# Seed roles, permissions and the admin account
//	kickshopctl seed
//
//	# Start the server
//	kickshopctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - SECRET_KEY: token signing secret
//   - ACCESS_TOKEN_EXPIRE_MINUTES: access token lifetime (default: 30)
//   - REFRESH_TOKEN_EXPIRE_DAYS: refresh token lifetime (default: 30)
//   - CORS_ORIGINS: comma-separated list of allowed browser origins
//   - PORT: server port (default: 8000)
package main
