package store

// HealthStore abstracts database health checks.
type HealthStore interface {
	// Ping verifies database connectivity.
	Ping() error
}
