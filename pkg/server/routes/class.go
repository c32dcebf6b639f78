package routes

//go:generate go run github.com/dmarkham/enumer -type Class -trimprefix Class -output class.gen.go

// Class is the authentication requirement of a route.
type Class int

const (
	// ClassPublic routes forward without credentials.
	ClassPublic Class = iota
	// ClassAuthOnly routes require a valid token but no permission lookup.
	ClassAuthOnly
	// ClassAuthAndPermission routes require a valid token and a
	// role-permission check. This is the default for unknown routes.
	ClassAuthAndPermission
)
