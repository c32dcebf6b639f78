package routes

import (
	"net/http"
	"regexp"
	"strings"
)

// publicPattern is a dynamic public route: a path regex public for one
// method.
type publicPattern struct {
	method string
	re     *regexp.Regexp
}

// Table holds the route classification tables. It is built once at process
// start and never mutated afterwards; Classify is safe for concurrent use.
type Table struct {
	publicExact    map[string]bool
	publicPrefixes []string
	publicMethods  map[string]map[string]bool
	publicPatterns []publicPattern
	authOnly       map[string]bool
}

// DefaultTable returns the classification table for the Kick Shopping API
// surface.
func DefaultTable() *Table {
	return &Table{
		publicExact: map[string]bool{
			"/":             true,
			"/health":       true,
			"/docs":         true,
			"/openapi.json": true,
			"/favicon.ico":  true,
		},
		publicPrefixes: []string{
			"/static/",
			"/productos/categoria/",
		},
		publicMethods: map[string]map[string]bool{
			"/usuarios":         {http.MethodPost: true},
			"/usuarios/login":   {http.MethodPost: true},
			"/usuarios/refresh": {http.MethodPost: true},
			"/productos":        {http.MethodGet: true},
			"/productos/":       {http.MethodGet: true},
		},
		publicPatterns: []publicPattern{
			{http.MethodGet, regexp.MustCompile(`^/productos/\d+$`)},
			{http.MethodGet, regexp.MustCompile(`^/cart_items/user/\d+$`)},
		},
		authOnly: map[string]bool{
			"/usuarios/me":         true,
			"/cart_items/me":       true,
			"/cart_items/purchase": true,
		},
	}
}

// Classify decides the authentication requirement of a (path, method)
// pair. The checks run in a fixed order and the first match wins:
// exact public paths, public prefixes, OPTIONS preflight, the per-method
// public table, dynamic public patterns, the authenticated-only set, and
// finally the AuthAndPermission default. Classification cannot fail.
func (t *Table) Classify(path, method string) Class {
	if t.publicExact[path] {
		return ClassPublic
	}

	for _, prefix := range t.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return ClassPublic
		}
	}

	// Preflight requests carry no credentials; always let them through so
	// CORS can answer them.
	if method == http.MethodOptions {
		return ClassPublic
	}

	if methods, ok := t.publicMethods[path]; ok && methods[method] {
		return ClassPublic
	}

	for _, p := range t.publicPatterns {
		if p.method == method && p.re.MatchString(path) {
			return ClassPublic
		}
	}

	if t.authOnly[path] {
		return ClassAuthOnly
	}

	return ClassAuthAndPermission
}
