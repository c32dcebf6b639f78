package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPublicExact(t *testing.T) {
	table := DefaultTable()

	for _, path := range []string{"/", "/health", "/docs", "/openapi.json", "/favicon.ico"} {
		assert.Equal(t, ClassPublic, table.Classify(path, http.MethodGet), path)
	}
}

func TestClassifyPublicPrefixes(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, ClassPublic, table.Classify("/static/img/shoe.png", http.MethodGet))
	assert.Equal(t, ClassPublic, table.Classify("/productos/categoria/running", http.MethodGet))
}

func TestClassifyOptionsAlwaysPublic(t *testing.T) {
	table := DefaultTable()

	// Preflight must pass without credentials on any path
	for _, path := range []string{"/roles", "/permisos/1", "/usuarios/me", "/anything/else"} {
		assert.Equal(t, ClassPublic, table.Classify(path, http.MethodOptions), path)
	}
}

func TestClassifyPublicMethods(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		path     string
		method   string
		expected Class
	}{
		{"/usuarios", http.MethodPost, ClassPublic},
		{"/usuarios", http.MethodGet, ClassAuthAndPermission},
		{"/usuarios/login", http.MethodPost, ClassPublic},
		{"/usuarios/refresh", http.MethodPost, ClassPublic},
		{"/productos", http.MethodGet, ClassPublic},
		{"/productos/", http.MethodGet, ClassPublic},
		{"/productos", http.MethodPost, ClassAuthAndPermission},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Classify(tt.path, tt.method))
		})
	}
}

func TestClassifyPublicPatterns(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, ClassPublic, table.Classify("/productos/42", http.MethodGet))
	assert.Equal(t, ClassAuthAndPermission, table.Classify("/productos/42", http.MethodDelete))
	assert.Equal(t, ClassPublic, table.Classify("/cart_items/user/7", http.MethodGet))
	// The specific multi-segment route is not covered by the pattern
	assert.Equal(t, ClassAuthAndPermission, table.Classify("/cart_items/user/7/clear", http.MethodDelete))
}

func TestClassifyAuthOnly(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, ClassAuthOnly, table.Classify("/usuarios/me", http.MethodGet))
	assert.Equal(t, ClassAuthOnly, table.Classify("/cart_items/me", http.MethodGet))
	assert.Equal(t, ClassAuthOnly, table.Classify("/cart_items/purchase", http.MethodPost))
}

func TestClassifyDefault(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, ClassAuthAndPermission, table.Classify("/roles", http.MethodPost))
	assert.Equal(t, ClassAuthAndPermission, table.Classify("/permisos/3", http.MethodPut))
	assert.Equal(t, ClassAuthAndPermission, table.Classify("/never/seen/before", http.MethodGet))
}
