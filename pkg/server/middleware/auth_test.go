package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickshopping/kickshop/pkg/audit"
	"github.com/kickshopping/kickshop/pkg/identity"
	"github.com/kickshopping/kickshop/pkg/server/routes"
	"github.com/kickshopping/kickshop/pkg/token"
)

func TestMain(m *testing.M) {
	// Keep audit syslog lines out of the test output.
	audit.SetEnabled(false)
	os.Exit(m.Run())
}

type fakeAuthz struct {
	allowed map[string]bool
	calls   int
}

func (f *fakeAuthz) HasPermission(roleID int, template, method string) bool {
	f.calls++
	return f.allowed[method+" "+template]
}

func newGate(authz *fakeAuthz) (*Authenticator, *token.Service) {
	tokens := token.NewService([]byte("test-secret"), 30*time.Minute, 720*time.Hour)
	return NewAuthenticator(tokens, routes.DefaultTable(), authz), tokens
}

func issueAccess(t *testing.T, tokens *token.Service, roleID, userID int) string {
	t.Helper()
	tokenStr, err := tokens.Issue("tester", roleID, userID, token.KindAccess)
	require.NoError(t, err)
	return tokenStr
}

// okHandler records whether the request got through the gate and what
// identity it carried.
type okHandler struct {
	called   bool
	identity *identity.Identity
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.identity, _ = identity.Get(r.Context())
	w.WriteHeader(http.StatusOK)
}

func doRequest(gate *Authenticator, method, path, authHeader string) (*httptest.ResponseRecorder, *okHandler) {
	next := &okHandler{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	gate.Middleware(next).ServeHTTP(rr, req)
	return rr, next
}

func detailOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["detail"]
}

func TestGatePublicRoutePassesWithoutToken(t *testing.T) {
	gate, _ := newGate(&fakeAuthz{})

	rr, next := doRequest(gate, http.MethodGet, "/productos", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, next.called)
	assert.Nil(t, next.identity)
}

func TestGateOptionsAlwaysPasses(t *testing.T) {
	gate, _ := newGate(&fakeAuthz{})

	rr, next := doRequest(gate, http.MethodOptions, "/permisos", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, next.called)
}

func TestGateMissingAuthorization(t *testing.T) {
	gate, _ := newGate(&fakeAuthz{})

	rr, next := doRequest(gate, http.MethodGet, "/usuarios/me", "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token de autorización requerido", detailOf(t, rr))
	assert.False(t, next.called)
}

func TestGateMalformedAuthorizationHeader(t *testing.T) {
	gate, tokens := newGate(&fakeAuthz{})
	tokenStr := issueAccess(t, tokens, 2, 7)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"no space", "Bearer" + tokenStr, "Formato de Authorization inválido"},
		{"three parts", "Bearer " + tokenStr + " extra", "Formato de Authorization inválido"},
		{"wrong scheme", "Token " + tokenStr, "Esquema de autorización inválido. Use 'Bearer <token>'"},
		{"lowercase scheme", "bearer " + tokenStr, "Esquema de autorización inválido. Use 'Bearer <token>'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, next := doRequest(gate, http.MethodGet, "/usuarios/me", tt.header)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, tt.detail, detailOf(t, rr))
			assert.False(t, next.called)
		})
	}
}

func TestGateExpiredToken(t *testing.T) {
	gate, _ := newGate(&fakeAuthz{})
	past := token.NewService([]byte("test-secret"), 30*time.Minute, 720*time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	tokenStr, err := past.Issue("tester", 2, 7, token.KindAccess)
	require.NoError(t, err)

	rr, next := doRequest(gate, http.MethodGet, "/usuarios/me", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token expirado", detailOf(t, rr))
	assert.False(t, next.called)
}

func TestGateGarbageToken(t *testing.T) {
	gate, _ := newGate(&fakeAuthz{})

	rr, next := doRequest(gate, http.MethodGet, "/usuarios/me", "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token inválido", detailOf(t, rr))
	assert.False(t, next.called)
}

func TestGateRejectsRefreshToken(t *testing.T) {
	gate, tokens := newGate(&fakeAuthz{})
	refresh, err := tokens.Issue("tester", 2, 7, token.KindRefresh)
	require.NoError(t, err)

	rr, next := doRequest(gate, http.MethodGet, "/usuarios/me", "Bearer "+refresh)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token inválido", detailOf(t, rr))
	assert.False(t, next.called)
}

func TestGateAuthOnlyRouteSkipsPermissionCheck(t *testing.T) {
	authz := &fakeAuthz{}
	gate, tokens := newGate(authz)
	tokenStr := issueAccess(t, tokens, 2, 7)

	rr, next := doRequest(gate, http.MethodGet, "/usuarios/me", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, next.called)
	assert.Zero(t, authz.calls)
	require.NotNil(t, next.identity)
	assert.Equal(t, 7, next.identity.UserID)
	assert.Equal(t, 2, next.identity.RoleID)
}

func TestGatePermissionGranted(t *testing.T) {
	authz := &fakeAuthz{allowed: map[string]bool{"POST /cart_items": true}}
	gate, tokens := newGate(authz)
	tokenStr := issueAccess(t, tokens, 2, 7)

	rr, next := doRequest(gate, http.MethodPost, "/cart_items", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, next.called)
	assert.Equal(t, 1, authz.calls)
}

func TestGatePermissionDenied(t *testing.T) {
	authz := &fakeAuthz{}
	gate, tokens := newGate(authz)
	tokenStr := issueAccess(t, tokens, 2, 7)

	rr, next := doRequest(gate, http.MethodDelete, "/usuarios/42", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "No tiene permisos para acceder a este recurso", detailOf(t, rr))
	assert.False(t, next.called)
}

func TestGateNormalizesPathBeforeLookup(t *testing.T) {
	authz := &fakeAuthz{allowed: map[string]bool{"PUT /productos/{id}": true}}
	gate, tokens := newGate(authz)
	tokenStr := issueAccess(t, tokens, 1, 1)

	rr, _ := doRequest(gate, http.MethodPut, "/productos/31337", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGateRolelessTokenForwards(t *testing.T) {
	authz := &fakeAuthz{}
	gate, tokens := newGate(authz)
	tokenStr := issueAccess(t, tokens, 0, 7)

	rr, next := doRequest(gate, http.MethodDelete, "/usuarios/42", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, next.called)
	assert.Zero(t, authz.calls)
}

type panickyAuthz struct{}

func (panickyAuthz) HasPermission(int, string, string) bool {
	panic("authz store blew up")
}

func TestGatePanicBecomesGenericDenial(t *testing.T) {
	tokens := token.NewService([]byte("test-secret"), 30*time.Minute, 720*time.Hour)
	gate := NewAuthenticator(tokens, routes.DefaultTable(), panickyAuthz{})
	tokenStr, err := tokens.Issue("tester", 2, 7, token.KindAccess)
	require.NoError(t, err)

	rr, next := doRequest(gate, http.MethodPost, "/cart_items", "Bearer "+tokenStr)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Error de autenticación", detailOf(t, rr))
	assert.False(t, next.called)
}
