package benchmark

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kickshopping/kickshop/pkg/audit"
	"github.com/kickshopping/kickshop/pkg/server/middleware"
	"github.com/kickshopping/kickshop/pkg/server/routes"
	"github.com/kickshopping/kickshop/pkg/token"
)

// allowAll satisfies the permission lookup without touching a database so
// the benchmarks measure the gate itself.
type allowAll struct{}

func (allowAll) HasPermission(roleID int, template, method string) bool { return true }

func BenchmarkTokenValidate(b *testing.B) {
	svc := token.NewService([]byte("benchmark-secret"), 30*time.Minute, 720*time.Hour)
	pair, err := svc.Issue("maria@example.com", 2, 7, token.KindAccess)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Validate(pair); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		routes.Normalize("/cart_items/user/12345/clear")
	}
}

func BenchmarkClassify(b *testing.B) {
	table := routes.DefaultTable()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		table.Classify("/productos/31337", http.MethodPut)
	}
}

func BenchmarkGate(b *testing.B) {
	audit.SetEnabled(false)
	defer audit.SetEnabled(true)

	svc := token.NewService([]byte("benchmark-secret"), 30*time.Minute, 720*time.Hour)
	accessToken, err := svc.Issue("maria@example.com", 2, 7, token.KindAccess)
	if err != nil {
		b.Fatal(err)
	}

	gate := middleware.NewAuthenticator(svc, routes.DefaultTable(), allowAll{})
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	b.Run("public route", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			r := httptest.NewRequest(http.MethodGet, "/productos", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
		}
	})

	b.Run("protected route", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			r := httptest.NewRequest(http.MethodPut, "/productos/31337", nil)
			r.Header.Set("Authorization", "Bearer "+accessToken)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
		}
	})
}
