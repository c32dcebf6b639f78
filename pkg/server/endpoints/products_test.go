package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickshopping/kickshop/pkg/model"
)

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	name := "Air Max"
	price := 0.0
	rr := env.do(t, http.MethodPost, "/productos", ProductRequest{Name: &name, Price: &price}, nil)

	requireDetail(t, rr, http.StatusBadRequest, "Datos inválidos: nombre requerido, precio > 0")
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)

	name := "Air Max"
	price := 120.0
	category := "running"
	rr := env.do(t, http.MethodPost, "/productos", ProductRequest{
		Name: &name, Price: &price, Category: &category,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created model.Product
	decodeBody(t, rr, &created)

	newPrice := 99.5
	rr = env.do(t, http.MethodPatch, "/productos/1", ProductRequest{Price: &newPrice}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated model.Product
	decodeBody(t, rr, &updated)
	assert.Equal(t, 99.5, updated.Price)
	assert.Equal(t, "Air Max", updated.Name)

	rr = env.do(t, http.MethodDelete, "/productos/1", nil, nil)
	requireDetail(t, rr, http.StatusOK, "Producto con ID 1 eliminado exitosamente")

	rr = env.do(t, http.MethodGet, "/productos/1", nil, nil)
	requireDetail(t, rr, http.StatusNotFound, "Producto con ID 1 no encontrado")
}

func TestProductsByCategory(t *testing.T) {
	env := newTestEnv(t)
	running := seedProduct(t, env, "Air Max", 120, 0)
	running.Category = "running"
	require.NoError(t, env.products.UpdateProduct(running))
	casual := seedProduct(t, env, "Classic", 80, 0)
	casual.Category = "casual"
	require.NoError(t, env.products.UpdateProduct(casual))

	rr := env.do(t, http.MethodGet, "/productos/categoria/running", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var list []model.Product
	decodeBody(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Air Max", list[0].Name)
}
