package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// ProductRequest is the body of POST and PATCH on /productos. Nil fields
// on update are left untouched.
type ProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// RegisterProductsEndpoints registers the /productos endpoints
func RegisterProductsEndpoints(srv *server.Server) {
	products := srv.Stores.Products

	router := srv.Router.PathPrefix("/productos").Subrouter()
	router.HandleFunc("/categoria/{category}", handleProductsByCategory(products)).Methods("GET")
	router.HandleFunc("", handleListProducts(products)).Methods("GET")
	router.HandleFunc("", handleCreateProduct(products)).Methods("POST")
	router.HandleFunc("/{product_id:[0-9]+}", handleGetProduct(products)).Methods("GET")
	router.HandleFunc("/{product_id:[0-9]+}", handleUpdateProduct(products)).Methods("PATCH")
	router.HandleFunc("/{product_id:[0-9]+}", handleDeleteProduct(products)).Methods("DELETE")
}

func handleListProducts(products store.ProductsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := products.ListProducts()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener los productos")
			return
		}
		if list == nil {
			list = []model.Product{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleProductsByCategory(products store.ProductsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]
		list, err := products.ProductsByCategory(category)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener los productos")
			return
		}
		if list == nil {
			list = []model.Product{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetProduct(products store.ProductsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["product_id"])
		product, err := products.ProductByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Producto con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener el producto")
			return
		}
		respondWithJSON(w, http.StatusOK, product)
	}
}

func handleCreateProduct(products store.ProductsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProductRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == nil || *req.Name == "" || req.Price == nil || *req.Price <= 0 {
			respondWithError(w, http.StatusBadRequest, "Datos inválidos: nombre requerido, precio > 0")
			return
		}

		product := model.Product{Name: *req.Name, Price: *req.Price}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
		}
		if req.Discount != nil {
			product.Discount = *req.Discount
		}
		if req.Category != nil {
			product.Category = *req.Category
		}

		if err := products.CreateProduct(&product); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al crear el producto")
			return
		}
		respondWithJSON(w, http.StatusCreated, product)
	}
}

func handleUpdateProduct(products store.ProductsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["product_id"])

		var req ProductRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		product, err := products.ProductByID(id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Producto con ID %d no encontrado", id))
			return
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
		}
		if req.Discount != nil {
			product.Discount = *req.Discount
		}
		if req.Category != nil {
			product.Category = *req.Category
		}

		if err := products.UpdateProduct(product); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al actualizar el producto")
			return
		}
		respondWithJSON(w, http.StatusOK, product)
	}
}

func handleDeleteProduct(products store.ProductsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["product_id"])
		if err := products.DeleteProduct(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Producto con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al eliminar el producto")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{
			"detail": fmt.Sprintf("Producto con ID %d eliminado exitosamente", id),
		})
	}
}
