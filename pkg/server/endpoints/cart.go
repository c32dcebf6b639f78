package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kickshopping/kickshop/pkg/audit"
	"github.com/kickshopping/kickshop/pkg/identity"
	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// CartItemRequest is the body of POST /cart_items.
type CartItemRequest struct {
	UserID    int `json:"user_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CartItemUpdateRequest is the body of PATCH /cart_items/{id}.
type CartItemUpdateRequest struct {
	Quantity *int `json:"quantity,omitempty"`
}

// PurchaseResponse is the receipt returned by POST /cart_items/purchase.
type PurchaseResponse struct {
	Ticket string               `json:"ticket"`
	UserID int                  `json:"user_id"`
	Total  float64              `json:"total"`
	Items  []model.PurchaseItem `json:"items"`
}

// RegisterCartEndpoints registers the /cart_items endpoints
func RegisterCartEndpoints(srv *server.Server) {
	cart := srv.Stores.Cart
	purchases := srv.Stores.Purchases

	router := srv.Router.PathPrefix("/cart_items").Subrouter()

	// Fixed paths before /{cart_item_id} so mux never swallows them.
	router.HandleFunc("/me", handleMyCart(cart)).Methods("GET")
	router.HandleFunc("/purchase", handlePurchase(cart, purchases, srv.Receipts)).Methods("POST")
	router.HandleFunc("/user/{user_id:[0-9]+}/clear", handleClearCart(cart)).Methods("DELETE")
	router.HandleFunc("/user/{user_id:[0-9]+}", handleUserCart(cart)).Methods("GET")

	router.HandleFunc("", handleListCartItems(cart)).Methods("GET")
	router.HandleFunc("", handleAddCartItem(cart)).Methods("POST")
	router.HandleFunc("/{cart_item_id:[0-9]+}", handleGetCartItem(cart)).Methods("GET")
	router.HandleFunc("/{cart_item_id:[0-9]+}", handleUpdateCartItem(cart)).Methods("PATCH")
	router.HandleFunc("/{cart_item_id:[0-9]+}", handleDeleteCartItem(cart)).Methods("DELETE")
}

func handleListCartItems(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := cart.ListCartItems()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener los elementos del carrito")
			return
		}
		if items == nil {
			items = []model.CartItem{}
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

// handleUserCart lists a user's cart. Lookup failures degrade to an empty
// list, which storefront pages treat as an empty cart.
func handleUserCart(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.Atoi(mux.Vars(r)["user_id"])
		items, err := cart.CartForUser(userID)
		if err != nil || items == nil {
			items = []model.CartItem{}
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

func handleMyCart(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Usuario no autenticado")
			return
		}

		items, err := cart.CartForUser(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener los elementos del carrito")
			return
		}
		if items == nil {
			items = []model.CartItem{}
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

func handleGetCartItem(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["cart_item_id"])
		item, err := cart.CartItemByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Elemento del carrito con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al obtener el elemento del carrito")
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleAddCartItem(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CartItemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.UserID <= 0 || req.ProductID <= 0 || req.Quantity <= 0 {
			respondWithError(w, http.StatusBadRequest, "Datos inválidos: user_id, product_id y quantity deben ser mayores a 0")
			return
		}

		item := model.CartItem{
			UserID:    req.UserID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := cart.AddCartItem(&item); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al crear el elemento del carrito")
			return
		}
		respondWithJSON(w, http.StatusCreated, item)
	}
}

func handleUpdateCartItem(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["cart_item_id"])

		var req CartItemUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		item, err := cart.CartItemByID(id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Elemento del carrito con ID %d no encontrado", id))
			return
		}

		if req.Quantity != nil {
			if *req.Quantity <= 0 {
				respondWithError(w, http.StatusBadRequest, "Datos inválidos: quantity debe ser mayor a 0")
				return
			}
			item.Quantity = *req.Quantity
		}

		if err := cart.UpdateCartItem(item); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al actualizar el elemento del carrito")
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleDeleteCartItem(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["cart_item_id"])
		if err := cart.DeleteCartItem(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, fmt.Sprintf("Elemento del carrito con ID %d no encontrado", id))
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al eliminar el elemento del carrito")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{
			"detail": fmt.Sprintf("Elemento del carrito con ID %d eliminado exitosamente", id),
		})
	}
}

func handleClearCart(cart store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.Atoi(mux.Vars(r)["user_id"])

		items, err := cart.CartForUser(userID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al vaciar el carrito")
			return
		}
		if err := cart.ClearCart(userID); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al vaciar el carrito")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"detail":        fmt.Sprintf("Carrito del usuario %d vaciado exitosamente", userID),
			"items_removed": len(items),
		})
	}
}

// handlePurchase checks out the authenticated user's cart: items are
// priced with their current discount, snapshotted into a purchase under a
// fresh ticket, and the cart is cleared atomically.
func handlePurchase(cart store.CartStore, purchases store.PurchasesStore, receipts server.ReceiptSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Usuario no autenticado")
			return
		}

		items, err := cart.CartForUser(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al procesar la compra")
			return
		}
		if len(items) == 0 {
			respondWithError(w, http.StatusBadRequest, "El carrito está vacío")
			return
		}

		purchase := model.Purchase{
			Ticket: uuid.NewString(),
			UserID: id.UserID,
		}
		for _, item := range items {
			if item.Product == nil {
				respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al procesar la compra")
				return
			}
			unitPrice := item.Product.Price * (1 - item.Product.Discount/100)
			purchase.Items = append(purchase.Items, model.PurchaseItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
			})
			purchase.Total += unitPrice * float64(item.Quantity)
		}

		if err := purchases.CreatePurchase(&purchase); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error interno del servidor al procesar la compra")
			return
		}

		audit.Log(audit.PurchaseEvent{
			Subject:  id.Subject,
			UserID:   id.UserID,
			ClientIP: r.RemoteAddr,
			Ticket:   purchase.Ticket,
			Total:    purchase.Total,
		})

		// The purchase is already committed; a failed receipt must not
		// fail the request.
		if receipts != nil {
			if err := receipts.Send(id.Subject, &purchase); err != nil {
				logrus.WithError(err).WithField("ticket", purchase.Ticket).
					Warn("receipt delivery failed")
			}
		}

		respondWithJSON(w, http.StatusCreated, PurchaseResponse{
			Ticket: purchase.Ticket,
			UserID: purchase.UserID,
			Total:  purchase.Total,
			Items:  purchase.Items,
		})
	}
}
