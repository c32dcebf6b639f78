package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/config"
	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/middleware"
	"github.com/kickshopping/kickshop/pkg/server/routes"
	"github.com/kickshopping/kickshop/pkg/server/store"
	"github.com/kickshopping/kickshop/pkg/token"
)

// Stores bundles every storage interface the endpoints depend on.
type Stores struct {
	Users       store.UsersStore
	Roles       store.RolesStore
	Permissions store.PermissionsStore
	Products    store.ProductsStore
	Cart        store.CartStore
	Purchases   store.PurchasesStore
	Authz       store.AuthzStore
	Health      store.HealthStore
}

// ReceiptSender delivers a purchase receipt to the buyer. Delivery is
// best-effort; the purchase has already been committed when Send runs.
type ReceiptSender interface {
	Send(to string, purchase *model.Purchase) error
}

// LogReceiptSender is the default ReceiptSender: it records the receipt in
// the server log instead of delivering it anywhere.
type LogReceiptSender struct{}

func (LogReceiptSender) Send(to string, purchase *model.Purchase) error {
	logrus.WithFields(logrus.Fields{
		"to":     to,
		"ticket": purchase.Ticket,
		"total":  purchase.Total,
	}).Info("purchase receipt")
	return nil
}

type Server struct {
	Config   *config.Config
	Tokens   *token.Service
	Stores   Stores
	Receipts ReceiptSender
	Router   *mux.Router
	DB       *gorm.DB
	srv      *http.Server
}

func NewServer(
	cfg *config.Config,
	tokens *token.Service,
	stores Stores,
	db *gorm.DB,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()

	// The gate wraps the whole router so unmatched paths are classified
	// too, and CORS wraps the gate so denials still carry CORS headers.
	gate := middleware.NewAuthenticator(tokens, routes.DefaultTable(), stores.Authz)
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{
			"Authorization", "Content-Type", "Accept", "Origin", "X-Requested-With",
		}),
		handlers.AllowCredentials(),
		handlers.MaxAge(3600),
	)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, cors(gate.Middleware(router))),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:   cfg,
		Tokens:   tokens,
		Stores:   stores,
		Receipts: LogReceiptSender{},
		Router:   router,
		DB:       db,
		srv:      srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
