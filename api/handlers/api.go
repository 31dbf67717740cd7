package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/api"
	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/databases"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/notifications"
	"github.com/ceylonexplorer/rental-api/store"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Store    *store.Store
	Notifier notifications.Notifier
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for the admin routes
	m := api.MiddlewareDB{DB: databases.NewAdminDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.TimeoutMiddleware(api.QueryTimeout * 3))

	v := Vehicle{Store: a.Store}
	b := Booking{Store: a.Store, Notifier: a.Notifier, Timeout: a.Config.BookingTimeout}
	adm := Admin{Store: a.Store, Notifier: a.Notifier}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	// public storefront routes
	apiCreate.Handle("/vehicles", http.HandlerFunc(v.VehiclesHandler)).Methods("GET")
	apiCreate.Handle("/vehicle/{vehicle_id}", http.HandlerFunc(v.VehicleByIDHandler)).Methods("GET")
	apiCreate.Handle("/vehicle/{vehicle_id}/availability", http.HandlerFunc(v.AvailabilityHandler)).Methods("GET")
	apiCreate.Handle("/bookings", http.HandlerFunc(b.CreateBookingHandler)).Methods("POST")

	// admin routes
	apiCreate.Handle("/bookings", api.Middleware(http.HandlerFunc(adm.BookingsByStatusHandler))).Methods("GET")
	apiCreate.Handle("/bookings/vehicle/{vehicle_id}", api.Middleware(http.HandlerFunc(adm.BookingsByVehicleHandler))).Methods("GET")
	apiCreate.Handle("/booking/{booking_id}", api.Middleware(http.HandlerFunc(adm.BookingByIDHandler))).Methods("GET")
	apiCreate.Handle("/booking/{booking_id}/approve", api.Middleware(http.HandlerFunc(adm.ApproveBookingHandler))).Methods("PUT")
	apiCreate.Handle("/booking/{booking_id}/reject", api.Middleware(http.HandlerFunc(adm.RejectBookingHandler))).Methods("PUT")

	// the websocket handshake cannot carry an Authorization header from a
	// browser, so the feed takes the bearer token as a token query param
	apiCreate.Handle("/admin/bookings/feed", api.WebsocketMiddleware(http.HandlerFunc(HandleBookingFeedWebSocket))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("rental-api has connected to the database")

	if err := databases.EnsureHeadAdmin(a.dbHelper); err != nil {
		zap.S().Warnw("failed to ensure head admin exists", "error", err)
	}

	a.Store = store.New(
		databases.NewVehicleDatabase(a.dbHelper),
		databases.NewBookingDatabase(a.dbHelper),
		store.NewFileStorage(a.Config.FallbackStorePath),
	)
	a.Notifier = notifications.NewFromConfig(&a.Config)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
