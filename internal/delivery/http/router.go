package http

import (
	"net/http"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router             *mux.Router
	log                *logrus.Logger
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	billingHandler     *handler.BillingHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	log *logrus.Logger,
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	billingHandler *handler.BillingHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		log:                log,
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		billingHandler:     billingHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

// Setup registers every route. CORS wraps the whole router so that
// preflight requests are answered even for routes without an OPTIONS method.
func (r *Router) Setup() http.Handler {
	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(middleware.Recovery(r.log))

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	handleRoot(doctors, http.HandlerFunc(r.doctorHandler.ListDoctors), http.MethodGet)
	doctors.HandleFunc("/{doctor_id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Appointments
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("/doctors/{doctor_id:[0-9]+}/availability", r.appointmentHandler.GetAvailability).Methods(http.MethodGet)
	appointments.HandleFunc("/my-appointments", r.appointmentHandler.ListMyAppointments).Methods(http.MethodGet)
	handleRoot(appointments, middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.CreateAppointment)), http.MethodPost)
	appointments.Handle("/{id:[0-9]+}", middleware.RequireDoctor(http.HandlerFunc(r.appointmentHandler.UpdateAppointment))).Methods(http.MethodPatch)

	// Billing
	billing := api.PathPrefix("/billing").Subrouter()
	billing.Use(r.authMiddleware.Authenticate)
	handleRoot(billing, middleware.RequireDoctor(http.HandlerFunc(r.billingHandler.CreateBill)), http.MethodPost)
	billing.HandleFunc("/my-bills", r.billingHandler.ListMyBills).Methods(http.MethodGet)
	billing.HandleFunc("/{id:[0-9]+}", r.billingHandler.GetBill).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}

// handleRoot serves a subrouter's collection path with and without the
// trailing slash. StrictSlash would redirect, which drops POST bodies.
func handleRoot(sub *mux.Router, h http.Handler, method string) {
	for _, path := range []string{"", "/"} {
		sub.Handle(path, h).Methods(method)
	}
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
