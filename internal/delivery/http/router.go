package http

import (
	"net/http"

	"cottage-booking/internal/delivery/http/handler"
	"cottage-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	bookingHandler        *handler.BookingHandler
	calendarHandler       *handler.CalendarHandler
	cancellationHandler   *handler.CancellationHandler
	recommendationHandler *handler.RecommendationHandler
	subscriberHandler     *handler.SubscriberHandler
	paymentHandler        *handler.PaymentHandler
	taskHandler           *handler.TaskHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	rateLimitMiddleware   *middleware.RateLimitMiddleware
	cronSecret            string
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	calendarHandler *handler.CalendarHandler,
	cancellationHandler *handler.CancellationHandler,
	recommendationHandler *handler.RecommendationHandler,
	subscriberHandler *handler.SubscriberHandler,
	paymentHandler *handler.PaymentHandler,
	taskHandler *handler.TaskHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cronSecret string,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		bookingHandler:        bookingHandler,
		calendarHandler:       calendarHandler,
		cancellationHandler:   cancellationHandler,
		recommendationHandler: recommendationHandler,
		subscriberHandler:     subscriberHandler,
		paymentHandler:        paymentHandler,
		taskHandler:           taskHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		rateLimitMiddleware:   rateLimitMiddleware,
		cronSecret:            cronSecret,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Guest calendar (public)
	api.HandleFunc("/calendar", r.calendarHandler.GetCalendar).Methods(http.MethodGet)
	api.HandleFunc("/calendar/selection", r.calendarHandler.Select).Methods(http.MethodPost)
	api.HandleFunc("/availability", r.calendarHandler.CheckAvailability).Methods(http.MethodGet)

	// Booking requests (public, rate limited per client IP)
	api.Handle("/bookings", r.rateLimitMiddleware.Handle(http.HandlerFunc(r.bookingHandler.CreateBooking))).
		Methods(http.MethodPost)

	// Guest self-service cancellation (public, token is the credential)
	api.HandleFunc("/cancellations/{token}", r.cancellationHandler.GetPreview).Methods(http.MethodGet)
	api.HandleFunc("/cancellations", r.cancellationHandler.CancelByToken).Methods(http.MethodPost)

	// Recommendations and newsletter (public)
	api.HandleFunc("/recommendations", r.recommendationHandler.ListApproved).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", r.recommendationHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/subscribers", r.subscriberHandler.Subscribe).Methods(http.MethodPost)
	api.HandleFunc("/subscribers/{id}", r.subscriberHandler.Unsubscribe).Methods(http.MethodDelete)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Approver routes (admin or approver)
	approver := api.PathPrefix("/admin/bookings").Subrouter()
	approver.Use(r.authMiddleware.Authenticate)
	approver.Use(middleware.RequireApprover)
	approver.HandleFunc("", r.bookingHandler.ListBookings).Methods(http.MethodGet)
	approver.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	approver.HandleFunc("/{id}/history", r.bookingHandler.GetBookingHistory).Methods(http.MethodGet)
	approver.HandleFunc("/{id}/approve", r.bookingHandler.ApproveBooking).Methods(http.MethodPost)
	approver.HandleFunc("/{id}/reject", r.bookingHandler.RejectBooking).Methods(http.MethodPost)
	approver.HandleFunc("/{id}/dates", r.bookingHandler.EditBookingDates).Methods(http.MethodPatch)
	approver.HandleFunc("/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPost)

	// Cleaner routes (admin or cleaner)
	cleaner := api.PathPrefix("/cleaner").Subrouter()
	cleaner.Use(r.authMiddleware.Authenticate)
	cleaner.Use(middleware.RequireCleaner)
	cleaner.HandleFunc("/stays", r.bookingHandler.ListUpcomingStays).Methods(http.MethodGet)

	// Payment bookkeeping (viewers list, managers toggle)
	payments := api.PathPrefix("/admin/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate)
	payments.Use(middleware.RequirePaymentViewer)
	payments.HandleFunc("", r.paymentHandler.ListPayments).Methods(http.MethodGet)

	paymentUpdates := api.PathPrefix("/admin/payments").Subrouter()
	paymentUpdates.Use(r.authMiddleware.Authenticate)
	paymentUpdates.Use(middleware.RequirePaymentManager)
	paymentUpdates.HandleFunc("/{id}/toggle", r.paymentHandler.TogglePaid).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", r.authHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/recommendations", r.recommendationHandler.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/recommendations/{id}", r.recommendationHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/recommendations/{id}", r.recommendationHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/recommendations/{id}/review", r.recommendationHandler.Review).Methods(http.MethodPost)

	// Scheduled jobs (external cron)
	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(middleware.RequireCronSecret(r.cronSecret))
	tasks.HandleFunc("/daily", r.taskHandler.RunDailyTasks).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
