// Package server assembles the HTTP router and the gRPC health server from the area handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	addresshandler "github.com/karan399/milkman/internal/address/handler"
	contacthandler "github.com/karan399/milkman/internal/contact/handler"
	deliveryengine "github.com/karan399/milkman/internal/delivery/engine"
	deliveryhandler "github.com/karan399/milkman/internal/delivery/handler"
	"github.com/karan399/milkman/internal/devotp"
	devotphandler "github.com/karan399/milkman/internal/devotp/handler"
	healthhandler "github.com/karan399/milkman/internal/health/handler"
	otphandler "github.com/karan399/milkman/internal/otp/handler"
	"github.com/karan399/milkman/internal/server/middleware"
	sessionhandler "github.com/karan399/milkman/internal/session/handler"
	"github.com/karan399/milkman/internal/telemetry"
	userhandler "github.com/karan399/milkman/internal/user/handler"
)

// SessionService authenticates bearer tokens and revokes sessions.
type SessionService interface {
	middleware.Authenticator
	sessionhandler.LogoutService
}

// Deps holds the services behind the HTTP routes.
type Deps struct {
	OTP       otphandler.OTPService
	Sessions  SessionService
	Profiles  userhandler.ProfileService
	Addresses addresshandler.AddressService
	Delivery  deliveryengine.Evaluator
	Contact   contacthandler.ContactService
	// Readiness backs /readyz and the gRPC health service. If nil, both always report ready.
	Readiness healthhandler.ReadinessChecker
	// DevOTPStore mounts GET /dev/otp/{phone} when set. Set only in demo mode outside production.
	DevOTPStore devotp.Store
	// Emitter receives http_request and domain telemetry events. May be nil.
	Emitter telemetry.EventEmitter
	Logger  *zap.Logger
}

var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	MaxAge:         300,
}

// NewRouter returns the API handler with CORS, tracing, client IP and request telemetry applied.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(corsOptions))
	r.Use(middleware.ClientIP)
	r.Use(middleware.Telemetry(deps.Emitter, log, map[string]bool{"/healthz": true, "/readyz": true}))

	health := healthhandler.NewHTTPHandler(deps.Readiness, log)
	r.Get("/healthz", health.Live)
	r.Get("/readyz", health.Ready)

	otp := otphandler.NewHandler(deps.OTP, log)
	r.Post("/functions/v1/send-otp", otp.SendOTP)
	r.Post("/functions/v1/verify-otp", otp.VerifyOTP)
	r.Post("/auth/otp/send", otp.SendOTP)
	r.Post("/auth/otp/verify", otp.VerifyOTP)

	if deps.Delivery != nil {
		r.Post("/delivery/check", deliveryhandler.NewHandler(deps.Delivery, deps.Emitter, log).Check)
	}
	if deps.Contact != nil {
		r.Post("/contact", contacthandler.NewHandler(deps.Contact, log).Create)
	}
	if deps.DevOTPStore != nil {
		r.Get("/dev/otp/{phone}", devotphandler.NewHandler(deps.DevOTPStore).GetOTP)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession(deps.Sessions, log))

		pr.Post("/auth/logout", sessionhandler.NewHandler(deps.Sessions, log).Logout)

		profiles := userhandler.NewHandler(deps.Profiles, log)
		pr.Get("/me", profiles.GetMe)
		pr.Patch("/me", profiles.UpdateMe)

		addresses := addresshandler.NewHandler(deps.Addresses, log)
		pr.Route("/me/addresses", func(ar chi.Router) {
			ar.Get("/", addresses.List)
			ar.Post("/", addresses.Create)
			ar.Patch("/{id}", addresses.Update)
			ar.Delete("/{id}", addresses.Delete)
			ar.Post("/{id}/default", addresses.SetDefault)
		})
	})

	return otelhttp.NewHandler(r, "mithai-api")
}
