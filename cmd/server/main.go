// server runs the storefront JSON API and the gRPC health server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	addressservice "github.com/karan399/milkman/internal/address/service"
	"github.com/karan399/milkman/internal/audit"
	"github.com/karan399/milkman/internal/config"
	"github.com/karan399/milkman/internal/contact/mailer"
	contactservice "github.com/karan399/milkman/internal/contact/service"
	deliveryengine "github.com/karan399/milkman/internal/delivery/engine"
	"github.com/karan399/milkman/internal/devotp"
	"github.com/karan399/milkman/internal/health"
	"github.com/karan399/milkman/internal/logging"
	"github.com/karan399/milkman/internal/otp/ratelimit"
	otpservice "github.com/karan399/milkman/internal/otp/service"
	"github.com/karan399/milkman/internal/otp/sms"
	"github.com/karan399/milkman/internal/server"
	"github.com/karan399/milkman/internal/server/middleware"
	sessionservice "github.com/karan399/milkman/internal/session/service"
	"github.com/karan399/milkman/internal/telemetry"
	otelsetup "github.com/karan399/milkman/internal/telemetry/otel"
	"github.com/karan399/milkman/internal/telemetry/producer"
	userservice "github.com/karan399/milkman/internal/user/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otelsetup.NewProviders(ctx, otelsetup.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: otelsetup.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	providers.SetGlobal()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer st.close()

	var emitters []telemetry.EventEmitter
	kafkaProducer := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
		emitters = append(emitters, kafkaProducer)
		log.Info("telemetry: streaming events to kafka", zap.String("topic", cfg.TelemetryKafkaTopic))
	}
	if cfg.OTLPEndpoint != "" {
		emitters = append(emitters, otelsetup.NewEventEmitter(providers.LoggerProvider))
	}
	var emitter telemetry.EventEmitter
	if len(emitters) > 0 {
		emitter = telemetry.Multi(emitters...)
	}

	auditLogger := audit.NewLogger(st.audit, middleware.GetClientIP, log)

	otpOpts := otpservice.Options{
		Audit:   auditLogger,
		Emitter: emitter,
		Logger:  log,
	}
	if cfg.SMSConfigured() {
		otpOpts.Sender = sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioBaseURL)
	} else {
		log.Warn("Twilio credentials not set; OTP issuance runs in demo mode")
	}
	var devStore devotp.Store
	if otpOpts.Sender == nil && !cfg.IsProduction() {
		devStore = devotp.NewMemoryStore()
		otpOpts.DevStore = devStore
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		otpOpts.Limiter = ratelimit.NewLimiter(rdb, cfg.ResendCooldown(), cfg.ResendWindow(), cfg.OTPMaxPerWindow)
	}

	evaluator, err := deliveryengine.NewOPAEvaluatorFromFile(ctx, cfg.DeliveryPolicyFile)
	if err != nil {
		return fmt.Errorf("delivery policy: %w", err)
	}

	var contactMailer mailer.Mailer
	if cfg.MailConfigured() {
		contactMailer = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.ContactFromEmail, cfg.ContactToEmail)
	}

	readiness := health.NewChecker(st.pinger, evaluator)
	handler := server.NewRouter(server.Deps{
		OTP:         otpservice.NewService(st.otps, st.users, st.addresses, st.sessions, otpOpts),
		Sessions:    sessionservice.NewService(st.sessions, auditLogger, emitter, log),
		Profiles:    userservice.NewService(st.users, st.addresses, auditLogger),
		Addresses:   addressservice.NewService(st.addresses, auditLogger),
		Delivery:    evaluator,
		Contact:     contactservice.NewService(st.contacts, contactMailer, auditLogger, emitter, log),
		Readiness:   readiness,
		DevOTPStore: devStore,
		Emitter:     emitter,
		Logger:      log,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		server.RegisterGRPC(grpcSrv, readiness, log)
		go func() {
			log.Info("gRPC health server listening", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("otel shutdown", zap.Error(err))
	}
	return runErr
}
