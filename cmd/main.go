package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"restaurant-system/internal/auth"
	"restaurant-system/internal/config"
	"restaurant-system/internal/database"
	"restaurant-system/internal/httputil"
	"restaurant-system/internal/logger"
	"restaurant-system/internal/messaging"
	"restaurant-system/internal/seed"
	"restaurant-system/internal/services/health"
	"restaurant-system/internal/services/menu"
	"restaurant-system/internal/services/notification"
	"restaurant-system/internal/services/order"
	"restaurant-system/internal/services/reservation"
	"restaurant-system/internal/services/revenue"
	"restaurant-system/internal/services/user"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	mode          string
	configPath    string
	envFile       string
	migrations    string
	adminUser     string
	adminPassword string
	historyDays   int
	clear         bool
	password      string
	prefetch      int
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "api", "Run mode (api, notification-subscriber, seed, hash-password)")
	flag.StringVar(&opts.configPath, "config", "config.yaml", "Path to the configuration file")
	flag.StringVar(&opts.envFile, "env-file", ".env", "Optional dotenv file loaded before the configuration")
	flag.StringVar(&opts.migrations, "migrations", "migrations", "Directory containing SQL migrations")
	flag.StringVar(&opts.adminUser, "admin-user", "admin", "Admin username ensured by seed mode")
	flag.StringVar(&opts.adminPassword, "admin-password", "adminpassword", "Admin password ensured by seed mode")
	flag.IntVar(&opts.historyDays, "history-days", 0, "Days of reservation and order history generated by seed mode")
	flag.BoolVar(&opts.clear, "clear", false, "Delete existing orders and reservations before seeding")
	flag.StringVar(&opts.password, "password", "", "Password to hash in hash-password mode")
	flag.IntVar(&opts.prefetch, "prefetch", 10, "RabbitMQ prefetch count for the notification subscriber")
	flag.Parse()

	configureEncoding()

	if opts.mode == "hash-password" {
		if err := runHashPassword(opts.password); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Real environment variables win over the dotenv file.
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", opts.envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(opts.mode, logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	requestID := logger.GenerateRequestID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("service_started", fmt.Sprintf("Starting %s", opts.mode), requestID, map[string]interface{}{
		"mode": opts.mode,
	})

	switch opts.mode {
	case "api":
		err = runAPI(ctx, cfg, log, opts)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, opts)
	case "seed":
		err = runSeed(ctx, cfg, log, opts)
	default:
		err = fmt.Errorf("unknown mode %q", opts.mode)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", opts.mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// configureEncoding renders decimal amounts as JSON numbers rather than quoted strings.
func configureEncoding() {
	decimal.MarshalJSONWithoutQuotes = true
}

func runAPI(ctx context.Context, cfg *config.Config, log *logger.Logger, opts options) error {
	if err := cfg.ValidateForAPI(); err != nil {
		return err
	}

	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, opts.migrations); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var publisher messaging.EventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQEnabled() {
		conn, err := messaging.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()
		publisher = messaging.NewPublisher(conn, log)
	} else {
		log.Warn("rabbitmq_disabled", "RabbitMQ is not configured; order events will not be published", "", nil)
	}

	tokens, err := auth.NewJWTManager(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize tokens: %w", err)
	}

	rs := httputil.NewResponder(log)
	users := user.NewService(user.NewPostgresStore(db), tokens)
	authn := httputil.NewAuthenticator(tokens, users, rs)

	mux := http.NewServeMux()
	health.NewHandler(db, rs, log).RegisterRoutes(mux)
	user.NewHandler(users, rs, log).RegisterRoutes(mux, authn)
	menu.NewHandler(menu.NewService(menu.NewPostgresStore(db)), rs, log).RegisterRoutes(mux, authn)
	reservation.NewHandler(reservation.NewService(reservation.NewPostgresStore(db)), rs, log).RegisterRoutes(mux, authn)
	order.NewHandler(order.NewService(order.NewPostgresStore(db), publisher, log), rs, log).RegisterRoutes(mux, authn)
	revenue.NewHandler(revenue.NewService(revenue.NewPostgresStore(db)), rs).RegisterRoutes(mux, authn)

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: httputil.Chain(mux,
			httputil.WithLogging(log),
			httputil.WithRecover(rs),
			httputil.WithCORS(cfg.Server.CORSOrigins),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_listening", fmt.Sprintf("API listening on port %d", cfg.Server.Port), "", map[string]interface{}{
			"port": cfg.Server.Port,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("graceful_shutdown", "Shutting down HTTP server", "", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, opts options) error {
	if !cfg.RabbitMQEnabled() {
		return errors.New("rabbitmq.host (RABBITMQ_HOST) is required for the notification subscriber")
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	hostname, _ := os.Hostname()
	consumer := messaging.NewConsumer(conn, log, messaging.OrderNotificationsQueue,
		fmt.Sprintf("notification-subscriber-%s", hostname), opts.prefetch)

	return notification.NewSubscriber(consumer, os.Stdout, log).Run(ctx)
}

func runSeed(ctx context.Context, cfg *config.Config, log *logger.Logger, opts options) error {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, opts.migrations); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seeded orders are history, not live activity, so no events are published.
	users := user.NewService(user.NewPostgresStore(db), nil)
	seeder := seed.New(
		users,
		menu.NewService(menu.NewPostgresStore(db)),
		reservation.NewService(reservation.NewPostgresStore(db)),
		order.NewService(order.NewPostgresStore(db), messaging.NopPublisher{}, log),
		seed.NewPostgresClearer(db),
		log,
	)

	_, err = seeder.Run(ctx, seed.Options{
		AdminUser:     opts.adminUser,
		AdminPassword: opts.adminPassword,
		HistoryDays:   opts.historyDays,
		Clear:         opts.clear,
	})
	return err
}

func runHashPassword(password string) error {
	if password == "" {
		return errors.New("--password is required")
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hashed)
	return nil
}
