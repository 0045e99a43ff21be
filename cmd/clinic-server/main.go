package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinica/clinica/internal/config"
	"github.com/clinica/clinica/internal/domain/appointment"
	"github.com/clinica/clinica/internal/domain/billing"
	"github.com/clinica/clinica/internal/domain/catalog"
	"github.com/clinica/clinica/internal/domain/doctor"
	"github.com/clinica/clinica/internal/domain/patient"
	"github.com/clinica/clinica/internal/domain/stats"
	"github.com/clinica/clinica/internal/domain/user"
	"github.com/clinica/clinica/internal/platform/auth"
	"github.com/clinica/clinica/internal/platform/db"
	"github.com/clinica/clinica/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, doctors, patients, services and appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Discover the physical appointment column names once, before the
	// server accepts traffic. A schema missing a required concept is a
	// deployment error, not something to rediscover per request.
	cols, err := appointment.ResolveColumns(ctx, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("schema discovery failed")
	}
	logger.Info().
		Str("date", cols.Date).
		Str("time", cols.Time).
		Str("type", cols.Type).
		Str("status", cols.Status).
		Msg("resolved appointment columns")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	validate := validator.New()

	userRepo := user.NewRepo(pool)
	userHandler := user.NewHandler(userRepo, validate, cfg.JWTSecret)

	public := e.Group("/api")
	userHandler.RegisterAuthRoutes(public)

	api := e.Group("/api")
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("running with dev auth, every request is admin")
		api.Use(auth.DevMiddleware())
	} else {
		api.Use(auth.Middleware(cfg.JWTSecret))
	}

	userHandler.RegisterRoutes(api)
	patient.NewHandler(patient.NewRepo(pool), validate).RegisterRoutes(api)
	doctor.NewHandler(doctor.NewRepo(pool), validate).RegisterRoutes(api)
	catalog.NewHandler(catalog.NewRepo(pool), validate).RegisterRoutes(api)

	apptRepo := appointment.NewRepoPG(pool, cols)
	appointment.NewHandler(appointment.NewService(apptRepo)).RegisterRoutes(api)

	billingRepo := billing.NewRepoPG(pool)
	billing.NewHandler(billing.NewService(billingRepo)).RegisterRoutes(api)

	stats.NewHandler(pool, cols).RegisterRoutes(api)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

const seedPassword = "Clinica123*"

func runSeed() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	cols, err := appointment.ResolveColumns(ctx, pool)
	if err != nil {
		return err
	}

	for _, t := range []string{"invoice_items", "invoices", "appointments", "services", "patients", "doctors", "users"} {
		if _, err := pool.Exec(ctx,
			fmt.Sprintf(`TRUNCATE TABLE %s RESTART IDENTITY CASCADE`, pgx.Identifier{t}.Sanitize())); err != nil {
			logger.Warn().Err(err).Str("table", t).Msg("truncate skipped")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	pass := string(hash)

	users := [][]string{
		{"Admin", "admin@clinica.com", "admin"},
		{"Recepcion", "recep@clinica.com", "receptionist"},
		{"Caja", "caja@clinica.com", "cashier"},
		{"Imagen", "imagen@clinica.com", "imaging"},
		{"Director", "director@clinica.com", "director"},
		{"Dr. José Pérez", "j.perez@clinica.com", "doctor"},
		{"Dra. María López", "m.lopez@clinica.com", "doctor"},
		{"Engels Tiu", "engels@example.com", "patient"},
		{"Camila Gómez", "camila@example.com", "patient"},
	}
	for _, u := range users {
		if _, err := pool.Exec(ctx,
			`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)`,
			u[0], u[1], pass, u[2]); err != nil {
			return err
		}
	}

	var doctor1ID, doctor2ID int64
	if err := pool.QueryRow(ctx,
		`INSERT INTO doctors (name, specialty, phone, email) VALUES ($1, $2, $3, $4) RETURNING id`,
		"Dr. José Pérez", "Cardiología", "555-1111", "j.perez@clinica.com").Scan(&doctor1ID); err != nil {
		return err
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO doctors (name, specialty, phone, email) VALUES ($1, $2, $3, $4) RETURNING id`,
		"Dra. María López", "Pediatría", "555-2222", "m.lopez@clinica.com").Scan(&doctor2ID); err != nil {
		return err
	}

	var patient1ID, patient2ID int64
	if err := pool.QueryRow(ctx,
		`INSERT INTO patients (name, dpi, dob, phone, email) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"Engels Tiu", "1234567890101", "1999-05-12", "555-3333", "engels@example.com").Scan(&patient1ID); err != nil {
		return err
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO patients (name, dpi, dob, phone, email) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"Camila Gómez", "2890012345678", "2001-09-01", "555-4444", "camila@example.com").Scan(&patient2ID); err != nil {
		return err
	}

	services := []struct {
		name, category string
		price          float64
	}{
		{"Consulta General", "Consultas", 150.00},
		{"Electrocardiograma", "Imagenología", 350.00},
		{"Rayos X Tórax", "Imagenología", 280.00},
		{"Vacuna Influenza", "Vacunas", 90.00},
	}
	for _, s := range services {
		if _, err := pool.Exec(ctx,
			`INSERT INTO services (name, category, price) VALUES ($1, $2, $3)`,
			s.name, s.category, s.price); err != nil {
			return err
		}
	}

	apptSQL := fmt.Sprintf(
		`INSERT INTO appointments (patient_id, doctor_id, %s, %s, %s, %s)
		 VALUES ($1, $2, CURRENT_DATE + $3::int, $4, $5, $6)`,
		pgx.Identifier{cols.Date}.Sanitize(),
		pgx.Identifier{cols.Time}.Sanitize(),
		pgx.Identifier{cols.Type}.Sanitize(),
		pgx.Identifier{cols.Status}.Sanitize(),
	)
	if _, err := pool.Exec(ctx, apptSQL,
		patient1ID, doctor1ID, 0, "09:30", "Dolor de pecho", "PROGRAMADA"); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, apptSQL,
		patient2ID, doctor2ID, 1, "11:00", "Control pediátrico", "PROGRAMADA"); err != nil {
		return err
	}

	logger.Info().Msg("seed data inserted")
	return nil
}
