package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/config"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	appHTTP "github.com/cmlabs-hris/absensi-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/absensi-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/absensi-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/absensi-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/file"
	qrTokenService "github.com/cmlabs-hris/absensi-backend-go/internal/service/qrtoken"
	settingsService "github.com/cmlabs-hris/absensi-backend-go/internal/service/settings"
	userService "github.com/cmlabs-hris/absensi-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown error", "error", err)
		}
	}()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		slog.Info("Database schema ensured")
	}

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	qrTokenRepo := postgresql.NewQRTokenRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	settingsSvc := settingsService.NewSettingsService(settingsRepo, settings.Defaults{
		CheckInStart:  cfg.Attendance.DefaultCheckInStart,
		CheckInEnd:    cfg.Attendance.DefaultCheckInEnd,
		CheckOutTime:  cfg.Attendance.DefaultCheckOutTime,
		LateTolerance: cfg.Attendance.DefaultLateTolerance,
		RadiusMeters:  cfg.Attendance.DefaultRadiusMeters,
		OfficeAddress: cfg.Attendance.DefaultOfficeAddress,
		OfficeLat:     cfg.Attendance.DefaultOfficeLatitude,
		OfficeLon:     cfg.Attendance.DefaultOfficeLongitude,
	})

	windows, err := qrtoken.NewWindows(
		cfg.Attendance.QRCheckInStart,
		cfg.Attendance.QRCheckInEnd,
		cfg.Attendance.QRCheckOutStart,
		cfg.Attendance.QRCheckOutEnd,
		loc,
	)
	if err != nil {
		return fmt.Errorf("init qr windows: %w", err)
	}
	qrSvc := qrTokenService.NewQRTokenService(qrTokenRepo, windows)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		userRepo,
		qrSvc,
		settingsSvc,
		fileService,
		loc,
	)

	pegawaiSvc := userService.NewPegawaiService(userRepo)
	if cfg.Bootstrap.AdminEmail != "" {
		created, err := pegawaiSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			slog.Info("Bootstrap admin created", "email", cfg.Bootstrap.AdminEmail)
		}
	}

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, refreshTokenRepo)

	var googleSvc oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleSvc = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	} else {
		slog.Info("Google sign-in disabled, GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET or GOOGLE_REDIRECT_URL is empty")
	}

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(qrSvc, attendanceSvc, cfg.Attendance.QRJobInterval, cfg.Attendance.AlphaRunHour, loc).RegisterJobs(scheduler)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	scheduler.AddJob("cleanup_rate_limiter", 10*time.Minute, func(context.Context) error {
		limiter.Cleanup(10 * time.Minute)
		return nil
	})

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc, pegawaiSvc, googleSvc, cfg.App.FrontendURL),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		QR:         appHTTP.NewQRHandler(qrSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
		Pegawai:    appHTTP.NewPegawaiHandler(pegawaiSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		RateLimiter:    limiter,
		UploadsDir:     cfg.Storage.BasePath,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      otelhttp.NewHandler(router, cfg.App.Name),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
