package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	QR         QRHandler
	Settings   SettingsHandler
	Pegawai    PegawaiHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	// UploadsDir is served read-only under /uploads to authenticated users. Empty disables it.
	UploadsDir string
}

func NewRouter(jwtService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	rateLimited := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		rateLimited = opts.RateLimiter.Middleware
	}

	adminOrHR := middleware.RequireRoles(user.RoleAdmin, user.RoleHR)
	approvers := middleware.RequirePermission(user.PermissionLeaveApprove)
	employees := middleware.RequireRoles(user.RoleHR, user.RolePegawai)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimited).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		r.Get("/qr/latest", h.QR.Latest)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)

			r.With(adminOrHR).Post("/qr/generate", h.QR.Generate)

			r.Route("/pegawai", func(r chi.Router) {
				r.Use(adminOrHR)
				r.Get("/", h.Pegawai.List)
				r.Post("/", h.Pegawai.Create)
				r.Get("/search", h.Pegawai.Search)
				r.Get("/filter/role", h.Pegawai.FilterByRole)
				r.Get("/{id}", h.Pegawai.Get)
				r.Put("/{id}", h.Pegawai.Update)
				r.Delete("/{id}", h.Pegawai.Delete)
			})

			r.Route("/absensi", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(adminOrHR)
					r.Get("/", h.Attendance.List)
					r.Get("/settings", h.Settings.Get)
					r.Put("/settings", h.Settings.Update)
					r.Post("/generate-alpha", h.Attendance.GenerateAutoAbsences)
				})

				r.Group(func(r chi.Router) {
					r.Use(approvers)
					r.Post("/{id}/approve", h.Attendance.Approve)
					r.Post("/{id}/reject", h.Attendance.Reject)
				})

				r.Group(func(r chi.Router) {
					r.Use(employees)
					r.With(rateLimited).Post("/scan-qr", h.Attendance.Scan)
					r.Post("/ajukan", h.Attendance.SubmitLeaveRequest)
					r.Get("/riwayat", h.Attendance.History)
					r.Get("/riwayat-pengajuan", h.Attendance.LeaveRequests)
				})
			})

			if opts.UploadsDir != "" {
				r.Handle("/uploads/*", uploadsHandler(opts.UploadsDir))
			}
		})
	})

	return r
}

// uploadsHandler serves stored files without directory listings.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix("/api/v1/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			response.NotFound(w, "File not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
