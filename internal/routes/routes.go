package routes

import (
	"net"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/config"
	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/services-booking/internal/infra/repository"
	"github.com/BruksfildServices01/services-booking/internal/infra/storage"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/services-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/services-booking/internal/validators"
)

// Deps are the long lived collaborators built by main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   zerolog.Logger
	Location *time.Location

	Locker domain.Locker
	Audit  audit.Recorder
	Mailer handlers.Mailer
	Store  storage.ObjectStore

	// Readiness checks beyond the database, keyed by name.
	Pingers map[string]handlers.Pinger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSOrigins),
	)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	clock := ucBooking.Clock{Loc: d.Location}

	bookingHandler := handlers.NewBookingHandler(
		ucBooking.NewGetAvailability(bookingRepo, clock),
		ucBooking.NewCreateBooking(bookingRepo, d.Locker, d.Audit, d.Mailer, cfg.OperatorEmail, clock, d.Logger),
		ucBooking.NewUpdateStatus(bookingRepo, d.Locker, d.Audit, d.Logger),
		ucBooking.NewListBookings(bookingRepo, clock),
		ucBooking.NewGetBooking(bookingRepo),
		ucBooking.NewExportBookings(bookingRepo, clock),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	adminHandler := handlers.NewAdminHandler(d.DB, cfg, d.Audit)
	userHandler := handlers.NewUserHandler(d.DB, cfg)
	var domains validators.Resolver
	if cfg.VerifyEmailDomains {
		domains = net.DefaultResolver
	}
	leadHandler := handlers.NewLeadHandler(d.DB, d.Mailer, cfg.OperatorEmail, d.Audit, domains)
	blogHandler := handlers.NewBlogHandler(d.DB, d.Store, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Pingers)

	// ======================================================
	// AUTH CHAINS
	// ======================================================
	authn := middleware.Authenticate(cfg.JWTSecret)
	admin := []gin.HandlerFunc{authn, middleware.RequireAdmin(d.DB)}
	fullAdmin := chain(admin, middleware.RequireFullAccess())
	user := []gin.HandlerFunc{authn, middleware.RequireUser(d.DB)}

	publicLimit := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware()

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	api := r.Group("/api/v1")
	{
		// ------------------------------
		// BOOKING
		// ------------------------------
		booking := api.Group("/booking")
		{
			booking.POST("/create-booking", publicLimit, bookingHandler.Create)
			booking.GET("/available-slots", bookingHandler.AvailableSlots)

			booking.PATCH("/update-booking-status/:bookingId", chain(fullAdmin, bookingHandler.UpdateStatus)...)
			booking.GET("/bookings", chain(admin, bookingHandler.List)...)
			booking.GET("/bookings/export", chain(admin, bookingHandler.Export)...)
			booking.GET("/booking/:bookingId", chain(admin, bookingHandler.Get)...)
		}

		// ------------------------------
		// SERVICE CATALOG
		// ------------------------------
		service := api.Group("/service")
		{
			service.GET("/all", serviceHandler.List)
			service.GET("/:id", serviceHandler.Get)
			service.POST("/create", chain(fullAdmin, serviceHandler.Create)...)
			service.PATCH("/:id", chain(fullAdmin, serviceHandler.Update)...)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		adm := api.Group("/admin")
		{
			adm.POST("/register", middleware.OptionalAuthenticate(cfg.JWTSecret), adminHandler.Register)
			adm.POST("/login", publicLimit, adminHandler.Login)

			adm.PATCH("/change-password", chain(admin, adminHandler.ChangePassword)...)
			adm.PUT("/update-role", chain(fullAdmin, adminHandler.UpdateRole)...)
			adm.GET("/get-me", chain(admin, adminHandler.GetMe)...)
			adm.GET("/get-all-admin", chain(admin, adminHandler.GetAll)...)
			adm.GET("/audit-logs", chain(admin, auditLogsHandler.List)...)
			adm.DELETE("/:id", chain(fullAdmin, adminHandler.Delete)...)
		}

		// ------------------------------
		// USER
		// ------------------------------
		usr := api.Group("/user")
		{
			usr.POST("/register", publicLimit, userHandler.Register)
			usr.POST("/login", publicLimit, userHandler.Login)
			usr.GET("/get-me", chain(user, userHandler.GetMe)...)
			usr.PATCH("/change-password", chain(user, userHandler.ChangePassword)...)
		}

		// ------------------------------
		// LEADS
		// ------------------------------
		quote := api.Group("/request-quote")
		{
			quote.POST("/create", publicLimit, leadHandler.CreateQuote)
			quote.GET("/all", chain(admin, leadHandler.ListQuotes)...)
			quote.GET("/pending", chain(admin, leadHandler.PendingQuotes)...)
			quote.PATCH("/update-quote-status/:id", chain(fullAdmin, leadHandler.UpdateQuoteStatus)...)
		}

		join := api.Group("/join-us")
		{
			join.POST("/apply", publicLimit, leadHandler.ApplyJoinUs)
			join.GET("/pending", chain(admin, leadHandler.PendingJoinUs)...)
			join.GET("/all-joinUs", chain(admin, leadHandler.ListJoinUs)...)
			join.PATCH("/:id", chain(fullAdmin, leadHandler.UpdateJoinUsStatus)...)
		}

		// ------------------------------
		// BLOG
		// ------------------------------
		blog := api.Group("/blog")
		{
			blog.GET("/all", blogHandler.ListPublic)
			blog.GET("/all/:id", blogHandler.GetPublic)
			blog.GET("/all-admin", chain(admin, blogHandler.ListAdmin)...)
			blog.GET("/all-admin/:id", chain(admin, blogHandler.GetAdmin)...)
			blog.POST("/create", chain(fullAdmin, blogHandler.Create)...)
			blog.PATCH("/:id", chain(fullAdmin, blogHandler.Update)...)
			blog.DELETE("/:id", chain(fullAdmin, blogHandler.Delete)...)
		}
	}
}

// chain returns a fresh slice so route chains never share backing arrays.
func chain(base []gin.HandlerFunc, h ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(base)+len(h))
	out = append(out, base...)
	return append(out, h...)
}
