package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	"github.com/BruksfildServices01/studio-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/studio-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/notify"
	ucBooking "github.com/BruksfildServices01/studio-scheduler/internal/usecase/booking"
	ucCatalog "github.com/BruksfildServices01/studio-scheduler/internal/usecase/catalog"
	ucCourse "github.com/BruksfildServices01/studio-scheduler/internal/usecase/course"
	ucPayment "github.com/BruksfildServices01/studio-scheduler/internal/usecase/payment"
)

// Deps carries the process singletons built in main. Deduper may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *logger.Logger
	Audit    *audit.Dispatcher
	Gateway  ucPayment.CheckoutGateway
	Verifier ucPayment.EventVerifier
	Deduper  ucPayment.EventDeduper
	Notifier notify.Notifier
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	courseRepo := infraRepo.NewCourseGormRepository(d.DB)
	catalogRepo := infraRepo.NewCatalogGormRepository(d.DB)
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)

	currency := cfg.Stripe.Currency

	// ======================================================
	// 🧠 USE CASES — CATALOG
	// ======================================================
	createServiceUC := ucCatalog.NewCreateService(catalogRepo, d.Audit)
	updateServiceUC := ucCatalog.NewUpdateService(catalogRepo, d.Audit)
	deactivateServiceUC := ucCatalog.NewDeactivateService(catalogRepo, d.Audit)
	listServicesUC := ucCatalog.NewListServices(catalogRepo)

	createScheduleUC := ucCatalog.NewCreateSchedule(catalogRepo, d.Audit)
	listSchedulesUC := ucCatalog.NewListSchedules(catalogRepo)
	deleteScheduleUC := ucCatalog.NewDeleteSchedule(catalogRepo, d.Audit)

	studioPublicUC := ucCatalog.NewGetStudioPublic(catalogRepo)

	// ======================================================
	// 🧠 USE CASES — COURSES
	// ======================================================
	generateUC := ucCourse.NewGenerateOccurrences(courseRepo, d.Audit, d.Log)
	availabilityUC := ucCourse.NewGetServiceAvailability(courseRepo)
	checkCourseUC := ucCourse.NewCheckCourseAvailability(courseRepo)
	purchaseUC := ucCourse.NewCreateCourseOrder(courseRepo, currency, d.Audit, d.Log)

	// ======================================================
	// 🧠 USE CASES — BOOKINGS & PAYMENTS
	// ======================================================
	bookSlotUC := ucBooking.NewCreateSingleBooking(bookingRepo, d.Audit, d.Log)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, d.Audit)
	listBookingsUC := ucBooking.NewListBookingsByDate(bookingRepo)

	orderCheckoutUC := ucPayment.NewCreateOrderCheckout(bookingRepo, d.Gateway, d.Audit)
	bookingCheckoutUC := ucPayment.NewCreateBookingCheckout(bookingRepo, d.Gateway, currency, d.Audit)
	settlementUC := ucPayment.NewApplySettlement(
		bookingRepo,
		d.Verifier,
		d.Deduper,
		d.Notifier,
		currency,
		d.Audit,
		d.Log,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.DB)
	authHandler := handlers.NewAuthHandler(d.DB, cfg)
	meHandler := handlers.NewMeHandler(d.DB)
	studioHandler := handlers.NewStudioHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	serviceHandler := handlers.NewServiceHandler(
		createServiceUC,
		updateServiceUC,
		deactivateServiceUC,
		listServicesUC,
		createScheduleUC,
		listSchedulesUC,
		deleteScheduleUC,
		generateUC,
	)

	bookingHandler := handlers.NewBookingHandler(cancelBookingUC, listBookingsUC)

	publicHandler := handlers.NewPublicHandler(
		studioPublicUC,
		availabilityUC,
		checkCourseUC,
		purchaseUC,
		bookSlotUC,
		orderCheckoutUC,
		bookingCheckoutUC,
	)

	webhookHandler := handlers.NewWebhookHandler(settlementUC)

	r.GET("/health", healthHandler.Check)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC API
		// ------------------------------
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Limit(), middleware.OptionalAuth(cfg))
		{
			publicAPI.GET("/studios/:id", publicHandler.Studio)

			publicAPI.GET("/services/:id/availability", publicHandler.Availability)
			publicAPI.GET("/services/:id/course-availability", publicHandler.CourseAvailability)
			publicAPI.POST("/services/:id/purchase", publicHandler.PurchaseCourse)

			publicAPI.POST("/slots/:id/bookings", publicHandler.BookSlot)

			publicAPI.POST("/orders/:id/checkout", publicHandler.OrderCheckout)
			publicAPI.POST("/bookings/:id/checkout", publicHandler.BookingCheckout)
		}

		// Provider callbacks are signed and retried; they skip the limiter.
		api.POST("/public/webhooks/stripe", webhookHandler.Stripe)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", limiter.Limit(), authHandler.Register)
		api.POST("/auth/login", limiter.Limit(), authHandler.Login)

		// ------------------------------
		// 🔐 OWNER API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/studio", studioHandler.GetMeStudio)
			secured.PATCH("/me/studio", studioHandler.UpdateMeStudio)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.PATCH("/me/services/:id/deactivate", serviceHandler.Deactivate)

			secured.GET("/me/services/:id/schedules", serviceHandler.ListSchedules)
			secured.POST("/me/services/:id/schedules", serviceHandler.CreateSchedule)
			secured.DELETE("/me/services/:id/schedules/:scheduleId", serviceHandler.DeleteSchedule)

			secured.POST("/me/services/:id/occurrences", serviceHandler.GenerateOccurrences)

			secured.GET("/me/bookings", bookingHandler.ListByDate)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
