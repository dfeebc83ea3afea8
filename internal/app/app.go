package app

import (
	"net/http"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/middleware"
	"servicehub/internal/modules/auth"
	"servicehub/internal/modules/booking"
	"servicehub/internal/modules/coupon"
	"servicehub/internal/modules/events"
	"servicehub/internal/modules/payment"
	"servicehub/internal/modules/property"
	"servicehub/internal/modules/subscription"
	"servicehub/internal/pkg/jwt"
	"servicehub/internal/pkg/logger"
	"servicehub/internal/pkg/metrics"
	"servicehub/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const metricsNamespace = "servicehub"

// App holds the HTTP router and the long-lived pieces main needs to start
// and stop.
type App struct {
	Router        *gin.Engine
	Hub           *events.Hub
	Metrics       *metrics.Metrics
	Subscriptions *subscription.Service
}

// New wires repositories, services and handlers. clock may be nil.
func New(cfg *config.Config, db *gorm.DB, log *logger.Logger, clock lifecycle.TimeProvider) *App {
	if clock == nil {
		clock = lifecycle.RealTimeProvider{}
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(metricsNamespace)
	}

	users := repository.NewUserRepository(db)
	properties := repository.NewPropertyRepository(db)
	bookings := repository.NewBookingRepository(db)
	payments := repository.NewPaymentRepository(db)
	coupons := repository.NewCouponRepository(db)
	subs := repository.NewSubscriptionRepository(db)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := events.NewHub()

	subscriptionService := subscription.NewService(subs, properties, clock, log.WithField("module", "subscription"))
	authHandler := auth.NewHandler(auth.NewService(users, tokens))
	propertyHandler := property.NewHandler(property.NewService(properties, subscriptionService, log.WithField("module", "property")))
	bookingHandler := booking.NewHandler(booking.NewService(bookings, properties, coupons, clock, hub, m, log.WithField("module", "booking")))
	paymentHandler := payment.NewHandler(payment.NewService(payments, bookings, clock, hub, m, log.WithField("module", "payment").Info))
	couponHandler := coupon.NewHandler(coupon.NewService(coupons, clock, log.WithField("module", "coupon")))
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	eventsHandler := events.NewHandler(hub, tokens, log.WithField("module", "events"), cfg.CORSAllowedOrigins)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Metrics(m),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET(cfg.MetricsPath, gin.WrapH(m.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		subscriptionHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		// public, with the caller identified when a token is sent
		optional := v1.Group("", middleware.OptionalAuth(tokens))
		{
			propertyHandler.RegisterPublicRoutes(optional)
			bookingHandler.RegisterPublicRoutes(optional)
		}

		protected := v1.Group("", middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			couponHandler.RegisterRoutes(protected)
			bookingHandler.RegisterCustomerRoutes(protected)
			paymentHandler.RegisterCustomerRoutes(protected)

			// billing stays reachable for hosts the access gate turns away
			billing := protected.Group("", middleware.RequireRole(domain.RoleHost))
			subscriptionHandler.RegisterHostRoutes(billing)

			host := protected.Group("",
				middleware.RequireRole(domain.RoleHost, domain.RoleAdmin),
				middleware.RequireHostAccess(subscriptionService, m),
			)
			{
				propertyHandler.RegisterHostRoutes(host)
				bookingHandler.RegisterHostRoutes(host)
				paymentHandler.RegisterHostRoutes(host)
			}

			admin := protected.Group("/admin", middleware.AdminOnly())
			{
				couponHandler.RegisterAdminRoutes(admin)
				subscriptionHandler.RegisterAdminRoutes(admin)
				propertyHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	return &App{Router: r, Hub: hub, Metrics: m, Subscriptions: subscriptionService}
}
