// Package router assembles the HTTP surface from handlers and middleware.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kalasetu/workshop-api/internal/handler"
	"github.com/kalasetu/workshop-api/internal/middleware"
	"github.com/kalasetu/workshop-api/internal/service"
	"github.com/kalasetu/workshop-api/pkg/config"
	"github.com/kalasetu/workshop-api/pkg/logger"
	corsmiddleware "github.com/kalasetu/workshop-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kalasetu/workshop-api/pkg/middleware/requestid"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Student    *handler.StudentHandler
	Catalog    *handler.CatalogHandler
	Payment    *handler.PaymentHandler
	Enrollment *handler.EnrollmentHandler
	CMS        *handler.CMSHandler
	Metrics    *handler.MetricsHandler
}

// New builds the gin engine with the full route table.
func New(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/verify-student", h.Student.VerifyContact)
		api.POST("/students", h.Student.Register)

		api.GET("/workshops", h.Catalog.ListWorkshops)
		api.GET("/workshops/:id", h.Catalog.GetWorkshop)
		api.GET("/workshops/:id/batches", h.Catalog.AvailableBatches)

		api.POST("/payment/order", h.Payment.CreateOrder)
		api.POST("/payment/verify", h.Payment.Verify)

		api.POST("/enrollment", h.Enrollment.Enroll)
	}

	admin := api.Group("/admin")
	admin.POST("/login", h.Auth.Login)

	protected := admin.Group("")
	protected.Use(middleware.JWT(auth))
	{
		protected.GET("/workshops", h.Catalog.ListAllWorkshops)
		protected.POST("/workshops", h.Catalog.CreateWorkshop)
		protected.PUT("/workshops/:id", h.Catalog.UpdateWorkshop)
		protected.DELETE("/workshops/:id", h.Catalog.DeleteWorkshop)
		protected.GET("/workshops/:id/batches", h.Catalog.ListBatches)

		protected.POST("/batches", h.Catalog.CreateBatch)
		protected.PUT("/batches/:id", h.Catalog.UpdateBatch)
		protected.DELETE("/batches/:id", h.Catalog.DeleteBatch)
		protected.GET("/batches/:id/roster/export", h.CMS.ExportRoster)

		protected.GET("/students", h.Student.List)
		protected.GET("/students/:id", h.Student.Get)
		protected.PUT("/students/:id", h.Student.Update)
		protected.DELETE("/students/:id", h.Student.Deactivate)

		protected.GET("/enrollments", h.Enrollment.List)
		protected.GET("/enrollments/:id", h.Enrollment.Get)

		protected.GET("/quotes", h.CMS.ListQuotes)
		protected.POST("/quotes", h.CMS.CreateQuote)
		protected.PUT("/quotes/:id", h.CMS.UpdateQuote)
		protected.DELETE("/quotes/:id", h.CMS.DeleteQuote)

		protected.GET("/email-templates", h.CMS.ListTemplates)
		protected.PUT("/email-templates", h.CMS.SaveTemplate)
		protected.DELETE("/email-templates/:id", h.CMS.DeleteTemplate)

		protected.GET("/emails", h.CMS.ListEmails)

		protected.GET("/mentors", h.CMS.ListMentors)
		protected.POST("/mentors", h.CMS.CreateMentor)
		protected.PUT("/mentors/:id", h.CMS.UpdateMentor)
		protected.DELETE("/mentors/:id", h.CMS.DeleteMentor)
	}

	return r
}
