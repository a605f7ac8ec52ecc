package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/handlers"
	infraRepo "github.com/BruksfildServices01/fieldops/internal/infra/repository"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/payments"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/scheduler"
	"github.com/BruksfildServices01/fieldops/internal/storage"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	ucInvoice "github.com/BruksfildServices01/fieldops/internal/usecase/invoice"
	ucJob "github.com/BruksfildServices01/fieldops/internal/usecase/job"
	ucMedia "github.com/BruksfildServices01/fieldops/internal/usecase/jobmedia"
)

// Deps are the process-wide singletons main owns. Optional integrations are
// left nil when they are not configured.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config

	Audit     audit.Recorder
	Notify    notify.Notifier
	Broker    realtime.Broker
	Scheduler *scheduler.Scheduler

	StreamsDone <-chan struct{}

	Store    storage.ObjectStore
	Payments payments.Gateway
	Mailer   ucInvoice.InvoiceSender
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// INFRA
	// ======================================================
	jobRepo := infraRepo.NewJobGormRepository(d.DB)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(d.DB)
	mediaRepo := infraRepo.NewJobMediaGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	automationRepo := infraRepo.NewAutomationGormRepository(d.DB)
	pushRepo := infraRepo.NewPushSubscriptionGormRepository(d.DB)

	fx := usecase.Effects{
		Audit:    d.Audit,
		Notify:   d.Notify,
		Realtime: d.Broker,
	}

	var links ucInvoice.LinkCreator
	var lookup ucInvoice.PaymentLookup
	if d.Payments != nil {
		links, lookup = d.Payments, d.Payments
	}

	// ======================================================
	// USE CASES: INVOICES
	// ======================================================
	createInvoiceUC := ucInvoice.NewCreateInvoiceFromJob(invoiceRepo, fx, d.Mailer, links, cfg.InvoiceDueDays)
	updateInvoiceStatusUC := ucInvoice.NewUpdateInvoiceStatus(invoiceRepo, fx)

	invoiceHandler := handlers.NewInvoiceHandler(handlers.InvoiceUseCases{
		Create:       createInvoiceUC,
		UpdateStatus: updateInvoiceStatusUC,
		MarkPaid:     ucInvoice.NewMarkInvoicePaid(updateInvoiceStatusUC),
		Get:          ucInvoice.NewGetInvoice(invoiceRepo),
		List:         ucInvoice.NewListInvoices(invoiceRepo),
		PDF:          ucInvoice.NewRenderInvoicePDF(invoiceRepo, cfg.Business),
		Export:       ucInvoice.NewExportInvoices(invoiceRepo),
		PaymentLink:  ucInvoice.NewCreatePaymentLink(invoiceRepo, links, fx),
	}, cfg.Timezone)

	webhookHandler := handlers.NewWebhookHandler(
		ucInvoice.NewHandlePaymentNotification(lookup, invoiceRepo, updateInvoiceStatusUC),
	)

	// ======================================================
	// USE CASES: JOBS
	// ======================================================
	createJobUC := ucJob.NewCreateJob(jobRepo, fx)

	jobHandler := handlers.NewJobHandler(
		createJobUC,
		ucJob.NewUpdateJob(jobRepo, fx, createInvoiceUC, cfg.AutoInvoiceOnComplete),
		ucJob.NewUpdateJobStatus(jobRepo, fx, createInvoiceUC, cfg.AutoInvoiceOnComplete),
		ucJob.NewDeleteJob(jobRepo, fx),
		ucJob.NewGetJob(jobRepo),
		ucJob.NewListJobs(jobRepo),
	)

	mediaHandler := handlers.NewJobMediaHandler(
		ucMedia.NewUploadPhoto(mediaRepo, d.Store, fx),
		ucMedia.NewListPhotos(mediaRepo),
		ucMedia.NewDeletePhoto(mediaRepo, d.Store, fx),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	meHandler := handlers.NewMeHandler(cfg.Push.VAPIDPublicKey)
	publicHandler := handlers.NewPublicHandler(d.DB, createJobUC, cfg.Timezone)

	customerHandler := handlers.NewCustomerHandler(d.DB, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	staffHandler := handlers.NewStaffHandler(d.DB, d.Audit)
	automationHandler := handlers.NewAutomationHandler(automationRepo, d.Audit)
	pushHandler := handlers.NewPushHandler(pushRepo)
	activityHandler := handlers.NewActivityLogHandler(d.DB, cfg.Timezone)
	realtimeHandler := handlers.NewRealtimeHandler(d.Broker, d.StreamsDone)
	schedulerHandler := handlers.NewSchedulerHandler(d.Scheduler)

	auth := middleware.AuthMiddleware(cfg.JWTSecret, userRepo, false)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.GET("/public/services", publicHandler.ListServices)
		api.POST("/bookings", publicHandler.CreateBooking)
		api.POST("/webhooks/mercadopago", webhookHandler.MercadoPago)

		// EventSource cannot send headers, so the stream also takes ?token=.
		api.GET("/realtime/stream",
			middleware.AuthMiddleware(cfg.JWTSecret, userRepo, true),
			realtimeHandler.Stream,
		)

		// ------------------------------
		// STAFF + ADMIN
		// ------------------------------
		secured := api.Group("")
		secured.Use(auth)
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/jobs", jobHandler.List)
			secured.GET("/jobs/:id", jobHandler.Get)
			secured.PATCH("/jobs/:id", jobHandler.Update)
			secured.PATCH("/jobs/:id/status", jobHandler.UpdateStatus)

			secured.GET("/jobs/:id/media", mediaHandler.List)
			secured.POST("/jobs/:id/media", mediaHandler.Upload)
			secured.DELETE("/media/:id", mediaHandler.Delete)

			secured.GET("/services", serviceHandler.List)

			secured.POST("/push/subscriptions", pushHandler.Subscribe)
			secured.DELETE("/push/subscriptions", pushHandler.Unsubscribe)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("")
		admin.Use(auth, adminOnly)
		{
			admin.POST("/jobs", jobHandler.Create)
			admin.DELETE("/jobs/:id", jobHandler.Delete)

			admin.POST("/invoices/create", invoiceHandler.Create)
			admin.GET("/invoices", invoiceHandler.List)
			admin.GET("/invoices/export", invoiceHandler.Export)
			admin.GET("/invoices/:id", invoiceHandler.Get)
			admin.GET("/invoices/:id/pdf", invoiceHandler.PDF)
			admin.PATCH("/invoices/:id/pay", invoiceHandler.MarkPaid)
			admin.PATCH("/invoices/:id/status", invoiceHandler.UpdateStatus)
			admin.POST("/invoices/:id/payment-link", invoiceHandler.PaymentLink)

			admin.GET("/customers", customerHandler.List)
			admin.POST("/customers", customerHandler.Create)
			admin.GET("/customers/:id", customerHandler.Get)
			admin.PATCH("/customers/:id", customerHandler.Update)
			admin.DELETE("/customers/:id", customerHandler.Delete)

			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)

			admin.GET("/staff", staffHandler.List)
			admin.POST("/staff", staffHandler.Create)
			admin.PATCH("/staff/:id/suspend", staffHandler.Suspend)
			admin.PATCH("/staff/:id/reactivate", staffHandler.Reactivate)
			admin.PATCH("/staff/:id/terminate", staffHandler.Terminate)

			admin.GET("/automations", automationHandler.List)
			admin.GET("/automations/triggers", automationHandler.Triggers)
			admin.POST("/automations", automationHandler.Create)
			admin.PATCH("/automations/:id", automationHandler.Update)
			admin.DELETE("/automations/:id", automationHandler.Delete)

			admin.GET("/activity-log", activityHandler.List)

			admin.GET("/scheduler/tasks", schedulerHandler.Tasks)
			admin.GET("/scheduler/follow-ups", schedulerHandler.FollowUps)
			admin.POST("/scheduler/run/:task", schedulerHandler.Run)
		}
	}
}
