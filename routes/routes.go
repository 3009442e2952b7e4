package routes

import (
	"beautystudio-backend/config"
	"beautystudio-backend/controllers"
	"beautystudio-backend/services"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, db *supabase.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(config.RequestLogger())
	r.Use(utils.MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", utils.MetricsHandler())

	authController := controllers.NewAuthController(db, cfg)
	clientController := controllers.NewClientController(db)
	serviceController := controllers.NewServiceController(db)
	appointmentController := controllers.NewAppointmentController(services.NewAppointmentService(db))
	invoiceController := controllers.NewInvoiceController(services.NewInvoiceService(db))
	dashboardController := controllers.NewDashboardController(db)

	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", clientController.CreateClient)
			clients.GET("", clientController.GetClients)
			clients.GET("/:id", clientController.GetClient)
			clients.PUT("/:id", clientController.UpdateClient)
			clients.DELETE("/:id", clientController.DeleteClient)
		}

		// Service catalog routes
		catalog := api.Group("/services")
		{
			catalog.POST("", serviceController.CreateService)
			catalog.GET("", serviceController.GetServices)
			catalog.GET("/:id", serviceController.GetService)
			catalog.PUT("/:id", serviceController.UpdateService)
			catalog.DELETE("/:id", serviceController.DeleteService)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.GET("", appointmentController.GetAppointments)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.GET("/:id/duplicate", appointmentController.DuplicateAppointment)
			appointments.PUT("/:id", appointmentController.UpdateAppointment)
			appointments.DELETE("/:id", appointmentController.DeleteAppointment)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceController.CreateInvoice)
			invoices.GET("", invoiceController.GetInvoices)
			invoices.GET("/uninvoiced-appointments", invoiceController.GetUninvoicedAppointments)
			invoices.GET("/:id", invoiceController.GetInvoice)
			invoices.GET("/:id/receipt", invoiceController.GetReceipt)
			invoices.DELETE("/:id", invoiceController.DeleteInvoice)
		}

		// Dashboard routes
		api.GET("/dashboard", dashboardController.GetStats)
	}

	return r
}
