package routes

import (
	"os"
	"strings"

	"glowdesk-backend/config"
	"glowdesk-backend/controllers"
	"glowdesk-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
			customers.POST("/:id/points", controllers.AdjustPoints)
			customers.GET("/:id/appointments", controllers.GetCustomerAppointments)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
			products.POST("/:id/toggle-status", controllers.ToggleProductStatus)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.GET("/calendar", controllers.GetCalendar)
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.PUT("/:id/status", controllers.TransitionAppointment)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
		}

		// Purchase routes
		purchases := api.Group("/purchases")
		{
			purchases.POST("", controllers.CreatePurchase)
			purchases.GET("", controllers.GetPurchases)
			purchases.GET("/:id", controllers.GetPurchase)
			purchases.PUT("/:id", controllers.UpdatePurchase)
			purchases.DELETE("/:id", controllers.DeletePurchase)
		}

		// Finance routes
		finance := api.Group("/finance")
		{
			finance.GET("/summary", controllers.GetFinanceSummary)
			finance.GET("/export", controllers.ExportFinanceEntries)
			finance.POST("", controllers.CreateFinanceEntry)
			finance.GET("", controllers.GetFinanceEntries)
			finance.PUT("/:id", controllers.UpdateFinanceEntry)
			finance.DELETE("/:id", controllers.DeleteFinanceEntry)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		api.GET("/settings", controllers.GetSettings)
		api.PUT("/settings", controllers.UpdateSettings)
	}

	return r
}
