package transport

import (
	"net/http"

	"github.com/Videeksha22/event-ticket-booking-system/internal/transport/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(eventHandler *EventHandler, ticketHandler *TicketHandler, paymentHandler *PaymentHandler, userHandler *UserHandler, queueAdminHandler *QueueAdminHandler) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api/v1")
	{
		// Event routes
		events := api.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.POST("/:id/cancel", eventHandler.CancelEvent)
			events.GET("/:id/stats", eventHandler.GetEventStats)
			events.GET("/:id/tickets", ticketHandler.GetEventTickets)
			events.POST("/:id/ticket-types", eventHandler.CreateTicketType)
			events.GET("/:id/ticket-types", eventHandler.GetTicketTypes)
		}

		// Ticket routes
		tickets := api.Group("/tickets")
		{
			tickets.POST("", ticketHandler.BookTickets)
			tickets.GET("/:id", ticketHandler.GetTicket)
			tickets.POST("/:id/cancel", ticketHandler.CancelTicket)
			tickets.POST("/:id/payment", paymentHandler.ProcessPayment)
			tickets.GET("/:id/payment", paymentHandler.GetPayment)
			tickets.POST("/:id/refund", paymentHandler.RefundPayment)
		}

		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.RegisterUser)
			users.POST("/login", userHandler.Login)
			users.GET("/:id", userHandler.GetUser)
			users.POST("/:id/telegram", userHandler.LinkTelegram)
			users.GET("/:id/tickets", ticketHandler.GetUserTickets)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.GET("/organizers/:organizer_id/events", eventHandler.GetOrganizerEvents)
			admin.POST("/events/:id/reconcile", eventHandler.ReconcileEvent)

			admin.GET("/queue/stats", queueAdminHandler.GetQueueStats)
			admin.POST("/queue/purge", queueAdminHandler.PurgeQueues)
			admin.GET("/dlq", queueAdminHandler.GetFailedTasks)
			admin.GET("/dlq/stats", queueAdminHandler.GetDLQStats)
			admin.POST("/dlq/:task_id/requeue", queueAdminHandler.RequeueFailedTask)
			admin.DELETE("/dlq/:task_id", queueAdminHandler.DeleteFailedTask)
			admin.POST("/dlq/purge", queueAdminHandler.PurgeDLQ)
		}
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return router
}
