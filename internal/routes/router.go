package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/config"
	"github.com/MarcosAvg/nexa/internal/handlers"
	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/services"
	"github.com/MarcosAvg/nexa/internal/websocket"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) *gin.Engine {
	router := gin.Default()

	historyService := services.NewHistoryService(db, log)
	ticketService := services.NewTicketService(db, historyService, log)
	cardService := services.NewCardService(db, historyService, ticketService, log)
	personnelService := services.NewPersonnelService(db, historyService, ticketService, log)
	responsivaService := services.NewResponsivaService(db, historyService, cardService, log)

	var wsHandler *websocket.WebSocketHandler
	if cfg.EnableWebsocket {
		wsHandler = websocket.NewWebSocketHandler(db, log)

		ticketService.SetWebSocketHandler(wsHandler)
		cardService.SetWebSocketHandler(wsHandler)
		personnelService.SetWebSocketHandler(wsHandler)
	}

	authMiddleware := middleware.NewAuthMiddleware(db)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(db, cfg)

	authHandler := handlers.NewAuthHandler(db, authMiddleware)
	personnelHandler := handlers.NewPersonnelHandler(db, personnelService)
	cardHandler := handlers.NewCardHandler(db, cardService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	responsivaHandler := handlers.NewResponsivaHandler(responsivaService)
	historyHandler := handlers.NewHistoryHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db, historyService)
	profileHandler := handlers.NewProfileHandler(db, historyService)
	exportHandler := handlers.NewExportHandler(personnelService, historyService)
	maintenanceHandler := handlers.NewMaintenanceHandler(ticketService)

	if cfg.EnableWebsocket {
		router.GET("/ws", wsHandler.HandleWebSocket)
	}

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authMiddleware.AuthRequired(), authHandler.GetMe)
		auth.POST("/change-password", authMiddleware.AuthRequired(), authHandler.ChangePassword)
	}

	api := router.Group("/api")
	api.Use(authMiddleware.AuthRequired())
	{
		personnel := api.Group("/personnel")
		{
			personnel.GET("", personnelHandler.GetPersonnel)
			personnel.GET("/:id", personnelHandler.GetPerson)
			personnel.GET("/:id/responsivas", responsivaHandler.GetPersonResponsivas)

			personnel.POST("", authMiddleware.OperatorRequired(), personnelHandler.SavePerson)
			personnel.PATCH("/:id/status", authMiddleware.OperatorRequired(), personnelHandler.UpdateStatus)
			personnel.DELETE("/:id", authMiddleware.AdminRequired(), personnelHandler.DeletePerson)
		}

		cards := api.Group("/cards")
		{
			cards.GET("", cardHandler.GetCards)
			cards.GET("/unassigned", cardHandler.GetUnassignedCards)

			cards.POST("", authMiddleware.OperatorRequired(), cardHandler.SaveCard)
			cards.PATCH("/:id/programming", authMiddleware.OperatorRequired(), cardHandler.UpdateProgrammingStatus)
			cards.PATCH("/:id/responsiva", authMiddleware.OperatorRequired(), cardHandler.UpdateResponsivaStatus)
			cards.PATCH("/:id/status", authMiddleware.OperatorRequired(), cardHandler.UpdateCardStatus)
			cards.POST("/:id/unassign", authMiddleware.OperatorRequired(), cardHandler.UnassignCard)
			cards.POST("/:id/deactivate", authMiddleware.OperatorRequired(), cardHandler.DeactivateCard)
			cards.DELETE("/:id", authMiddleware.AdminRequired(), cardHandler.DeleteCard)
		}

		tickets := api.Group("/tickets")
		{
			tickets.GET("", ticketHandler.GetTickets)

			tickets.POST("", authMiddleware.OperatorRequired(), ticketHandler.CreateTicket)
			tickets.PATCH("/:id/status", authMiddleware.OperatorRequired(), ticketHandler.UpdateTicketStatus)
			tickets.DELETE("/:id", authMiddleware.OperatorRequired(), ticketHandler.DeleteTicket)
		}

		responsivas := api.Group("/responsivas")
		{
			responsivas.POST("", authMiddleware.OperatorRequired(), responsivaHandler.SignResponsiva)
			responsivas.DELETE("/:id", authMiddleware.AdminRequired(), responsivaHandler.DeleteResponsiva)
		}

		history := api.Group("/history")
		{
			history.GET("", historyHandler.GetHistory)
			history.GET("/actions", historyHandler.GetActionNames)
			history.GET("/:type/:id", historyHandler.GetEntityHistory)

			history.GET("/stats/personnel", historyHandler.GetPersonnelStats)
			history.GET("/stats/cards", historyHandler.GetCardStats)
			history.GET("/stats/tickets", historyHandler.GetTicketStats)
			history.GET("/stats/time-series", historyHandler.GetActivityTimeSeries)
			history.GET("/stats/most-active-users", historyHandler.GetMostActiveUsers)
		}

		catalogs := api.Group("/catalogs")
		{
			catalogs.GET("/:kind", catalogHandler.GetCatalog)

			catalogs.POST("/:kind", authMiddleware.OperatorRequired(), catalogHandler.CreateCatalogItem)
			catalogs.PUT("/:kind/:id", authMiddleware.OperatorRequired(), catalogHandler.UpdateCatalogItem)
			catalogs.DELETE("/:kind/:id", authMiddleware.AdminRequired(), catalogHandler.DeleteCatalogItem)
		}

		profiles := api.Group("/profiles")
		profiles.Use(authMiddleware.AdminRequired())
		{
			profiles.GET("", profileHandler.GetProfiles)
			profiles.POST("", profileHandler.CreateProfile)
			profiles.PATCH("/:id/role", profileHandler.UpdateRole)
			profiles.DELETE("/:id", profileHandler.DeleteProfile)
		}

		exports := api.Group("/exports")
		{
			exports.GET("/personnel", exportHandler.ExportPersonnel)
			exports.GET("/history", exportHandler.ExportHistory)
		}
	}

	maintenance := router.Group("/maintenance")

	if cfg.APIKeyRequired {
		maintenance.Use(apiKeyMiddleware.APIKeyRequired())
	}

	{
		maintenance.POST("/sync-tickets", maintenanceHandler.SyncTickets)
	}

	return router
}
