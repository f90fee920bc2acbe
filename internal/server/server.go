package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/landseek/backend/internal/config"
	"github.com/landseek/backend/internal/handler"
	appmw "github.com/landseek/backend/internal/middleware"
	"github.com/landseek/backend/internal/repository"
	"github.com/landseek/backend/internal/service"
	"github.com/landseek/backend/internal/ws"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	repos []interface{ SetDB(*gorm.DB) }
}

func New(db *gorm.DB, cfg *config.Config, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			return u.Scheme == "https", nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	watchRepo := repository.NewWatchRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	registry := ws.NewRegistry()
	relay := ws.NewRelay(registry, log)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	msgSvc := service.NewMessageService(msgRepo, relay)
	convSvc := service.NewConversationService(msgRepo, listingRepo, userRepo, msgSvc)
	notifSvc := service.NewNotificationService(notifRepo, relay, log)
	watchSvc := service.NewWatchService(watchRepo, listingRepo, notifSvc)
	fanoutSvc := service.NewFanoutService(listingRepo, watchRepo, notifRepo, relay, log)
	listingSvc := service.NewListingService(listingRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	msgHandler := handler.NewMessageHandler(msgSvc)
	convHandler := handler.NewConversationHandler(convSvc, msgSvc)
	listingHandler := handler.NewListingHandler(listingSvc, fanoutSvc)
	watchHandler := handler.NewWatchHandler(watchSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	authMw := appmw.NewAuthMiddleware(authSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"ok":     "true",
			"online": registry.Online(),
		})
	})

	e.GET("/ws", ws.Serve(registry, msgSvc, authSvc, log))

	api := e.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)
	api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
	api.GET("/me/listings", listingHandler.ListMine, authMw.RequireAuth)
	api.POST("/listings/:id/status", listingHandler.SetStatus, authMw.RequireAuth)

	api.POST("/listings/:id/watch", watchHandler.Save, authMw.RequireAuth)
	api.DELETE("/listings/:id/watch", watchHandler.Unsave, authMw.RequireAuth)
	api.GET("/me/watched", watchHandler.ListMine, authMw.RequireAuth)

	api.POST("/messages", msgHandler.Send, authMw.RequireAuth)
	api.GET("/messages/unread", msgHandler.Unread, authMw.RequireAuth)
	api.POST("/messages/read", msgHandler.MarkAllRead, authMw.RequireAuth)

	api.GET("/conversations", convHandler.List, authMw.RequireAuth)
	api.GET("/listings/:id/messages", convHandler.Fetch, authMw.RequireAuth)
	api.POST("/listings/:id/read", convHandler.MarkRead, authMw.RequireAuth)
	api.GET("/listings/:id/threads", convHandler.Threads, authMw.RequireAuth)

	api.GET("/notifications", notifHandler.List, authMw.RequireAuth)
	api.POST("/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)

	return &Server{
		e: e,
		repos: []interface{ SetDB(*gorm.DB) }{
			userRepo, listingRepo, msgRepo, watchRepo, notifRepo,
		},
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects the database connection into every repository once it is
// available; the server can accept requests before that and answers with
// ErrDBNotReady until then.
func (s *Server) SetDB(db *gorm.DB) {
	for _, repo := range s.repos {
		repo.SetDB(db)
	}
}
