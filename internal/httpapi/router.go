package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/imrajeevnayan/GeminiClone/internal/auth"
	"github.com/imrajeevnayan/GeminiClone/internal/chat"
	"github.com/imrajeevnayan/GeminiClone/internal/common"
	"github.com/imrajeevnayan/GeminiClone/internal/config"
	"github.com/imrajeevnayan/GeminiClone/internal/conversation"
	"github.com/imrajeevnayan/GeminiClone/internal/httpapi/handlers"
	"github.com/imrajeevnayan/GeminiClone/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, authStore *auth.Store, convs *conversation.Store, chatSvc *chat.Service) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(cfg, authStore, convs, chatSvc)

	r.GET("/ping", h.Ping)

	// auth
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me)

	// conversations and chat
	authGroup.GET("/state", h.GetState)
	authGroup.POST("/conversations", h.CreateConversation)
	authGroup.GET("/conversations", h.ListConversations)
	authGroup.PUT("/conversations/current", h.SelectConversation)
	authGroup.GET("/conversations/:id", h.ListMessages)
	authGroup.DELETE("/conversations/:id", h.DeleteConversation)
	authGroup.POST("/chat/messages", h.SendMessage)

	return r
}
