package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrajeevnayan/GeminiClone/internal/auth"
	"github.com/imrajeevnayan/GeminiClone/internal/chat"
	"github.com/imrajeevnayan/GeminiClone/internal/common"
	"github.com/imrajeevnayan/GeminiClone/internal/config"
	"github.com/imrajeevnayan/GeminiClone/internal/conversation"
)

type Handler struct {
	Cfg     config.Config
	Auth    *auth.Store
	Convs   *conversation.Store
	ChatSvc *chat.Service
}

func NewHandler(cfg config.Config, authStore *auth.Store, convs *conversation.Store, chatSvc *chat.Service) *Handler {
	return &Handler{
		Cfg:     cfg,
		Auth:    authStore,
		Convs:   convs,
		ChatSvc: chatSvc,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// failFor maps the store/generator error taxonomy onto HTTP statuses.
func failFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		common.Fail(c, http.StatusBadRequest, 10010, err.Error())
	case errors.Is(err, common.ErrConflict):
		common.Fail(c, http.StatusConflict, 10011, err.Error())
	case errors.Is(err, common.ErrNotFound):
		common.Fail(c, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, common.ErrConfiguration):
		common.Fail(c, http.StatusServiceUnavailable, 50301, err.Error())
	default:
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}
