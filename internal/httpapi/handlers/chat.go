package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrajeevnayan/GeminiClone/internal/chat"
	"github.com/imrajeevnayan/GeminiClone/internal/common"
)

type createConversationReq struct {
	Title string `json:"title"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	var req createConversationReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	id := h.Convs.Create(c.Request.Context(), req.Title)
	common.OK(c, gin.H{"conversation_id": id})
}

func (h *Handler) ListConversations(c *gin.Context) {
	common.OK(c, gin.H{
		"conversations":           h.Convs.List(),
		"current_conversation_id": h.Convs.CurrentID(),
	})
}

type selectConversationReq struct {
	ID string `json:"id" binding:"required"`
}

func (h *Handler) SelectConversation(c *gin.Context) {
	var req selectConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	h.ChatSvc.SelectConversation(req.ID)
	common.OK(c, nil)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	h.ChatSvc.DeleteConversation(c.Request.Context(), c.Param("id"))
	common.OK(c, nil)
}

func (h *Handler) ListMessages(c *gin.Context) {
	conv, ok := h.Convs.Get(c.Param("id"))
	if !ok {
		common.Fail(c, http.StatusNotFound, 40402, "conversation not found")
		return
	}
	common.OK(c, gin.H{"conversation": conv})
}

type sendMessageReq struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	conversationID, err := h.ChatSvc.SendMessage(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrConversationBusy) {
			common.Fail(c, http.StatusTooManyRequests, 42901, err.Error())
			return
		}
		failFor(c, err)
		return
	}

	conv, _ := h.Convs.Get(conversationID)
	common.OK(c, gin.H{
		"conversation_id": conversationID,
		"conversation":    conv,
	})
}

func (h *Handler) GetState(c *gin.Context) {
	common.OK(c, h.ChatSvc.State())
}
