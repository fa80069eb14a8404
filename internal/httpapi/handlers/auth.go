package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imrajeevnayan/GeminiClone/internal/auth"
	"github.com/imrajeevnayan/GeminiClone/internal/common"
)

const tokenTTL = 24 * time.Hour

func (h *Handler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Email == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email required")
		return
	}

	account, err := h.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		failFor(c, err)
		return
	}

	token, err := auth.SignToken(account.ID, h.Cfg.JWTSecret, tokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{"user": account, "token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	account, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		failFor(c, err)
		return
	}

	token, err := auth.SignToken(account.ID, h.Cfg.JWTSecret, tokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{"user": account, "token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	h.Auth.Logout(c.Request.Context())
	common.OK(c, nil)
}

func (h *Handler) Me(c *gin.Context) {
	account, ok := h.Auth.Current()
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40103, "no active session")
		return
	}
	common.OK(c, gin.H{"user": account, "isLoading": h.Auth.Loading()})
}
