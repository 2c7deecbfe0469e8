package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medreps/internal/middleware"
	"medreps/internal/models"
)

type loginRequest struct {
	Code string `json:"code" binding:"notblank"`
}

type loginResponse struct {
	Success     bool        `json:"success"`
	Role        models.Role `json:"role,omitempty"`
	UserCode    string      `json:"userCode,omitempty"`
	UserName    string      `json:"userName,omitempty"`
	Areas       []string    `json:"areas,omitempty"`
	Message     string      `json:"message,omitempty"`
	AccessToken string      `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time  `json:"expiresAt,omitempty"`
	SessionID   string      `json:"sessionId,omitempty"`
}

// Login answers 200 for unknown codes too; the body carries success=false.
func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.auth.Authenticate(c.Request.Context(), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := loginResponse{
		Success:     result.Success,
		Role:        result.Role,
		UserCode:    result.UserCode,
		UserName:    result.UserName,
		Areas:       result.Areas,
		Message:     result.Message,
		AccessToken: result.AccessToken,
		SessionID:   result.SessionID,
	}
	if result.Success {
		resp.ExpiresAt = &result.ExpiresAt
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) Logout(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), session.ID); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type identityResponse struct {
	Code  string      `json:"code"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
	Areas []string    `json:"areas,omitempty"`
}

func (h HandlerSet) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	session, _ := middleware.CurrentSession(c)

	c.JSON(http.StatusOK, gin.H{
		"user": identityResponse{
			Code:  identity.Code,
			Name:  identity.Name,
			Role:  identity.Role,
			Areas: identity.Areas,
		},
		"session": session,
	})
}

// ActiveSession returns the first active session for a code, or null.
// Representatives may only ask about themselves.
func (h HandlerSet) ActiveSession(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	code := c.Param("userCode")
	if !identity.IsManager() && code != identity.Code {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	session, err := h.auth.ActiveSession(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h HandlerSet) Representatives(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"representatives": h.auth.Representatives()})
}
