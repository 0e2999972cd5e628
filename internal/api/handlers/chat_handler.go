// backend-go/internal/api/handlers/chat_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/assistant"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
)

type ChatHandler struct {
	service *service.DashboardService
}

func NewChatHandler(service *service.DashboardService) *ChatHandler {
	return &ChatHandler{service: service}
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question" binding:"required"`
	User      string `json:"user"`
	AdminView bool   `json:"adminView"`
	Year      string `json:"year"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Ask answers one data question. An empty sessionId starts a new session;
// a second question on a busy session is rejected instead of queued.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = assistant.NewSession()
	}

	st := domain.ViewState{
		User:      strings.TrimSpace(req.User),
		AdminView: req.AdminView,
		Year:      req.Year,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if st.Year == "" {
		st.Year = "All"
	}

	answer, err := h.service.Chat(c.Request.Context(), sessionID, st, req.Question)
	if err != nil {
		var busy *assistant.ErrBusy
		if errors.As(err, &busy) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "a question is already in flight for this session", "sessionId": sessionID})
			return
		}
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "answer": answer})
}
