// backend-go/internal/api/handlers/calendar_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/calendar"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
)

type CalendarHandler struct {
	service *service.DashboardService
}

func NewCalendarHandler(service *service.DashboardService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

func parseCalendarQuery(c *gin.Context) calendar.Query {
	q := calendar.Query{
		User:      strings.TrimSpace(c.Query("user")),
		AdminView: c.Query("adminView") == "true",
		Year:      c.Query("year"),
		Country:   strings.TrimSpace(c.Query("country")),
		Client:    strings.TrimSpace(c.Query("client")),
		Month:     calendar.NoMonth,
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	// Months are zero-indexed, January is 0.
	if raw := c.Query("month"); raw != "" {
		if month, err := strconv.Atoi(raw); err == nil && month >= 0 && month <= 11 {
			q.Month = month
		}
	}

	return q
}

func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	q := parseCalendarQuery(c)

	view, err := h.service.Calendar(c.Request.Context(), q)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
