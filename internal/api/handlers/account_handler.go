// backend-go/internal/api/handlers/account_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/account"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
)

type AccountHandler struct {
	service *service.DashboardService
}

func NewAccountHandler(service *service.DashboardService) *AccountHandler {
	return &AccountHandler{service: service}
}

func parseAccountQuery(c *gin.Context) account.Query {
	return account.Query{
		User:      strings.TrimSpace(c.Query("user")),
		AdminView: c.Query("adminView") == "true",
		Country:   strings.TrimSpace(c.Query("country")),
		Client:    strings.TrimSpace(c.Query("client")),
		Search:    strings.TrimSpace(c.Query("search")),
	}
}

// GetSummary returns the payment rows, totals and filter options in one
// payload; the account page renders all of it together.
func (h *AccountHandler) GetSummary(c *gin.Context) {
	q := parseAccountQuery(c)

	summary, err := h.service.Account(c.Request.Context(), q)
	if err != nil {
		serviceError(c, err)
		return
	}

	countries, clients, err := h.service.AccountFilters(c.Request.Context(), q)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":   summary,
		"countries": countries,
		"clients":   clients,
	})
}
