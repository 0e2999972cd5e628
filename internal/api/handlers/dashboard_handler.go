// backend-go/internal/api/handlers/dashboard_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/auth"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// parseViewState reads the common dashboard scope from query params.
// Filter params accept both repeated values and comma-separated lists:
//
//	?status=PLAN&status=SHIPPED
//	?status=PLAN,SHIPPED
//
// A status value prefixed "kpi:" marks it as coming from a KPI card, which
// switches its matching from display-label prefix to exact raw token.
func (h *DashboardHandler) parseViewState(c *gin.Context) domain.ViewState {
	st := domain.ViewState{
		User:      strings.TrimSpace(c.Query("user")),
		AdminView: c.Query("adminView") == "true",
		Year:      c.DefaultQuery("year", "All"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Search:    strings.TrimSpace(c.Query("search")),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		st.Page = page
	}

	for _, v := range queryValues(c, "status") {
		f := domain.Filter{Type: domain.FilterStatus, Value: v}
		if rest, ok := strings.CutPrefix(v, "kpi:"); ok {
			f.Value = rest
			f.Source = "kpi"
		}
		st.Filters = st.Filters.Toggle(f)
	}
	for _, v := range queryValues(c, "country") {
		st.Filters = st.Filters.Toggle(domain.Filter{Type: domain.FilterCountry, Value: v})
	}
	for _, v := range queryValues(c, "month") {
		st.Filters = st.Filters.Toggle(domain.Filter{Type: domain.FilterMonth, Value: v})
	}

	return st
}

// queryValues flattens repeated and comma-separated query params.
func queryValues(c *gin.Context, key string) []string {
	raw := c.QueryArray(key)
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func parseDrill(c *gin.Context) domain.DrillDown {
	baseOrder := strings.TrimSpace(c.Query("baseOrder"))
	subOrder := strings.TrimSpace(c.Query("subOrder"))

	switch {
	case subOrder != "":
		hasSubOrders := c.DefaultQuery("hasSubOrders", "true") == "true"
		return domain.Products(baseOrder, subOrder, hasSubOrders)
	case baseOrder != "":
		return domain.SubOrders(baseOrder)
	default:
		return domain.AllOrders()
	}
}

type loginRequest struct {
	Name string `json:"name" binding:"required"`
	Key  string `json:"key" binding:"required"`
}

func (h *DashboardHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and key are required"})
		return
	}

	user, err := h.service.Login(req.Name, req.Key)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	st := h.parseViewState(c)

	view, err := h.service.Dashboard(c.Request.Context(), st)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) GetOrders(c *gin.Context) {
	st := h.parseViewState(c)
	st.Drill = parseDrill(c)

	page, err := h.service.Orders(c.Request.Context(), st)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DashboardHandler) GetTracking(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("orderNo"))
	if orderNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order number is required"})
		return
	}

	timeline, err := h.service.Tracking(c.Request.Context(), orderNo)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, timeline)
}

func (h *DashboardHandler) GetNeverBought(c *gin.Context) {
	st := h.parseViewState(c)

	products, err := h.service.NeverBought(c.Request.Context(), st)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	last, err := h.service.LastUpdate()
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "refreshed", "lastUpdate": last})
}

func serviceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoData) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard data is not loaded yet"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
