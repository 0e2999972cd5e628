// internal/api/api_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/feed"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/gviz"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
)

type staticSource struct {
	name  string
	table *gviz.Table
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(ctx context.Context) (feed.Result, error) {
	return feed.Result{Table: s.table, Raw: []byte("{}")}, nil
}

func table(labels []string, rows ...[]any) *gviz.Table {
	t := &gviz.Table{}
	for _, l := range labels {
		t.Cols = append(t.Cols, gviz.Column{Label: l})
	}
	for _, r := range rows {
		row := gviz.Row{C: make([]*gviz.Cell, len(labels))}
		for i, v := range r {
			if v != nil {
				row.C[i] = &gviz.Cell{V: v}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	loader := &feed.Loader{
		Live: &staticSource{name: feed.FeedLive, table: table(
			[]string{"Status", "ORDER FORWARDING DATE", "Order Number", "Client", "Country", "Products Code", "Export Value", "Qty", "FY"},
			[]any{"PLAN", "10-Jun-24", "BM-0001-I", "Acme Trading", "India", "P-100", "1200", "10", "24-25"},
		)},
		Master: &staticSource{name: feed.FeedMaster, table: table(
			[]string{"Product", "Products Code", "Customer Name", "Country"},
			[]any{"Teak Chair", "P-100", "Acme Trading", "India"},
		)},
		Credentials: &staticSource{name: feed.FeedCredentials, table: table(
			[]string{"", ""},
			[]any{"Acme Trading", "secret"},
		)},
	}

	svc := service.NewDashboardService(service.Deps{Loader: loader})
	require.NoError(t, svc.Refresh(context.Background()))

	return NewRouter(svc, []string{"*"})
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(testRouter(t), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetDashboard(t *testing.T) {
	w := get(testRouter(t), "/api/v1/dashboard?user=Acme%20Trading&year=24-25")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		KPIs struct {
			TotalOrders int     `json:"totalOrders"`
			TotalValue  float64 `json:"totalValue"`
		} `json:"kpis"`
		FiscalYears []string `json:"fiscalYears"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.KPIs.TotalOrders)
	assert.Equal(t, 1200.0, body.KPIs.TotalValue)
	assert.Equal(t, "All", body.FiscalYears[0])
}

func TestGetOrders(t *testing.T) {
	w := get(testRouter(t), "/api/v1/orders?user=Acme%20Trading&year=All")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalItems int `json:"totalItems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalItems)
}

func TestGetTracking(t *testing.T) {
	w := get(testRouter(t), "/api/v1/orders/BM-0001-I/tracking")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OrderNo string `json:"orderNo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BM-0001-I", body.OrderNo)
}

func TestLogin(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"name":"Acme Trading","key":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"name":"Acme Trading","key":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoDataReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewDashboardService(service.Deps{Loader: &feed.Loader{}})
	router := NewRouter(svc, nil)

	w := get(router, "/api/v1/dashboard")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChatWithoutAssistant(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"question":"how many orders?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
