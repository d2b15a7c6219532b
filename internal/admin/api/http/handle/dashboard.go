package handle

import (
	"context"
	"net/http"
	"time"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	mylog            logger.Logger
}

func NewDashboardHandler(dashboardService *services.DashboardService, mylog logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, mylog: mylog}
}

func (dh *DashboardHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		d, err := dh.dashboardService.Dashboard(ctx)
		if err != nil {
			fail(w, dh.mylog.Action("dashboard"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, d)
	}
}

// Stats serves GET /admin/stats?range=day|week|month|year
func (dh *DashboardHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		s, err := dh.dashboardService.Stats(ctx, r.URL.Query().Get("range"))
		if err != nil {
			fail(w, dh.mylog.Action("stats"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, s)
	}
}
