package handle

import (
	"context"
	"net/http"
	"time"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/app/services"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
	mylog           logger.Logger
}

func NewSettingsHandler(settingsService *services.SettingsService, mylog logger.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, mylog: mylog}
}

func (sh *SettingsHandler) Entreprise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		e, err := sh.settingsService.Entreprise(ctx)
		if err != nil {
			fail(w, sh.mylog.Action("get_entreprise"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, e)
	}
}

func (sh *SettingsHandler) Appearance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		a, err := sh.settingsService.Appearance(ctx)
		if err != nil {
			fail(w, sh.mylog.Action("get_appearance"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, a)
	}
}
