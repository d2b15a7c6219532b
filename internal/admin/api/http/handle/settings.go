package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
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

func (sh *SettingsHandler) SaveEntreprise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.Entreprise
		if err := httpx.Decode(r, &patch); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		e, err := sh.settingsService.SaveEntreprise(ctx, patch)
		if err != nil {
			fail(w, sh.mylog.Action("save_entreprise"), err)
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

func (sh *SettingsHandler) SaveAppearance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.Appearance
		if err := httpx.Decode(r, &patch); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		a, err := sh.settingsService.SaveAppearance(ctx, patch)
		if err != nil {
			fail(w, sh.mylog.Action("save_appearance"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, a)
	}
}

// UploadBranding serves POST /admin/settings/appearance/{kind} with a
// multipart "file".
func (sh *SettingsHandler) UploadBranding() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(w, r); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		img, closer, err := imageFile(r, "file")
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		if img == nil {
			httpx.Error(w, http.StatusBadRequest, errors.New(`missing file field "file"`))
			return
		}
		defer closer.Close()

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		a, err := sh.settingsService.UploadBranding(ctx, chi.URLParam(r, "kind"), *img)
		if err != nil {
			fail(w, sh.mylog.Action("upload_branding"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, a)
	}
}
