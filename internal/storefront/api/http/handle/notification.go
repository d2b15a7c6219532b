package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/app/services"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	mylog               logger.Logger
}

func NewNotificationHandler(notificationService *services.NotificationService, mylog logger.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, mylog: mylog}
}

func (nh *NotificationHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		list, err := nh.notificationService.List(ctx, identity(r).UID)
		if err != nil {
			fail(w, nh.mylog.Action("list_notifications"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, list)
	}
}

func (nh *NotificationHandler) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := nh.notificationService.MarkRead(ctx, identity(r).UID, chi.URLParam(r, "id")); err != nil {
			fail(w, nh.mylog.Action("mark_read"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (nh *NotificationHandler) MarkAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		n, err := nh.notificationService.MarkAllRead(ctx, identity(r).UID)
		if err != nil {
			fail(w, nh.mylog.Action("mark_all_read"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]int64{"updated": n})
	}
}
