package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
)

type UserHandler struct {
	userService *services.UserService
	mylog       logger.Logger
}

func NewUserHandler(userService *services.UserService, mylog logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, mylog: mylog}
}

func (uh *UserHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		users, err := uh.userService.List(ctx, r.URL.Query().Get("role"))
		if err != nil {
			fail(w, uh.mylog.Action("list_users"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, users)
	}
}

func (uh *UserHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		u, err := uh.userService.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, uh.mylog.Action("get_user"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, u)
	}
}

func (uh *UserHandler) ChangeRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RoleRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		u, err := uh.userService.ChangeRole(ctx, identity(r).UID, chi.URLParam(r, "id"), req.Role)
		if err != nil {
			fail(w, uh.mylog.Action("change_role"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, u)
	}
}

func (uh *UserHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := uh.userService.Delete(ctx, identity(r).UID, chi.URLParam(r, "id")); err != nil {
			fail(w, uh.mylog.Action("delete_user"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
