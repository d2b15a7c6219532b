package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/app/services"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

type AuthHandler struct {
	authService *services.AuthService
	mylog       logger.Logger
}

func NewAuthHandler(authService *services.AuthService, mylog logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, mylog: mylog}
}

func (ah *AuthHandler) SignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SignUpRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		res, err := ah.authService.SignUp(ctx, req)
		if err != nil {
			fail(w, ah.mylog.Action("sign_up"), err)
			return
		}
		httpx.JSON(w, http.StatusCreated, res)
	}
}

func (ah *AuthHandler) SignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SignInRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		res, err := ah.authService.SignIn(ctx, req)
		if err != nil {
			fail(w, ah.mylog.Action("sign_in"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := ah.authService.SignOut(ctx, identity(r)); err != nil {
			fail(w, ah.mylog.Action("sign_out"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (ah *AuthHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		u, err := ah.authService.Me(ctx, identity(r))
		if err != nil {
			fail(w, ah.mylog.Action("me"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, u)
	}
}

func (ah *AuthHandler) RequestPasswordReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.PasswordResetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := ah.authService.RequestPasswordReset(ctx, req); err != nil {
			fail(w, ah.mylog.Action("password_reset_request"), err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}

func (ah *AuthHandler) ConfirmPasswordReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.PasswordResetConfirm
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := ah.authService.ConfirmPasswordReset(ctx, req); err != nil {
			fail(w, ah.mylog.Action("password_reset_confirm"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type ProfileHandler struct {
	profileService *services.ProfileService
	mylog          logger.Logger
}

func NewProfileHandler(profileService *services.ProfileService, mylog logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, mylog: mylog}
}

func (ph *ProfileHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		u, err := ph.profileService.Get(ctx, identity(r).UID)
		if err != nil {
			fail(w, ph.mylog.Action("get_profile"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, u)
	}
}

func (ph *ProfileHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ProfileUpdate
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		u, err := ph.profileService.Update(ctx, identity(r).UID, req)
		if err != nil {
			fail(w, ph.mylog.Action("update_profile"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, u)
	}
}

func (ph *ProfileHandler) UploadPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, contentType, err := imageUpload(w, r, "file")
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		u, err := ph.profileService.UploadPhoto(ctx, identity(r).UID, contentType, file)
		if err != nil {
			fail(w, ph.mylog.Action("upload_photo"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, u)
	}
}

func (ph *ProfileHandler) Addresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		book, err := ph.profileService.Addresses(ctx, identity(r).UID)
		if err != nil {
			fail(w, ph.mylog.Action("list_addresses"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, book)
	}
}

func (ph *ProfileHandler) AddAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AddressRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		book, err := ph.profileService.AddAddress(ctx, identity(r).UID, req)
		if err != nil {
			fail(w, ph.mylog.Action("add_address"), err)
			return
		}
		httpx.JSON(w, http.StatusCreated, book)
	}
}

func (ph *ProfileHandler) UpdateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AddressRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		book, err := ph.profileService.UpdateAddress(ctx, identity(r).UID, chi.URLParam(r, "id"), req)
		if err != nil {
			fail(w, ph.mylog.Action("update_address"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, book)
	}
}

func (ph *ProfileHandler) DeleteAddress() http.HandlerFunc {
	return ph.bookOp("delete_address", ph.profileService.DeleteAddress)
}

func (ph *ProfileHandler) SetDefaultAddress() http.HandlerFunc {
	return ph.bookOp("set_default_address", ph.profileService.SetDefaultAddress)
}

func (ph *ProfileHandler) bookOp(action string, op func(ctx context.Context, uid, id string) ([]models.Address, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		book, err := op(ctx, identity(r).UID, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, ph.mylog.Action(action), err)
			return
		}
		httpx.JSON(w, http.StatusOK, book)
	}
}
