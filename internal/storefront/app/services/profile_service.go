package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/media"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type ProfileService struct {
	users core.IUserRepo
	media core.IMedia
	mylog logger.Logger
}

func NewProfileService(users core.IUserRepo, m core.IMedia, mylog logger.Logger) *ProfileService {
	return &ProfileService{users: users, media: m, mylog: mylog}
}

func (ps *ProfileService) Get(ctx context.Context, uid string) (models.User, error) {
	u, err := ps.users.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, core.ErrUserNotFound
	}
	if err != nil {
		ps.mylog.Action("get_profile").Error("Failed to load user", err, "user_id", uid)
		return models.User{}, fmt.Errorf("cannot load user: %w", err)
	}
	if u.Addresses == nil {
		u.Addresses = []models.Address{}
	}
	return u, nil
}

func (ps *ProfileService) Update(ctx context.Context, uid string, req dto.ProfileUpdate) (models.User, error) {
	mylog := ps.mylog.Action("update_profile")

	u, err := ps.Get(ctx, uid)
	if err != nil {
		return models.User{}, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > core.MaxNameLen {
			return models.User{}, core.ErrInvalidProfile
		}
		u.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if len(phone) > core.MaxPhoneLen {
			return models.User{}, core.ErrInvalidProfile
		}
		u.Phone = phone
	}

	updated, err := ps.users.UpdateProfile(ctx, u)
	if err != nil {
		mylog.Error("Failed to save profile", err, "user_id", uid)
		return models.User{}, fmt.Errorf("cannot save profile: %w", err)
	}
	mylog.Info("Profile updated", "user_id", uid)
	return updated, nil
}

// UploadPhoto stores a new profile photo and deletes the previous one.
func (ps *ProfileService) UploadPhoto(ctx context.Context, uid, contentType string, body io.Reader) (models.User, error) {
	mylog := ps.mylog.Action("upload_photo").With("user_id", uid)

	u, err := ps.Get(ctx, uid)
	if err != nil {
		return models.User{}, err
	}

	url, err := ps.media.Upload(ctx, media.FolderProfiles, contentType, body)
	if errors.Is(err, media.ErrUnsupportedType) {
		return models.User{}, core.ErrInvalidImage
	}
	if err != nil {
		mylog.Error("Failed to upload photo", err)
		return models.User{}, fmt.Errorf("cannot upload photo: %w", err)
	}

	old := u.PhotoURL
	u.PhotoURL = url
	updated, err := ps.users.UpdateProfile(ctx, u)
	if err != nil {
		mylog.Error("Failed to save photo url", err)
		if derr := ps.media.Delete(ctx, url); derr != nil {
			mylog.Warn("Failed to delete orphan photo", "url", url, "error", derr.Error())
		}
		return models.User{}, fmt.Errorf("cannot save profile: %w", err)
	}

	if old != "" {
		if err := ps.media.Delete(ctx, old); err != nil {
			mylog.Warn("Failed to delete previous photo", "url", old, "error", err.Error())
		}
	}
	mylog.Info("Profile photo replaced", "url", url)
	return updated, nil
}

func (ps *ProfileService) Addresses(ctx context.Context, uid string) ([]models.Address, error) {
	u, err := ps.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

func (ps *ProfileService) AddAddress(ctx context.Context, uid string, req dto.AddressRequest) ([]models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}
	return ps.editBook(ctx, uid, "add_address", func(book []models.Address) ([]models.Address, error) {
		return models.AddAddress(book, req.ToAddress(uuid.NewString())), nil
	})
}

func (ps *ProfileService) UpdateAddress(ctx context.Context, uid, id string, req dto.AddressRequest) ([]models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}
	return ps.editBook(ctx, uid, "update_address", func(book []models.Address) ([]models.Address, error) {
		return models.ReplaceAddress(book, req.ToAddress(id))
	})
}

func (ps *ProfileService) DeleteAddress(ctx context.Context, uid, id string) ([]models.Address, error) {
	return ps.editBook(ctx, uid, "delete_address", func(book []models.Address) ([]models.Address, error) {
		return models.RemoveAddress(book, id)
	})
}

func (ps *ProfileService) SetDefaultAddress(ctx context.Context, uid, id string) ([]models.Address, error) {
	return ps.editBook(ctx, uid, "set_default_address", func(book []models.Address) ([]models.Address, error) {
		return models.SetDefaultAddress(book, id)
	})
}

// editBook rewrites the whole address book in one statement, so the single
// default flag never goes through an intermediate state.
func (ps *ProfileService) editBook(ctx context.Context, uid, action string, fn func([]models.Address) ([]models.Address, error)) ([]models.Address, error) {
	mylog := ps.mylog.Action(action).With("user_id", uid)

	u, err := ps.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	book, err := fn(u.Addresses)
	if errors.Is(err, models.ErrAddressNotFound) {
		return nil, core.ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	updated, err := ps.users.UpdateAddresses(ctx, uid, book)
	if errors.Is(err, store.ErrNotFound) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		mylog.Error("Failed to save addresses", err)
		return nil, fmt.Errorf("cannot save addresses: %w", err)
	}
	mylog.Info("Address book updated", "addresses", len(updated.Addresses))
	if updated.Addresses == nil {
		return []models.Address{}, nil
	}
	return updated.Addresses, nil
}

func validateAddress(req dto.AddressRequest) error {
	if strings.TrimSpace(req.Address) == "" {
		return core.ErrAddressRequired
	}
	if len(req.Address) > core.MaxAddressLen || len(req.Name) > core.MaxNameLen {
		return core.ErrAddressTooLong
	}
	return nil
}
