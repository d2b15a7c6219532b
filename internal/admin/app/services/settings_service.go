package services

import (
	"context"
	"errors"
	"fmt"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/media"
	"blueberry/internal/xpkg/models"
)

const (
	BrandingLogo    = "logo"
	BrandingFavicon = "favicon"
)

type SettingsService struct {
	settings core.ISettingsRepo
	media    core.IMedia
	mylog    logger.Logger
}

func NewSettingsService(settings core.ISettingsRepo, m core.IMedia, mylog logger.Logger) *SettingsService {
	return &SettingsService{settings: settings, media: m, mylog: mylog}
}

func (ss *SettingsService) Entreprise(ctx context.Context) (models.Entreprise, error) {
	e, err := ss.settings.Entreprise(ctx)
	if err != nil {
		ss.mylog.Action("get_entreprise").Error("Failed to load entreprise settings", err)
		return models.Entreprise{}, fmt.Errorf("cannot load entreprise settings: %w", err)
	}
	return e, nil
}

// SaveEntreprise merges the non-empty fields of patch into the stored
// document.
func (ss *SettingsService) SaveEntreprise(ctx context.Context, patch models.Entreprise) (models.Entreprise, error) {
	current, err := ss.Entreprise(ctx)
	if err != nil {
		return models.Entreprise{}, err
	}
	merged := current.Merge(patch)
	if err := ss.settings.SaveEntreprise(ctx, merged); err != nil {
		ss.mylog.Action("save_entreprise").Error("Failed to save entreprise settings", err)
		return models.Entreprise{}, fmt.Errorf("cannot save entreprise settings: %w", err)
	}
	return ss.Entreprise(ctx)
}

func (ss *SettingsService) Appearance(ctx context.Context) (models.Appearance, error) {
	a, err := ss.settings.Appearance(ctx)
	if err != nil {
		ss.mylog.Action("get_appearance").Error("Failed to load appearance", err)
		return models.Appearance{}, fmt.Errorf("cannot load appearance: %w", err)
	}
	return a, nil
}

func (ss *SettingsService) SaveAppearance(ctx context.Context, patch models.Appearance) (models.Appearance, error) {
	current, err := ss.Appearance(ctx)
	if err != nil {
		return models.Appearance{}, err
	}
	merged := current.Merge(patch)
	if err := ss.settings.SaveAppearance(ctx, merged); err != nil {
		ss.mylog.Action("save_appearance").Error("Failed to save appearance", err)
		return models.Appearance{}, fmt.Errorf("cannot save appearance: %w", err)
	}
	return ss.Appearance(ctx)
}

// UploadBranding stores a new logo or favicon and deletes the one it
// replaces.
func (ss *SettingsService) UploadBranding(ctx context.Context, kind string, img dto.Image) (models.Appearance, error) {
	mylog := ss.mylog.Action("upload_branding").With("kind", kind)

	if kind != BrandingLogo && kind != BrandingFavicon {
		return models.Appearance{}, core.ErrBrandingKind
	}
	current, err := ss.Appearance(ctx)
	if err != nil {
		return models.Appearance{}, err
	}

	url, err := ss.media.Upload(ctx, media.FolderBranding, img.ContentType, img.Body)
	if errors.Is(err, media.ErrUnsupportedType) {
		return models.Appearance{}, core.ErrInvalidImage
	}
	if err != nil {
		mylog.Error("Failed to upload branding image", err)
		return models.Appearance{}, fmt.Errorf("cannot upload image: %w", err)
	}

	next := current
	old := current.Logo
	if kind == BrandingLogo {
		next.Logo = url
	} else {
		old = current.Favicon
		next.Favicon = url
	}
	if err := ss.settings.SaveAppearance(ctx, next); err != nil {
		mylog.Error("Failed to save appearance", err)
		if derr := ss.media.Delete(ctx, url); derr != nil {
			mylog.Warn("Failed to delete orphan image", "url", url, "error", derr.Error())
		}
		return models.Appearance{}, fmt.Errorf("cannot save appearance: %w", err)
	}
	if old != "" {
		if err := ss.media.Delete(ctx, old); err != nil {
			mylog.Warn("Failed to delete previous image", "url", old, "error", err.Error())
		}
	}
	mylog.Info("Branding image replaced", "url", url)
	return ss.Appearance(ctx)
}
