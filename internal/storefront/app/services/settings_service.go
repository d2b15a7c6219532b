package services

import (
	"context"
	"fmt"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

type SettingsService struct {
	settings core.ISettingsRepo
	mylog    logger.Logger
}

func NewSettingsService(settings core.ISettingsRepo, mylog logger.Logger) *SettingsService {
	return &SettingsService{settings: settings, mylog: mylog}
}

func (ss *SettingsService) Entreprise(ctx context.Context) (models.Entreprise, error) {
	e, err := ss.settings.Entreprise(ctx)
	if err != nil {
		ss.mylog.Action("get_entreprise").Error("Failed to load entreprise settings", err)
		return models.Entreprise{}, fmt.Errorf("cannot load entreprise settings: %w", err)
	}
	return e, nil
}

func (ss *SettingsService) Appearance(ctx context.Context) (models.Appearance, error) {
	a, err := ss.settings.Appearance(ctx)
	if err != nil {
		ss.mylog.Action("get_appearance").Error("Failed to load appearance", err)
		return models.Appearance{}, fmt.Errorf("cannot load appearance: %w", err)
	}
	return a, nil
}
