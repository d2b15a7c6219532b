package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blueberry/internal/xpkg/models"
)

const appearanceDocID = "appearance"

// SettingsRepo keeps the single-document settings, each as a JSON row.
type SettingsRepo struct {
	db Conn
}

func NewSettingsRepo(db Conn) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Entreprise returns the stored settings laid over the defaults.
func (sr *SettingsRepo) Entreprise(ctx context.Context) (models.Entreprise, error) {
	e := models.DefaultEntreprise()
	err := sr.load(ctx, models.EntrepriseDocID, &e)
	return e, err
}

func (sr *SettingsRepo) SaveEntreprise(ctx context.Context, e models.Entreprise) error {
	return sr.save(ctx, models.EntrepriseDocID, e)
}

func (sr *SettingsRepo) Appearance(ctx context.Context) (models.Appearance, error) {
	a := models.DefaultAppearance()
	err := sr.load(ctx, appearanceDocID, &a)
	return a, err
}

func (sr *SettingsRepo) SaveAppearance(ctx context.Context, a models.Appearance) error {
	return sr.save(ctx, appearanceDocID, a)
}

func (sr *SettingsRepo) load(ctx context.Context, id string, into any) error {
	if err := alive(sr.db); err != nil {
		return err
	}
	var raw []byte
	err := sr.db.GetConn().QueryRow(ctx, `SELECT data FROM settings WHERE id = $1`, id).Scan(&raw)
	if err = translate(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load settings %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode settings %s: %w", id, err)
	}
	return nil
}

func (sr *SettingsRepo) save(ctx context.Context, id string, doc any) error {
	if err := alive(sr.db); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings %s: %w", id, err)
	}
	_, err = sr.db.GetConn().Exec(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = settings.data || EXCLUDED.data, updated_at = now()`,
		id, raw)
	if err != nil {
		return fmt.Errorf("save settings %s: %w", id, err)
	}
	return nil
}
