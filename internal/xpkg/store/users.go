package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blueberry/internal/xpkg/models"
)

const userColumns = `uid, name, email, phone, role, photo_url, addresses, password_hash, created_at, updated_at`

type UserRepo struct {
	db Conn
}

func NewUserRepo(db Conn) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u         models.User
		addresses []byte
	)
	err := row.Scan(&u.UID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.PhotoURL, &addresses,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	if err := json.Unmarshal(addresses, &u.Addresses); err != nil {
		return models.User{}, fmt.Errorf("decode addresses of user %s: %w", u.UID, err)
	}
	return u, nil
}

func (ur *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := alive(ur.db); err != nil {
		return models.User{}, err
	}
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	if u.Addresses == nil {
		u.Addresses = []models.Address{}
	}
	addresses, err := json.Marshal(u.Addresses)
	if err != nil {
		return models.User{}, fmt.Errorf("encode addresses: %w", err)
	}
	now := time.Now().UTC()
	row := ur.db.GetConn().QueryRow(ctx, `
		INSERT INTO users (uid, name, email, phone, role, photo_url, addresses, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+userColumns,
		u.UID, u.Name, strings.ToLower(u.Email), u.Phone, u.Role, u.PhotoURL, addresses, u.PasswordHash, now)
	return scanUser(row)
}

func (ur *UserRepo) Get(ctx context.Context, uid string) (models.User, error) {
	if err := alive(ur.db); err != nil {
		return models.User{}, err
	}
	return scanUser(ur.db.GetConn().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if err := alive(ur.db); err != nil {
		return models.User{}, err
	}
	return scanUser(ur.db.GetConn().QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))))
}

// List returns users, newest first, optionally restricted to one role.
func (ur *UserRepo) List(ctx context.Context, role models.Role) ([]models.User, error) {
	if err := alive(ur.db); err != nil {
		return nil, err
	}
	var w where
	if role != "" {
		w.add("role = $%d", role)
	}
	rows, err := ur.db.GetConn().Query(ctx,
		`SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		return scanUser(row)
	})
}

// UpdateProfile writes the editable profile fields.
func (ur *UserRepo) UpdateProfile(ctx context.Context, u models.User) (models.User, error) {
	if err := alive(ur.db); err != nil {
		return models.User{}, err
	}
	return scanUser(ur.db.GetConn().QueryRow(ctx, `
		UPDATE users SET name = $2, phone = $3, photo_url = $4, updated_at = now()
		WHERE uid = $1
		RETURNING `+userColumns,
		u.UID, u.Name, u.Phone, u.PhotoURL))
}

func (ur *UserRepo) UpdateAddresses(ctx context.Context, uid string, book []models.Address) (models.User, error) {
	if err := alive(ur.db); err != nil {
		return models.User{}, err
	}
	if book == nil {
		book = []models.Address{}
	}
	raw, err := json.Marshal(book)
	if err != nil {
		return models.User{}, fmt.Errorf("encode addresses: %w", err)
	}
	return scanUser(ur.db.GetConn().QueryRow(ctx, `
		UPDATE users SET addresses = $2, updated_at = now()
		WHERE uid = $1
		RETURNING `+userColumns, uid, raw))
}

func (ur *UserRepo) UpdateRole(ctx context.Context, uid string, role models.Role) (models.User, error) {
	if err := alive(ur.db); err != nil {
		return models.User{}, err
	}
	return scanUser(ur.db.GetConn().QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE uid = $1
		RETURNING `+userColumns, uid, role))
}

func (ur *UserRepo) UpdatePassword(ctx context.Context, uid, hash string) error {
	if err := alive(ur.db); err != nil {
		return err
	}
	tag, err := ur.db.GetConn().Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE uid = $1`, uid, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (ur *UserRepo) Delete(ctx context.Context, uid string) error {
	if err := alive(ur.db); err != nil {
		return err
	}
	tag, err := ur.db.GetConn().Exec(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
