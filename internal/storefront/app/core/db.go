package core

import (
	"context"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"blueberry/internal/xpkg/models"
)

type IDB interface {
	Close() error
	IsAlive() error
	GetConn() *pgxpool.Pool
}

type IProductRepo interface {
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
}

type ICategoryRepo interface {
	List(ctx context.Context, visibleOnly bool) ([]models.Category, error)
}

type IOrderRepo interface {
	Create(ctx context.Context, o models.Order, changedBy string) (models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, error)
	FindPending(ctx context.Context, userID string) (models.Order, error)
	Update(ctx context.Context, id string, u models.OrderUpdate, changedBy string) (models.Order, models.Order, []models.StatusChange, error)
	History(ctx context.Context, id string) ([]models.StatusChange, error)
}

type IUserRepo interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	Get(ctx context.Context, uid string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, u models.User) (models.User, error)
	UpdateAddresses(ctx context.Context, uid string, book []models.Address) (models.User, error)
	UpdatePassword(ctx context.Context, uid, hash string) error
}

type INotificationRepo interface {
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type ISettingsRepo interface {
	Entreprise(ctx context.Context) (models.Entreprise, error)
	Appearance(ctx context.Context) (models.Appearance, error)
}

// ISessionStore keeps carts and plateaux between requests.
type ISessionStore interface {
	Items(ctx context.Context, key string) ([]models.LineItem, error)
	SaveItems(ctx context.Context, key string, items []models.LineItem) error
	Delete(ctx context.Context, key string) error
}

type ITokenStore interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PutResetToken(ctx context.Context, token, uid string, ttl time.Duration) error
	TakeResetToken(ctx context.Context, token string) (string, error)
}

type IMedia interface {
	Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

type IPublisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close() error
}
