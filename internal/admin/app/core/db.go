package core

import (
	"context"
	"io"

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
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) (models.Product, error)
	ToggleAvailable(ctx context.Context, id string) (models.Product, error)
	ToggleSpecial(ctx context.Context, id string) (models.Product, error)
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

type ICategoryRepo interface {
	List(ctx context.Context, visibleOnly bool) ([]models.Category, error)
	Get(ctx context.Context, id string) (models.Category, error)
	Create(ctx context.Context, c models.Category) (models.Category, error)
	Update(ctx context.Context, c models.Category) (models.Category, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type IOrderRepo interface {
	Get(ctx context.Context, id string) (models.Order, error)
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, id string, u models.OrderUpdate, changedBy string) (models.Order, models.Order, []models.StatusChange, error)
	History(ctx context.Context, id string) ([]models.StatusChange, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error)
}

type IUserRepo interface {
	List(ctx context.Context, role models.Role) ([]models.User, error)
	Get(ctx context.Context, uid string) (models.User, error)
	UpdateRole(ctx context.Context, uid string, role models.Role) (models.User, error)
	Delete(ctx context.Context, uid string) error
}

type ISettingsRepo interface {
	Entreprise(ctx context.Context) (models.Entreprise, error)
	SaveEntreprise(ctx context.Context, e models.Entreprise) error
	Appearance(ctx context.Context) (models.Appearance, error)
	SaveAppearance(ctx context.Context, a models.Appearance) error
}

type IMedia interface {
	Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

type IPublisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close() error
}
