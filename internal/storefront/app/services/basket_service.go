package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/basket"
	"blueberry/internal/xpkg/cache"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

// Owner identifies whose cart and plateau a request works on: the signed-in
// user when there is one, otherwise the anonymous browser session.
type Owner struct {
	UserID    string
	SessionID string
}

func (o Owner) Key() (string, error) {
	switch {
	case o.UserID != "":
		return "user:" + o.UserID, nil
	case o.SessionID != "":
		return o.anonymousKey(), nil
	default:
		return "", core.ErrNoSession
	}
}

func (o Owner) anonymousKey() string {
	return "session:" + o.SessionID
}

type BasketService struct {
	products core.IProductRepo
	orders   core.IOrderRepo
	session  core.ISessionStore
	mylog    logger.Logger
	now      func() time.Time
}

func NewBasketService(products core.IProductRepo, orders core.IOrderRepo, session core.ISessionStore, mylog logger.Logger) *BasketService {
	return &BasketService{
		products: products,
		orders:   orders,
		session:  session,
		mylog:    mylog,
		now:      time.Now,
	}
}

// Cart returns the owner's cart. A signed-in user with an empty cart and an
// order still awaiting confirmation sees that order's items instead, and
// PendingOrderID points checkout at it.
func (bs *BasketService) Cart(ctx context.Context, owner Owner) (dto.CartView, error) {
	cart, key, err := bs.loadCart(ctx, owner)
	if err != nil {
		return dto.CartView{}, err
	}
	if !cart.IsEmpty() || owner.UserID == "" {
		return dto.NewCartView(cart), nil
	}

	pending, err := bs.orders.FindPending(ctx, owner.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return dto.NewCartView(cart), nil
	}
	if err != nil {
		bs.mylog.Action("rehydrate_cart").Error("Failed to look up pending order", err, "user_id", owner.UserID)
		return dto.NewCartView(cart), nil
	}

	bs.mylog.Action("rehydrate_cart").Info("Cart restored from pending order", "user_id", owner.UserID, "order_id", pending.ID)
	if err := bs.session.Delete(ctx, key); err != nil {
		bs.mylog.Action("rehydrate_cart").Warn("Failed to drop cached cart", "key", key, "error", err.Error())
	}
	view := dto.NewCartView(basket.NewCart(pending.Items))
	view.PendingOrderID = pending.ID
	return view, nil
}

func (bs *BasketService) AddToCart(ctx context.Context, owner Owner, productID string) (dto.CartView, error) {
	p, err := bs.orderable(ctx, productID)
	if err != nil {
		return dto.CartView{}, err
	}
	return bs.mutateCart(ctx, owner, "add_to_cart", func(c *basket.Cart) error {
		c.Add(p)
		return nil
	})
}

func (bs *BasketService) SetCartQuantity(ctx context.Context, owner Owner, itemID string, qty int) (dto.CartView, error) {
	if qty < 0 || qty > core.MaxQuantity {
		return dto.CartView{}, core.ErrInvalidQuantity
	}
	return bs.mutateCart(ctx, owner, "set_cart_quantity", func(c *basket.Cart) error {
		return found(c.SetQuantity(itemID, qty))
	})
}

func (bs *BasketService) IncreaseCartItem(ctx context.Context, owner Owner, itemID string) (dto.CartView, error) {
	return bs.mutateCart(ctx, owner, "increase_cart_item", func(c *basket.Cart) error {
		return found(c.Increase(itemID))
	})
}

func (bs *BasketService) DecreaseCartItem(ctx context.Context, owner Owner, itemID string) (dto.CartView, error) {
	return bs.mutateCart(ctx, owner, "decrease_cart_item", func(c *basket.Cart) error {
		return found(c.Decrease(itemID))
	})
}

func (bs *BasketService) RemoveFromCart(ctx context.Context, owner Owner, itemID string) (dto.CartView, error) {
	return bs.mutateCart(ctx, owner, "remove_from_cart", func(c *basket.Cart) error {
		return found(c.Remove(itemID))
	})
}

func (bs *BasketService) ClearCart(ctx context.Context, owner Owner) error {
	return bs.clear(ctx, owner, cache.CartKey)
}

func (bs *BasketService) Plateau(ctx context.Context, owner Owner) (dto.PlateauView, error) {
	p, _, err := bs.loadPlateau(ctx, owner)
	if err != nil {
		return dto.PlateauView{}, err
	}
	return dto.NewPlateauView(p), nil
}

func (bs *BasketService) AddToPlateau(ctx context.Context, owner Owner, productID string) (dto.PlateauView, error) {
	product, err := bs.orderable(ctx, productID)
	if err != nil {
		return dto.PlateauView{}, err
	}
	return bs.mutatePlateau(ctx, owner, "add_to_plateau", func(p *basket.Plateau) error {
		p.Add(product)
		return nil
	})
}

func (bs *BasketService) IncreasePlateauItem(ctx context.Context, owner Owner, itemID string) (dto.PlateauView, error) {
	return bs.mutatePlateau(ctx, owner, "increase_plateau_item", func(p *basket.Plateau) error {
		return found(p.Increase(itemID))
	})
}

func (bs *BasketService) DecreasePlateauItem(ctx context.Context, owner Owner, itemID string) (dto.PlateauView, error) {
	return bs.mutatePlateau(ctx, owner, "decrease_plateau_item", func(p *basket.Plateau) error {
		return found(p.Decrease(itemID))
	})
}

func (bs *BasketService) RemoveFromPlateau(ctx context.Context, owner Owner, itemID string) (dto.PlateauView, error) {
	return bs.mutatePlateau(ctx, owner, "remove_from_plateau", func(p *basket.Plateau) error {
		return found(p.Remove(itemID))
	})
}

// ClearPlateau empties the plateau and drops its stored key.
func (bs *BasketService) ClearPlateau(ctx context.Context, owner Owner) error {
	return bs.clear(ctx, owner, cache.PlateauKey)
}

// clear drops the owner's key, and the anonymous one a signed-in user may
// still carry so it is not adopted later.
func (bs *BasketService) clear(ctx context.Context, owner Owner, keyOf func(string) string) error {
	key, err := owner.Key()
	if err != nil {
		return err
	}
	if err := bs.session.Delete(ctx, keyOf(key)); err != nil {
		return err
	}
	if owner.UserID != "" && owner.SessionID != "" {
		return bs.session.Delete(ctx, keyOf(owner.anonymousKey()))
	}
	return nil
}

// PlateauToCart turns the plateau into one menu line, appends it to the
// cart and clears the plateau.
func (bs *BasketService) PlateauToCart(ctx context.Context, owner Owner) (dto.CartView, error) {
	mylog := bs.mylog.Action("plateau_to_cart")

	plateau, plateauKey, err := bs.loadPlateau(ctx, owner)
	if err != nil {
		return dto.CartView{}, err
	}
	menu, err := plateau.ToMenu(bs.now())
	if errors.Is(err, basket.ErrEmptyPlateau) {
		return dto.CartView{}, core.ErrEmptyPlateau
	}
	if err != nil {
		return dto.CartView{}, err
	}

	cart, cartKey, err := bs.loadCart(ctx, owner)
	if err != nil {
		return dto.CartView{}, err
	}
	cart.AddLine(menu)
	if err := bs.session.SaveItems(ctx, cartKey, cart.Items); err != nil {
		mylog.Error("Failed to save cart", err)
		return dto.CartView{}, fmt.Errorf("cannot save cart: %w", err)
	}
	if err := bs.session.Delete(ctx, plateauKey); err != nil {
		mylog.Error("Failed to clear plateau", err)
		return dto.CartView{}, fmt.Errorf("cannot clear plateau: %w", err)
	}

	mylog.Info("Plateau added to cart", "menu_id", menu.ID, "price", menu.Price, "items", len(menu.Items))
	return dto.NewCartView(cart), nil
}

// RemoveFromCartByIDs drops the given lines from the owner's cart.
func (bs *BasketService) RemoveFromCartByIDs(ctx context.Context, owner Owner, ids []string) error {
	_, err := bs.mutateCart(ctx, owner, "remove_confirmed_items", func(c *basket.Cart) error {
		c.RemoveIDs(ids)
		return nil
	})
	return err
}

func (bs *BasketService) orderable(ctx context.Context, productID string) (models.Product, error) {
	p, err := bs.products.Get(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, core.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("cannot get product: %w", err)
	}
	if !p.Available {
		return models.Product{}, core.ErrProductUnavailable
	}
	return p, nil
}

func (bs *BasketService) loadCart(ctx context.Context, owner Owner) (*basket.Cart, string, error) {
	key, err := owner.Key()
	if err != nil {
		return nil, "", err
	}
	key = cache.CartKey(key)
	items, err := bs.adopt(ctx, owner, key, cache.CartKey)
	if err != nil {
		return nil, "", fmt.Errorf("cannot load cart: %w", err)
	}
	return basket.NewCart(items), key, nil
}

func (bs *BasketService) loadPlateau(ctx context.Context, owner Owner) (*basket.Plateau, string, error) {
	key, err := owner.Key()
	if err != nil {
		return nil, "", err
	}
	key = cache.PlateauKey(key)
	items, err := bs.adopt(ctx, owner, key, cache.PlateauKey)
	if err != nil {
		return nil, "", fmt.Errorf("cannot load plateau: %w", err)
	}
	return basket.NewPlateau(items), key, nil
}

// adopt loads the items stored under key. When a signed-in user still sends
// the session header, whatever was built anonymously under that session is
// merged into the user's list first and the session key is dropped.
func (bs *BasketService) adopt(ctx context.Context, owner Owner, key string, keyOf func(string) string) ([]models.LineItem, error) {
	items, err := bs.session.Items(ctx, key)
	if err != nil {
		return nil, err
	}
	if owner.UserID == "" || owner.SessionID == "" {
		return items, nil
	}

	sessionKey := keyOf(owner.anonymousKey())
	anonymous, err := bs.session.Items(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(anonymous) == 0 {
		return items, nil
	}

	mylog := bs.mylog.Action("adopt_session_items").With("user_id", owner.UserID, "key", key)
	items = basket.Merge(items, anonymous)
	if err := bs.session.SaveItems(ctx, key, items); err != nil {
		mylog.Error("Failed to save merged items", err)
		return nil, err
	}
	if err := bs.session.Delete(ctx, sessionKey); err != nil {
		mylog.Warn("Failed to drop session items", "session_key", sessionKey, "error", err.Error())
	}
	mylog.Info("Session items moved to user", "items", len(anonymous))
	return items, nil
}

func (bs *BasketService) mutateCart(ctx context.Context, owner Owner, action string, fn func(*basket.Cart) error) (dto.CartView, error) {
	mylog := bs.mylog.Action(action)
	cart, key, err := bs.loadCart(ctx, owner)
	if err != nil {
		return dto.CartView{}, err
	}
	if err := fn(cart); err != nil {
		return dto.CartView{}, err
	}
	if err := bs.session.SaveItems(ctx, key, cart.Items); err != nil {
		mylog.Error("Failed to save cart", err, "key", key)
		return dto.CartView{}, fmt.Errorf("cannot save cart: %w", err)
	}
	mylog.Debug("Cart updated", "key", key, "items", len(cart.Items), "subtotal", cart.Subtotal())
	return dto.NewCartView(cart), nil
}

func (bs *BasketService) mutatePlateau(ctx context.Context, owner Owner, action string, fn func(*basket.Plateau) error) (dto.PlateauView, error) {
	mylog := bs.mylog.Action(action)
	plateau, key, err := bs.loadPlateau(ctx, owner)
	if err != nil {
		return dto.PlateauView{}, err
	}
	if err := fn(plateau); err != nil {
		return dto.PlateauView{}, err
	}
	if err := bs.session.SaveItems(ctx, key, plateau.Items); err != nil {
		mylog.Error("Failed to save plateau", err, "key", key)
		return dto.PlateauView{}, fmt.Errorf("cannot save plateau: %w", err)
	}
	mylog.Debug("Plateau updated", "key", key, "items", len(plateau.Items))
	return dto.NewPlateauView(plateau), nil
}

func found(ok bool) error {
	if !ok {
		return core.ErrItemNotFound
	}
	return nil
}
