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
)

type BasketHandler struct {
	basketService *services.BasketService
	mylog         logger.Logger
}

func NewBasketHandler(basketService *services.BasketService, mylog logger.Logger) *BasketHandler {
	return &BasketHandler{basketService: basketService, mylog: mylog}
}

type cartOp func(ctx context.Context, owner services.Owner, id string) (dto.CartView, error)

type plateauOp func(ctx context.Context, owner services.Owner, id string) (dto.PlateauView, error)

// cartItem runs op on the {id} of the route and answers with the cart.
func (bh *BasketHandler) cartItem(action string, op cartOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := op(ctx, ownerOf(r), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, bh.mylog.Action(action), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (bh *BasketHandler) plateauItem(action string, op plateauOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := op(ctx, ownerOf(r), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, bh.mylog.Action(action), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (bh *BasketHandler) Cart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := bh.basketService.Cart(ctx, ownerOf(r))
		if err != nil {
			fail(w, bh.mylog.Action("get_cart"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (bh *BasketHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ref dto.ProductRef
		if err := httpx.Decode(r, &ref); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := bh.basketService.AddToCart(ctx, ownerOf(r), ref.ProductID)
		if err != nil {
			fail(w, bh.mylog.Action("add_to_cart"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (bh *BasketHandler) SetCartQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.QuantityRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		bh.cartItem("set_cart_quantity", func(ctx context.Context, owner services.Owner, id string) (dto.CartView, error) {
			return bh.basketService.SetCartQuantity(ctx, owner, id, req.Quantity)
		})(w, r)
	}
}

func (bh *BasketHandler) IncreaseCartItem() http.HandlerFunc {
	return bh.cartItem("increase_cart_item", bh.basketService.IncreaseCartItem)
}

func (bh *BasketHandler) DecreaseCartItem() http.HandlerFunc {
	return bh.cartItem("decrease_cart_item", bh.basketService.DecreaseCartItem)
}

func (bh *BasketHandler) RemoveFromCart() http.HandlerFunc {
	return bh.cartItem("remove_from_cart", bh.basketService.RemoveFromCart)
}

func (bh *BasketHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := bh.basketService.ClearCart(ctx, ownerOf(r)); err != nil {
			fail(w, bh.mylog.Action("clear_cart"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (bh *BasketHandler) Plateau() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := bh.basketService.Plateau(ctx, ownerOf(r))
		if err != nil {
			fail(w, bh.mylog.Action("get_plateau"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (bh *BasketHandler) AddToPlateau() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ref dto.ProductRef
		if err := httpx.Decode(r, &ref); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := bh.basketService.AddToPlateau(ctx, ownerOf(r), ref.ProductID)
		if err != nil {
			fail(w, bh.mylog.Action("add_to_plateau"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (bh *BasketHandler) IncreasePlateauItem() http.HandlerFunc {
	return bh.plateauItem("increase_plateau_item", bh.basketService.IncreasePlateauItem)
}

func (bh *BasketHandler) DecreasePlateauItem() http.HandlerFunc {
	return bh.plateauItem("decrease_plateau_item", bh.basketService.DecreasePlateauItem)
}

func (bh *BasketHandler) RemoveFromPlateau() http.HandlerFunc {
	return bh.plateauItem("remove_from_plateau", bh.basketService.RemoveFromPlateau)
}

func (bh *BasketHandler) ClearPlateau() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := bh.basketService.ClearPlateau(ctx, ownerOf(r)); err != nil {
			fail(w, bh.mylog.Action("clear_plateau"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PlateauToCart converts the plateau into a menu line of the cart.
func (bh *BasketHandler) PlateauToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := bh.basketService.PlateauToCart(ctx, ownerOf(r))
		if err != nil {
			fail(w, bh.mylog.Action("plateau_to_cart"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}
