package marketapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agrimarket/internal/cart"
	"github.com/agriconnect/agrimarket/internal/webserver"
)

func registerCartRoutes() {
	webserver.ApiGET("/users/:userId/cart", getCart)
	webserver.ApiPOST("/users/:userId/cart", addCartItem)
	webserver.ApiDELETE("/users/:userId/cart/:productId", removeCartItem)
	webserver.ApiDELETE("/users/:userId/cart", clearCart)
}

type cartItemPayload struct {
	ProductID int64 `json:"productId,string"`
	Quantity  int   `json:"quantity"`
}

func getCart(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	lines, err := cartService.GetCart(c.Request().Context(), userID)
	if err != nil {
		return cartError(c, err)
	}
	return ok(c, lines)
}

func addCartItem(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", nil)
	}
	if payload.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "productId is required", nil)
	}
	lines, err := cartService.AddItem(c.Request().Context(), userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return ok(c, lines)
}

func removeCartItem(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := cartService.RemoveItem(c.Request().Context(), userID, productID); err != nil {
		return cartError(c, err)
	}
	lines, err := cartService.GetCart(c.Request().Context(), userID)
	if err != nil {
		return cartError(c, err)
	}
	return ok(c, lines)
}

func clearCart(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if err := cartService.Clear(c.Request().Context(), userID); err != nil {
		return cartError(c, err)
	}
	return ok(c, echo.Map{"message": "Cart cleared"})
}

func cartError(c echo.Context, err error) error {
	if errors.Is(err, cart.ErrUserNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	}
	return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error handling cart", nil)
}
