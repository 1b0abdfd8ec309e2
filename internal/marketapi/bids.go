package marketapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agrimarket/internal/auction"
	"github.com/agriconnect/agrimarket/internal/webserver"
)

func registerBidRoutes() {
	webserver.ApiPOST("/products/:id/bids", placeBid)
}

type bidPayload struct {
	UserID int64   `json:"userId,string"`
	Amount float64 `json:"amount"`
}

func placeBid(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var payload bidPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bid", nil)
	}
	if payload.UserID == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "userId is required", nil)
	}

	product, err := bidService.PlaceBid(c.Request().Context(), productID, payload.UserID, payload.Amount)
	if err != nil {
		var tooLow *auction.BidTooLowError
		switch {
		case errors.Is(err, auction.ErrNotFound):
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Auction product not found.", nil)
		case errors.Is(err, auction.ErrAuctionInactive):
			return fail(c, http.StatusBadRequest, "AUCTION_INACTIVE", "Auction is not currently active.", nil)
		case errors.As(err, &tooLow):
			return fail(c, http.StatusBadRequest, "BID_TOO_LOW", tooLow.Error(), nil)
		default:
			return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error placing bid", nil)
		}
	}
	return ok(c, product)
}
