package marketapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agrimarket/internal/order"
	"github.com/agriconnect/agrimarket/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiGET("/orders/myorders/:customerName", listMyOrders)
	webserver.ApiGET("/orders/:orderId", getOrder)
	webserver.ApiPUT("/orders/:orderId/status", updateOrderStatus)
}

type customerDetails struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	PreferredPickupTime string `json:"preferredPickupTime"`
	PaymentMethod       string `json:"paymentMethod"`
	SpecialInstructions string `json:"specialInstructions"`
}

type orderPayload struct {
	CustomerDetails customerDetails   `json:"customerDetails"`
	Products        []order.ItemInput `json:"products"`
	TotalAmount     float64           `json:"totalAmount"`
	Farmer          string            `json:"farmer"`
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}

	o, err := orderService.Create(c.Request().Context(), order.CreateInput{
		CustomerName:        payload.CustomerDetails.Name,
		CustomerEmail:       payload.CustomerDetails.Email,
		CustomerPhone:       payload.CustomerDetails.Phone,
		PreferredPickupTime: payload.CustomerDetails.PreferredPickupTime,
		PaymentMethod:       payload.CustomerDetails.PaymentMethod,
		SpecialInstructions: payload.CustomerDetails.SpecialInstructions,
		Items:               payload.Products,
		TotalAmount:         payload.TotalAmount,
		Farmer:              payload.Farmer,
	})
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			return fail(c, http.StatusBadRequest, "VALIDATION_FAILED",
				"Missing required fields: "+strings.Join(verr.Fields, ", "),
				echo.Map{"fields": verr.Fields})
		}
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error creating order", nil)
	}

	return created(c, echo.Map{
		"message": "Order placed successfully",
		"order":   o,
	})
}

func listMyOrders(c echo.Context) error {
	customerName := strings.TrimSpace(c.Param("customerName"))
	if customerName == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "customerName is required", nil)
	}
	rows, err := orderService.ListByCustomer(c.Request().Context(), customerName)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error fetching orders", nil)
	}
	return ok(c, rows)
}

func getOrder(c echo.Context) error {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	o, err := orderService.Get(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error fetching order", nil)
	}
	return ok(c, o)
}

type statusPayload struct {
	Status string `json:"status"`
}

func updateOrderStatus(c echo.Context) error {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}

	o, err := orderService.SetStatus(c.Request().Context(), orderID, payload.Status)
	if err != nil {
		var serr *order.InvalidStatusError
		switch {
		case errors.As(err, &serr):
			return fail(c, http.StatusBadRequest, "INVALID_STATUS", serr.Error(), nil)
		case errors.Is(err, order.ErrNotFound):
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		default:
			return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error updating order status", nil)
		}
	}
	return ok(c, echo.Map{
		"message": "Order status updated",
		"order":   o,
	})
}
