package marketapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/internal/webserver"
)

// Dashboard routes are mounted under /api/dashboard and require a bearer token.
func registerDashboardRoutes() {
	webserver.AuthGET("/products/:farmerName", dashboardProducts)
	webserver.AuthGET("/orders/:farmerName", dashboardOrders)
}

func dashboardProducts(c echo.Context) error {
	farmerName := strings.TrimSpace(c.Param("farmerName"))
	if farmerName == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "farmerName is required", nil)
	}
	var rows []domain.Product
	if err := GetDB(c).Where("farmer = ?", farmerName).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error fetching farmer products", nil)
	}
	return ok(c, rows)
}

func dashboardOrders(c echo.Context) error {
	farmerName := strings.TrimSpace(c.Param("farmerName"))
	if farmerName == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "farmerName is required", nil)
	}
	rows, err := orderService.ListByFarmer(c.Request().Context(), farmerName)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error fetching farmer orders", nil)
	}
	return ok(c, rows)
}
