package marketapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/app"
	"github.com/agriconnect/agrimarket/internal/auction"
	"github.com/agriconnect/agrimarket/internal/cart"
	"github.com/agriconnect/agrimarket/internal/order"
	"github.com/agriconnect/agrimarket/internal/webserver"
)

var (
	bidService   *auction.BiddingService
	orderService *order.LifecycleService
	cartService  *cart.Service
)

// Register builds the services and registers every marketplace route.
func Register(a app.AppContext) {
	bidService = auction.NewBiddingService(auction.NewGormProductRepository(a.DB()))
	orderService = order.NewLifecycleService(order.NewGormRepository(a.DB()), a.Bus())
	cartService = cart.NewService(cart.NewGormRepository(a.DB()))

	registerAuthRoutes()
	registerProductRoutes()
	registerBidRoutes()
	registerCartRoutes()
	registerOrderRoutes()
	registerDashboardRoutes()
	registerToolRoutes()
}

// GetApp returns the application context of the current request
func GetApp(c echo.Context) app.AppContext {
	return webserver.AppCtx(c)
}

// GetDB returns the request-scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.AppCtx(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := echo.Map{"code": code, "message": message}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
