package marketapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/internal/webserver"
	"github.com/agriconnect/agrimarket/pkg/common"
)

const listingLimit = 40

type productPayload struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ImageUrl         string     `json:"imageUrl"`
	Location         string     `json:"location"`
	Farmer           string     `json:"farmer"`
	Category         string     `json:"category"`
	BuyType          string     `json:"buyType"`
	Price            float64    `json:"price"`
	AuctionStartTime *time.Time `json:"auctionStartTime"`
	AuctionEndTime   *time.Time `json:"auctionEndTime"`
	StartingBid      float64    `json:"startingBid"`
	InStock          *bool      `json:"inStock"`
	Organic          bool       `json:"organic"`
}

// registerProductRoutes registers product listing endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/animal-products", listAnimalProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Limit(listingLimit).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error fetching products", nil)
	}
	return ok(c, rows)
}

func listAnimalProducts(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Where("category = ?", "Animal").Limit(listingLimit).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error fetching animal products", nil)
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Preload("Bids", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&p, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// validateProductPayload checks required fields and enumerations; it returns
// the list of missing fields for the caller's error detail.
func validateProductPayload(payload *productPayload) (missing []string, code, message string) {
	required := map[string]string{
		"name":        payload.Name,
		"description": payload.Description,
		"imageUrl":    payload.ImageUrl,
		"location":    payload.Location,
		"category":    payload.Category,
		"farmer":      payload.Farmer,
		"buyType":     payload.BuyType,
	}
	// deterministic order for the error detail
	for _, field := range []string{"name", "description", "imageUrl", "location", "category", "farmer", "buyType"} {
		if strings.TrimSpace(required[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return missing, "VALIDATION_FAILED", "Missing required fields: " + strings.Join(missing, ", ")
	}

	if !common.InSlice(payload.Category, domain.Categories) {
		return nil, "INVALID_CATEGORY", "Invalid category. Must be one of: " + strings.Join(domain.Categories, ", ")
	}
	if !common.InSlice(payload.BuyType, domain.BuyTypes) {
		return nil, "INVALID_BUY_TYPE", "Invalid buy type. Must be one of: " + strings.Join(domain.BuyTypes, ", ")
	}
	return nil, "", ""
}

func productFromPayload(payload *productPayload) *domain.Product {
	p := &domain.Product{
		Name:             strings.TrimSpace(payload.Name),
		Description:      strings.TrimSpace(payload.Description),
		ImageUrl:         strings.TrimSpace(payload.ImageUrl),
		Location:         strings.TrimSpace(payload.Location),
		Farmer:           strings.TrimSpace(payload.Farmer),
		Category:         payload.Category,
		BuyType:          payload.BuyType,
		Price:            payload.Price,
		AuctionStartTime: payload.AuctionStartTime,
		AuctionEndTime:   payload.AuctionEndTime,
		StartingBid:      payload.StartingBid,
		Organic:          payload.Organic,
		InStock:          true,
	}
	if payload.InStock != nil {
		p.InStock = *payload.InStock
	}
	if p.BuyType == domain.BuyTypeAuction {
		// auctions open at the starting bid
		p.CurrentPrice = payload.StartingBid
	}
	return p
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	if missing, code, msg := validateProductPayload(&payload); code != "" {
		var detail interface{}
		if len(missing) > 0 {
			detail = echo.Map{"fields": missing}
		}
		return fail(c, http.StatusBadRequest, code, msg, detail)
	}

	p := productFromPayload(&payload)
	if err := domain.ValidateProductForBuyType(p); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	}

	p.ID = common.UUIDint64()
	if err := GetDB(c).Create(p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error creating product", nil)
	}
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).First(&p, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error updating product", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if missing, code, msg := validateProductPayload(&payload); code != "" {
		var detail interface{}
		if len(missing) > 0 {
			detail = echo.Map{"fields": missing}
		}
		return fail(c, http.StatusBadRequest, code, msg, detail)
	}

	next := productFromPayload(&payload)
	if err := domain.ValidateProductForBuyType(next); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	}

	// auction progress is owned by the bidding service, never overwritten here
	next.ID = p.ID
	next.CurrentPrice = p.CurrentPrice
	next.HighestBidder = p.HighestBidder
	if next.BuyType == domain.BuyTypeAuction && p.CurrentPrice == 0 {
		next.CurrentPrice = next.StartingBid
	}
	next.CreatedAt = p.CreatedAt
	next.UpdatedAt = time.Now()

	if err := GetDB(c).Save(next).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error updating product", nil)
	}
	return ok(c, next)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	res := GetDB(c).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error deleting product", nil)
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, echo.Map{"message": "Product removed successfully"})
}
