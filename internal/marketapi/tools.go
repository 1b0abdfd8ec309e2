package marketapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/internal/webserver"
	"github.com/agriconnect/agrimarket/pkg/common"
)

func registerToolRoutes() {
	webserver.ApiGET("/tools", listTools)
	webserver.ApiGET("/tools/:id", getTool)
	webserver.ApiPOST("/tools", createTool)
}

// toolView is a tool listing with the owner's name resolved for display.
type toolView struct {
	domain.Tool
	ListedByName string `json:"listedByName"`
}

func toolViews(db echo.Context, rows []domain.Tool) []toolView {
	ids := make([]int64, 0, len(rows))
	for _, t := range rows {
		ids = append(ids, t.ListedBy)
	}
	names := map[int64]string{}
	if len(ids) > 0 {
		var users []domain.User
		if err := GetDB(db).Where("id in ?", ids).Find(&users).Error; err == nil {
			for _, u := range users {
				names[u.ID] = u.Name
			}
		}
	}
	views := make([]toolView, 0, len(rows))
	for _, t := range rows {
		views = append(views, toolView{Tool: t, ListedByName: names[t.ListedBy]})
	}
	return views
}

func listTools(c echo.Context) error {
	var rows []domain.Tool
	if err := GetDB(c).Limit(listingLimit).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error fetching tools", nil)
	}
	return ok(c, toolViews(c, rows))
}

func getTool(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid tool ID", nil)
	}
	var t domain.Tool
	if err := GetDB(c).First(&t, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Tool not found", nil)
	}
	views := toolViews(c, []domain.Tool{t})
	return ok(c, views[0])
}

type toolPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageUrl    string  `json:"imageUrl"`
	PricePerDay float64 `json:"pricePerDay"`
	Location    string  `json:"location"`
	ListedBy    int64   `json:"listedBy,string"`
}

func createTool(c echo.Context) error {
	var payload toolPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse tool", nil)
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", payload.Name},
		{"description", payload.Description},
		{"category", payload.Category},
		{"imageUrl", payload.ImageUrl},
		{"location", payload.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED",
			"Missing required fields: "+strings.Join(missing, ", "),
			echo.Map{"fields": missing})
	}
	if !common.InSlice(payload.Category, domain.ToolCategories) {
		return fail(c, http.StatusBadRequest, "INVALID_CATEGORY",
			"Invalid category. Must be one of: "+strings.Join(domain.ToolCategories, ", "), nil)
	}

	t := domain.Tool{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
		Category:    payload.Category,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
		PricePerDay: payload.PricePerDay,
		Location:    strings.TrimSpace(payload.Location),
		Available:   true,
		ListedBy:    payload.ListedBy,
	}
	if err := GetDB(c).Create(&t).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error creating tool", nil)
	}
	return created(c, t)
}
