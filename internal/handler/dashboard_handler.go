package handler

import (
	"net/http"
	"time"

	"storefront-service/internal/middleware"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newCustomersLimit is how many recently registered accounts the
// dashboard shows, newest first.
const newCustomersLimit = 6

// orderRevenue sums order prices, scoped to one user when userID is
// non-nil. Zero orders yield 0, not an error.
func orderRevenue(db *gorm.DB, userID *uint) (float64, error) {
	query := db.Model(&model.CartOrder{}).Select("COALESCE(SUM(price), 0)")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var total float64
	if err := query.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// monthlyRevenue sums the orders placed in the current calendar month.
// The filter matches on month number only; orders from the same month of
// a different year are included.
func monthlyRevenue(orders []model.CartOrder, now time.Time) float64 {
	var total float64
	for _, order := range orders {
		if order.OrderDate.Month() == now.Month() {
			total += order.Price
		}
	}
	return total
}

// Dashboard produces the principal-scoped reporting view: own revenue,
// current-month revenue, own products and orders, all categories, and
// the newest registered accounts.
func Dashboard(c echo.Context) error {
	log := logger.FromContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()
	defer prometheus.TrackDBOperation("query")(time.Now())

	revenue, err := orderRevenue(db, &principal.UserID)
	if err != nil {
		log.Error("Failed to aggregate revenue", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	var orders []model.CartOrder
	if err := db.Where("user_id = ?", principal.UserID).Find(&orders).Error; err != nil {
		log.Error("Failed to load orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	var products []model.Product
	if err := db.Preload("Tags").Preload("Category").
		Where("user_id = ?", principal.UserID).Find(&products).Error; err != nil {
		log.Error("Failed to load products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	var categories []model.Category
	if err := db.Find(&categories).Error; err != nil {
		log.Error("Failed to load categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	var newCustomers []model.User
	if err := db.Order("id DESC").Limit(newCustomersLimit).Find(&newCustomers).Error; err != nil {
		log.Error("Failed to load new customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	log.Info("Dashboard loaded",
		zap.Uint("user_id", principal.UserID),
		zap.Float64("revenue", revenue),
		zap.Int("orders", len(orders)),
		zap.Int("products", len(products)))

	return c.JSON(http.StatusOK, echo.Map{
		"revenue":            revenue,
		"monthly_revenue":    monthlyRevenue(orders, time.Now()),
		"total_orders_count": len(orders),
		"latest_orders":      orders,
		"all_products":       products,
		"all_categories":     categories,
		"new_customers":      newCustomers,
	})
}

// DashboardStatistics produces the same aggregates system-wide. Only
// superuser principals may access it.
func DashboardStatistics(c echo.Context) error {
	log := logger.FromContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if !principal.Superuser {
		log.Warn("Non-superuser requested statistics",
			zap.Uint("user_id", principal.UserID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "superuser access required"})
	}

	db := database.GetDB()
	defer prometheus.TrackDBOperation("query")(time.Now())

	revenue, err := orderRevenue(db, nil)
	if err != nil {
		log.Error("Failed to aggregate revenue", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load statistics"})
	}

	var orders []model.CartOrder
	if err := db.Find(&orders).Error; err != nil {
		log.Error("Failed to load orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load statistics"})
	}

	var products []model.Product
	if err := db.Preload("Tags").Preload("Category").Find(&products).Error; err != nil {
		log.Error("Failed to load products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load statistics"})
	}

	var categories []model.Category
	if err := db.Find(&categories).Error; err != nil {
		log.Error("Failed to load categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load statistics"})
	}

	var newCustomers []model.User
	if err := db.Order("id DESC").Limit(newCustomersLimit).Find(&newCustomers).Error; err != nil {
		log.Error("Failed to load new customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load statistics"})
	}

	log.Info("Statistics loaded",
		zap.Float64("revenue", revenue),
		zap.Int("orders", len(orders)))

	return c.JSON(http.StatusOK, echo.Map{
		"revenue":            revenue,
		"monthly_revenue":    monthlyRevenue(orders, time.Now()),
		"total_orders_count": len(orders),
		"latest_orders":      orders,
		"all_products":       products,
		"all_categories":     categories,
		"new_customers":      newCustomers,
	})
}
