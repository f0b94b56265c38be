package handler

import (
	"net/http"
	"strconv"
	"strings"
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

// ProductRequest defines the structure for product creation/update
// requests. OldPrice and Tags arrive as raw strings: OldPrice coerces
// fail-soft to NULL, Tags is a free-text comma-separated list.
type ProductRequest struct {
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	OldPrice   string  `json:"old_price"`
	Image      string  `json:"image"`
	CategoryID uint    `json:"category_id" validate:"required"`
	Tags       string  `json:"tags"`
}

// coerceOldPrice maps the submitted old_price field to its stored value.
// Empty input and parse failures both become NULL; this is deliberate
// fail-soft behavior, never a validation error.
func coerceOldPrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// splitTags normalizes a comma-separated tag string: split, trim, drop
// empty tokens, dedupe. Order of the result is not significant.
func splitTags(raw string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		names = append(names, token)
	}
	return names
}

// replaceTags resolves each name to a Tag row (fetch or create) and
// replaces the product's entire tag set with the result. An empty name
// list clears the set.
func replaceTags(tx *gorm.DB, product *model.Product, names []string) error {
	if len(names) == 0 {
		return tx.Model(product).Association("Tags").Clear()
	}
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		var tag model.Tag
		if err := tx.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	return tx.Model(product).Association("Tags").Replace(tags)
}

// ListProducts retrieves the principal's products with tags and category
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	result := database.GetDB().
		Preload("Tags").
		Preload("Category").
		Where("user_id = ?", principal.UserID).
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved successfully",
		zap.Int("count", len(products)),
		zap.Uint("user_id", principal.UserID))
	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a single product by its public id
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	pid := c.Param("pid")

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var product model.Product
	result := database.GetDB().
		Preload("Tags").
		Preload("Category").
		Where("pid = ? AND user_id = ?", pid, principal.UserID).
		First(&product)
	if result.Error != nil {
		log.Error("Product not found",
			zap.String("pid", pid),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct creates a product owned by the principal. The product
// row and its resolved tag set are written in one transaction.
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return err
	}

	product := model.Product{
		Name:       req.Name,
		Price:      req.Price,
		OldPrice:   coerceOldPrice(req.OldPrice),
		Image:      req.Image,
		CategoryID: req.CategoryID,
		UserID:     principal.UserID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		// Save the product first to assign a primary key, then attach tags
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return replaceTags(tx, &product, splitTags(req.Tags))
	})
	if err != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created successfully",
		zap.String("pid", product.PID),
		zap.String("name", product.Name),
		zap.Uint("user_id", principal.UserID))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies the same coercion and tag logic to an existing
// product located by public id. An unknown pid is a visible 404, never a
// silent no-op.
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	pid := c.Param("pid")

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("pid", pid),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return err
	}

	var product model.Product
	result := database.GetDB().Where("pid = ? AND user_id = ?", pid, principal.UserID).First(&product)
	if result.Error != nil {
		log.Error("Product not found for update",
			zap.String("pid", pid),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	product.Name = req.Name
	product.Price = req.Price
	product.OldPrice = coerceOldPrice(req.OldPrice)
	product.Image = req.Image
	product.CategoryID = req.CategoryID

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		// Save covers the NULL old_price case; Updates would skip zero values
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return replaceTags(tx, &product, splitTags(req.Tags))
	})
	if err != nil {
		log.Error("Failed to update product",
			zap.String("pid", pid),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated successfully",
		zap.String("pid", pid),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product by public id. Historical order line
// items survive with their product reference set to NULL, matching the
// SET NULL schema constraint; the null-out runs in the same transaction
// for databases where the constraint is not enforced.
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	pid := c.Param("pid")

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var product model.Product
	result := database.GetDB().Where("pid = ? AND user_id = ?", pid, principal.UserID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found for deletion", zap.String("pid", pid))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CartOrderProducts{}).
			Where("product_id = ?", product.ID).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		log.Error("Failed to delete product",
			zap.String("pid", pid),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted successfully", zap.String("pid", pid))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// ListCategories retrieves all categories
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	var categories []model.Category
	result := database.GetDB().Find(&categories)
	if result.Error != nil {
		log.Error("Failed to retrieve categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}
