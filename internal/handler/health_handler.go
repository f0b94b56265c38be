package handler

import (
	"net/http"

	"storefront-service/pkg/database"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness and database reachability
func Health(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	} else {
		status = "degraded"
		dbStatus = "not initialized"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   status,
		"database": dbStatus,
	})
}
