package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheck reports liveness and whether the database answers.
func HealthCheck(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := http.StatusOK
		dbState := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			status = http.StatusServiceUnavailable
			dbState = "unreachable"
		}
		return c.JSON(status, map[string]string{
			"status":   http.StatusText(status),
			"service":  "yatube",
			"database": dbState,
		})
	}
}
