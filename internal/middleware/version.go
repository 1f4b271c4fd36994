package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	HeaderAPIVersion = "X-API-Version"
	HeaderAppVersion = "X-App-Version"
)

// VersionMiddleware stamps responses with the API and build versions.
type VersionMiddleware struct {
	appVersion string
}

func NewVersionMiddleware(appVersion string) *VersionMiddleware {
	return &VersionMiddleware{appVersion: appVersion}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(apiVersion string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(HeaderAPIVersion, apiVersion)
			if vm.appVersion != "" {
				c.Response().Header().Set(HeaderAppVersion, vm.appVersion)
			}
			return next(c)
		}
	}
}
