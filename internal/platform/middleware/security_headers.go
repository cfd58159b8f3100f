package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

var apiHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "0",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":         "no-referrer",
}

// SecurityHeaders sets the headers expected of a JSON API behind a browser
// front end. Responses under noStorePrefix carry patient data and are marked
// Cache-Control: no-store. HSTS is only sent on HTTPS requests.
func SecurityHeaders(noStorePrefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range apiHeaders {
				h.Set(k, v)
			}
			if c.Scheme() == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			if noStorePrefix != "" && strings.HasPrefix(c.Request().URL.Path, noStorePrefix) {
				h.Set("Cache-Control", "no-store")
			}
			return next(c)
		}
	}
}
