package security

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// HeadersConfig holds security headers configuration
type HeadersConfig struct {
	// Content Security Policy
	CSP string

	// HSTS settings
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginResource string
}

// DefaultHeadersConfig returns defaults for a JSON API. Responses are never
// rendered as documents, so the CSP forbids everything.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                   "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		ReferrerPolicy:        "no-referrer",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), payment=()",
		// The dashboard is served from another origin and fetches with CORS.
		CrossOriginResource: "cross-origin",
	}
}

// Headers returns a gin middleware applying config to every response.
func Headers(config HeadersConfig) gin.HandlerFunc {
	hsts := ""
	if config.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d", config.HSTSMaxAge)
		if config.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", config.XContentTypeOptions)
		h.Set("X-Frame-Options", config.XFrameOptions)
		if config.CSP != "" {
			h.Set("Content-Security-Policy", config.CSP)
		}
		h.Set("Referrer-Policy", config.ReferrerPolicy)
		h.Set("Permissions-Policy", config.PermissionsPolicy)
		h.Set("Cross-Origin-Resource-Policy", config.CrossOriginResource)

		// HSTS header (only for HTTPS)
		if c.Request.TLS != nil && hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
