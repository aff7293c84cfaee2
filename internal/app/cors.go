package app

import (
	"net/url"
	"strings"

	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/middleware"

	"github.com/gin-contrib/cors"
)

func corsConfig(cfg *config.Config) cors.Config {
	allowed := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	for _, o := range cfg.CORSAllowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOriginFunc = func(origin string) bool {
		return originAllowed(origin, allowed, cfg.CORSAllowVercelPreviews)
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	return corsConfig
}

// originAllowed accepts listed origins and, optionally, https preview
// deployments on vercel.app.
func originAllowed(origin string, allowed map[string]struct{}, vercelPreviews bool) bool {
	if _, ok := allowed[origin]; ok {
		return true
	}
	if !vercelPreviews {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "https" {
		return false
	}
	return strings.HasSuffix(u.Hostname(), ".vercel.app")
}
