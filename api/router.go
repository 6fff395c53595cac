package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/trilytx/trilytx-backend/api/middleware"
	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/utils"
)

const maxRequestBodySize = 1 << 20 // 1MiB

var localDevOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8501"}

// normalizeOrigins keeps the scheme and host of each configured origin and
// returns the entries that cannot be used for CORS separately.
func normalizeOrigins(origins []string) (allowed, rejected []string) {
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil || !slices.Contains([]string{"http", "https"}, u.Scheme) || u.Host == "" {
			rejected = append(rejected, origin)
			continue
		}
		allowed = append(allowed, (&url.URL{Scheme: u.Scheme, Host: u.Host}).String())
	}
	return allowed, rejected
}

func corsOption(ctx context.Context, conf Configuration) cors.Config {
	allowed, rejected := normalizeOrigins(conf.AllowedOrigins)
	for _, origin := range rejected {
		utils.LoggerFromContext(ctx).ErrorContext(ctx,
			"allowed origin must be an http(s) url, browser requests from it will be rejected", "url", origin)
	}
	if conf.Env == "development" {
		allowed = append(allowed, localDevOrigins...)
	}

	return cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{http.MethodOptions, http.MethodHead, http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Authorization", "Content-Type", "baggage", "sentry-trace"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}

func InitRouterMiddlewares(
	ctx context.Context,
	conf Configuration,
	telemetryRessources infra.TelemetryRessources,
) *gin.Engine {
	if conf.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := utils.LoggerFromContext(ctx)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(cors.New(corsOption(ctx, conf)))
	r.Use(limits.RequestSizeLimiter(maxRequestBodySize))
	r.Use(middleware.NewLogging(logger,
		middleware.WithIgnorePath([]string{"/liveness", "/metrics"}),
		middleware.WithIpHashSalt(conf.IpHashSalt),
		middleware.WithRequestLoggingLevel(conf.RequestLoggingLevel),
	))
	r.Use(utils.StoreLoggerInContextMiddleware(logger))
	r.Use(otelgin.Middleware(
		conf.AppName,
		otelgin.WithTracerProvider(telemetryRessources.TracerProvider),
		otelgin.WithPropagators(telemetryRessources.TextMapPropagator),
	))
	r.Use(utils.StoreOpenTelemetryTracerInContextMiddleware(telemetryRessources.Tracer))

	return r
}
