package http

import (
	"net/http"

	"github.com/lightdata/push-dispatch/internal/interfaces/http/handler"
	"github.com/lightdata/push-dispatch/internal/interfaces/http/middleware"
	"github.com/lightdata/push-dispatch/pkg/config"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux              *http.ServeMux
	deviceHandler    *handler.DeviceHandler
	pushHandler      *handler.PushHandler
	dispatchHandler  *handler.DispatchHandler
	websocketHandler *handler.WebSocketHandler
	security         config.SecurityConfig
	rateLimiter      *middleware.IPRateLimiter
	logger           *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	deviceHandler *handler.DeviceHandler,
	pushHandler *handler.PushHandler,
	dispatchHandler *handler.DispatchHandler,
	websocketHandler *handler.WebSocketHandler,
	security config.SecurityConfig,
	rateLimiter *middleware.IPRateLimiter,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		deviceHandler:    deviceHandler,
		pushHandler:      pushHandler,
		dispatchHandler:  dispatchHandler,
		websocketHandler: websocketHandler,
		security:         security,
		rateLimiter:      rateLimiter,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Health endpoints are intentionally unauthenticated for probes.
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	rt.mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "mensaje": "pong"})
	})

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}, rt.logger)

	// Device registration and direct push
	rt.mux.Handle("/device/register", authMiddleware(http.HandlerFunc(rt.deviceHandler.Register)))
	rt.mux.Handle("/fcm/send", authMiddleware(http.HandlerFunc(rt.pushHandler.Send)))

	// One-shot dispatch for a single token
	rt.mux.Handle("/resumen/push", authMiddleware(http.HandlerFunc(rt.dispatchHandler.OneShot)))

	// WebSocket
	rt.mux.Handle("/ws", authMiddleware(http.HandlerFunc(rt.websocketHandler.HandleConnection)))

	// API endpoints
	rt.mux.Handle("/api/v1/dispatch/status", authMiddleware(http.HandlerFunc(rt.dispatchHandler.Status)))
	rt.mux.Handle("/api/v1/dispatch/run", authMiddleware(http.HandlerFunc(rt.dispatchHandler.RunNow)))

	// Применяем middleware
	var handler http.Handler = rt.mux
	handler = middleware.Compression(handler)
	if rt.rateLimiter != nil {
		handler = middleware.RateLimit(rt.rateLimiter)(handler)
	}
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)

	return handler
}
