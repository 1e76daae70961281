package api

import (
	"github.com/gin-gonic/gin"
	"github.com/urmzd/ashv2/pkg/api/envelope"
	"github.com/urmzd/ashv2/pkg/api/handlers"
	"github.com/urmzd/ashv2/pkg/ash"
	"github.com/urmzd/ashv2/pkg/config"
)

// Router holds the Gin engine and its dependencies.
type Router struct {
	engine      *gin.Engine
	transceiver *ash.Transceiver
}

// NewRouter creates a new API router over a running transceiver and the
// config store backing its active link profile's diagnostics.
func NewRouter(transceiver *ash.Transceiver, store *config.Store, profileID int64, validator *envelope.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:      engine,
		transceiver: transceiver,
	}
	router.setupRoutes(store, profileID, validator)

	return router
}

func (r *Router) setupRoutes(store *config.Store, profileID int64, validator *envelope.Validator) {
	healthHandler := handlers.NewHealthHandler(r.transceiver)
	framesHandler := handlers.NewFramesHandler(r.transceiver, validator)
	statusHandler := handlers.NewStatusHandler(r.transceiver, store, profileID)
	callbacksHandler := handlers.NewCallbacksHandler(r.transceiver)

	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.POST("/frames", framesHandler.Submit)
		v1.GET("/status", statusHandler.Status)
		v1.GET("/callbacks", callbacksHandler.Next)
	}
}

// Run starts the HTTP server.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Handler returns the underlying http.Handler, for use with a custom
// http.Server (graceful shutdown in cmd/ashd).
func (r *Router) Handler() *gin.Engine {
	return r.engine
}
