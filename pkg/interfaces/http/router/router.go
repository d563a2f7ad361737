package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/rateio/pkg/infrastructure/config"
	"github.com/vsinha/rateio/pkg/infrastructure/logger"
	"github.com/vsinha/rateio/pkg/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	prefix     string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithPrefix mounts every route under prefix (e.g. "/api")
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	group := r.engine.Group(r.prefix)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(group)
	}
}

// NewEngine creates a gin engine with the middleware chain every request
// goes through: request ID, logging, recovery, CORS and body limit
func NewEngine(cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowOrigins)),
		middleware.BodyLimit(cfg.MaxBodySize),
	)
	engine.MaxMultipartMemory = cfg.MaxBodySize
	return engine
}
