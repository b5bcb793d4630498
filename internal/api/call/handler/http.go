package callHandler

import (
	callService "ProjectRiya/internal/api/call/service"
	"ProjectRiya/internal/middleware"
	redisPkg "ProjectRiya/pkg/redis"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type CallHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	callService callService.ICallService
	redis       redisPkg.IRedis
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs callService.ICallService,
	redis redisPkg.IRedis,
) *CallHandler {
	return &CallHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		callService: cs,
		redis:       redis,
	}
}

func (h *CallHandler) Start(srv fiber.Router) {
	calls := srv.Group("/calls")

	// Operator endpoints require authentication
	calls.Use(h.middleware.NewRateLimiter)
	calls.Use(h.middleware.NewTokenMiddleware)

	calls.Post("/", h.StartCall)
	calls.Get("/", h.GetCalls)

	// Extraction testing
	calls.Post("/extract/test", h.TestExtraction)

	calls.Get("/:call_id", h.GetCall)
	calls.Get("/:call_id/result", h.GetCallResult)
	calls.Post("/:call_id/end", h.EndCall)
	calls.Delete("/:call_id", h.DeleteCall)

	// Live transcript streaming
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	monitor := srv.Group("/monitor")
	monitor.Use("/:call_id", wsMiddleware)
	monitor.Get("/:call_id", websocket.New(h.MonitorCall))
}
