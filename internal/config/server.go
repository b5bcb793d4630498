package config

import (
	"ProjectRiya/database/postgres"
	callHandler "ProjectRiya/internal/api/call/handler"
	callRepository "ProjectRiya/internal/api/call/repository"
	callService "ProjectRiya/internal/api/call/service"
	"ProjectRiya/internal/middleware"
	"ProjectRiya/pkg/gemini"
	"ProjectRiya/pkg/livekit"
	"ProjectRiya/pkg/nlp"
	chatGPT "ProjectRiya/pkg/openai"
	"ProjectRiya/pkg/output"
	"ProjectRiya/pkg/redis"
	"ProjectRiya/pkg/s3"
	"ProjectRiya/pkg/tts"
	"ProjectRiya/pkg/utils"
	"ProjectRiya/pkg/whatsapp"
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	whatsappClient whatsapp.IWhatsappSender
	s3Client       s3.ItfS3
	ttsClient      tts.ITTS
	dialer         livekit.IDialer
	writer         output.IWriter
	summarizer     callService.SummaryProvider
	callService    callService.ICallService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithTTSClient() ServerOption {
	return func(s *Server) error {
		client, err := tts.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize TTS client: %v", err)
			}
			return fmt.Errorf("failed to create TTS client: %w", err)
		}
		s.ttsClient = client
		return nil
	}
}

// WithDialer needs utils for utterance IDs. TTS and S3 are passed
// through as they are, the dialer degrades to text-only speech when
// either is absent.
func WithDialer() ServerOption {
	return func(s *Server) error {
		if s.utils == nil {
			return fmt.Errorf("utils must be initialized before dialer")
		}
		s.dialer = livekit.NewDialer(s.ttsClient, s.s3Client, s.utils)
		return nil
	}
}

func WithOutputWriter() ServerOption {
	return func(s *Server) error {
		s.writer = output.New(os.Getenv("OUTPUT_DIR"))
		return nil
	}
}

// WithSummarizer picks the summary backend from SUMMARY_PROVIDER.
// Summaries are skipped entirely when it is unset.
func WithSummarizer() ServerOption {
	return func(s *Server) error {
		switch os.Getenv("SUMMARY_PROVIDER") {
		case "gemini":
			client, err := gemini.NewGeminiClient()
			if err != nil {
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			s.summarizer = client
		case "openai":
			s.summarizer = chatGPT.NewChatGPT()
		case "", "none":
			if s.log != nil {
				s.log.Info("Feedback summaries disabled")
			}
		default:
			return fmt.Errorf("unknown SUMMARY_PROVIDER %q", os.Getenv("SUMMARY_PROVIDER"))
		}
		return nil
	}
}

func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("WHATSAPP_ENABLED") != "true" {
			if s.log != nil {
				s.log.Info("WhatsApp alerts disabled")
			}
			return nil
		}

		client, err := whatsapp.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Call Domain
	callRepo := callRepository.New(s.db, s.log)
	extractor := nlp.NewAnswerExtractor()
	callServices := callService.New(s.log, callRepo, s.dialer, s.writer, extractor, s.redisServer, s.s3Client, s.summarizer, s.whatsappClient, s.utils)
	callHandlers := callHandler.New(s.log, s.validator, s.middleware, callServices, s.redisServer)

	s.callService = callServices

	s.setupHealthCheck()
	s.handlers = append(s.handlers, callHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.whatsappClient != nil {
			s.whatsappClient.Disconnect()
		}
		return err
	}

	return nil
}

// Shutdown stops taking requests, lets running calls finish their
// farewell and persistence, then releases the clients.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.engine.ShutdownWithContext(ctx); err != nil {
		s.log.Errorf("Error shutting down server: %v", err)
	}

	if s.callService != nil {
		s.callService.Shutdown(ctx)
	}

	if s.whatsappClient != nil {
		s.whatsappClient.Disconnect()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing database: %v", err)
		}
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
