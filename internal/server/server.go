// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/cache"
	"doubtdesk/internal/config"
	"doubtdesk/internal/database"
	"doubtdesk/internal/middleware"
	"doubtdesk/internal/models"
	"doubtdesk/internal/observability"
	"doubtdesk/internal/repository"
	"doubtdesk/internal/service"
	"doubtdesk/internal/stage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "doubtdesk-api"
	tokenAudience = "doubtdesk-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	authSvc     *service.AuthService
	profileSvc  *service.ProfileService
	categorySvc *service.CategoryService
	questionSvc *service.QuestionService
	answerSvc   *service.AnswerService
	activity    *service.ActivityService
	sweeper     *service.PendingSweeper
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	redisClient := cache.Connect(cfg.RedisURL)

	return newServerWithDeps(cfg, db, redisClient), nil
}

// newServerWithDeps wires repositories and services onto existing
// connections. Split out so tests can inject sqlite and miniredis.
func newServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	pendingRepo := repository.NewPendingRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	askedRepo := repository.NewAskedRepository(db)

	logger := observability.Logger
	provider := auth.NewService(db, redisClient, nil, logger)
	signupStage := stage.New(redisClient)

	activity := service.NewActivityService(activityRepo, logger, 0)

	// Prometheus collectors register globally, so the test environment skips
	// them to allow multiple server instances per process.
	var prom *fiberprometheus.FiberPrometheus
	if cfg.Env != "test" {
		prom = fiberprometheus.New("doubtdesk-api")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		activity:       activity,
		authSvc: service.NewAuthService(provider, userRepo, pendingRepo, signupStage,
			activity, cfg.OrgDomain, cfg.Institution, logger),
		profileSvc:  service.NewProfileService(userRepo, cfg.OrgDomain, cfg.Institution),
		categorySvc: service.NewCategoryService(categoryRepo, questionRepo),
		questionSvc: service.NewQuestionService(questionRepo, userRepo, askedRepo, activity),
		answerSvc:   service.NewAnswerService(questionRepo, userRepo, activity),
		sweeper:     service.NewPendingSweeper(pendingRepo, logger, 0, 0),
	}

	// One-time registry reconciliation, then the hourly pending sweep.
	if err := server.categorySvc.InitializeCategories(context.Background()); err != nil {
		log.Printf("category registry initialization failed: %v", err)
	}
	server.sweeper.Start()

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/api/metrics")
	}

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/verify-email", s.VerifyEmail)

	// Public browse routes
	api.Get("/questions", s.GetQuestions)
	api.Get("/categories", s.GetCategories)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Post("/auth/logout", s.Logout)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)

	questions := protected.Group("/questions")
	questions.Post("/", middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_question"), s.CreateQuestion)
	// Define specific routes BEFORE generic /:id route
	questions.Get("/asked", s.GetAskedQuestions)
	questions.Post("/:id/upvote", s.UpvoteQuestion)
	questions.Post("/:id/answers", middleware.RateLimit(s.redis, 10, time.Minute, "create_answer"), s.CreateAnswer)
	questions.Put("/:id/answers/:answerId", s.UpdateAnswer)
	questions.Delete("/:id/answers/:answerId", s.DeleteAnswer)
	questions.Delete("/:id", s.DeleteQuestion)

	protected.Post("/categories", s.AddCategory)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "doubtdesk",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		email, _ := claims["email"].(string)

		// Store the session subject in context
		c.Locals("userID", sub)
		c.Locals("email", email)

		return c.Next()
	}
}

// sessionSubject rebuilds the session subject stored by AuthRequired.
func sessionSubject(c *fiber.Ctx) auth.Subject {
	subject := auth.Subject{}
	if uid, ok := c.Locals("userID").(string); ok {
		subject.UID = uid
	}
	if email, ok := c.Locals("email").(string); ok {
		subject.Email = email
	}
	return subject
}

// generateToken creates a JWT token for the given session subject
func (s *Server) generateToken(subject auth.Subject) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject.UID,
		"email": subject.Email,
		"iss":   tokenIssuer,
		"aud":   tokenAudience,
		"exp":   now.Add(time.Hour * 24 * 7).Unix(), // Expiration (7 days)
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// Shutdown gracefully shuts down the server's background work and connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	if s.activity != nil {
		s.activity.Close()
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
