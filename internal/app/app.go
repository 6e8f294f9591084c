package app

import (
	"fmt"

	"messenger_backend/database"
	"messenger_backend/internal/config"
	"messenger_backend/internal/email"
	"messenger_backend/internal/handlers"
	"messenger_backend/internal/logger"
	"messenger_backend/internal/middleware"
	"messenger_backend/internal/repositories"
	repoChat "messenger_backend/internal/repositories/chat"
	"messenger_backend/internal/routes"
	"messenger_backend/internal/services"
	chatService "messenger_backend/internal/services/chat"
	"messenger_backend/internal/validator"
	"messenger_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run boots the service: configuration, database, dependency wiring, HTTP.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		// TranslateError turns driver duplicate-key failures into
		// gorm.ErrDuplicatedKey, which the services rely on.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database pool: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	engine, manager := SetupRouter(db, cfg)
	go manager.Run()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr, "env", cfg.Server.Env)
	return engine.Run(addr)
}

// SetupRouter wires repositories, services and handlers onto a gin engine.
// Split from Run so tests can build the full router against their own db.
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *ws.Manager) {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewActivateTokenRepository(db)
	blockRepo := repositories.NewBlockListRepository(db)
	chatRepo := repoChat.NewChatRepository(db)
	participantRepo := repoChat.NewParticipantRepository(db)
	messageRepo := repoChat.NewMessageRepository(db)
	reactionRepo := repoChat.NewMessageReactionRepository(db)
	deletedChatRepo := repoChat.NewDeletedChatRepository(db)
	deletedMessageRepo := repoChat.NewDeletedMessageRepository(db)
	groupBlockRepo := repoChat.NewGroupBlockListRepository(db)

	var mailer email.Provider
	if cfg.Email.Disabled {
		mailer = email.NewNoopProvider()
	} else {
		mailer = email.NewSMTPProvider(cfg)
	}

	userService := services.NewUserService(db, userRepo, tokenRepo, blockRepo, mailer)
	chatSvc := chatService.NewChatService(
		db, chatRepo, participantRepo, messageRepo,
		deletedChatRepo, groupBlockRepo, userRepo, blockRepo,
	)
	messageSvc := chatService.NewMessageService(
		db, chatRepo, participantRepo, messageRepo, reactionRepo,
		deletedMessageRepo, groupBlockRepo, blockRepo,
	)

	manager := ws.NewManager(participantRepo, userRepo)

	v := validator.New()
	base := handlers.NewBaseHandler(v)

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID())

	routes.RegisterRoutes(
		engine,
		handlers.NewAuthHandler(base, userService),
		handlers.NewUserHandler(base, userService),
		handlers.NewChatHandler(base, chatSvc),
		handlers.NewMessageHandler(base, messageSvc),
		ws.NewHandler(manager, messageSvc, userRepo),
	)
	return engine, manager
}
