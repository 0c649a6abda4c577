package bootstrap

import (
	"context"
	"log"

	"krackenx-chat-be/internal/config"
	"krackenx-chat-be/internal/controller"
	"krackenx-chat-be/internal/handler"
	"krackenx-chat-be/internal/pkg/logger"
	"krackenx-chat-be/internal/pkg/mailer"
	"krackenx-chat-be/internal/repository/memory"
	"krackenx-chat-be/internal/repository/unitofwork"
	"krackenx-chat-be/internal/service"
	"krackenx-chat-be/internal/websocket"

	pktNats "krackenx-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	OAuthController  controller.IOAuthController
	UserController   controller.IUserController
	FriendController controller.IFriendController
	AdminController  controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSocket
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket Hub (connection registry + presence)
	wsLogger := logger.NewIsolatedLogger("logs/chat.log")
	wsHub := websocket.NewHub(wsLogger)

	// In-memory invitation table
	invitationRepo := memory.NewInvitationRepository()

	// 3. Services
	userService := service.NewUserService(uowFactory, rdb)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	chatService := service.NewChatService(uowFactory, pubSub, cfg.App.MessageTopic)
	friendService := service.NewFriendService(uowFactory)
	adminService := service.NewAdminService(uowFactory, wsHub, sysLogger, natsPub)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.MessageTopic,
		uowFactory,
	)

	// 3.5 WebSocket Gateway
	gateway := websocket.NewGateway(
		wsHub,
		userService,
		chatService,
		friendService,
		invitationRepo,
		wsLogger,
	)
	chatHandler := handler.NewChatHandler(gateway)

	// 4. Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		OAuthController:  controller.NewOAuthController(oauthService),
		UserController:   controller.NewUserController(userService),
		FriendController: controller.NewFriendController(friendService),
		AdminController:  controller.NewAdminController(adminService),

		ConsumerService: consumerService,

		ChatHandler:  chatHandler,
		WebSocketHub: wsHub,
	}
}
