package bootstrap

import (
	"log"
	"time"

	"support-chat-be/internal/config"
	"support-chat-be/internal/controller"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/implementation"
	"support-chat-be/internal/service"
	"support-chat-be/pkg/commerce"
	"support-chat-be/pkg/llm/openai"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SupportController controller.ISupportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

// NewContainer wires the dependency graph. db may be nil, in which case the
// snapshot history degrades to disabled and chat turns are unaffected.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Upstream Clients
	commerceClient := commerce.NewClient(
		cfg.Commerce.BaseURL,
		cfg.Commerce.APIKey,
		cfg.Commerce.CredentialID,
		sysLogger,
	)
	if cfg.Commerce.APIKey == "" || cfg.Commerce.CredentialID == "" {
		log.Printf("[WARN] Commerce credentials missing, turns will run with null store data")
	}

	if cfg.Ai.OpenAIKey == "" {
		log.Printf("[WARN] OPENAI_API_KEY is not set, completions will fail")
	}
	llmProvider := openai.NewOpenAIProvider(cfg.Ai.OpenAIKey, cfg.Ai.BaseURL, cfg.Ai.Model)
	log.Printf("[INFO] Using LLM Provider: OPENAI (%s)", cfg.Ai.Model)

	// 4. Repositories
	var syncHistoryRepo contract.SyncHistoryRepository
	if db != nil {
		syncHistoryRepo = implementation.NewSyncHistoryRepository(db)
	} else {
		log.Printf("[WARN] DB_CONNECTION_STRING not set, snapshot history disabled")
	}

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Support.SnapshotTopic, pubSub)
	historyService := service.NewHistoryService(syncHistoryRepo, sysLogger)
	supportService := service.NewSupportService(
		commerceClient,
		llmProvider,
		publisherService,
		sysLogger,
		cfg.Support.CustomerID,
		cfg.Support.Personalize,
		cfg.Support.DisplayName,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.Support.SnapshotTopic, historyService)

	// 6. Controllers
	supportController := controller.NewSupportController(
		supportService,
		historyService,
		time.Duration(cfg.Support.TurnTimeoutSeconds)*time.Second,
	)

	return &Container{
		SupportController: supportController,
		ConsumerService:   consumerService,
	}
}
