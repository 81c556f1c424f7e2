package bootstrap

import (
	"context"
	"log"
	"os"
	"strings"

	"portal-assistant-be/internal/config"
	"portal-assistant-be/internal/controller"
	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/internal/repository/unitofwork"
	"portal-assistant-be/internal/service"
	"portal-assistant-be/pkg/agent/analyze"
	"portal-assistant-be/pkg/agent/generate"
	"portal-assistant-be/pkg/agent/knowledge"
	"portal-assistant-be/pkg/agent/machine"
	"portal-assistant-be/pkg/agent/retrieval"
	"portal-assistant-be/pkg/embedding"
	"portal-assistant-be/pkg/events"
	"portal-assistant-be/pkg/llm/factory"

	pkgNats "portal-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	TutorialController  controller.ITutorialController
	KnowledgeController controller.IKnowledgeController

	// Background services (main.go runs these)
	ConsumerService  service.IConsumerService
	KnowledgeService service.IKnowledgeService

	// Engine exposed for warmup
	Engine *machine.Engine
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embedder, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
		cfg.Ai.EmbeddingModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	log.Printf("[INFO] Using embedding provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
		natsSub = nil
	}

	// 5. Routing engine
	store := service.NewKnowledgeStore(uowFactory, embedder)
	index := knowledge.NewIndex(store)

	engine := machine.NewEngine(machine.Params{
		Analyzer:            analyze.NewRequestAnalyzer(llmProvider),
		Resolver:            retrieval.NewResolver(store, llmProvider, sysLogger, cfg.Engine.FastPathDistance, cfg.Engine.SearchTopK),
		Suggestions:         generate.NewSuggestionGenerator(llmProvider, index, sysLogger, cfg.Engine.MaxSuggestions, cfg.Engine.MaxIndexTopics),
		Greetings:           generate.NewGreetingGenerator(llmProvider, sysLogger),
		Clarifier:           generate.NewStepClarifier(llmProvider, sysLogger),
		Index:               index,
		LLM:                 llmProvider,
		Logger:              sysLogger,
		ConfidenceThreshold: cfg.Engine.ConfidenceThreshold,
	})

	// Every published event (sync finished, tutorial published or
	// removed, possibly by another instance or cmd/ingest) invalidates
	// our in-memory index. Durable is per host so every instance sees
	// each event.
	if natsSub != nil {
		durable := "portal-assistant-knowledge"
		if host, hostErr := os.Hostname(); hostErr == nil {
			durable += "-" + strings.ReplaceAll(host, ".", "-")
		}
		err := natsSub.Subscribe("events.>", durable, func(ctx context.Context, event events.Event) error {
			return engine.Refresh(ctx)
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to portal events: %v", err)
		}
	}

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopic,
		uowFactory,
		embedder,
		engine,
		sysLogger,
	)

	chatService := service.NewChatService(uowFactory, engine, sysLogger)
	tutorialService := service.NewTutorialService(uowFactory, publisherService, natsPub, sysLogger)
	knowledgeService := service.NewKnowledgeService(uowFactory, embedder, engine, index, store, natsPub, sysLogger)

	// 7. Controllers
	return &Container{
		ChatController:      controller.NewChatController(chatService),
		TutorialController:  controller.NewTutorialController(tutorialService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),

		ConsumerService:  consumerService,
		KnowledgeService: knowledgeService,
		Engine:           engine,
	}
}
