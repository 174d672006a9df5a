package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"ai-productforge-be/internal/config"
	"ai-productforge-be/internal/controller"
	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/internal/service"
	"ai-productforge-be/pkg/llm/factory"
	pkgNats "ai-productforge-be/pkg/nats"
	"ai-productforge-be/pkg/renderer"
	"ai-productforge-be/pkg/search"
)

type Container struct {
	// Controllers
	ProjectController  controller.IProjectController
	CanvasController   controller.ICanvasController
	ChatController     controller.IChatController
	DesignController   controller.IDesignController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Search service with a read-through cache in front of Tavily
	searchService := search.NewCachedService(search.NewTavilyClient(cfg.Keys.Tavily))

	// PDF renderer (optional; markdown-only when unset)
	pdfRenderer := renderer.NewHTTPRenderer(cfg.App.RendererURL)

	// NATS domain event publisher
	var eventPublisher service.IEventPublisher = service.NoopEventPublisher{}
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = service.NewNatsEventPublisher(natsPub, sysLogger)
	}

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Workflow.SectionTopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Workflow.SectionTopicName,
		uowFactory,
		llmProvider,
		eventPublisher,
		sysLogger,
	)

	projectService := service.NewProjectService(uowFactory, publisherService, eventPublisher, sysLogger)
	designService := service.NewDesignService(uowFactory, llmProvider, searchService, publisherService, sysLogger)
	chatService := service.NewChatService(uowFactory, llmProvider, searchService, designService, cfg.Workflow, sysLogger)
	documentService := service.NewDocumentService(uowFactory, llmProvider, pdfRenderer, eventPublisher, cfg.App.DocumentDir, sysLogger)

	// 4. Controllers
	return &Container{
		ProjectController:  controller.NewProjectController(projectService),
		CanvasController:   controller.NewCanvasController(projectService),
		ChatController:     controller.NewChatController(chatService),
		DesignController:   controller.NewDesignController(designService),
		DocumentController: controller.NewDocumentController(documentService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
