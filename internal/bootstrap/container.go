package bootstrap

import (
	"log"
	"time"

	"rag-qa-be/internal/config"
	"rag-qa-be/internal/controller"
	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/pkg/logger"
	"rag-qa-be/internal/pkg/serverutils"
	"rag-qa-be/internal/pkg/token"
	"rag-qa-be/internal/repository/contract"
	"rag-qa-be/internal/repository/implementation"
	"rag-qa-be/internal/repository/memory"
	"rag-qa-be/internal/repository/redisrepo"
	"rag-qa-be/internal/service"
	"rag-qa-be/pkg/embedding"
	"rag-qa-be/pkg/llm/factory"
	"rag-qa-be/pkg/rag"
	"rag-qa-be/pkg/websearch"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo credential seed; there is no registration flow.
var seedCredentials = map[string]string{
	"admin": "admin123",
	"user1": "password123",
	"test":  "test123",
}

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	ChatController   controller.IChatController
	SystemController controller.ISystemController

	// Route guard for protected endpoints
	AuthGuard fiber.Handler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Auth stack
	codec := token.NewJWTCodec(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	var sessions contract.SessionRepository
	if cfg.Auth.SessionStore == "redis" {
		redisSessions, err := redisrepo.NewSessionRepository(cfg.App.RedisURL)
		if err != nil {
			log.Panicf("Unable to initialize redis session store: %v", err)
		}
		sessions = redisSessions
		log.Println("[INFO] Using Session Store: REDIS")
	} else {
		sessions = memory.NewSessionRepository(codec.TTL())
		log.Println("[INFO] Using Session Store: MEMORY")
	}

	accounts := memory.NewAccountRepository(seedAccounts())
	authService := service.NewAuthService(accounts, sessions, codec, sysLogger)

	// 3. Retrieval stack
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		log.Panicf("Unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}

	documents := implementation.NewDocumentRepository(db)
	retriever := rag.NewVectorRetriever(embeddingProvider, documents, rag.Config{
		TopK:      cfg.Ai.RagTopK,
		Threshold: cfg.Ai.RagThreshold,
	}, sysLogger)

	searchClient := websearch.NewDuckDuckGo(cfg.Search.BaseURL)

	// 4. Generation stack
	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "huggingface" {
		llmBaseURL = cfg.Ai.HFBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, llmBaseURL, cfg.Ai.HFApiKey)
	if err != nil {
		log.Panicf("Unable to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	chatService := service.NewChatService(retriever, searchClient, llmProvider, cfg.Search.MaxResults, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		ChatController:   controller.NewChatController(chatService, sysLogger),
		SystemController: controller.NewSystemController(),
		AuthGuard:        serverutils.AuthMiddleware(authService),
	}
}

func seedAccounts() []*entity.Account {
	accounts := make([]*entity.Account, 0, len(seedCredentials))
	for username, password := range seedCredentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Panicf("Unable to hash seed password for %s: %v", username, err)
		}
		accounts = append(accounts, &entity.Account{
			Username:     username,
			PasswordHash: string(hash),
		})
	}
	return accounts
}
