package di

import (
	"agenthub/config"
	"agenthub/internal/apis/handlers"
	"agenthub/internal/apis/middlewares"
	"agenthub/internal/constants"
	"agenthub/internal/models"
	"agenthub/internal/repositories"
	"agenthub/internal/services"
	"agenthub/internal/utils"
	"agenthub/pkg/mongodb"
	"agenthub/pkg/redis"
	"agenthub/pkg/relational"
	"context"
	"log"
	"time"

	"go.uber.org/dig"
	"gorm.io/gorm"
)

var DiContainer *dig.Container

// FeedbackDB is the sink for feedback rows; it is the relational store
// unless FEEDBACK_DB_TYPE names a separate one.
type FeedbackDB struct {
	*gorm.DB
}

var closers []func(ctx context.Context) error

func Initialize() {
	DiContainer = dig.New()

	// Initialize MongoDB
	mongodbClient, err := mongodb.InitializeDatabaseConnection(mongodb.MongoDbConfigModel{
		ConnectionUrl: config.Env.MongoURI,
		DatabaseName:  config.Env.MongoDatabaseName,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	closers = append(closers, mongodbClient.Disconnect)

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongodbClient.EnsureConversationIndexes(indexCtx, constants.ConversationCollection); err != nil {
		log.Printf("Warning: %v", err)
	}
	cancel()

	// Initialize Redis
	redisClient, err := redis.RedisClient(config.Env.RedisHost, config.Env.RedisPort, config.Env.RedisUsername, config.Env.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	closers = append(closers, func(context.Context) error { return redisClient.Close() })

	// Initialize the relational store for users and agents
	relationalDB, err := relational.InitializeDatabaseConnection(relational.RelationalDbConfigModel{
		Type:     config.Env.RelationalDBType,
		Host:     config.Env.RelationalDBHost,
		Port:     config.Env.RelationalDBPort,
		Database: config.Env.RelationalDBName,
		Username: config.Env.RelationalDBUsername,
		Password: config.Env.RelationalDBPassword,
		SSLMode:  config.Env.RelationalDBSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", config.Env.RelationalDBType, err)
	}
	if err := relational.Migrate(relationalDB, config.Env.RelationalDBType, &models.User{}, &models.Agent{}); err != nil {
		log.Fatalf("Failed to migrate relational store: %v", err)
	}

	feedbackDB := FeedbackDB{relationalDB}
	feedbackDBType := config.Env.RelationalDBType
	if config.Env.FeedbackDBType != "" {
		feedbackDBType = config.Env.FeedbackDBType
		db, err := relational.InitializeDatabaseConnection(relational.RelationalDbConfigModel{
			Type:     config.Env.FeedbackDBType,
			Host:     config.Env.FeedbackDBHost,
			Port:     config.Env.FeedbackDBPort,
			Database: config.Env.FeedbackDBName,
			Username: config.Env.FeedbackDBUsername,
			Password: config.Env.FeedbackDBPassword,
		})
		if err != nil {
			log.Fatalf("Failed to connect to feedback store %s: %v", config.Env.FeedbackDBType, err)
		}
		feedbackDB = FeedbackDB{db}
	}
	if err := relational.Migrate(feedbackDB.DB, feedbackDBType, &models.Feedback{}); err != nil {
		log.Fatalf("Failed to migrate feedback store: %v", err)
	}

	redisRepo := redis.NewRedisRepositories(redisClient)
	jwtService := utils.NewJWTService(
		config.Env.JWTSecret,
		time.Millisecond*time.Duration(config.Env.JWTExpirationMilliseconds),
		time.Millisecond*time.Duration(config.Env.JWTRefreshExpirationMilliseconds),
	)

	// Provide all dependencies to the container
	if err := DiContainer.Provide(func() *mongodb.MongoDBClient { return mongodbClient }); err != nil {
		log.Fatalf("Failed to provide MongoDB client: %v", err)
	}

	if err := DiContainer.Provide(func() redis.IRedisRepositories { return redisRepo }); err != nil {
		log.Fatalf("Failed to provide Redis repositories: %v", err)
	}

	if err := DiContainer.Provide(func() *gorm.DB { return relationalDB }); err != nil {
		log.Fatalf("Failed to provide relational database: %v", err)
	}

	if err := DiContainer.Provide(func() FeedbackDB { return feedbackDB }); err != nil {
		log.Fatalf("Failed to provide feedback database: %v", err)
	}

	if err := DiContainer.Provide(func() utils.JWTService { return jwtService }); err != nil {
		log.Fatalf("Failed to provide JWT service: %v", err)
	}

	provideRepositories()
	provideServices()
	provideHandlers()
}

func provideRepositories() {
	if err := DiContainer.Provide(repositories.NewTokenRepository); err != nil {
		log.Fatalf("Failed to provide token repository: %v", err)
	}

	if err := DiContainer.Provide(repositories.NewSessionRepository); err != nil {
		log.Fatalf("Failed to provide session repository: %v", err)
	}

	if err := DiContainer.Provide(repositories.NewLinkPreviewRepository); err != nil {
		log.Fatalf("Failed to provide link preview repository: %v", err)
	}

	if err := DiContainer.Provide(repositories.NewConversationRepository); err != nil {
		log.Fatalf("Failed to provide conversation repository: %v", err)
	}

	if err := DiContainer.Provide(repositories.NewUserRepository); err != nil {
		log.Fatalf("Failed to provide user repository: %v", err)
	}

	if err := DiContainer.Provide(repositories.NewAgentRepository); err != nil {
		log.Fatalf("Failed to provide agent repository: %v", err)
	}

	if err := DiContainer.Provide(func(db FeedbackDB) repositories.FeedbackRepository {
		return repositories.NewFeedbackRepository(db.DB)
	}); err != nil {
		log.Fatalf("Failed to provide feedback repository: %v", err)
	}
}

func provideServices() {
	if err := DiContainer.Provide(func() services.MembershipService {
		return services.NewMembershipService(config.Env.OrgMembershipWebhookURL, nil)
	}); err != nil {
		log.Fatalf("Failed to provide membership service: %v", err)
	}

	if err := DiContainer.Provide(services.NewAuthService); err != nil {
		log.Fatalf("Failed to provide auth service: %v", err)
	}

	if err := DiContainer.Provide(services.NewAgentService); err != nil {
		log.Fatalf("Failed to provide agent service: %v", err)
	}

	if err := DiContainer.Provide(services.NewConversationService); err != nil {
		log.Fatalf("Failed to provide conversation service: %v", err)
	}

	if err := DiContainer.Provide(services.NewFeedbackService); err != nil {
		log.Fatalf("Failed to provide feedback service: %v", err)
	}

	if err := DiContainer.Provide(func(
		sessionRepo repositories.SessionRepository,
		conversationRepo repositories.ConversationRepository,
		agentService services.AgentService,
	) services.SessionService {
		ttl := time.Duration(config.Env.SessionTTLHours) * time.Hour
		return services.NewSessionService(sessionRepo, conversationRepo, agentService, ttl)
	}); err != nil {
		log.Fatalf("Failed to provide session service: %v", err)
	}

	if err := DiContainer.Provide(func(agentService services.AgentService) services.ProxyService {
		return services.NewProxyService(agentService, services.ProxyConfig{
			AllowedHosts:          config.Env.WebhookAllowedHosts,
			ResponseHeaderTimeout: time.Duration(config.Env.WebhookResponseHeaderTimeoutSeconds) * time.Second,
			StreamTimeout:         time.Duration(config.Env.WebhookStreamTimeoutSeconds) * time.Second,
		})
	}); err != nil {
		log.Fatalf("Failed to provide proxy service: %v", err)
	}

	if err := DiContainer.Provide(func(cache repositories.LinkPreviewRepository) services.LinkPreviewService {
		ttl := time.Duration(config.Env.LinkPreviewCacheTTLMinutes) * time.Minute
		return services.NewLinkPreviewService(cache, nil, ttl)
	}); err != nil {
		log.Fatalf("Failed to provide link preview service: %v", err)
	}
}

func provideHandlers() {
	providers := []struct {
		name        string
		constructor interface{}
	}{
		{"auth middleware", middlewares.NewAuthMiddleware},
		{"auth handler", handlers.NewAuthHandler},
		{"agent handler", handlers.NewAgentHandler},
		{"admin agent handler", handlers.NewAdminAgentHandler},
		{"conversation handler", handlers.NewConversationHandler},
		{"feedback handler", handlers.NewFeedbackHandler},
		{"link preview handler", handlers.NewLinkPreviewHandler},
		{"proxy handler", handlers.NewProxyHandler},
	}
	for _, p := range providers {
		if err := DiContainer.Provide(p.constructor); err != nil {
			log.Fatalf("Failed to provide %s: %v", p.name, err)
		}
	}
}

// Shutdown releases the store connections opened by Initialize
func Shutdown(ctx context.Context) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
	closers = nil
}

func get[T any]() (T, error) {
	var value T
	err := DiContainer.Invoke(func(v T) {
		value = v
	})
	return value, err
}

// GetAuthMiddleware retrieves the AuthMiddleware from the DI container
func GetAuthMiddleware() (*middlewares.AuthMiddleware, error) {
	return get[*middlewares.AuthMiddleware]()
}

// GetAuthHandler retrieves the AuthHandler from the DI container
func GetAuthHandler() (*handlers.AuthHandler, error) {
	return get[*handlers.AuthHandler]()
}

func GetAgentHandler() (*handlers.AgentHandler, error) {
	return get[*handlers.AgentHandler]()
}

func GetAdminAgentHandler() (*handlers.AdminAgentHandler, error) {
	return get[*handlers.AdminAgentHandler]()
}

func GetConversationHandler() (*handlers.ConversationHandler, error) {
	return get[*handlers.ConversationHandler]()
}

func GetFeedbackHandler() (*handlers.FeedbackHandler, error) {
	return get[*handlers.FeedbackHandler]()
}

func GetLinkPreviewHandler() (*handlers.LinkPreviewHandler, error) {
	return get[*handlers.LinkPreviewHandler]()
}

func GetProxyHandler() (*handlers.ProxyHandler, error) {
	return get[*handlers.ProxyHandler]()
}
