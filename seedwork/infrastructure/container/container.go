package container

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	billingqueries "github.com/coachtranscribe/engine/modules/billing/application/queries"
	"github.com/coachtranscribe/engine/modules/billing/application/ledger"
	billinggorm "github.com/coachtranscribe/engine/modules/billing/infrastructure/repositories"
	billinghandlers "github.com/coachtranscribe/engine/modules/billing/interfaces/http/handlers"
	billingroutes "github.com/coachtranscribe/engine/modules/billing/interfaces/http/routes"

	"github.com/coachtranscribe/engine/modules/session/application/commands"
	"github.com/coachtranscribe/engine/modules/session/application/export"
	sessionqueries "github.com/coachtranscribe/engine/modules/session/application/queries"
	sessiondomainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	sessionservices "github.com/coachtranscribe/engine/modules/session/domain/services"
	"github.com/coachtranscribe/engine/modules/session/infrastructure/blob"
	sessiongorm "github.com/coachtranscribe/engine/modules/session/infrastructure/repositories"
	"github.com/coachtranscribe/engine/modules/session/infrastructure/stt"
	"github.com/coachtranscribe/engine/modules/session/infrastructure/stt/assemblyai"
	"github.com/coachtranscribe/engine/modules/session/infrastructure/stt/google"
	sessionworker "github.com/coachtranscribe/engine/modules/session/infrastructure/worker"
	sessionhandlers "github.com/coachtranscribe/engine/modules/session/interfaces/http/handlers"
	sessionroutes "github.com/coachtranscribe/engine/modules/session/interfaces/http/routes"

	userservices "github.com/coachtranscribe/engine/modules/user/application/services"
	"github.com/coachtranscribe/engine/modules/user/domain/repositories"
	userInfraRepos "github.com/coachtranscribe/engine/modules/user/infrastructure/repositories"
	userInfraServices "github.com/coachtranscribe/engine/modules/user/infrastructure/services"
	userhandlers "github.com/coachtranscribe/engine/modules/user/interfaces/http/handlers"
	userMiddleware "github.com/coachtranscribe/engine/modules/user/interfaces/http/middleware"
	userroutes "github.com/coachtranscribe/engine/modules/user/interfaces/http/routes"

	"github.com/coachtranscribe/engine/seedwork/infrastructure/config"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/firebase"
)

// Container holds all application dependencies, one field group per
// module, matching the teacher's single-container-struct wiring style
// generalized from a one-module app to the full session/billing/user
// surface SPEC_FULL.md names.
type Container struct {
	Config *config.Config

	// Infrastructure
	FirebaseClient *firebase.Client
	EventBus       events.EventBus

	// User module
	UserRepository      repositories.UserRepository
	UserService         *userservices.UserService
	FirebaseAuthService *userInfraServices.FirebaseAuthService
	AuthMiddleware      *userMiddleware.AuthMiddleware
	UserRoutes          *userroutes.UserRoutes

	// Session module
	SessionRepository sessiondomainrepo.SessionRepository
	BlobGateway       sessionservices.BlobGateway
	STTResolver        sessionservices.Resolver
	Queue              sessionservices.Queue
	SessionHandlers    *sessionhandlers.SessionHandlers
	SessionRoutes      *sessionroutes.SessionRoutes
	WorkerRuntime      *sessionworker.Runtime
	Reaper             *sessionworker.Reaper
	FailHandler        *commands.FailTranscriptionHandler

	// Billing module
	LedgerService  *ledger.Service
	BillingRoutes  *billingroutes.UsageRoutes
}

// NewContainer loads configuration and wires every module's
// dependencies. The database connection and STT provider clients are
// expected to already be live (database.Initialize, valid provider
// credentials) before this is called; a misconfigured provider simply
// resolves to a nil adapter and fails at dispatch time rather than at
// startup, matching the teacher's lenient-boot style.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	firebaseClient, err := firebase.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	firebaseAuthService := userInfraServices.NewFirebaseAuthService(firebaseClient)

	var userRepo repositories.UserRepository
	switch cfg.User.RepositoryType {
	case "firebase":
		userRepo = userInfraRepos.NewFirebaseUserRepository(firebaseClient)
	default:
		userRepo = userInfraRepos.NewGormUserRepository()
	}
	userService := userservices.NewUserService(userRepo)
	authMiddleware := userMiddleware.NewAuthMiddleware(userRepo, firebaseAuthService)
	userHandlers := userhandlers.NewUserHandlers(userService, firebaseAuthService)
	userRoutes := userroutes.NewUserRoutes(userHandlers, authMiddleware)

	eventBus := events.NewMemoryEventBus()

	// --- billing module ---
	userLedgerPort := billinggorm.NewGormUserLedgerPort()
	usageLogRepo := billinggorm.NewGormUsageLogRepository()
	usageHistoryRepo := billinggorm.NewGormUsageHistoryRepository()
	ledgerService := ledger.NewService(userLedgerPort, usageLogRepo, usageHistoryRepo, ledger.Rates{
		GoogleCentsPerMinute:     cfg.Billing.GoogleCentsPerMinute,
		AssemblyAICentsPerMinute: cfg.Billing.AssemblyAICentsPerMinute,
		Currency:                 cfg.Billing.Currency,
	})
	getUsageStatus := billingqueries.NewGetUsageStatusHandler(userRepo, usageHistoryRepo)
	usageHandlers := billinghandlers.NewUsageHandlers(getUsageStatus)
	billingRoutes := billingroutes.NewUsageRoutes(usageHandlers, authMiddleware)

	// --- session module ---
	sessionRepo := sessiongorm.NewGormSessionRepository()

	bgCtx := context.Background()
	var blobGateway sessionservices.BlobGateway
	gcsGateway, err := blob.NewGCSGateway(bgCtx, cfg.STT.StorageBucket, cfg.STT.GoogleCredPath)
	if err != nil {
		log.Printf("container: GCS gateway unavailable, blob operations will fail until configured: %v", err)
	} else {
		blobGateway = gcsGateway
	}

	var googleAdapter sessionservices.Adapter
	if googleImpl, err := google.New(bgCtx); err != nil {
		log.Printf("container: google STT adapter unavailable: %v", err)
	} else {
		googleAdapter = googleImpl
	}

	var assemblyAdapter sessionservices.Adapter
	if cfg.STT.AssemblyAIAPIKey != "" {
		assemblyAdapter = assemblyai.New(cfg.STT.AssemblyAIAPIKey)
	} else {
		log.Printf("container: assemblyai STT adapter unavailable: missing API key")
	}

	resolver := stt.NewResolver(googleAdapter, assemblyAdapter, cfg.STT.DefaultProvider)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.RedisAddr,
		Password: cfg.Queue.RedisPassword,
		DB:       cfg.Queue.RedisDB,
	})
	queue := sessionworker.NewRedisQueue(redisClient, cfg.Queue.StreamKey)

	createSessionHandler := commands.NewCreateSessionHandler(sessionRepo)
	requestUploadURLHandler := commands.NewRequestUploadURLHandler(sessionRepo, userRepo, blobGateway, cfg.STT.UploadURLTTL)
	setAudioHandler := commands.NewSetAudioHandler(sessionRepo, eventBus)
	confirmUploadHandler := commands.NewConfirmUploadHandler(sessionRepo, blobGateway, setAudioHandler)
	startTranscriptionHandler := commands.NewStartTranscriptionHandler(sessionRepo, userRepo, resolver, queue, blobGateway, eventBus)
	retryTranscriptionHandler := commands.NewRetryTranscriptionHandler(sessionRepo, startTranscriptionHandler)
	cancelHandler := commands.NewCancelHandler(sessionRepo, resolver, eventBus)
	roleHandler := commands.NewRoleHandler(sessionRepo)
	uploadTranscriptHandler := commands.NewUploadTranscriptHandler(sessionRepo, eventBus)
	reportProgressHandler := commands.NewReportProgressHandler(sessionRepo)
	completeTranscriptionHandler := commands.NewCompleteTranscriptionHandler(sessionRepo, userRepo, ledgerService, eventBus)
	failTranscriptionHandler := commands.NewFailTranscriptionHandler(sessionRepo, ledgerService, eventBus)

	getStatusHandler := sessionqueries.NewGetStatusHandler(sessionRepo)
	getSessionHandler := sessionqueries.NewGetSessionHandler(sessionRepo)
	listSessionsHandler := sessionqueries.NewListSessionsHandler(sessionRepo)
	exportService := export.NewService()
	exportTranscriptHandler := sessionqueries.NewExportTranscriptHandler(sessionRepo, exportService)

	sessionHandlers := sessionhandlers.NewSessionHandlers(
		createSessionHandler, requestUploadURLHandler, confirmUploadHandler,
		startTranscriptionHandler, retryTranscriptionHandler, cancelHandler,
		roleHandler, uploadTranscriptHandler, getStatusHandler, getSessionHandler,
		listSessionsHandler, exportTranscriptHandler,
	)
	sessionRoutes := sessionroutes.NewSessionRoutes(sessionHandlers, authMiddleware)

	workerRuntime := sessionworker.NewRuntime(
		queue, sessionRepo, blobGateway, resolver,
		reportProgressHandler, completeTranscriptionHandler, failTranscriptionHandler,
		cfg.Worker.HeartbeatInterval, cfg.Worker.BackoffInitial, cfg.Worker.BackoffMax,
		cfg.Worker.MaxProviderAttempts,
	)
	reaper := sessionworker.NewReaper(
		sessionRepo, cfg.Worker.ReaperInterval,
		cfg.Worker.ReaperTimeoutMultiplier, cfg.Worker.ReaperMinimumTimeout,
	)

	return &Container{
		Config:              cfg,
		FirebaseClient:      firebaseClient,
		EventBus:            eventBus,
		UserRepository:      userRepo,
		UserService:         userService,
		FirebaseAuthService: firebaseAuthService,
		AuthMiddleware:      authMiddleware,
		UserRoutes:          userRoutes,

		SessionRepository: sessionRepo,
		BlobGateway:       blobGateway,
		STTResolver:       resolver,
		Queue:             queue,
		SessionHandlers:   sessionHandlers,
		SessionRoutes:     sessionRoutes,
		WorkerRuntime:     workerRuntime,
		Reaper:            reaper,
		FailHandler:       failTranscriptionHandler,

		LedgerService: ledgerService,
		BillingRoutes: billingRoutes,
	}, nil
}

// GetUserService returns the user service
func (c *Container) GetUserService() *userservices.UserService {
	return c.UserService
}

// GetAuthMiddleware returns the auth middleware
func (c *Container) GetAuthMiddleware() *userMiddleware.AuthMiddleware {
	return c.AuthMiddleware
}

// GetFirebaseAuthService returns the Firebase auth service
func (c *Container) GetFirebaseAuthService() *userInfraServices.FirebaseAuthService {
	return c.FirebaseAuthService
}

// GetFirebaseClient returns the Firebase client
func (c *Container) GetFirebaseClient() *firebase.Client {
	return c.FirebaseClient
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}
