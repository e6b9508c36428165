package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "messaging_service/cmd/chat_service/docs" // swagger 文档
	"messaging_service/internal/chat/app"
	"messaging_service/internal/chat/handlers"
	"messaging_service/internal/chat/repository"
	"messaging_service/internal/chat/router"
	"messaging_service/pkg/config"
	"messaging_service/pkg/database"
	"messaging_service/pkg/logger"
	"messaging_service/pkg/metrics"
	testtool "messaging_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// @title Messaging Service API
// @version 1.0
// @description Unread messages and read positions of a messaging backend
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)
	testtool.StartPprof()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. PostgreSQL: gorm for chat entities, pgx for membership lookups
	pg := cfg.PostgreSQL
	pgConn := database.Connection{
		ConnectStr:    database.PostgresDSN(pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode),
		RetryCount:    pg.RetryCount,
		RetryInterval: time.Duration(pg.RetryInterval),
	}
	gormDB, err := database.NewGormConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to open gorm connection after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", pg.Host, pg.Port)),
			zap.Error(err),
		)
	}
	if sqlDB, err := gormDB.DB(); err == nil && pg.MaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pg.MaxIdleTime)
	}
	if err := repository.AutoMigrate(gormDB); err != nil {
		logger.Log.Fatal("auto migrate failed", zap.Error(err))
	}

	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", pg.Host, pg.Port)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	// 2. Push delivery
	publishers, subscriber, journal, closers := buildPublishers(ctx, cfg)
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	// 3. Repository / UseCase
	msgRepo := repository.NewMessageRepository(gormDB)
	rpRepo := repository.NewReadPositionRepository(gormDB)
	groupRepo := repository.NewGroupRepository(gormDB)
	memberRepo := repository.NewMembershipRepository(pool)

	messageUC := app.NewMessageUseCase(msgRepo, groupRepo, memberRepo, publishers)
	readPositionUC := app.NewReadPositionUseCase(msgRepo, rpRepo, groupRepo, memberRepo, publishers)
	// drain in-flight pushes before the transports close
	defer readPositionUC.WaitPublished()
	defer messageUC.WaitPublished()
	unreadUC := app.NewUnreadUseCase(rpRepo, msgRepo, groupRepo, memberRepo)
	groupUC := app.NewGroupUseCase(groupRepo, memberRepo)

	// 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		logger.Log.Fatal("register metrics", zap.Error(err))
	}

	// 5. gRPC health
	grpcServer, healthServer := startHealthServer(cfg.GRPCPort)
	defer grpcServer.GracefulStop()

	// 6. Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	var sub handlers.Subscriber
	if subscriber != nil {
		sub = subscriber
	}
	router.RegisterRoutes(r,
		handlers.NewChatHandler(messageUC, readPositionUC, unreadUC, groupUC, journal),
		handlers.NewWebsocketHandler(messageUC, readPositionUC, unreadUC, sub),
		reg,
	)

	go func() {
		<-ctx.Done()
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		if err := r.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Error("fiber shutdown", zap.Error(err))
		}
	}()

	port := ":" + cfg.Port
	logger.Log.Info("Chat Service listening", zap.String("port", port))
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}

// buildPublishers connect every configured push transport
func buildPublishers(ctx context.Context, cfg config.Chat) (repository.MultiPublisher, *repository.RedisPubSub, repository.EventJournal, []func()) {
	var (
		pubs       repository.MultiPublisher
		subscriber *repository.RedisPubSub
		journal    repository.EventJournal
		closers    []func()
	)

	if cfg.Push.Enabled("redis") {
		masterName, sentinel := config.GetRedisSetting()
		redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
		if err != nil {
			logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
		}
		closers = append(closers, func() { redisClient.Close() })
		subscriber = repository.NewRedisPubSub(redisClient, cfg.Push.ChannelPrefix)
		pubs = append(pubs, subscriber)
	}

	if cfg.Push.Enabled("kafka") {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("connect kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.Error(err))
		}
		closers = append(closers, func() { writer.Close() })
		pubs = append(pubs, repository.NewKafkaPublisher(writer))
	}

	if cfg.Push.Enabled("rabbitmq") {
		conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
			ConnectStr:    cfg.RabbitMQ.URL,
			RetryCount:    cfg.RabbitMQ.RetryCount,
			RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("connect rabbitmq", zap.Error(err))
		}
		ch, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, time.Second)
		if err != nil {
			logger.Log.Fatal("open rabbitmq channel", zap.Error(err))
		}
		closers = append(closers, func() { ch.Close(); conn.Close() })
		rabbit, err := repository.NewRabbitPublisher(database.NewRabbitRepository(ch), cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Log.Fatal("declare rabbitmq exchange", zap.Error(err))
		}
		pubs = append(pubs, rabbit)
	}

	if cfg.Push.Journal {
		m := cfg.MongoSQL
		uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", m.User, m.Password, m.Host, m.Port)
		mongo, err := database.NewMongoDB(ctx, database.Connection{
			ConnectStr:    uri,
			RetryCount:    m.RetryCount,
			RetryInterval: time.Duration(m.RetryInterval),
		}, m.Database)
		if err != nil {
			logger.Log.Fatal("Unable to connect to mongoDB database after retries",
				zap.String("address", fmt.Sprintf("[%s:%d]", m.Host, m.Port)),
				zap.Error(err),
			)
		}
		closers = append(closers, func() { mongo.Close(context.Background()) })
		if err := repository.EnsureIndexes(ctx, mongo.Database); err != nil {
			logger.Log.Warn("create event journal index", zap.Error(err))
		}
		journal = repository.NewMongoEventJournal(mongo.Database)
		pubs = append(pubs, journal)
	}

	if len(pubs) == 0 {
		logger.Log.Warn("no push transport configured, events are dropped")
		pubs = append(pubs, repository.NopPublisher{})
	}
	return pubs, subscriber, journal, closers
}

func startHealthServer(port string) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if port == "" {
		return grpcServer, healthServer
	}
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("Failed to listen Port(%s): ", port), zap.Error(err))
	}
	go func() {
		logger.Log.Info(fmt.Sprintf("gRPC health server listening on : %s", port))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Log.Error("gRPC health server stopped", zap.Error(err))
		}
	}()
	return grpcServer, healthServer
}
