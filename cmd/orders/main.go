// Package main Orders service
//
// Places orders against the inventory ledger and drives them through their
// lifecycle. Exposes the same operations over REST and gRPC.
//
//	@title			Go Orders API
//	@version		1.0
//	@description	Order processing service: order lifecycle, stock reservation and cart validation
//
//	@contact.name	API Support
//	@contact.email	support@example.com
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8082
//	@BasePath	/
//	@schemes	http https
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	_ "go-orders/docs/swagger"
	"go-orders/internal/orders/adapters"
	"go-orders/internal/orders/application"
	"go-orders/internal/orders/infrastructure"
	"go-orders/internal/orders/ports"
	"go-orders/pkg/config"
	"go-orders/pkg/db"
	"go-orders/pkg/events"
	grpcpkg "go-orders/pkg/grpc"
	"go-orders/pkg/kafka"
	"go-orders/pkg/logger"
	"go-orders/pkg/metrics"
	"go-orders/pkg/middleware"
	"go-orders/pkg/rabbitmq"
)

// closer releases a backend connection on shutdown
type closer func(ctx context.Context) error

type stores struct {
	orders     ports.OrderRepository
	inventory  ports.InventoryLedger
	customers  ports.CustomerStore
	carts      ports.CartStore
	unitOfWork ports.UnitOfWork
	closers    []closer
}

func main() {
	// Load configuration
	cfg := config.LoadForService("ORDERS")

	// Initialize logger
	log := logger.NewWithFormat(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("orders service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting orders service",
		zap.String("storage", cfg.StorageBackend),
		zap.String("inventory", cfg.InventoryBackend),
		zap.String("cart", cfg.CartBackend),
		zap.String("broker", cfg.EventsBroker),
	)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		for i := len(st.closers) - 1; i >= 0; i-- {
			if err := st.closers[i](closeCtx); err != nil {
				log.Warn("failed to close backend", zap.Error(err))
			}
		}
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(registry, "http")
	orderMetrics := metrics.NewOrderMetrics(registry)

	// Events
	publisher, rabbitConn, closeBroker, err := openBroker(cfg, log)
	if err != nil {
		return err
	}
	if closeBroker != nil {
		defer closeBroker()
	}

	manager, err := application.NewOrderManager(application.Deps{
		Orders:     st.orders,
		Inventory:  st.inventory,
		Customers:  st.customers,
		Carts:      st.carts,
		Payments:   adapters.NewSimulatedPaymentAuthority(cfg.PaymentSimulatedDelay, decimal.NewFromFloat(cfg.PaymentDeclineAbove), log),
		Publisher:  publisher,
		UnitOfWork: st.unitOfWork,
		Metrics:    orderMetrics,
		Log:        log,

		// orders and stock share one Postgres transaction
		InventoryInTx: cfg.StorageBackend == config.BackendPostgres && cfg.InventoryBackend == config.BackendPostgres,
	})
	if err != nil {
		return err
	}
	validator := application.NewCartValidator(st.carts, st.inventory, log)

	g, gctx := errgroup.WithContext(ctx)

	// Keep the customer read model in sync with the users service
	if rabbitConn != nil {
		consumer, err := adapters.NewCustomerCreatedConsumer(rabbitConn, st.customers, log)
		if err != nil {
			log.Warn("failed to create CustomerCreated consumer", zap.Error(err))
		} else if err := consumer.Start(gctx); err != nil {
			log.Warn("failed to start consumer", zap.Error(err))
		}
	}

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(serverMetrics))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	infrastructure.NewHTTPHandler(manager, validator, cfg.DefaultCurrency).RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.HandlerFor(registry)))
	}
	if cfg.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	// gRPC server
	grpcServer, err := grpcpkg.NewServer(log, grpcpkg.ServerOptions{
		Timeout:  cfg.GRPCTimeout,
		MTLS:     cfg.GRPCMTLSEnabled,
		CertFile: cfg.GRPCServerCert,
		KeyFile:  cfg.GRPCServerKey,
		CAFile:   cfg.TLSCAFile,
	})
	if err != nil {
		return fmt.Errorf("failed to build gRPC server: %w", err)
	}
	infrastructure.RegisterOrderServiceServer(grpcServer, infrastructure.NewGRPCServer(manager, validator, cfg.DefaultCurrency))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	g.Go(func() error {
		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("gRPC server listening on :" + cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP shutdown error", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	log.Info("servers stopped")
	return err
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	st := &stores{}

	var gormDB *gorm.DB
	needsPostgres := cfg.StorageBackend == config.BackendPostgres || cfg.InventoryBackend == config.BackendPostgres
	if needsPostgres {
		conn, err := db.NewConnection(db.Config{
			Host:         cfg.DBHost,
			Port:         cfg.DBPort,
			User:         cfg.DBUser,
			Password:     cfg.DBPassword,
			DBName:       cfg.DBName,
			SSLMode:      cfg.DBSSLMode,
			Timeout:      cfg.DBTimeout,
			MaxIdleConns: cfg.DBMaxIdleConns,
			MaxOpenConns: cfg.DBMaxOpenConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("connected to database")
		gormDB = conn
		st.closers = append(st.closers, func(context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	}

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		repo := adapters.NewPostgresOrderRepository(gormDB)
		customers := adapters.NewPostgresCustomerStore(gormDB)
		if err := repo.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate orders: %w", err)
		}
		if err := customers.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate customers: %w", err)
		}
		st.orders = repo
		st.customers = customers
		st.unitOfWork = adapters.NewGormUnitOfWork(gormDB)
	case config.BackendMemory:
		st.orders = adapters.NewMemoryOrderRepository()
		st.customers = adapters.NewMemoryCustomerStore()
		st.unitOfWork = adapters.MemoryUnitOfWork{}
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}

	switch cfg.InventoryBackend {
	case config.BackendPostgres:
		ledger := adapters.NewPostgresInventoryLedger(gormDB)
		if err := ledger.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate products: %w", err)
		}
		st.inventory = ledger
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL).SetConnectTimeout(cfg.DBTimeout))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		st.inventory = adapters.NewMongoInventoryLedger(client.Database(cfg.MongoDatabase))
		st.closers = append(st.closers, client.Disconnect)
		if cfg.StorageBackend == config.BackendPostgres {
			log.Warn("inventory in MongoDB is not covered by the Postgres transaction; stock is compensated after commit")
		}
	case config.BackendMemory:
		st.inventory = adapters.NewMemoryInventoryLedger()
	default:
		return nil, fmt.Errorf("unsupported inventory backend %q", cfg.InventoryBackend)
	}

	switch cfg.CartBackend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, carts will fail until it recovers", zap.Error(err))
		}
		st.carts = adapters.NewRedisCartStore(client)
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
	case config.BackendMemory:
		st.carts = adapters.NewMemoryCartStore()
	default:
		return nil, fmt.Errorf("unsupported cart backend %q", cfg.CartBackend)
	}

	return st, nil
}

// openBroker connects the configured event broker. A broker that cannot be
// reached disables events instead of failing startup.
func openBroker(cfg *config.Config, log *logger.Logger) (ports.EventPublisher, *rabbitmq.Connection, func(), error) {
	switch cfg.EventsBroker {
	case config.BrokerRabbitMQ:
		conn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("failed to connect to RabbitMQ, events will be disabled", zap.Error(err))
			return nil, nil, nil, nil
		}
		closeConn := func() { _ = conn.Close() }

		pub, err := rabbitmq.NewPublisher(conn, events.ExchangeOrders, log)
		if err != nil {
			log.Warn("failed to create publisher", zap.Error(err))
			return nil, conn, closeConn, nil
		}
		return adapters.NewRabbitMQPublisher(pub, log), conn, closeConn, nil
	case config.BrokerKafka:
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Warn("failed to create Kafka producer, events will be disabled", zap.Error(err))
			return nil, nil, nil, nil
		}
		return adapters.NewKafkaPublisher(producer), nil, func() { _ = producer.Close() }, nil
	case config.BrokerNone, "":
		return nil, nil, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported events broker %q", cfg.EventsBroker)
	}
}
