package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"furniadmin/catalog-service/internal/app/catalog/config"
	"furniadmin/catalog-service/internal/app/catalog/handler"
	"furniadmin/catalog-service/internal/app/catalog/repository"
	"furniadmin/catalog-service/internal/app/catalog/service"
	"furniadmin/catalog-service/internal/app/catalog/util"
	"furniadmin/pkg/logger"
)

const connectAttempts = 10

// application - собранные зависимости сервиса
type application struct {
	importService *service.ImportService

	critical map[string]handler.HealthCheck
	optional map[string]handler.HealthCheck

	closers []func()
}

// Close освобождает ресурсы в обратном порядке
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApplication подключает хранилище, блокировку, кеш, историю и Kafka
// по настройкам IMPORT_* и собирает ImportService
func buildApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	app := &application{
		critical: make(map[string]handler.HealthCheck),
		optional: make(map[string]handler.HealthCheck),
	}

	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	// === ХРАНИЛИЩЕ КАТАЛОГА ===
	var store *repository.Store
	switch cfg.Import.StoreBackend {
	case config.StoreBackendSupabase:
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.Key, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create supabase client: %w", err)
		}
		store = repository.NewSupabaseStore(client)
		logger.Info().Str("url", cfg.Supabase.URL).Msg("Using Supabase catalog store")

	default:
		db, err := connectGorm(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		app.closers = append(app.closers, func() { _ = sqlDB.Close() })
		app.critical["database"] = sqlDB.PingContext

		if cfg.Database.Migrate {
			if err := repository.Migrate(db); err != nil {
				return nil, err
			}
			logger.Info().Msg("Catalog schema migrated")
		}

		store = repository.NewGormStore(db)
		logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")
	}

	// === REDIS: кеш категорий и блокировка ===
	// Без Redis блокировки кеш необязателен: импорт работает и без сброса кеша
	var cache util.CategoryCache
	var redisClient *util.RedisClient
	redisRequired := cfg.Import.LockBackend == config.LockBackendRedis
	if redisRequired || cfg.Redis.Host != "" {
		client, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		switch {
		case err == nil:
			redisClient = client
			cache = client
			app.closers = append(app.closers, func() { _ = client.Close() })
			if redisRequired {
				app.critical["redis"] = client.Ping
			} else {
				app.optional["redis"] = client.Ping
			}
			logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
		case redisRequired:
			return nil, err
		default:
			logger.Warn().Err(err).Msg("Redis unavailable, category cache will not be invalidated")
		}
	}

	// === БЛОКИРОВКА ПРОГОНОВ ===
	var locker util.RunLocker
	switch cfg.Import.LockBackend {
	case config.LockBackendRedis:
		locker = redisClient.Locker(cfg.Import.LockTTL)
	case config.LockBackendPostgres:
		pool, err := connectPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect lock pool: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		locker = util.NewPostgresLocker(pool)
	default:
		logger.Warn().Msg("Import lock disabled, concurrent runs across instances are not serialized")
	}

	// === ИСТОРИЯ ПРОГОНОВ ===
	var runs repository.RunRepository
	if cfg.MongoDB.URI != "" {
		client, err := connectMongoDB(cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		app.closers = append(app.closers, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
			}
		})
		app.optional["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		runs = repository.NewRunRepository(client.Database(cfg.MongoDB.Database))
		logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")
	}

	// === KAFKA ===
	var publisher util.MessagePublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		app.closers = append(app.closers, func() { _ = producer.Close() })
		publisher = producer
		logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")
	}

	// Не настроенные зависимости остаются nil интерфейсами и заменяются noop
	engine := service.NewReconcileService(store, nil, publisher)
	app.importService = service.NewImportService(engine, runs, locker, cache)

	ok = true
	return app, nil
}

// connectGorm устанавливает соединение с PostgreSQL через GORM
// Повторяет попытки, пока база поднимается в Docker
func connectGorm(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(10)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", connectAttempts, err)
}

// connectPool открывает небольшой pgx пул для advisory lock
func connectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	// Одна транзакция на прогон, больше соединений не нужно
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < connectAttempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				cancel()
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}
		cancel()

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
