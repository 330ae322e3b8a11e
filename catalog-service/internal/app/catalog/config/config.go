package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Хранилища каталога
const (
	StoreBackendPostgres = "postgres"
	StoreBackendSupabase = "supabase"
)

// Блокировки прогонов импорта
const (
	LockBackendRedis    = "redis"
	LockBackendPostgres = "postgres"
	LockBackendNone     = "none"
)

// Config содержит все настройки Catalog Service
// Сервис сверяет ассеты каталога с базой и досоздает недостающие записи
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Supabase SupabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Import   ImportConfig
	Log      LogConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host           string   // Адрес хоста (по умолчанию 0.0.0.0)
	Port           string   // Порт сервера (по умолчанию 8081)
	AllowedOrigins []string // Origins админки для CORS, пусто = любые http/https
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для таблиц categories, subcategories, products и advisory lock
type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных
	SSLMode  string // Режим SSL (disable/require/verify-full)
	Migrate  bool   // Выполнять AutoMigrate при старте
}

// SupabaseConfig - hosted PostgREST хранилище каталога
type SupabaseConfig struct {
	URL string
	Key string // service role key
}

type RedisConfig struct {
	Host     string // Хост Redis
	Port     string // Порт Redis
	Password string // Пароль Redis (опционально)
	DB       int    // Номер БД Redis (0-15)
}

// KafkaConfig - события PRODUCT_CREATED по созданным товарам
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string
}

// MongoDBConfig - история прогонов импорта
type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB, пусто = история не сохраняется
	Database string
}

type JWTConfig struct {
	Secret string // Должен совпадать с сервисом авторизации админки
}

// ImportConfig - параметры reconciliation
type ImportConfig struct {
	StoreBackend string        // postgres | supabase
	LockBackend  string        // redis | postgres | none
	LockTTL      time.Duration // Время жизни Redis блокировки
	Schedule     string        // cron расписание, пусто = без планировщика
	RunOnStart   bool          // Первый прогон сразу после старта serve
	ManifestPath string        // Файл манифеста, пусто = встроенный
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load загружает конфигурацию из переменных окружения
// Файл .env в рабочей директории подхватывается, если он есть
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8081"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "catalog_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL: getEnv("SUPABASE_URL", ""),
			Key: getEnv("SUPABASE_KEY", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "product_events"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", ""),
			Database: getEnv("MONGODB_DATABASE", "catalog_service"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Import: ImportConfig{
			StoreBackend: strings.ToLower(getEnv("IMPORT_STORE_BACKEND", StoreBackendPostgres)),
			LockBackend:  strings.ToLower(getEnv("IMPORT_LOCK_BACKEND", LockBackendRedis)),
			LockTTL:      time.Duration(getEnvInt("IMPORT_LOCK_TTL_SECONDS", 600)) * time.Second,
			Schedule:     getEnv("IMPORT_SCHEDULE", ""),
			RunOnStart:   getEnvBool("IMPORT_RUN_ON_START", false),
			ManifestPath: getEnv("IMPORT_MANIFEST_PATH", ""),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Import.StoreBackend {
	case StoreBackendPostgres:
	case StoreBackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for store backend %q", StoreBackendSupabase)
		}
	default:
		return fmt.Errorf("invalid IMPORT_STORE_BACKEND value: %q", c.Import.StoreBackend)
	}

	switch c.Import.LockBackend {
	case LockBackendRedis, LockBackendNone:
	case LockBackendPostgres:
		// advisory lock берется в той же базе, где лежит каталог
		if c.Import.StoreBackend != StoreBackendPostgres {
			return fmt.Errorf("lock backend %q requires store backend %q", LockBackendPostgres, StoreBackendPostgres)
		}
	default:
		return fmt.Errorf("invalid IMPORT_LOCK_BACKEND value: %q", c.Import.LockBackend)
	}

	if c.Import.LockTTL <= 0 {
		return fmt.Errorf("IMPORT_LOCK_TTL_SECONDS must be positive")
	}

	return nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL возвращает строку подключения для pgxpool
// Логин и пароль экранируются, в пароле могут быть @ / : %
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList разбирает список через запятую, пустые элементы отбрасываются
func getEnvList(key string) []string {
	var result []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
