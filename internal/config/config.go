package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"medreps/internal/directory"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
	StorageDriverMemory   = "memory"

	AggregationScan     = "scan"
	AggregationCounters = "counters"

	developmentSecret = "medreps-development-secret"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type StorageConfig struct {
	Driver string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ObjectStoreConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKey       string
	SecretKey       string
	BucketSnapshots string
	UseSSL          bool
	Region          string
}

type SecurityConfig struct {
	JWTAccessSecret string
	JWTAccessTTL    time.Duration
}

type DirectoryConfig struct {
	ManagerCode     string
	ManagerName     string
	Representatives []directory.Representative
}

type AggregationConfig struct {
	Mode          string
	ReportsWindow int
	PlansWindow   int
	RecentReports int
}

type QueueConfig struct {
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type JobsConfig struct {
	Enabled       bool
	ReconcileSpec string
	SnapshotSpec  string
}

type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Mongo            MongoConfig
	Storage          StorageConfig
	Redis            RedisConfig
	ObjectStore      ObjectStoreConfig
	Security         SecurityConfig
	Directory        DirectoryConfig
	Aggregation      AggregationConfig
	Queue            QueueConfig
	Jobs             JobsConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("MEDREPS")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Security.JWTAccessSecret == "" && cfg.Environment != "production" {
		cfg.Security.JWTAccessSecret = developmentSecret
	}
	if len(cfg.Directory.Representatives) == 0 {
		cfg.Directory.Representatives = directory.DefaultRepresentatives()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMongo, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Aggregation.Mode {
	case AggregationScan, AggregationCounters:
	default:
		return fmt.Errorf("unknown aggregation mode %q", c.Aggregation.Mode)
	}
	if c.Security.JWTAccessSecret == "" && c.Environment == "production" {
		return fmt.Errorf("security.jwtaccesssecret required in production")
	}
	if c.Aggregation.ReportsWindow <= 0 || c.Aggregation.PlansWindow <= 0 || c.Aggregation.RecentReports <= 0 {
		return fmt.Errorf("aggregation windows must be positive")
	}
	return nil
}

// BuildDirectory constructs the identity directory from the loaded configuration.
func (c *AppConfig) BuildDirectory() (*directory.Directory, error) {
	return directory.New(c.Directory.ManagerCode, c.Directory.ManagerName, c.Directory.Representatives)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("storage.driver", StorageDriverPostgres)

	v.SetDefault("postgres.maxopen", 20)
	v.SetDefault("postgres.maxidle", 4)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "medreps")
	v.SetDefault("mongo.connecttimeout", "10s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("objectstore.enabled", false)
	v.SetDefault("objectstore.bucketsnapshots", "medreps-snapshots")
	v.SetDefault("objectstore.usessl", false)
	v.SetDefault("objectstore.region", "us-east-1")

	v.SetDefault("security.jwtaccessttl", "12h")

	v.SetDefault("directory.managercode", directory.DefaultManagerCode)
	v.SetDefault("directory.managername", directory.DefaultManagerName)

	v.SetDefault("aggregation.mode", AggregationScan)
	v.SetDefault("aggregation.reportswindow", 50)
	v.SetDefault("aggregation.planswindow", 20)
	v.SetDefault("aggregation.recentreports", 10)

	v.SetDefault("queue.stream", "medreps:activity")
	v.SetDefault("queue.group", "medreps-workers")
	v.SetDefault("queue.consumer", "worker-1")
	v.SetDefault("queue.claiminterval", "30s")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.reconcilespec", "0 0 */1 * * *") // hourly
	v.SetDefault("jobs.snapshotspec", "0 30 23 * * *")

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.maxsizemb", 50)
	v.SetDefault("logging.maxbackups", 5)
	v.SetDefault("logging.maxagedays", 14)
	v.SetDefault("logging.compress", true)
}
