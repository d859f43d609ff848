package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	MQTT     MQTTConfig
	Booking  BookingConfig
	Import   ImportConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver    string // local or s3
	LocalDir  string
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type BookingConfig struct {
	StrictWeekdayFilter bool
	MaxConcurrentChecks int
}

type ImportConfig struct {
	RequesterID    string
	RoomID         string
	ActivityName   string
	AlignWeekday   bool
	MaxUploadBytes int64
	MinUploadBytes int64
	LockTTL        time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Location resolves the campus timezone.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// DSN is the libpq keyword string used by the pool.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=%s host=%s port=%s",
		c.User, c.Password, c.Name, c.SSLMode, c.Host, c.Port)
}

// MigrateURL is the pgx5:// URL understood by golang-migrate.
func (c DatabaseConfig) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// LoadConfig reads path as a dotenv file when it exists, then lets the
// environment override every key.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "campus-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "timetableCsv")
	v.SetDefault("STORAGE_S3_REGION", "us-east-1")
	v.SetDefault("MQTT_ENABLED", false)
	v.SetDefault("MQTT_CLIENT_ID", "campus-booking")
	v.SetDefault("MQTT_TOPIC_PREFIX", "campus")
	v.SetDefault("BOOKING_STRICT_WEEKDAY_FILTER", false)
	v.SetDefault("BOOKING_MAX_CONCURRENT_CHECKS", 8)
	v.SetDefault("IMPORT_ACTIVITY_NAME", "Learning")
	v.SetDefault("IMPORT_ALIGN_WEEKDAY", false)
	v.SetDefault("IMPORT_MAX_UPLOAD_BYTES", 1000000)
	v.SetDefault("IMPORT_MIN_UPLOAD_BYTES", 1000)
	v.SetDefault("IMPORT_LOCK_TTL", "2m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Port:     v.GetString("PORT"),
			Debug:    v.GetBool("DEBUG"),
			LogPath:  v.GetString("LOG_PATH"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Driver:    v.GetString("STORAGE_DRIVER"),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
			Endpoint:  v.GetString("STORAGE_S3_ENDPOINT"),
			Region:    v.GetString("STORAGE_S3_REGION"),
			Bucket:    v.GetString("STORAGE_S3_BUCKET"),
			AccessKey: v.GetString("STORAGE_S3_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_S3_SECRET_KEY"),
			Prefix:    v.GetString("STORAGE_S3_PREFIX"),
		},
		MQTT: MQTTConfig{
			Enabled:     v.GetBool("MQTT_ENABLED"),
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			Username:    v.GetString("MQTT_USERNAME"),
			Password:    v.GetString("MQTT_PASSWORD"),
			TopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),
		},
		Booking: BookingConfig{
			StrictWeekdayFilter: v.GetBool("BOOKING_STRICT_WEEKDAY_FILTER"),
			MaxConcurrentChecks: v.GetInt("BOOKING_MAX_CONCURRENT_CHECKS"),
		},
		Import: ImportConfig{
			RequesterID:    v.GetString("IMPORT_REQUESTER_ID"),
			RoomID:         v.GetString("IMPORT_ROOM_ID"),
			ActivityName:   v.GetString("IMPORT_ACTIVITY_NAME"),
			AlignWeekday:   v.GetBool("IMPORT_ALIGN_WEEKDAY"),
			MaxUploadBytes: v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
			MinUploadBytes: v.GetInt64("IMPORT_MIN_UPLOAD_BYTES"),
			LockTTL:        v.GetDuration("IMPORT_LOCK_TTL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
