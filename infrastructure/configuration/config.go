package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"vidtube/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Storage     Storage     `json:"storage"`
	Search      Search      `json:"search"`
	Upload      Upload      `json:"upload"`
	RateLimit   RateLimit   `json:"rateLimit"`
	Cache       Cache       `json:"cache"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port               int      `json:"port"`
	AccessTokenSecret  string   `json:"accessTokenSecret"`
	AccessTokenTTL     int      `json:"accessTokenTTL"`
	RefreshTokenSecret string   `json:"refreshTokenSecret"`
	RefreshTokenTTL    int      `json:"refreshTokenTTL"`
	AllowedOrigins     []string `json:"allowedOrigins"`
	TLSEnabled         bool     `json:"tlsEnabled"`
	TLSCertFile        string   `json:"tlsCertFile"`
	TLSKeyFile         string   `json:"tlsKeyFile"`
}

type Database struct {
	Mongo Db `json:"mongo"`
}

type Db struct {
	URI            string `json:"uri"`
	Name           string `json:"name"`
	Host           string `json:"host"`
	Port           string `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	Enabled  bool   `json:"enabled"`
}

type Storage struct {
	Endpoint       string `json:"endpoint"`
	AccessKey      string `json:"accessKey"`
	SecretKey      string `json:"secretKey"`
	Bucket         string `json:"bucket"`
	PublicBaseURL  string `json:"publicBaseURL"`
	UseSSL         bool   `json:"useSSL"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type Search struct {
	Enabled        bool   `json:"enabled"`
	URL            string `json:"url"`
	Index          string `json:"index"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type Upload struct {
	Dir          string `json:"dir"`
	MaxSizeBytes int64  `json:"maxSizeBytes"`
}

type RateLimit struct {
	WritesPerSecond float64 `json:"writesPerSecond"`
}

type Cache struct {
	StatsTTLSeconds int `json:"statsTTLSeconds"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	if files := LoadEnvFromFile(EnvFiles()...); len(files) > 0 {
		logger.GetLogger().WithField("files", files).Info("Loaded env files")
	}
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initStorage(&C)
	initServices(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// MongoURI builds a connection string when no explicit uri is configured.
func (d Db) MongoURI() string {
	if d.URI != "" {
		return d.URI
	}
	if d.User != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s", d.User, d.Password, d.Host, d.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s", d.Host, d.Port)
}

func initDatabase(C *Config) {
	mongo := &C.Database.Mongo
	if v := os.Getenv("MONGODB_URI"); v != "" {
		mongo.URI = v
	}
	if mongo.Name == "" {
		mongo.Name = envOr("DB_NAME", "vidtube")
	}
	if mongo.Host == "" {
		mongo.Host = envOr("DB_HOST", "localhost")
	}
	if mongo.Port == "" {
		mongo.Port = envOr("DB_PORT", "27017")
	}
	if mongo.User == "" {
		mongo.User = os.Getenv("DB_USER")
	}
	if mongo.Password == "" {
		mongo.Password = os.Getenv("DB_PASSWORD")
	}
	if mongo.TimeoutSeconds <= 0 {
		mongo.TimeoutSeconds = 10
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"host": mongo.Host, "port": mongo.Port, "name": mongo.Name, "uriSet": mongo.URI != "",
	}).Info("Database configuration")
}

func initApp(C *Config) {
	if v := os.Getenv("ACCESS_TOKEN_SECRET"); v != "" {
		C.App.AccessTokenSecret = v
	}
	if v := os.Getenv("REFRESH_TOKEN_SECRET"); v != "" {
		C.App.RefreshTokenSecret = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8000
	}
	if C.App.AccessTokenTTL <= 0 {
		C.App.AccessTokenTTL = 86400
	}
	if C.App.RefreshTokenTTL <= 0 {
		C.App.RefreshTokenTTL = 864000
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		C.App.AllowedOrigins = strings.Split(v, ",")
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.AccessTokenSecret == "" || C.App.RefreshTokenSecret == "" {
		logger.GetLogger().Warn("Token secrets not set; authentication will fail. Provide ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET via environment.")
	}
}

func initStorage(C *Config) {
	s := &C.Storage
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		s.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		s.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		s.SecretKey = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		s.UseSSL = v == "true"
	}
	if s.Endpoint == "" {
		s.Endpoint = "localhost:9000"
	}
	if s.Bucket == "" {
		s.Bucket = "vidtube"
	}
	if s.PublicBaseURL == "" {
		scheme := "http"
		if s.UseSSL {
			scheme = "https"
		}
		s.PublicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, s.Endpoint, s.Bucket)
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = 60
	}
	if C.Upload.Dir == "" {
		C.Upload.Dir = envOr("UPLOAD_DIR", "./public/temp")
	}
	if C.Upload.MaxSizeBytes <= 0 {
		C.Upload.MaxSizeBytes = 512 << 20
	}
}

func initServices(C *Config) {
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = envOr("REDIS_HOST", "localhost")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = envOr("REDIS_PORT", "6379")
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		C.RedisClient.Enabled = v == "true"
	}
	if v := os.Getenv("ELASTICSEARCH_URL"); v != "" {
		C.Search.URL = v
		C.Search.Enabled = true
	}
	if C.Search.Index == "" {
		C.Search.Index = "videos"
	}
	if C.Search.TimeoutSeconds <= 0 {
		C.Search.TimeoutSeconds = 3
	}
	if C.RateLimit.WritesPerSecond <= 0 {
		C.RateLimit.WritesPerSecond = 20
	}
	if C.Cache.StatsTTLSeconds <= 0 {
		C.Cache.StatsTTLSeconds = 60
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
