package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevSessionSecret 仅用于本地开发，生产环境必须通过 SESSION_SECRET 覆盖。
const DevSessionSecret = "realtyblog-dev-secret"

const (
	defaultEnvFile      = ".env"
	defaultFallbackFile = "db_config.env"
)

// DBConfig 描述数据库连接参数。
type DBConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"mysql"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"3306"`
	Name     string `env:"DB_NAME" envDefault:"realty_blog"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASS"`
	Charset  string `env:"DB_CHARSET" envDefault:"utf8mb4"`
	Path     string `env:"DB_PATH" envDefault:"data/realty.db"`
}

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	Port       string `env:"PORT" envDefault:"8080"`
	ListenAddr string `env:"LISTEN_ADDR"`
	GinMode    string `env:"GIN_MODE" envDefault:"release"`

	SessionSecret string `env:"SESSION_SECRET"`
	SessionName   string `env:"SESSION_NAME" envDefault:"realty_session"`
	SessionMaxAge int    `env:"SESSION_MAX_AGE" envDefault:"604800"`
	SessionSecure bool   `env:"SESSION_SECURE" envDefault:"false"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads/images"`
	UploadURLPath  string `env:"UPLOAD_URL_PATH" envDefault:"/uploads/images"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" envDefault:"0.2"`
	LoginBurst     int     `env:"LOGIN_BURST" envDefault:"5"`

	Database DBConfig
}

// UsesDevSecret reports whether the session secret fell back to the development value.
func (c AppConfig) UsesDevSecret() bool {
	return c.SessionSecret == DevSessionSecret
}

// Load 读取工作目录下的 .env 与 db_config.env，再叠加进程环境变量解析配置。
func Load() (AppConfig, error) {
	return LoadFrom(defaultEnvFile, defaultFallbackFile)
}

// LoadFrom behaves like Load with explicit file locations. Empty paths are skipped.
//
// Precedence: process environment, then envFile. The fallback file only fills
// keys that are still unset, and only when DB_PASS is empty after the first two.
func LoadFrom(envFile, fallbackFile string) (AppConfig, error) {
	environment, err := readEnvFile(envFile)
	if err != nil {
		return AppConfig{}, err
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			environment[key] = value
		}
	}

	if strings.TrimSpace(environment["DB_PASS"]) == "" {
		fallback, err := readEnvFile(fallbackFile)
		if err != nil {
			return AppConfig{}, err
		}
		for key, value := range fallback {
			if strings.TrimSpace(environment[key]) == "" {
				environment[key] = value
			}
		}
	}

	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "8080"
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}

	c.SessionSecret = strings.TrimSpace(c.SessionSecret)
	if c.SessionSecret == "" {
		c.SessionSecret = DevSessionSecret
	}

	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	if c.UploadMaxBytes <= 0 {
		c.UploadMaxBytes = 5 << 20
	}

	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, origin := range c.CORSAllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSAllowedOrigins = origins

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.AdminUsername = strings.TrimSpace(c.AdminUsername)
}

func readEnvFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}
