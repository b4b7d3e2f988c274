package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		User  int64  `env:"TELEGRAM_USER"`
		Token string `env:"TELEGRAM_TOKEN"`
	}
	Bluesky struct {
		BaseURL      string        `env:"BLUESKY_BASE_URL" env-default:"https://bsky.social"`
		Handle       string        `env:"BLUESKY_HANDLE"`
		Password     string        `env:"BLUESKY_PASSWORD"`
		SessionStore string        `env:"BLUESKY_SESSION_STORE" env-default:"file"`
		SessionPath  string        `env:"BLUESKY_SESSION_PATH" env-default:"./config/session.txt"`
		FeedLimit    int           `env:"BLUESKY_FEED_LIMIT" env-default:"100"`
		Timeout      time.Duration `env:"BLUESKY_TIMEOUT" env-default:"30s"`
	}
	Crawler struct {
		Schedule       string        `env:"CRAWLER_SCHEDULE" env-default:"*/30 * * * *"`
		Timezone       string        `env:"CRAWLER_TIMEZONE" env-default:"Asia/Tokyo"`
		RunOnStart     bool          `env:"CRAWLER_RUN_ON_START" env-default:"true"`
		Debug          bool          `env:"CRAWLER_DEBUG" env-default:"false"`
		CachePath      string        `env:"CRAWLER_CACHE_PATH" env-default:"./cache"`
		CacheRetention time.Duration `env:"CRAWLER_CACHE_RETENTION" env-default:"168h"`
		HistoryWindow  int           `env:"CRAWLER_HISTORY_WINDOW" env-default:"1000"`
		RunTimeout     time.Duration `env:"CRAWLER_RUN_TIMEOUT" env-default:"10m"`
	}
	Downloader struct {
		SaveBasePath   string        `env:"DOWNLOADER_SAVE_BASE_PATH" env-default:"./bookmark"`
		Workers        int           `env:"DOWNLOADER_WORKERS" env-default:"16"`
		Retries        uint64        `env:"DOWNLOADER_RETRIES" env-default:"3"`
		ConnectTimeout time.Duration `env:"DOWNLOADER_CONNECT_TIMEOUT" env-default:"5s"`
		ReadTimeout    time.Duration `env:"DOWNLOADER_READ_TIMEOUT" env-default:"60s"`
		FFmpegPath     string        `env:"DOWNLOADER_FFMPEG_PATH" env-default:"ffmpeg"`
		RatePerSecond  float64       `env:"DOWNLOADER_RATE_PER_SECOND" env-default:"10"`
	}
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

// New reads the configuration once per process. A .env file in the working
// directory is loaded first when it exists.
func New() (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			loadErr = fmt.Errorf("failed to load .env: %w", err)
			return
		}
		cfg, loadErr = read()
	})
	return cfg, loadErr
}

func read() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		help, _ := cleanenv.GetDescription(c, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}
	return c, nil
}

// GetDSN returns the postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
