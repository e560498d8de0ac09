package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Auth     AuthConfig
	Minio    MinioConfig
	Upload   UploadConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Vimeo    VimeoConfig
	Import   ImportConfig
	Share    ShareConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
}

type MinioConfig struct {
	Endpoint              string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName            string        `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	Region                string        `envconfig:"MINIO_REGION" default:"us-east-1"`
	AccessKey             string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey             string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	PartPresignedDuration time.Duration `envconfig:"MINIO_PART_PRESIGNED_DURATION" default:"60m"`
	DownloadURLDuration   time.Duration `envconfig:"MINIO_DOWNLOAD_URL_DURATION" default:"60m"`
	UseSSL                bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxFileSize   int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10737418240"` // 10GiB
	MaxPartNumber int           `envconfig:"UPLOAD_MAX_PART_NUMBER" default:"10000"`
	StaleAfter    time.Duration `envconfig:"UPLOAD_STALE_AFTER" default:"24h"`
	CleanupEvery  time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
}

type NATSConfig struct {
	URL          string        `envconfig:"NATS_URL" required:"true"`
	StreamName   string        `envconfig:"NATS_STREAM_NAME" default:"IMPORTS"`
	ConsumerName string        `envconfig:"NATS_CONSUMER_NAME" default:"import-worker"`
	Subject      string        `envconfig:"NATS_SUBJECT" default:"imports.tasks"`
	AckWait      time.Duration `envconfig:"NATS_ACK_WAIT" default:"65m"`
	Workers      int           `envconfig:"NATS_WORKERS" default:"1"`
	DedupWindow  time.Duration `envconfig:"NATS_DEDUP_WINDOW" default:"24h"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type VimeoConfig struct {
	BaseURL        string        `envconfig:"VIMEO_BASE_URL" default:"https://api.vimeo.com"`
	AccessToken    string        `envconfig:"VIMEO_ACCESS_TOKEN"`
	PerPage        int           `envconfig:"VIMEO_PER_PAGE" default:"100"`
	RequestTimeout time.Duration `envconfig:"VIMEO_REQUEST_TIMEOUT" default:"30s"`
}

type ImportConfig struct {
	OwnerID       string          `envconfig:"IMPORT_OWNER_ID" default:"00000000-0000-0000-0000-000000000001"`
	TempDir       string          `envconfig:"IMPORT_TEMP_DIR" default:"storage/temp/vimeo"`
	SourceDir     string          `envconfig:"IMPORT_SOURCE_DIR" default:"storage/vimeo-videos"`
	ProcessedDir  string          `envconfig:"IMPORT_PROCESSED_DIR" default:"storage/vimeo-videos/processed"`
	MetadataDir   string          `envconfig:"IMPORT_METADATA_DIR" default:"storage/vimeo-metadata"`
	Pattern       string          `envconfig:"IMPORT_PATTERN" default:"*.mp4"`
	Concurrency   int             `envconfig:"IMPORT_CONCURRENCY" default:"3"`
	ChunkSize     int             `envconfig:"IMPORT_CHUNK_SIZE" default:"3"`
	TaskTimeout   time.Duration   `envconfig:"IMPORT_TASK_TIMEOUT" default:"1h"`
	MaxTries      int             `envconfig:"IMPORT_MAX_TRIES" default:"3"`
	MaxExceptions int             `envconfig:"IMPORT_MAX_EXCEPTIONS" default:"2"`
	FFProbePath   string          `envconfig:"IMPORT_FFPROBE_PATH" default:"ffprobe"`
	RetryBackoff  []time.Duration `envconfig:"IMPORT_RETRY_BACKOFF" default:"1m,5m,15m"`
	MetricsAddr   string          `envconfig:"IMPORT_METRICS_ADDR" default:":9091"`
}

type ShareConfig struct {
	PublicBaseURL  string `envconfig:"SHARE_PUBLIC_BASE_URL" default:"http://localhost:8080"`
	EmailPerMinute int    `envconfig:"SHARE_EMAIL_PER_MINUTE" default:"5"`
	SMTPHost       string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUser       string `envconfig:"SMTP_USER"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	FromAddress    string `envconfig:"SMTP_FROM" default:"no-reply@localhost"`
}

// Load reads an optional .env file then the process environment
func Load() (*Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WorkerConfig is the part of Config the import worker reads. It carries
// no auth section so the worker starts without a signing secret.
type WorkerConfig struct {
	Minio    MinioConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Vimeo    VimeoConfig
	Import   ImportConfig
}

// LoadWorker reads only the sections the import worker uses
func LoadWorker() (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := LoadSection(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSection processes a single sub config, used by binaries that do not need the full set
func LoadSection(section any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return envconfig.Process("", section)
}
