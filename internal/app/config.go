package app

import (
	"os"
	"time"

	"github.com/gotify/configor"
)

const (
	NotifyOutbox = "outbox"
	NotifySMTP   = "smtp"
	NotifyNone   = "none"
)

type Config struct {
	App struct {
		Port    string `default:"3000" env:"PORT"`
		BaseURL string `default:"http://localhost:3000" env:"BASE_URL"`
		Env     string `default:"development" env:"APP_ENV"`
		// MaxUploadMB bounds the in-memory part of multipart bodies.
		MaxUploadMB int64 `default:"64" env:"MAX_UPLOAD_MB"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"go_leave" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		SSLMode        string `default:"disable" env:"DB_SSLMODE"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
	}
	Redis struct {
		Addr string `default:"127.0.0.1:6379" env:"REDIS_ADDR"`
	}
	Kafka struct {
		Broker        string        `default:"" env:"KAFKA_BROKER"`
		ConsumerGroup string        `default:"go-leave-notification-mailer" env:"KAFKA_CONSUMER_GROUP"`
		PollInterval  time.Duration `default:"3s" env:"OUTBOX_POLL_INTERVAL"`
	}
	Storage struct {
		Endpoint  string `default:"127.0.0.1:9000" env:"MINIO_ENDPOINT"`
		AccessKey string `default:"" env:"MINIO_ACCESS_KEY"`
		SecretKey string `default:"" env:"MINIO_SECRET_KEY"`
		Bucket    string `default:"leave-attachments" env:"MINIO_BUCKET"`
		Region    string `default:"" env:"MINIO_REGION"`
		UseSSL    *bool  `default:"false" env:"MINIO_USE_SSL"`
	}
	Smtp struct {
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		From       string `default:"no-reply@localhost" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"false" env:"SMTP_TLS_ENABLED"`
	}
	Notify struct {
		// Mode is outbox (kafka + consumer), smtp (mail from the API process) or none.
		Mode string `default:"outbox" env:"NOTIFY_MODE"`
	}
	Holiday struct {
		ICSURL       string        `default:"" env:"HOLIDAY_ICS_URL"`
		ImportCron   string        `default:"0 3 * * *" env:"HOLIDAY_IMPORT_CRON"`
		FetchTimeout time.Duration `default:"30s" env:"HOLIDAY_FETCH_TIMEOUT"`
	}
}

func configFiles() []string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return []string{path}
	}
	return []string{"config.yml"}
}

// LoadConfig reads config.yml when present; environment variables override it.
func LoadConfig() (*Config, error) {
	conf := new(Config)
	if err := configor.New(&configor.Config{}).Load(conf, configFiles()...); err != nil {
		return nil, err
	}
	return conf, nil
}

func boolValue(v *bool) bool {
	return v != nil && *v
}
