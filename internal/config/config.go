// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type MySQL struct {
	User         string
	Password     string
	Host         string
	Port         string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
}

type Cloudinary struct {
	CloudName    string
	UploadPreset string
}

type Admin struct {
	Email        string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

type Config struct {
	Port                string
	MySQL               MySQL
	RedisAddr           string
	RedisPassword       string
	RabbitURL           string
	OrderExchange       string
	MinOrderAmount      decimal.Decimal
	SharePhone          string
	CatalogPollInterval time.Duration
	SessionTTL          time.Duration
	TaxonomyFile        string
	QRImagePath         string
	Cloudinary          Cloudinary
	Admin               Admin
}

func FromEnv() (*Config, error) {
	c := &Config{
		Port: getEnv("PORT", "8080"),
		MySQL: MySQL{
			User:     getEnv("MYSQL_USER", "storefront"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "storefront"),
		},
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		OrderExchange: getEnv("ORDER_EXCHANGE", "order.exchange"),
		SharePhone:    getEnv("SHARE_PHONE", "919597413148"),
		TaxonomyFile:  os.Getenv("CATALOG_TAXONOMY_FILE"),
		QRImagePath:   os.Getenv("INVOICE_QR_IMAGE"),
		Cloudinary: Cloudinary{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			UploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		},
		Admin: Admin{
			Email:        os.Getenv("ADMIN_EMAIL"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
		},
	}

	var err error
	if c.MySQL.MaxOpenConns, err = intEnv("MYSQL_MAX_OPEN_CONNS", 50); err != nil {
		return nil, err
	}
	if c.MySQL.MaxIdleConns, err = intEnv("MYSQL_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if c.CatalogPollInterval, err = durationEnv("CATALOG_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if c.SessionTTL, err = durationEnv("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if c.Admin.TokenTTL, err = durationEnv("ADMIN_TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if c.MinOrderAmount, err = decimal.NewFromString(getEnv("MIN_ORDER_AMOUNT", "3000")); err != nil {
		return nil, fmt.Errorf("MIN_ORDER_AMOUNT: %w", err)
	}
	if c.MinOrderAmount.IsNegative() {
		return nil, fmt.Errorf("MIN_ORDER_AMOUNT: must not be negative")
	}
	return c, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
