package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort          string // Application port
	BaseURL          string // Public base URL, used in reset links and export URLs
	DBUser           string // Database user
	DBPassword       string // Database password
	DBHost           string // Database host
	DBPort           string // Database port
	DBName           string // Database name
	JWTSecret        string // JWT secret key
	RedisAddr        string // Redis server address
	RedisPass        string // Redis password
	RedisDB          int    // Redis database number
	PaymentBaseURL   string // Payment gateway API base
	PaymentKeyID     string // Payment gateway key id (also handed to checkout)
	PaymentKeySecret string // Payment gateway key secret
	EmailBaseURL     string // Transactional email API base
	EmailAPIKey      string // Transactional email API key
	SenderEmail      string // From address for reset mails
	ExportDir        string // Directory export files are written to
	IsProd           bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:          os.Getenv("APP_PORT"),           // Application port
		BaseURL:          os.Getenv("BASE_URL"),           // Public base URL
		DBUser:           os.Getenv("DB_USER"),            // Database user
		DBPassword:       os.Getenv("DB_PASSWORD"),        // Database password
		DBHost:           os.Getenv("DB_HOST"),            // Database host
		DBPort:           os.Getenv("DB_PORT"),            // Database port
		DBName:           os.Getenv("DB_NAME"),            // Database name
		JWTSecret:        os.Getenv("JWT_SECRET"),         // JWT secret key
		RedisAddr:        os.Getenv("REDIS_ADDR"),         // Redis server address
		RedisPass:        os.Getenv("REDIS_PASS"),         // Redis password
		RedisDB:          redisDB,                         // Redis database number
		PaymentBaseURL:   os.Getenv("PAYMENT_BASE_URL"),   // Payment gateway API base
		PaymentKeyID:     os.Getenv("PAYMENT_KEY_ID"),     // Payment gateway key id
		PaymentKeySecret: os.Getenv("PAYMENT_KEY_SECRET"), // Payment gateway key secret
		EmailBaseURL:     os.Getenv("EMAIL_BASE_URL"),     // Transactional email API base
		EmailAPIKey:      os.Getenv("EMAIL_API_KEY"),      // Transactional email API key
		SenderEmail:      os.Getenv("SENDER_EMAIL"),       // From address
		ExportDir:        os.Getenv("EXPORT_DIR"),         // Export directory
		IsProd:           os.Getenv("IS_PROD") == "true",  // Is production environment
	}
}
