package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	JwtSecret          string
	DbHost             string
	DbPort             string
	DbUser             string
	DbPassword         string
	DbName             string
	ServerPort         string
	Issuer             string
	IsProduction       bool
	AdminUsername      string
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioUseSSL        bool
	MinioBucket        string
	MinioPublicURL     string
	GenAIAPIKey        string
	GenAIModel         string
	AutosaveDebounce   = 1500 * time.Millisecond
	CategoryOrderFile  string
	AuditRetentionDays       = 30
	MaxUploadMB        int64 = 20
	AllowedOrigins           = []string{"http://localhost:", "http://127.0.0.1:"}
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "nominations")
	ServerPort = getEnv("SERVER_PORT", "8080")
	Issuer = getEnv("ISSUER", "nominate")
	IsProduction, _ = strconv.ParseBool(getEnv("IS_PRODUCTION", "false"))
	AdminUsername = getEnv("ADMIN_USERNAME", "admin")

	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minio")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minio123")
	MinioBucket = getEnv("MINIO_BUCKET", "nominations")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	MinioPublicURL = getEnv("MINIO_PUBLIC_URL", "")

	GenAIAPIKey = getEnv("GENAI_API_KEY", "")
	GenAIModel = getEnv("GENAI_MODEL", "gemini-2.5-flash")

	if d, err := time.ParseDuration(getEnv("AUTOSAVE_DEBOUNCE", "1500ms")); err == nil && d > 0 {
		AutosaveDebounce = d
	} else {
		log.Printf("Invalid AUTOSAVE_DEBOUNCE, keeping %s", AutosaveDebounce)
	}
	CategoryOrderFile = getEnv("CATEGORY_ORDER_FILE", "")
	if n, err := strconv.Atoi(getEnv("AUDIT_RETENTION_DAYS", "30")); err == nil && n > 0 {
		AuditRetentionDays = n
	}
	if v := getEnv("ALLOWED_ORIGINS", ""); v != "" {
		AllowedOrigins = strings.Split(v, ",")
	}
	if n, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "20"), 10, 64); err == nil && n > 0 {
		MaxUploadMB = n
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
