package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const defaultModelName = "gemini-2.5-flash"

// aifMandates is the fixed list of Arboreum Impact Foundation mission pillars
// used to score every lead.
var aifMandates = []string{
	"Pillar 1: Climate Resilience",
	"Pillar 2: Sustainable Agriculture",
	"Pillar 3: Regenerative Infrastructure",
	"Pillar 4: Systemic Reform (Including Immigrants, Orphans/Ages, Veterans, and Native American support)",
}

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Config struct {
	GeminiAPIKey  string
	ModelName     string
	FirebaseCreds string
	DBUrl         string
	RabbitMQUrl   string
	R2            *R2Config
	UserQuery     string
	UserID        string
	ResumeFile    string
	Port          string
}

// LoadConfig reads the environment (after a best-effort .env load). Only the
// settings for disabled subsystems may be empty; per-endpoint credential
// checks happen at use time so the server can start without a key and answer
// 503 instead of crashing.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		ModelName:     os.Getenv("GEMINI_MODEL_NAME"),
		FirebaseCreds: os.Getenv("FIREBASE_CREDENTIALS"),
		DBUrl:         os.Getenv("DB_URL"),
		RabbitMQUrl:   os.Getenv("RABBITMQ_URL"),
		UserQuery:     os.Getenv("USER_QUERY"),
		UserID:        os.Getenv("USER_ID"),
		ResumeFile:    os.Getenv("USER_RESUME_FILE"),
		Port:          os.Getenv("PORT"),
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModelName
	}
	if cfg.UserID == "" {
		cfg.UserID = "Vincent_P_Caboara"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	// R2 is all-or-nothing: the queue consumer cannot fetch resumes with a
	// partial credential set.
	r2AccountID := os.Getenv("R2_ACCOUNT_ID")
	r2Bucket := os.Getenv("R2_BUCKET")
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	switch {
	case r2AccountID == "" && r2Bucket == "" && r2AccessKey == "" && r2SecretKey == "":
		// object storage disabled
	case r2AccountID == "" || r2Bucket == "" || r2AccessKey == "" || r2SecretKey == "":
		return nil, fmt.Errorf("incomplete R2 configuration: R2_ACCOUNT_ID, R2_BUCKET, R2_ACCESS_KEY and R2_SECRET_KEY must all be set")
	default:
		cfg.R2 = &R2Config{
			AccountID: r2AccountID,
			Bucket:    r2Bucket,
			AccessKey: r2AccessKey,
			SecretKey: r2SecretKey,
		}
	}

	return cfg, nil
}
