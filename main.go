package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/streadway/amqp"

	"github.com/vcaboara/jobleadfinder/internal/database"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	app := &App{Config: cfg}

	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY is not set. AI endpoints will answer 503.")
	} else {
		finder, err := NewGeminiFinder(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Fatalf("failed to create gemini client: %v", err)
		}
		app.Finder = finder
	}

	if cfg.FirebaseCreds == "" {
		log.Println("WARNING: FIREBASE_CREDENTIALS is not set. Leads will not be saved to Firestore.")
	} else {
		store, err := NewLeadStore(ctx, cfg.FirebaseCreds, cfg.UserID)
		if err != nil {
			log.Fatalf("failed to initialize firestore: %v", err)
		}
		defer store.Close()
		app.Store = store
	}

	if cfg.DBUrl != "" {
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			log.Fatal("error opening db: ", err)
		}
		defer db.Close()
		app.DB = database.New(db)
	}

	if cfg.R2 != nil {
		awsConfig, err := config.LoadDefaultConfig(ctx,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
			config.WithRegion("auto"),
		)
		if err != nil {
			log.Fatal("error creating aws config: ", err)
		}
		app.AwsConfig = &awsConfig
	}

	if cfg.RabbitMQUrl != "" {
		conn, err := amqp.Dial(cfg.RabbitMQUrl)
		if err != nil {
			log.Fatalf("error connecting to RabbitMQ: %v", err)
		}
		defer conn.Close()
		app.RabbitConn = conn
	}

	// One-shot batch mode: run a single grounded search and exit. Mirrors the
	// docker-compose worker the HTTP server grew out of.
	if cfg.UserQuery != "" {
		if app.Finder == nil {
			log.Fatal("USER_QUERY is set but GEMINI_API_KEY is missing")
		}
		if app.Store == nil && app.DB == nil {
			log.Fatal("USER_QUERY is set but no store is configured; set FIREBASE_CREDENTIALS or DB_URL")
		}
		if err := app.runOnce(ctx); err != nil {
			log.Fatalf("one-shot search failed: %v", err)
		}
		log.Println("worker finished execution")
		return
	}

	if app.RabbitConn != nil {
		log.Println("starting 3 workers consumer pool")
		go app.StartConsumerWorkerPool(3)
	}

	addr := ":" + cfg.Port
	log.Printf("api listening on %s", addr)
	if err := http.ListenAndServe(addr, app.Routes()); err != nil {
		log.Fatal(err)
	}
}

// runOnce executes USER_QUERY with the resume from USER_RESUME_FILE (if any)
// and persists the results.
func (a *App) runOnce(ctx context.Context) error {
	resume := ""
	if a.Config.ResumeFile != "" {
		data, err := os.ReadFile(a.Config.ResumeFile)
		if err != nil {
			return err
		}
		resume = string(data)
	}

	log.Printf("executing search with query: %q", a.Config.UserQuery)
	leads, err := a.Finder.SearchLeads(ctx, a.Config.UserQuery, resume)
	if err != nil {
		return err
	}
	log.Printf("found %d job leads", len(leads))

	a.persistLeads(ctx, leads)
	return nil
}
