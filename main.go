package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brightline-studio/site-backend/api"
	"github.com/brightline-studio/site-backend/config"
	"github.com/brightline-studio/site-backend/content"
	"github.com/brightline-studio/site-backend/database"
	"github.com/brightline-studio/site-backend/models"
	"github.com/brightline-studio/site-backend/posts"
	"github.com/brightline-studio/site-backend/services"
)

func main() {
	issueToken := flag.String("issue-admin-token", "", "print an admin bearer token for the given subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-admin-token")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	if *issueToken != "" {
		token, err := api.IssueAdminToken([]byte(config.GetString(c, "ADMIN_JWT_SECRET", "")), *issueToken, *tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Error issuing admin token")
		}
		fmt.Println(token)
		return
	}

	log.Info().Msg("Initializing app...")

	db, err := openDatabase(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	currentDB := database.New(db)
	if err := currentDB.Ping(context.Background(), 5*time.Second); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	if config.GetBool(c, "MIGRATE", false) {
		log.Info().Msg("Running migrations...")
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error running migrations")
		}
	}

	// If generating schema drift report, run report and exit
	if config.GetBool(c, "SCHEMA_REPORT", false) {
		if _, err := models.SchemaDriftReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating schema drift report")
		}
		return
	}

	intake, err := newContactIntake(c, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing contact intake")
	}

	registry := content.NewRegistry()
	if err := posts.Register(registry); err != nil {
		log.Fatal().Err(err).Msg("Error registering structured posts")
	}
	if err := registry.Verify(context.Background()); err != nil {
		// Broken modules are skipped at request time; surface them at boot.
		log.Warn().Err(err).Msg("Some structured posts failed to load")
	}

	blogDir := config.GetString(c, "CONTENT_DIR", "site/blog")
	legalDir := config.GetString(c, "LEGAL_DIR", "site/legal")
	documents := content.NewDocumentStore(os.DirFS(blogDir), "blog")
	legal := content.NewDocumentStore(os.DirFS(legalDir), "legal")

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(api.Dependencies{
		Intake:      intake,
		Posts:       content.NewResolver(registry, documents),
		Legal:       legal,
		Submissions: currentDB.ContactSubmissionRepo(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if strings.EqualFold(config.GetString(c, "LOG_FORMAT", "json"), "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// databaseDSN builds the connection string based on DB_TYPE.
func databaseDSN(c map[string]string) (string, error) {
	switch dbType := config.GetString(c, "DB_TYPE", "postgres"); dbType {
	case "supa":
		log.Info().Msg("Connecting to Supabase database...")
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", fmt.Errorf("DATABASE_URL is required when DB_TYPE=postgres")
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

func openDatabase(c map[string]string) (*gorm.DB, error) {
	dsn, err := databaseDSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
}

func newContactIntake(c map[string]string, db database.Database) (*services.ContactIntake, error) {
	opts := []services.ContactIntakeOption{
		services.WithRateLimit(
			config.GetInt(c, "CONTACT_RATE_LIMIT", services.DefaultContactRateLimit),
			config.GetDuration(c, "CONTACT_RATE_WINDOW", services.DefaultContactRateWindow),
		),
	}

	if config.GetBool(c, "CONTACT_STRICT_THROTTLE", false) {
		redisURL := config.GetString(c, "REDIS_URL", "")
		if redisURL == "" {
			log.Warn().Msg("CONTACT_STRICT_THROTTLE set without REDIS_URL, throttle stays advisory")
		} else {
			client, err := services.ConnectRedis(context.Background(), redisURL)
			if err != nil {
				return nil, err
			}
			opts = append(opts, services.WithThrottleLock(services.NewRedisThrottleLock(client)))
			log.Info().Msg("Strict contact throttle enabled")
		}
	}

	return services.NewContactIntake(db.ContactSubmissionRepo(), opts...), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
