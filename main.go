package main

import (
	"log"

	"campus-booking/cmd"
	"campus-booking/internal/data/repository"
	"campus-booking/internal/usecase"
	"campus-booking/internal/wire"
	"campus-booking/pkg/database"
	"campus-booking/pkg/events"
	"campus-booking/pkg/redis"
	"campus-booking/pkg/storage"
	"campus-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Timezone),
	)

	if config.Database.AutoMigrate {
		if err := database.RunMigrations(config.Database.MigrateURL(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	var infra usecase.Infra

	if config.Redis.Enabled {
		client, err := redis.NewClient(config.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		infra.Locker = client
	} else {
		logger.Warn("Redis disabled, timetable imports are only serialized per process")
		infra.Locker = redis.NewLocalLocker()
	}

	infra.Store, err = storage.New(config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize artifact storage", zap.Error(err))
	}

	publisher, err := events.New(config.MQTT, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
	}
	if mqttPublisher, ok := publisher.(*events.MQTTPublisher); ok {
		defer mqttPublisher.Close()
	}
	infra.Publisher = publisher

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app, err := wire.Wiring(repos, infra, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
