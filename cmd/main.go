package main

import (
	"log"

	"github.com/studysync/diary/internal/entry"
	"github.com/studysync/diary/internal/feed"
	infra "github.com/studysync/diary/internal/infrastructure"
	"github.com/studysync/diary/internal/infrastructure/driver"
	"github.com/studysync/diary/internal/infrastructure/logging"
	"github.com/studysync/diary/internal/infrastructure/uuid"
	ihttp "github.com/studysync/diary/internal/interfaces/http"
	"github.com/studysync/diary/internal/preference"
	"github.com/studysync/diary/internal/reminder"
	"github.com/studysync/diary/internal/user"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
		zap.Any("config", option.Database),
	)

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)
	if err := rdb.Ping(); err != nil {
		log.Fatalf("Failed to connect to kv store: %s\n", err)
	}

	var broker feed.Broker
	switch option.Feed.Broker {
	case "memory":
		broker = feed.NewMemoryBroker()
	default:
		broker = rdb
	}

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo, UUIDGenerator)

	EntryRepo := entry.NewEntryRepository(dbConn)
	EntryUseCase := entry.NewEntryUseCase(EntryRepo, UUIDGenerator, broker)

	ReminderRepo := reminder.NewReminderRepository(dbConn)
	ReminderUseCase := reminder.NewReminderUseCase(ReminderRepo, UUIDGenerator, broker)

	Themes := preference.NewThemeStore(rdb)

	ihttp.Serve(dbConn, rdb, broker, option, UserUseCase, UserRepo, EntryUseCase, ReminderUseCase, Themes, logger)
}
