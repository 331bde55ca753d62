package initializers

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/tablefy/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectToStorage opens the durable store selected by STORAGE_DRIVER.
func ConnectToStorage(cfg *Config, log *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn("using in-memory storage, cart and offline orders will not survive a restart")
		return storage.NewMemory(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("storage connected", zap.String("driver", "redis"), zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisStore(client, "tablefy:"+cfg.RestaurantID+":"), nil
	case "sqlite", "mysql":
		db, err := connectToDB(cfg)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewGormStore(db)
		if err != nil {
			return nil, err
		}
		log.Info("storage connected", zap.String("driver", cfg.StorageDriver))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func connectToDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.StorageDriver == "mysql" {
		dialector = mysql.Open(cfg.StorageDSN)
	} else {
		dialector = sqlite.Open(cfg.StorageDSN)
	}
	level := logger.Warn
	if cfg.Development() {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.StorageDriver, err)
	}
	return db, nil
}
