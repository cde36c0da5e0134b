package main

import (
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yourusername/tutorconnect-api/internal/config"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	"github.com/yourusername/tutorconnect-api/internal/repository/memory"
	redisRepo "github.com/yourusername/tutorconnect-api/internal/repository/redis"
	"github.com/yourusername/tutorconnect-api/pkg/database"
)

var rootCmd = &cobra.Command{
	Use:           "tutorctl",
	Short:         "TutorConnect admin tool",
	Long:          "tutorctl - миграции базы, просмотр каталога викторин, выгрузка результатов и ручное начисление наград.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute запускает корневую команду
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides CONFIG_PATH env var)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(quizzesCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(rewardsCmd)
}

// loadConfig читает конфигурацию: --config, затем CONFIG_PATH, затем config/config.yaml
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}
	return config.Load(path)
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.Database.IsConfigured() {
		return nil, fmt.Errorf("database is not configured (check DATABASE_HOST env var)")
	}
	return database.NewPostgresDB(cfg.Database.PostgresConnectionString(), false)
}

func openRedis(cfg *config.Config) (redis.UniversalClient, error) {
	if !cfg.Redis.IsConfigured() {
		return nil, fmt.Errorf("redis is not configured (check REDIS_ADDR env var)")
	}
	return database.NewUniversalRedisClient(cfg.Redis)
}

// openStore открывает общее с API хранилище. Хранилище в памяти процесса недоступно извне.
func openStore(cfg *config.Config) (repository.KeyValueStore, redis.UniversalClient, error) {
	if cfg.Storage.Driver != config.StorageRedis {
		return nil, nil, fmt.Errorf("storage driver %q is local to the API process, use storage.driver=redis", cfg.Storage.Driver)
	}
	client, err := openRedis(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := redisRepo.NewKVStore(client, cfg.Storage.Prefix)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return store, client, nil
}

// openCatalogStore возвращает общее хранилище при storage.driver=redis, иначе пустое в памяти
func openCatalogStore(cfg *config.Config) (repository.KeyValueStore, func(), error) {
	if cfg.Storage.Driver != config.StorageRedis {
		return memory.NewKVStore(), func() {}, nil
	}
	store, client, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { client.Close() }, nil
}
