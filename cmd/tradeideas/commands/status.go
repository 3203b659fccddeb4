package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/pkg/config"
	"github.com/hyunwoo/tradeideas/pkg/database"
	"github.com/hyunwoo/tradeideas/pkg/logger"
	"github.com/hyunwoo/tradeideas/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration and backing services",
	Long: `Validates the configuration and probes the database and Redis.

Example:
  go run ./cmd/tradeideas status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	printBanner("System Status")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Config: %v\n", err)
		return err
	}
	fmt.Printf("✅ Config: env=%s port=%s workers=%d lookback=%dd\n",
		cfg.Env, cfg.Port, cfg.Scan.Workers, cfg.Scan.LookbackDays)

	log := logger.New(cfg)
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("⚠️  Database: unavailable (%v)\n", err)
	} else {
		defer db.Close()
		health, err := db.HealthCheck(ctx)
		if err != nil {
			fmt.Printf("❌ Database: health check failed (%v)\n", err)
		} else {
			fmt.Printf("✅ Database: healthy (ping %s, %d/%d conns)\n",
				health.ResponseTime, health.Stats.TotalConns, health.Stats.MaxConns)
		}
	}

	redisClient, err := redis.New(cfg)
	switch {
	case err != nil:
		fmt.Printf("❌ Redis: %v\n", err)
	case !redisClient.Enabled():
		fmt.Println("⚠️  Redis: disabled, caching and shared rate limits off")
	default:
		defer redisClient.Close()
		if err := redisClient.Redis().Ping(ctx).Err(); err != nil {
			fmt.Printf("❌ Redis: ping failed (%v)\n", err)
		} else {
			fmt.Println("✅ Redis: connected")
		}
	}

	log.Info("Status check completed")
	return nil
}
