package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/yourusername/tutorconnect-api/internal/service"
	ws "github.com/yourusername/tutorconnect-api/internal/websocket"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Manage quiz rewards",
}

var rewardsClaimCmd = &cobra.Command{
	Use:   "claim <result-id>",
	Short: "Claim the reward for a result on behalf of its owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		store, client, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results := service.NewResultLog(store)
		result, err := results.GetResult(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if !result.IsEligibleForReward() && !force {
			return fmt.Errorf("result %s scored %d%%, below the reward threshold (use --force to override)", result.ID, result.Score)
		}

		// Уведомление дойдет до пользователя через Redis, если API запущен в кластерном режиме
		var notifier service.RewardNotifier
		if cfg.Cluster.Enabled {
			pubSub, err := ws.NewRedisPubSub(client)
			if err != nil {
				return err
			}
			notifier = ws.NewManager(ws.NewHub(pubSub))
		}

		claimer := service.NewRewardClaimer(results, service.NewSimulatedLedger(cfg.Reward.Delay()), notifier, cfg.Reward.Delay())
		if err := claimer.ClaimReward(ctx, result.ID); err != nil {
			return fmt.Errorf("claim reward: %w", err)
		}

		fmt.Printf("Reward claimed for result %s (user %s, score %d%%)\n", result.ID, result.UserID, result.Score)
		return nil
	},
}

func init() {
	rewardsClaimCmd.Flags().Bool("force", false, "Claim even if the score is below the reward threshold")

	rewardsCmd.AddCommand(rewardsClaimCmd)
}
