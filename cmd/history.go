package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/logger"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past interview sessions",
	Run: func(cmd *cobra.Command, _ []string) {
		history(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of sessions to list")
}

func history(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	historyDB := defaultHistoryDB
	if config != nil && config.HistoryDB != "" {
		historyDB = config.HistoryDB
	}

	sessions, err := listSessions(ctx, cmd, historyDB)
	if err != nil {
		logg.Fatal("listing sessions", zap.Error(err))
	}

	if len(sessions) == 0 {
		logg.Info("no recorded sessions", zap.String("db", historyDB))
		return
	}

	for _, session := range sessions {
		fmt.Printf("#%d  %s  role=%s  match=%.2f  score=%d  recommendation=%s\n",
			session.ID, session.CreatedAt, session.Role,
			session.MatchScore, session.OverallScore, session.Recommendation,
		)
	}
}

func listSessions(ctx context.Context, cmd *cobra.Command, historyDB string) ([]store.Session, error) {
	history, err := store.Open(historyDB)
	if err != nil {
		return nil, err
	}
	defer history.Close()

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}

	return history.List(ctx, limit)
}
