package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/screening"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/store"

	"go.uber.org/zap"
)

func printVerdict(verdict *ai.Verdict) {
	divider := strings.Repeat("=", 60)

	fmt.Println()
	fmt.Println(divider)
	fmt.Println("INTERVIEW RESULTS")
	fmt.Println(divider)
	fmt.Printf("Overall score: %d/100\n", verdict.OverallScore)
	fmt.Printf("Strengths: %s\n", strings.Join(verdict.Strengths, ", "))
	fmt.Printf("Areas to improve: %s\n", strings.Join(verdict.Weaknesses, ", "))

	if len(verdict.SkillAssessment) > 0 {
		fmt.Println("Skill assessment:")
		for skill, status := range verdict.SkillAssessment {
			fmt.Printf("  %s: %s\n", skill, status)
		}
	}

	fmt.Printf("Recommendation: %s\n", verdict.Recommendation)
	fmt.Printf("\nFeedback: %s\n", verdict.Feedback)
}

// saveResults writes the verdict to the results file and records the session
// in the local history database. Both are best-effort: persistence problems
// are logged, never fatal.
func saveResults(ctx context.Context, config *Config, candidate *screening.Candidate, verdict *ai.Verdict, logg *zap.Logger) {
	resultsFile := config.ResultsFile
	if resultsFile == "" {
		resultsFile = defaultResultsFile
	}

	payload, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		logg.Warn("marshaling verdict", zap.Error(err))
		return
	}

	if err := os.WriteFile(resultsFile, payload, 0o644); err != nil {
		logg.Warn("writing results file", zap.String("file", resultsFile), zap.Error(err))
	} else {
		logg.Info("results saved", zap.String("file", resultsFile))
	}

	historyDB := config.HistoryDB
	if historyDB == "" {
		historyDB = defaultHistoryDB
	}

	history, err := store.Open(historyDB)
	if err != nil {
		logg.Warn("opening history database", zap.Error(err))
		return
	}
	defer history.Close()

	id, err := history.Save(ctx, config.Role, candidate.Fit.MatchScore, verdict)
	if err != nil {
		logg.Warn("saving session to history", zap.Error(err))
		return
	}

	logg.Info("session recorded", zap.Int64("session_id", id), zap.String("db", historyDB))
}
