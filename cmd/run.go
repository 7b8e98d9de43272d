package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/analysis"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/interview"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/logger"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/match"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/resume"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/screening"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptTextMode  = "Text interview (keyboard)"
	PromptVoiceMode = "Voice interview (microphone)"

	defaultMinimumScore = 30
	defaultResultsFile  = "interview-results.json"
	defaultHistoryDB    = "hr-avatar.db"
)

// demoResume stands in when the configured resume yields no text, so the
// rest of the flow can still be exercised.
const demoResume = `Python developer with 3 years of experience.
Skills: Python, Django, Flask, PostgreSQL, Docker, Git, Linux.
Experience building web applications and REST APIs, teamwork.`

// stopWords end the interview early when given as an answer.
var stopWords = map[string]struct{}{
	"завершить": {},
	"закончить": {},
	"выход":     {},
	"стоп":      {},
	"exit":      {},
	"quit":      {},
}

var modePrompt = promptui.Select{
	Label: "Choose the interview mode",
	Items: []string{PromptTextMode, PromptVoiceMode},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen the resume and conduct the interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("text-only", "t", false, "skip the mode prompt and run the interview in text mode")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	logg.Info("starting the hr-avatar", zap.String("version", version))

	if config == nil {
		logg.Fatal("config is required")
	}

	if strings.TrimSpace(config.Role) == "" {
		logg.Fatal("vacancy role is required under the 'role' key")
	}

	if len(config.RequiredSkills) == 0 {
		logg.Fatal("required skills are required under the 'required-skills' key")
	}

	backend, err := newChatBackend(ctx, config.AI, logg)
	if err != nil {
		logg.Fatal("building chat backend", zap.Error(err))
	}

	candidate := screenCandidate(ctx, config, backend, logg)
	if candidate == nil {
		return
	}

	voiceSess := chooseMode(cmd, ctx, config, backend, logg)

	transcript := conductInterview(ctx, config, backend, voiceSess, logg)

	analyzer := analysis.New(backend.completer, logg)
	verdict := analyzer.Analyze(ctx, transcript, config.RequiredSkills, config.Role)

	printVerdict(verdict)

	saveResults(ctx, config, candidate, verdict, logg)

	if voiceSess != nil {
		summary := fmt.Sprintf("Your score is %d out of 100. %s", verdict.OverallScore, verdict.Feedback)
		voiceSess.say(ctx, summary)
	}
}

// screenCandidate extracts the resume text and runs the admission checks.
// A nil result means the candidate was rejected and the run is over.
func screenCandidate(ctx context.Context, config *Config, backend *chatBackend, logg *zap.Logger) *screening.Candidate {
	extractor := resume.NewExtractor(logg)

	text := extractor.ExtractText(config.ResumePath)
	if strings.TrimSpace(text) == "" {
		logg.Warn("resume yielded no text, using the demo resume",
			zap.String("path", config.ResumePath))
		text = demoResume
	}

	scorer := match.NewScorer(backend.embedder, logg)
	skills := resume.NewLLMSkillExtractor(backend.completer, logg)
	parser := resume.NewParser(skills, scorer, logg)

	minScore := float64(defaultMinimumScore)
	if config.Match != nil && config.Match.MinimumScore > 0 {
		minScore = config.Match.MinimumScore
	}

	screener := screening.New([]screening.Check{
		screening.NewContentCheck(),
		screening.NewFitCheck(parser, config.RequiredSkills, minScore),
	}, logg)

	candidate := &screening.Candidate{ResumeText: text}

	decision, err := screener.Run(ctx, candidate)
	if err != nil {
		logg.Fatal("screening failed", zap.Error(err))
	}

	if !decision.Admitted {
		logg.Info("exiting",
			zap.String("reason", "candidate rejected at screening"),
			zap.String("check", decision.FailedCheck),
			zap.String("detail", decision.Reason),
		)
		return nil
	}

	fmt.Printf("Candidate skills: %s\n", strings.Join(candidate.Fit.Skills, ", "))
	fmt.Printf("Vacancy match: %.2f%%\n", candidate.Fit.MatchScore)

	return candidate
}

// chooseMode asks for the interview mode and assembles the voice pipeline
// when requested. Any voice setup problem falls back to text mode.
func chooseMode(cmd *cobra.Command, ctx context.Context, config *Config, backend *chatBackend, logg *zap.Logger) *voiceSession {
	if cmd.Flag("text-only").Value.String() == "true" {
		return nil
	}

	_, mode, err := modePrompt.Run()
	if err != nil {
		logg.Fatal("exiting", zap.Error(err))
	}

	if mode != PromptVoiceMode {
		return nil
	}

	return setupVoice(ctx, config.Voice, backend.tokens, logg)
}

func conductInterview(ctx context.Context, config *Config, backend *chatBackend, voiceSess *voiceSession, logg *zap.Logger) ai.Transcript {
	maxQuestions := 0
	if config.Interview != nil {
		maxQuestions = config.Interview.MaxQuestions
	}

	agent := interview.New(interview.Config{
		Role:           config.Role,
		RequiredSkills: config.RequiredSkills,
		MaxQuestions:   maxQuestions,
	}, interview.Deps{
		Completer: backend.completer,
		Logger:    logg,
	})

	for _, message := range agent.Start() {
		sayMessage(ctx, voiceSess, message.Content)
	}

	answerPrompt := promptui.Prompt{Label: "Candidate"}

loop:
	for {
		answer := readAnswer(ctx, &answerPrompt, voiceSess, logg)
		if answer == "" {
			continue
		}

		if _, stop := stopWords[strings.ToLower(strings.TrimSpace(answer))]; stop {
			logg.Info("ending the interview early", zap.String("reason", "stop word"))
			break
		}

		outcome, reply := agent.ProcessAnswer(ctx, answer)
		switch outcome {
		case interview.OutcomeReprompt, interview.OutcomeQuestion:
			sayMessage(ctx, voiceSess, reply)
		case interview.OutcomeExhausted:
			break loop
		}
	}

	transcript := agent.End()
	sayMessage(ctx, voiceSess, transcript[len(transcript)-1].Content)

	return transcript
}

func readAnswer(ctx context.Context, prompt *promptui.Prompt, voiceSess *voiceSession, logg *zap.Logger) string {
	if voiceSess != nil {
		fmt.Printf("Listening... speak now (%d seconds)\n", voiceSess.recorder.Seconds())
		answer := voiceSess.listen(ctx)
		if answer == "" {
			fmt.Println("Could not recognize speech, please try again.")
			return ""
		}
		fmt.Printf("Candidate: %s\n", answer)
		return answer
	}

	answer, err := prompt.Run()
	if err != nil {
		logg.Info("ending the interview early", zap.Error(err))
		return "exit"
	}
	return answer
}

func sayMessage(ctx context.Context, voiceSess *voiceSession, text string) {
	fmt.Printf("\nHR avatar: %s\n", text)
	voiceSess.say(ctx, text)
}
