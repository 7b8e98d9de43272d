package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hr-avatar"
)

type Config struct {
	Role           string           `mapstructure:"role"`
	RequiredSkills []string         `mapstructure:"required-skills"`
	ResumePath     string           `mapstructure:"resume-path"`
	ResultsFile    string           `mapstructure:"results-file"`
	HistoryDB      string           `mapstructure:"history-db"`
	Match          *MatchConfig     `mapstructure:"match"`
	Interview      *InterviewConfig `mapstructure:"interview"`
	AI             *AIConfig        `mapstructure:"ai"`
	Voice          *VoiceConfig     `mapstructure:"voice"`
}

type MatchConfig struct {
	MinimumScore float64 `mapstructure:"minimum-score"`
}

type InterviewConfig struct {
	MaxQuestions int `mapstructure:"max-questions"`
}

type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	GigaChat *GigaChatConfig `mapstructure:"gigachat"`
	Gemini   *GeminiConfig   `mapstructure:"gemini"`
}

type GigaChatConfig struct {
	ClientID         string `mapstructure:"client-id"`
	ClientSecretFile string `mapstructure:"client-secret-file"`
	Scope            string `mapstructure:"scope"`
	AuthURL          string `mapstructure:"auth-url"`
	APIURL           string `mapstructure:"api-url"`
	Model            string `mapstructure:"model"`
	EmbeddingModel   string `mapstructure:"embedding-model"`
	TokenCacheFile   string `mapstructure:"token-cache-file"`
	Insecure         bool   `mapstructure:"insecure"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type VoiceConfig struct {
	RecordSeconds int                 `mapstructure:"record-seconds"`
	Recorder      []string            `mapstructure:"recorder"`
	Player        []string            `mapstructure:"player"`
	VoskURL       string              `mapstructure:"vosk-url"`
	Google        *GoogleSpeechConfig `mapstructure:"google"`
	TTSVoice      string              `mapstructure:"tts-voice"`
}

type GoogleSpeechConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Language string `mapstructure:"language"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hr-avatar is a cli that screens a resume against a vacancy and conducts an automated interview",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gigachat.client-secret-file", "GIGACHAT_CLIENT_SECRET_FILE"); err != nil {
		log.Fatalf("binding GIGACHAT_CLIENT_SECRET_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hr-avatar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the run and history commands. Without them
	// we can skip initialization.
	if runCmd.CalledAs() == "" && historyCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
