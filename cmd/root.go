package cmd

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talentsage"
)

type Config struct {
	Storage   *StorageConfig   `mapstructure:"storage"`
	Assistant *AssistantConfig `mapstructure:"assistant"`
	HTTP      *HTTPConfig      `mapstructure:"http"`
	Voice     *VoiceConfig     `mapstructure:"voice"`
	// Fixtures points to a YAML or JSON file replacing the built-in seed data.
	Fixtures string `mapstructure:"fixtures"`
}

type StorageConfig struct {
	// Backend is one of "file", "redis" or "memory".
	Backend string       `mapstructure:"backend"`
	Path    string       `mapstructure:"path"`
	Redis   *RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type AssistantConfig struct {
	Delay              time.Duration `mapstructure:"delay"`
	ShortlistThreshold int           `mapstructure:"shortlist-threshold"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type VoiceConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentsage is a recruitment dashboard with a scripted hiring assistant",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading .env file: %v", err)
	}

	for key, env := range map[string]string{
		"storage.path":                  "TALENTSAGE_STORAGE_PATH",
		"storage.backend":               "TALENTSAGE_STORAGE_BACKEND",
		"storage.redis.addr":            "TALENTSAGE_REDIS_ADDR",
		"voice.gemini.api-key-file":     "GEMINI_API_KEY_FILE",
		"http.addr":                     "TALENTSAGE_HTTP_ADDR",
		"assistant.shortlist-threshold": "TALENTSAGE_SHORTLIST_THRESHOLD",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.path", app+"-data/recruitment-storage.json")
	viper.SetDefault("assistant.delay", "1s")
	viper.SetDefault("assistant.shortlist-threshold", 85)
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("voice.gemini.model", "gemini-2.5-flash")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentsage.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// initConfig reads the config file. Every key has a default, so a missing
// file is only fatal when it was requested explicitly.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
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
