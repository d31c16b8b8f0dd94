package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modsentry/modsentry/pkg/common"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig                `mapstructure:"server"`
	Metrics     MetricsConfig               `mapstructure:"metrics"`
	Redis       RedisConfig                 `mapstructure:"redis"`
	Engine      EngineConfig                `mapstructure:"engine"`
	Classifiers map[string]ClassifierConfig `mapstructure:"classifiers"`
	Policy      PolicyConfig                `mapstructure:"policy"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type EngineConfig struct {
	// ClassifierTimeoutMs bounds a single classifier call; 0 means the default.
	ClassifierTimeoutMs int `mapstructure:"classifier_timeout_ms"`
	// BatchConcurrency caps parallel items during batch analysis.
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	// HistorySize bounds the per-session recent-record buffer.
	HistorySize int `mapstructure:"history_size"`
	// CacheBackend selects the result-cache store: "memory" (default) or "redis".
	CacheBackend string `mapstructure:"cache_backend"`
}

// ClassifierConfig is one classifier's entry in the classifiers map. Settings
// are opaque here; each classifier decodes them with mapstructure.
type ClassifierConfig struct {
	Enabled  bool                   `mapstructure:"enabled"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

// PolicyConfig overrides the built-in threshold tables per sensitivity level.
type PolicyConfig struct {
	Sensitivities map[string]ThresholdsConfig `mapstructure:"sensitivities"`
}

type ThresholdsConfig struct {
	Warn          float64            `mapstructure:"warn"`
	Block         float64            `mapstructure:"block"`
	Quarantine    float64            `mapstructure:"quarantine"`
	Escalate      float64            `mapstructure:"escalate"`
	SpamFilter    float64            `mapstructure:"spam_filter"`
	CategoryWarn  map[string]float64 `mapstructure:"category_warn"`
	CategoryBlock map[string]float64 `mapstructure:"category_block"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	setDefaultValues()
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Engine.ClassifierTimeoutMs == 0 {
		globalConfig.Engine.ClassifierTimeoutMs = int(common.DefaultClassifierTimeout.Milliseconds())
	}
	if globalConfig.Engine.BatchConcurrency == 0 {
		globalConfig.Engine.BatchConcurrency = common.DefaultBatchConcurrency
	}
	if globalConfig.Engine.HistorySize == 0 {
		globalConfig.Engine.HistorySize = common.SessionHistorySize
	}
	if globalConfig.Engine.CacheBackend == "" {
		globalConfig.Engine.CacheBackend = "memory"
	}
}

func GetConfig() *Config {
	return &globalConfig
}
