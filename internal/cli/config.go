// Config loading for the candles CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/candles/internal/calc"
	"github.com/mesh-intelligence/candles/internal/kv"
	"github.com/mesh-intelligence/candles/internal/logging"
	"github.com/mesh-intelligence/candles/internal/paths"
	"github.com/mesh-intelligence/candles/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "CANDLES"

	cfgKeyBackend            = "backend"
	cfgKeyDataDir            = "data_dir"
	cfgKeyLogLevel           = "log_level"
	cfgKeyConversionFactor   = "conversion_factor"
	cfgKeyRedisAddr          = "redis.addr"
	cfgKeyRedisPassword      = "redis.password"
	cfgKeyRedisDB            = "redis.db"
	cfgKeyRedisPrefix        = "redis.prefix"
	cfgKeyMongoURI           = "mongo.uri"
	cfgKeyMongoDatabase      = "mongo.database"
	cfgKeyRequireCalculation = "form.require_calculation"
	cfgKeyReportInvalidInput = "form.report_invalid_input"
)

// configFile is the structure written to config.yaml on first run.
type configFile struct {
	Backend          string   `yaml:"backend"`
	DataDir          string   `yaml:"data_dir,omitempty"`
	LogLevel         string   `yaml:"log_level"`
	ConversionFactor string   `yaml:"conversion_factor"`
	Form             formFile `yaml:"form"`
}

type formFile struct {
	RequireCalculation bool `yaml:"require_calculation"`
	ReportInvalidInput bool `yaml:"report_invalid_input"`
}

// settings is the resolved configuration for one CLI invocation.
type settings struct {
	configDir          string
	storage            types.Config
	logLevel           string
	conversionFactor   string
	requireCalculation bool
	reportInvalidInput bool
}

// loadSettings resolves directories, loads .env and config.yaml, and applies
// flag overrides.
func loadSettings(f rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, fileDataDir, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(f.dataDir, fileDataDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	s := settings{
		configDir: configDir,
		storage: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
			Redis: types.RedisConfig{
				Addr:     v.GetString(cfgKeyRedisAddr),
				Password: v.GetString(cfgKeyRedisPassword),
				DB:       v.GetInt(cfgKeyRedisDB),
				Prefix:   v.GetString(cfgKeyRedisPrefix),
			},
			Mongo: types.MongoConfig{
				URI:      v.GetString(cfgKeyMongoURI),
				Database: v.GetString(cfgKeyMongoDatabase),
			},
		},
		logLevel:           v.GetString(cfgKeyLogLevel),
		conversionFactor:   v.GetString(cfgKeyConversionFactor),
		requireCalculation: v.GetBool(cfgKeyRequireCalculation),
		reportInvalidInput: v.GetBool(cfgKeyReportInvalidInput),
	}
	if f.backend != "" {
		s.storage.Backend = f.backend
	}
	if f.logLevel != "" {
		s.logLevel = f.logLevel
	}
	return s, nil
}

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. It also returns data_dir as
// written in the file, before environment overrides, so the data directory
// precedence stays flag > file > env.
func loadConfig(configDir string) (*viper.Viper, string, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, "", fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(configDir); err != nil {
		return nil, "", fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadEnvFile(configDir); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}
	fileDataDir := v.GetString(cfgKeyDataDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, fileDataDir, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyConversionFactor, calc.DefaultConversionFactor)
	v.SetDefault(cfgKeyRedisDB, 0)
	v.SetDefault(cfgKeyRedisPrefix, kv.DefaultRedisPrefix)
	v.SetDefault(cfgKeyMongoDatabase, kv.DefaultMongoDatabase)
	v.SetDefault(cfgKeyRequireCalculation, false)
	v.SetDefault(cfgKeyReportInvalidInput, false)
}

// loadEnvFile exports variables from <configDir>/.env that are not already
// set. A missing file is not an error.
func loadEnvFile(configDir string) error {
	path := paths.EnvFile(configDir)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed loading env file %s: %w", path, err)
	}
	return nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:          types.BackendSQLite,
		LogLevel:         logging.DefaultLevel,
		ConversionFactor: calc.DefaultConversionFactor,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	header := "# candles configuration\n# redis.* and mongo.* configure the redis and mongo backends.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
