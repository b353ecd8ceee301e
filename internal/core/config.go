package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to prsctl.
type Config struct {
	// Hostname or IP address the debug pprof server will listen on.
	Hostname string `mapstructure:"hostname"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
		// Include the calling file/line on every log entry.
		IncludeCaller bool `mapstructure:"include_caller"`
	} `mapstructure:"logging"`

	Database struct {
		// "postgres" or "sqlite". sqlite is intended for local/single-operator use.
		Engine string `mapstructure:"engine"`
		// Path to the sqlite database file, used only when engine is "sqlite".
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on db_host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres for prsctl's job audit log.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to ${db_name}.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"disable"`
	} `mapstructure:"database"`

	ParamData struct {
		// Directory containing the .prs parameter files to load.
		Dir string `mapstructure:"dir"`
		// How long a decompressed parameter file stays cached in memory.
		CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
	} `mapstructure:"param_data"`

	Debugging struct {
		// Enable the pprof server.
		PprofEnabled bool `mapstructure:"pprof_enabled"`
		// Port on which the pprof server will listen if enabled.
		PprofPort int `mapstructure:"pprof_port"`
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "PRSCTL"

// LoadConfig initializes Viper with the contents of the config file under configPath.
func LoadConfig(configPath string) *Config {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, viper.ConfigFileNotFoundError{}) {
			fmt.Printf("error reading config file: no config file in path %s", configPath)
		} else {
			fmt.Printf("error reading config file: %v", err)
		}
		os.Exit(1)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			fmt.Printf("error binding %s to %s", k, envVarPrefix+"_"+envVar)
			os.Exit(1)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		fmt.Printf("error unmrarshaling config object: %v", err)
		os.Exit(1)
	}
	return config
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a Postgres database URL generated from the provided
// config values. Only meaningful when Database.Engine is "postgres".
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}

// DataSource returns the value Initialize expects for the configured engine:
// a DSN for postgres, a file path for sqlite.
func (c *Config) DataSource() string {
	if c.Database.Engine == "sqlite" {
		return c.Database.Filename
	}
	return c.DatabaseURL()
}
