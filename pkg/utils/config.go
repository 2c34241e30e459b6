package utils

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Damping       float64 `mapstructure:"damping"`
	Samples       int     `mapstructure:"samples"`
	Seed          uint64  `mapstructure:"seed"`
	Threshold     float64 `mapstructure:"threshold"`
	MaxIterations int     `mapstructure:"max_iterations"`
	ApiPort       int     `mapstructure:"api_port"`
	RpcPort       int     `mapstructure:"rpc_port"`
	RabbitHost    string  `mapstructure:"rabbit_host"`
	RabbitUser    string  `mapstructure:"rabbit_user"`
	RabbitPass    string  `mapstructure:"rabbit_password"`
	WorkQueue     string  `mapstructure:"work_queue"`
	ResultQueue   string  `mapstructure:"result_queue"`
	NodeLog       bool    `mapstructure:"node_log"`
	ServerLog     bool    `mapstructure:"server_log"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("damping", 0.85)
	v.SetDefault("samples", 10000)
	v.SetDefault("seed", 0)
	v.SetDefault("threshold", 0.001)
	v.SetDefault("max_iterations", 1000)
	v.SetDefault("api_port", 8080)
	v.SetDefault("rpc_port", 50051)
	v.SetDefault("rabbit_host", "localhost")
	v.SetDefault("rabbit_user", "guest")
	v.SetDefault("rabbit_password", "guest")
	v.SetDefault("work_queue", "work")
	v.SetDefault("result_queue", "result")
	v.SetDefault("node_log", false)
	v.SetDefault("server_log", false)
}

// LoadConfiguration reads configuration from the optional config file, .env,
// PAGERANK_* environment variables and any flags bound on v.
func LoadConfiguration(v *viper.Viper, file string) (Config, error) {
	// Loading .env file if it exists
	// It will not override already existing env vars
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix("PAGERANK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
