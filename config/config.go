package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Rooms  RoomsConfig  `mapstructure:"rooms"`
}

type ServerConfig struct {
	HTTPAddress    string        `mapstructure:"http_address"`
	MetricsAddress string        `mapstructure:"metrics_address"`
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	Debug          bool          `mapstructure:"debug"`
}

type RoomsConfig struct {
	CodeLength int `mapstructure:"code_length"`

	// Grace windows for the deferred eviction sweeps.
	EmptyLobbyGrace    time.Duration `mapstructure:"empty_lobby_grace"`
	PostStartGrace     time.Duration `mapstructure:"post_start_grace"`
	AbandonedGameGrace time.Duration `mapstructure:"abandoned_game_grace"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("server.ping_interval", 5*time.Second)
	viper.SetDefault("rooms.code_length", 6)
	viper.SetDefault("rooms.empty_lobby_grace", time.Minute)
	viper.SetDefault("rooms.post_start_grace", 2*time.Minute)
	viper.SetDefault("rooms.abandoned_game_grace", 5*time.Minute)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
