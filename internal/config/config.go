package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	DatabasePath  string   `mapstructure:"DATABASE_PATH"`
	JWTSecret     string   `mapstructure:"JWT_SECRET"`
	FrontendURL   string   `mapstructure:"FRONTEND_URL"`
	EnableCORS    bool     `mapstructure:"ENABLE_CORS"`
	DefaultEvent  string   `mapstructure:"DEFAULT_EVENT"`
	EnabledEvents []string `mapstructure:"ENABLED_EVENTS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "tripdesk.db")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/register")
	viper.SetDefault("DEFAULT_EVENT", "incentive-2026")
	viper.SetDefault("ENABLED_EVENTS", []string{"incentive-2026"})

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("ENABLE_CORS")
	viper.BindEnv("DEFAULT_EVENT")
	viper.BindEnv("ENABLED_EVENTS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
