package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		// SecretKey must be supplied externally and stay stable across
		// restarts; regenerating it per process would invalidate every
		// outstanding token on deploy.
		SecretKey        string `mapstructure:"secret_key"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLHours  int    `mapstructure:"refresh_ttl_hours"`
	} `mapstructure:"jwt"`
}

// AccessTTL returns the lifetime of access tokens.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the lifetime of refresh tokens.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLHours) * time.Hour
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_ttl_minutes", 15)
	viper.SetDefault("jwt.refresh_ttl_hours", 168)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if AppConfig.JWT.SecretKey == "" {
		log.Fatal("jwt.secret_key must be configured")
	}
}
