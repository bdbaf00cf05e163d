package models

import "github.com/spf13/viper"

type EnvConfig struct {
	DatabaseURL string
	Port        string
	Debug       bool
}

// ReadEnvConfig binds the AGORA_* environment variables through viper and
// returns the resulting config.
func ReadEnvConfig() EnvConfig {
	v := viper.New()
	v.SetDefault("port", "8844")

	_ = v.BindEnv("database_url", "AGORA_DATABASE_URL")
	_ = v.BindEnv("port", "AGORA_PORT")
	_ = v.BindEnv("debug", "AGORA_DEBUG")

	return EnvConfig{
		DatabaseURL: v.GetString("database_url"),
		Port:        v.GetString("port"),
		Debug:       v.GetBool("debug"),
	}
}
