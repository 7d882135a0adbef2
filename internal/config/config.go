package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	GeocoderBaseURL     string        `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderUserAgent   string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderMinInterval time.Duration `mapstructure:"GEOCODER_MIN_INTERVAL"`
	RegionQualifier     string        `mapstructure:"REGION_QUALIFIER"`

	LedgerBaseURL      string `mapstructure:"LEDGER_BASE_URL"`
	LedgerAuthURL      string `mapstructure:"LEDGER_AUTH_URL"`
	LedgerOrgID        string `mapstructure:"LEDGER_ORG_ID"`
	LedgerClientID     string `mapstructure:"LEDGER_CLIENT_ID"`
	LedgerClientSecret string `mapstructure:"LEDGER_CLIENT_SECRET"`
	LedgerRefreshToken string `mapstructure:"LEDGER_REFRESH_TOKEN"`
	ContactSyncCron    string `mapstructure:"CONTACT_SYNC_CRON"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "growfix-backend/1.0")
	v.SetDefault("GEOCODER_MIN_INTERVAL", "1s")
	v.SetDefault("REGION_QUALIFIER", "Kerala, India")
	v.SetDefault("LEDGER_AUTH_URL", "https://accounts.zoho.in/oauth/v2/token")
	v.SetDefault("CONTACT_SYNC_CRON", "*/15 * * * *")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
