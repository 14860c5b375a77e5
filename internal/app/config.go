package app

import (
	"time"

	"github.com/studyhall/lms-backend/internal/platform/envutil"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
}

func LoadConfig() Config {
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600)
	return Config{
		Port:           envutil.GetEnv("PORT", "8080"),
		JWTSecretKey:   envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
	}
}
