package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// JWTConfig configures verification of inbound bearer tokens.
//
// These values are deployment-provided and must match the identity provider
// named by AUTH_AUTHORITY.
type JWTConfig struct {
	Secret   string `env:"JWT_SECRET,required"`
	Issuer   string `env:"JWT_ISSUER,required"`
	Audience string `env:"JWT_AUDIENCE,required"`
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	var c JWTConfig
	if err := env.Parse(&c); err != nil {
		return JWTConfig{}, fmt.Errorf("parse jwt env: %w", err)
	}
	return c, nil
}
