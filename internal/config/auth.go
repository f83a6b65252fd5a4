package config

import "time"

type Auth struct {
	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"warehouse"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}
