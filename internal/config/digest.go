package config

type Digest struct {
	Enabled  bool   `env:"DIGEST_ENABLED" envDefault:"false"`
	Schedule string `env:"DIGEST_SCHEDULE" envDefault:"@daily"`
}
