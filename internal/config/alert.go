package config

type Alert struct {
	RecipientRole string `env:"ALERT_RECIPIENT_ROLE" envDefault:"MANAGER"`
}
