package config

type Mail struct {
	// Enabled switches from the logging gateway to SMTP delivery.
	Enabled  bool   `env:"MAIL_ENABLED" envDefault:"false"`
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"DEFAULT_COMPANY_EMAIL" envDefault:"no-reply@warehouse.local"`
	FromName string `env:"MAIL_FROM_NAME" envDefault:"Warehouse App"`
}
