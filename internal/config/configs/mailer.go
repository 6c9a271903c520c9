package configs

import "fmt"

const (
	MailerDriverSMTP      = "smtp"
	MailerDriverSimulated = "simulated"
)

// Mailer configures the outbound mail provider.
type Mailer struct {
	Driver   string `env:"DRIVER" envDefault:"simulated"`
	From     string `env:"FROM" envDefault:"Studio Directory <no-reply@example.com>"`
	SMTPHost string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	// SuccessRate drives the simulated driver only.
	SuccessRate float64 `env:"SUCCESS_RATE" envDefault:"0.95"`
}

func (c Mailer) Validate() error {
	switch c.Driver {
	case MailerDriverSMTP:
		if c.SMTPHost == "" || c.SMTPPort <= 0 {
			return fmt.Errorf("smtp host and port are required")
		}
		return nil
	case MailerDriverSimulated:
		return nil
	}
	return fmt.Errorf("unknown mailer driver %q", c.Driver)
}
