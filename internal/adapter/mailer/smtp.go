package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"

	"studio-campaigns/internal/config/configs"
	"studio-campaigns/internal/core/domain"
)

const (
	stageRcpt = "rcpt to"
	stageData = "data"
)

// SMTP delivers messages through a single SMTP relay. Every Send opens its
// own connection so concurrent workers never share protocol state.
type SMTP struct {
	addr   string
	host   string
	from   mail.Address
	auth   smtp.Auth
	dialer net.Dialer
	// tls is nil when STARTTLS should be skipped.
	tls *tls.Config
}

// NewSMTP builds an SMTP mailer from config. Authentication is only
// configured when a username is set.
func NewSMTP(cfg configs.Mailer) (*SMTP, error) {
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parse sender address: %w", err)
	}
	m := &SMTP{
		addr: net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host: cfg.SMTPHost,
		from: *from,
		tls:  &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12},
	}
	if cfg.Username != "" {
		m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)
	}
	return m, nil
}

func (m *SMTP) Send(ctx context.Context, msg domain.Message) error {
	body, err := buildMessage(m.from, msg)
	if err != nil {
		return domain.Permanent(err)
	}

	conn, err := m.dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return domain.Transient(fmt.Errorf("dial %s: %w", m.addr, err))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock protocol reads when the context ends before the deadline.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return classify("greeting", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && m.tls != nil {
		if err = c.StartTLS(m.tls); err != nil {
			return classify("starttls", err)
		}
	}
	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err = c.Auth(m.auth); err != nil {
				return classify("auth", err)
			}
		}
	}
	if err = c.Mail(m.from.Address); err != nil {
		return classify("mail from", err)
	}
	if err = c.Rcpt(msg.To); err != nil {
		return classify(stageRcpt, err)
	}
	w, err := c.Data()
	if err != nil {
		return classify(stageData, err)
	}
	if _, err = w.Write(body); err != nil {
		return classify(stageData, err)
	}
	if err = w.Close(); err != nil {
		return classify(stageData, err)
	}
	_ = c.Quit()
	return nil
}

// classify maps SMTP reply codes onto failure classes. 421 and 452 are how
// relays signal throttling or a spent quota. A 5xx only bounces the
// recipient when it answers RCPT or DATA; earlier in the session it is the
// relay refusing us, which no recipient should pay for.
func classify(stage string, err error) error {
	err = fmt.Errorf("smtp %s: %w", stage, err)
	var tp *textproto.Error
	if errors.As(err, &tp) {
		switch {
		case tp.Code == 421 || tp.Code == 452:
			return domain.QuotaExhausted(err)
		case tp.Code >= 500 && recipientStage(stage):
			return domain.Permanent(err)
		}
	}
	return domain.Transient(err)
}

func recipientStage(stage string) bool {
	return stage == stageRcpt || stage == stageData
}
