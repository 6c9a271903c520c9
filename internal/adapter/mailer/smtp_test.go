package mailer

import (
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/config/configs"
	"studio-campaigns/internal/core/domain"
)

// fakeRelay is a scripted single-connection SMTP server.
type fakeRelay struct {
	greeting string
	auth     string
	mailFrom string
	rcpt     string
	queued   string
	data     chan string
}

func startRelay(t *testing.T, r *fakeRelay) configs.Mailer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	if r.greeting == "" {
		r.greeting = "220 localhost ESMTP"
	}
	if r.mailFrom == "" {
		r.mailFrom = "250 OK"
	}
	if r.rcpt == "" {
		r.rcpt = "250 OK"
	}
	if r.queued == "" {
		r.queued = "250 queued"
	}
	r.data = make(chan string, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("%s", r.greeting)
		if !strings.HasPrefix(r.greeting, "220") {
			return
		}
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				_ = tp.PrintfLine("250-localhost")
				if r.auth != "" {
					_ = tp.PrintfLine("250-AUTH PLAIN")
				}
				_ = tp.PrintfLine("250 8BITMIME")
			case strings.HasPrefix(cmd, "AUTH"):
				_ = tp.PrintfLine("%s", r.auth)
			case strings.HasPrefix(cmd, "MAIL FROM"):
				_ = tp.PrintfLine("%s", r.mailFrom)
			case strings.HasPrefix(cmd, "HELO"), strings.HasPrefix(cmd, "RSET"), strings.HasPrefix(cmd, "NOOP"):
				_ = tp.PrintfLine("250 OK")
			case strings.HasPrefix(cmd, "RCPT TO"):
				_ = tp.PrintfLine("%s", r.rcpt)
			case cmd == "DATA":
				_ = tp.PrintfLine("354 end with <CRLF>.<CRLF>")
				lines, err := tp.ReadDotLines()
				if err != nil {
					return
				}
				r.data <- strings.Join(lines, "\n")
				_ = tp.PrintfLine("%s", r.queued)
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return configs.Mailer{
		Driver:   configs.MailerDriverSMTP,
		From:     "Studio Directory <no-reply@example.com>",
		SMTPHost: "127.0.0.1",
		SMTPPort: p,
	}
}

func testMessage() domain.Message {
	return domain.Message{
		To:       "ada@example.com",
		ToName:   "Ada",
		Subject:  "Spring open studios",
		TextBody: "Hello Ada",
		HTMLBody: "<p>Hello Ada</p>",
		Headers:  map[string]string{"X-Campaign-ID": "c-1"},
	}
}

func TestSMTPSendDelivers(t *testing.T) {
	relay := &fakeRelay{}
	m, err := NewSMTP(startRelay(t, relay))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Send(ctx, testMessage()))

	select {
	case data := <-relay.data:
		assert.Contains(t, data, "To: \"Ada\" <ada@example.com>")
		assert.Contains(t, data, "X-Campaign-Id: c-1")
		assert.Contains(t, data, "multipart/alternative")
	case <-time.After(5 * time.Second):
		t.Fatal("relay received no data")
	}
}

func TestSMTPClassifiesReplies(t *testing.T) {
	tests := []struct {
		name     string
		relay    fakeRelay
		expected domain.FailureClass
	}{
		{name: "mailbox unknown", relay: fakeRelay{rcpt: "550 5.1.1 no such user"}, expected: domain.FailurePermanent},
		{name: "greylisted", relay: fakeRelay{rcpt: "451 4.7.1 try again later"}, expected: domain.FailureTransient},
		{name: "quota reply", relay: fakeRelay{rcpt: "452 4.5.3 daily limit reached"}, expected: domain.FailureQuota},
		{name: "busy greeting", relay: fakeRelay{greeting: "421 too busy"}, expected: domain.FailureQuota},
		{name: "content rejected", relay: fakeRelay{queued: "554 5.6.0 message content rejected"}, expected: domain.FailurePermanent},
		{name: "relay refuses session", relay: fakeRelay{greeting: "554 5.7.1 service unavailable for your IP"}, expected: domain.FailureTransient},
		{name: "bad credentials", relay: fakeRelay{auth: "535 5.7.8 authentication failed"}, expected: domain.FailureTransient},
		{name: "sender rejected", relay: fakeRelay{mailFrom: "550 5.7.1 sender not allowed"}, expected: domain.FailureTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := tt.relay
			cfg := startRelay(t, &relay)
			if relay.auth != "" {
				cfg.Username, cfg.Password = "studio", "secret"
			}
			m, err := NewSMTP(cfg)
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = m.Send(ctx, testMessage())
			require.Error(t, err)
			assert.Equal(t, tt.expected, domain.ClassifySendError(err))
		})
	}
}

func TestSMTPDialFailureIsTransient(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())
	p, _ := strconv.Atoi(port)

	m, err := NewSMTP(configs.Mailer{From: "no-reply@example.com", SMTPHost: "127.0.0.1", SMTPPort: p})
	require.NoError(t, err)

	err = m.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Equal(t, domain.FailureTransient, domain.ClassifySendError(err))
}

func TestSMTPInvalidRecipientIsPermanent(t *testing.T) {
	m, err := NewSMTP(configs.Mailer{From: "no-reply@example.com", SMTPHost: "127.0.0.1", SMTPPort: 1})
	require.NoError(t, err)

	msg := testMessage()
	msg.To = "not an address"
	err = m.Send(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, domain.FailurePermanent, domain.ClassifySendError(err))
}

func TestNewSMTPRejectsBadSender(t *testing.T) {
	_, err := NewSMTP(configs.Mailer{From: "nobody", SMTPHost: "localhost", SMTPPort: 25})
	require.Error(t, err)
}
