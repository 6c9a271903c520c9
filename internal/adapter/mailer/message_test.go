package mailer

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
)

var sender = mail.Address{Name: "Studio Directory", Address: "no-reply@example.com"}

func TestBuildMessageAlternativeParts(t *testing.T) {
	raw, err := buildMessage(sender, testMessage())
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Spring open studios", decodeHeader(t, msg.Header.Get("Subject")))
	assert.Equal(t, "c-1", msg.Header.Get("X-Campaign-Id"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var bodies []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(p)
		require.NoError(t, err)
		bodies = append(bodies, string(b))
	}
	assert.Equal(t, []string{"Hello Ada", "<p>Hello Ada</p>"}, bodies)
}

func TestBuildMessageTextOnly(t *testing.T) {
	in := testMessage()
	in.HTMLBody = ""
	raw, err := buildMessage(sender, in)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", msg.Header.Get("Content-Type"))
}

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	in := testMessage()
	in.Headers = map[string]string{"X-Delivery-ID": "d-1\r\nBcc: attacker@example.com"}
	in.Subject = "Hi\r\nBcc: attacker@example.com"

	raw, err := buildMessage(sender, in)
	require.NoError(t, err)
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, msg.Header.Get("Bcc"))
}

func TestBuildMessageRejectsEmptyBody(t *testing.T) {
	_, err := buildMessage(sender, domain.Message{To: "ada@example.com", Subject: "x"})
	require.ErrorIs(t, err, errEmptyBody)
}

func decodeHeader(t *testing.T, v string) string {
	t.Helper()
	s, err := new(mime.WordDecoder).DecodeHeader(v)
	require.NoError(t, err)
	return s
}
