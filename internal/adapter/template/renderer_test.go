package template

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
)

var testFS = fstest.MapFS{
	"welcome.tmpl": {Data: []byte(`{{define "subject"}} Hello {{.Name}} {{end}}
{{define "text"}}Hi {{.Name}} <{{.Email}}>{{end}}
{{define "html"}}<p>Hi {{.Name}}</p>{{end}}`)},
	"plain.tmpl":      {Data: []byte(`{{define "subject"}}Plain{{end}}{{define "text"}}only text{{end}}`)},
	"nosubject.tmpl":  {Data: []byte(`{{define "text"}}x{{end}}`)},
	"nobody.tmpl":     {Data: []byte(`{{define "subject"}}x{{end}}`)},
	"broken.tmpl":     {Data: []byte(`{{define "subject"}}{{.Name}`)},
	"news/march.tmpl": {Data: []byte(`{{define "subject"}}March{{end}}{{define "html"}}<b>{{.UserID}}</b>{{end}}`)},
}

func TestRenderAllBlocks(t *testing.T) {
	r := NewRenderer(testFS)
	msg, err := r.Render(context.Background(), "welcome", domain.Recipient{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Ada", msg.ToName)
	assert.Equal(t, "Hello Ada", msg.Subject)
	assert.Equal(t, "Hi Ada <ada@example.com>", msg.TextBody)
	assert.Equal(t, "<p>Hi Ada</p>", msg.HTMLBody)
}

func TestRenderEscapesHTML(t *testing.T) {
	r := NewRenderer(testFS)
	msg, err := r.Render(context.Background(), "welcome", domain.Recipient{Email: "x@example.com", Name: "<script>"})
	require.NoError(t, err)

	assert.Equal(t, "<p>Hi &lt;script&gt;</p>", msg.HTMLBody)
	assert.Equal(t, "Hi <script> <x@example.com>", msg.TextBody)
}

func TestRenderOptionalBodies(t *testing.T) {
	r := NewRenderer(testFS)

	msg, err := r.Render(context.Background(), "plain", domain.Recipient{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "only text", msg.TextBody)
	assert.Empty(t, msg.HTMLBody)

	msg, err = r.Render(context.Background(), "news/march", domain.Recipient{Email: "a@example.com", UserID: "u-9"})
	require.NoError(t, err)
	assert.Empty(t, msg.TextBody)
	assert.Equal(t, "<b>u-9</b>", msg.HTMLBody)
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(testFS)
	rcpt := domain.Recipient{Email: "a@example.com"}

	_, err := r.Render(context.Background(), "missing", rcpt)
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = r.Render(context.Background(), "../etc/passwd", rcpt)
	require.ErrorIs(t, err, ErrTemplateNotFound)

	for _, ref := range []string{"nosubject", "nobody", "broken"} {
		_, err = r.Render(context.Background(), ref, rcpt)
		assert.Error(t, err, ref)
	}
}

func TestRenderCachesParsedTemplates(t *testing.T) {
	fsys := fstest.MapFS{"a.tmpl": {Data: []byte(`{{define "subject"}}v1{{end}}{{define "text"}}t{{end}}`)}}
	r := NewRenderer(fsys)

	msg, err := r.Render(context.Background(), "a", domain.Recipient{Email: "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, "v1", msg.Subject)

	fsys["a.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "subject"}}v2{{end}}{{define "text"}}t{{end}}`)}
	msg, err = r.Render(context.Background(), "a", domain.Recipient{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "v1", msg.Subject)
}

func TestBundledTemplatesRender(t *testing.T) {
	r := NewRenderer(os.DirFS("../../../templates"))
	msg, err := r.Render(context.Background(), "welcome", domain.Recipient{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Contains(t, msg.Subject, "Ada")
	assert.NotEmpty(t, msg.TextBody)
	assert.NotEmpty(t, msg.HTMLBody)
}
