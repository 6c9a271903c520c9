package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"studio-campaigns/internal/core/domain"
)

const ext = ".tmpl"

var ErrTemplateNotFound = errors.New("template not found")

// Renderer renders campaign templates stored as <ref>.tmpl files. A file
// defines a "subject" block, and at least one of "text" and "html". The
// html block is parsed with html/template so recipient fields are escaped.
type Renderer struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]*parsed
}

type parsed struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// data is what templates see as dot.
type data struct {
	Email  string
	Name   string
	UserID string
}

func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys, cache: make(map[string]*parsed)}
}

func (r *Renderer) Render(_ context.Context, ref string, recipient domain.Recipient) (domain.Message, error) {
	p, err := r.load(ref)
	if err != nil {
		return domain.Message{}, err
	}
	d := data{Email: recipient.Email, Name: recipient.Name, UserID: recipient.UserID}

	subject, err := execText(p.text, "subject", d)
	if err != nil {
		return domain.Message{}, fmt.Errorf("render %s subject: %w", ref, err)
	}
	msg := domain.Message{
		To:      recipient.Email,
		ToName:  recipient.Name,
		Subject: strings.TrimSpace(subject),
	}
	if p.text.Lookup("text") != nil {
		if msg.TextBody, err = execText(p.text, "text", d); err != nil {
			return domain.Message{}, fmt.Errorf("render %s text: %w", ref, err)
		}
	}
	if p.html.Lookup("html") != nil {
		var buf bytes.Buffer
		if err = p.html.ExecuteTemplate(&buf, "html", d); err != nil {
			return domain.Message{}, fmt.Errorf("render %s html: %w", ref, err)
		}
		msg.HTMLBody = buf.String()
	}
	return msg, nil
}

func (r *Renderer) load(ref string) (*parsed, error) {
	r.mu.RLock()
	p, ok := r.cache[ref]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	name := path.Clean(ref) + ext
	if !fs.ValidPath(name) || strings.HasPrefix(ref, "/") {
		return nil, fmt.Errorf("%w: invalid reference %q", ErrTemplateNotFound, ref)
	}
	src, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
		}
		return nil, fmt.Errorf("read template %s: %w", ref, err)
	}

	p = &parsed{}
	if p.text, err = texttemplate.New(ref).Option("missingkey=error").Parse(string(src)); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", ref, err)
	}
	if p.html, err = htmltemplate.New(ref).Option("missingkey=error").Parse(string(src)); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", ref, err)
	}
	if p.text.Lookup("subject") == nil {
		return nil, fmt.Errorf("template %s: missing subject block", ref)
	}
	if p.text.Lookup("text") == nil && p.html.Lookup("html") == nil {
		return nil, fmt.Errorf("template %s: needs a text or html block", ref)
	}

	r.mu.Lock()
	r.cache[ref] = p
	r.mu.Unlock()
	return p, nil
}

func execText(t *texttemplate.Template, name string, d data) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
