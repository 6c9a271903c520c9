// Package audience evaluates campaign audience filters against the
// subscriber directory.
package audience

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"studio-campaigns/internal/core/domain"
)

// Filter describes who should receive a campaign. A subscriber matches when
// All is set or it carries at least one of Tags, or its address is listed in
// Emails. Exclude always wins; unsubscribed subscribers never match.
type Filter struct {
	All     bool     `json:"all"`
	Tags    []string `json:"tags"`
	Emails  []string `json:"emails"`
	Exclude []string `json:"exclude"`
}

// Subscriber is one row of the directory.
type Subscriber struct {
	Email        string
	Name         string
	UserID       string
	Tags         []string
	Unsubscribed bool
}

// Parse decodes and validates a raw filter. Unknown fields are rejected so a
// typo cannot silently widen the audience.
func Parse(raw json.RawMessage) (Filter, error) {
	var f Filter
	if len(bytes.TrimSpace(raw)) == 0 {
		return f, domain.ValidationError("audience filter is required")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return f, domain.ValidationError("audience filter: %v", err)
	}
	if !f.All && len(f.Tags) == 0 && len(f.Emails) == 0 {
		return f, domain.ValidationError("audience filter selects nobody: set all, tags or emails")
	}
	f.Emails = normalizeAll(f.Emails)
	f.Exclude = normalizeAll(f.Exclude)
	return f, nil
}

// Match reports whether s belongs to the audience.
func (f Filter) Match(s Subscriber) bool {
	if s.Unsubscribed {
		return false
	}
	email := domain.NormalizeEmail(s.Email)
	if email == "" || slices.Contains(f.Exclude, email) {
		return false
	}
	if f.All || slices.Contains(f.Emails, email) {
		return true
	}
	for _, tag := range f.Tags {
		if slices.Contains(s.Tags, tag) {
			return true
		}
	}
	return false
}

// Select returns the recipients among subs that match f, in directory order.
func (f Filter) Select(subs []Subscriber) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(subs))
	for _, s := range subs {
		if !f.Match(s) {
			continue
		}
		out = append(out, domain.Recipient{Email: s.Email, Name: s.Name, UserID: s.UserID})
	}
	return out
}

func (f Filter) String() string {
	if f.All {
		return fmt.Sprintf("all (exclude %d)", len(f.Exclude))
	}
	return fmt.Sprintf("tags=%s emails=%d (exclude %d)", strings.Join(f.Tags, ","), len(f.Emails), len(f.Exclude))
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if n := domain.NormalizeEmail(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
