package domain

// Snapshot is the frozen recipient list of a campaign, resolved once from
// its audience filter. Recipients are unique by Key and keep the order in
// which they were first resolved.
type Snapshot struct {
	recipients []Recipient
}

// NewSnapshot deduplicates resolved recipients. Entries without an address
// are dropped. An empty result is ErrNoRecipients.
func NewSnapshot(resolved []Recipient) (Snapshot, error) {
	seen := make(map[string]struct{}, len(resolved))
	out := make([]Recipient, 0, len(resolved))
	for _, r := range resolved {
		key := r.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r.Email = key
		out = append(out, r)
	}
	if len(out) == 0 {
		return Snapshot{}, ErrNoRecipients
	}
	return Snapshot{recipients: out}, nil
}

// Recipients returns a copy of the snapshot's recipient list.
func (s Snapshot) Recipients() []Recipient {
	out := make([]Recipient, len(s.recipients))
	copy(out, s.recipients)
	return out
}

func (s Snapshot) Len() int { return len(s.recipients) }
