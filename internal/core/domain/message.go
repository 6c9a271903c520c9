package domain

// Message is a rendered email ready for the mail provider.
type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}
