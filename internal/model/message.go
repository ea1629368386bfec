package model

// Message is a single chat message as persisted by the upstream ingestion
// system. ID is the authoritative ordering key; DateTime is kept as the raw
// stored string because the upstream writes it in more than one format.
type Message struct {
	ID        int64
	MessageID string
	Language  string
	AddressID string
	FromPhone string
	ToPhone   string
	GoodOrBad string
	Type      string
	Text      string
	DateTime  string
}

// Conversation is every message exchanged with one client phone within a
// queried window, ascending by Message.ID.
type Conversation struct {
	ClientPhone string
	Messages    []Message
}
