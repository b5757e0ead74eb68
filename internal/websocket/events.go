package websocket

// DataEvent describes one entity mutation. Event names follow the
// "<entity>_<verb>" convention: person_saved, card_updated, ticket_created,
// tickets_deleted and so on.
type DataEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type SystemEvent struct {
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}
