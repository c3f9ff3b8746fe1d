// Package messaging defines interfaces for real-time communication.
package messaging

// EventType names a document change pushed to editor clients.
type EventType string

const (
	EventDocumentChanged EventType = "document-changed"
	EventPageChanged     EventType = "page-changed"
	EventDocumentReload  EventType = "document-reloaded"
)

// EditorEvent is the message sent to connected editors. An empty PageID
// concerns every page.
type EditorEvent struct {
	Type     EventType `json:"type"`
	PageID   string    `json:"pageId,omitempty"`
	Revision uint64    `json:"revision"`
}

// Publisher fans editor events out to connected clients.
type Publisher interface {
	Publish(event EditorEvent)
}
