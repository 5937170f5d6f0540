// Package controller drives the document-QA user interface: it mirrors the
// backend's document registry, runs the upload and chat flows, and pushes
// every visible state change through a View. All session mutation goes
// through controller methods; views never touch state directly.
package controller

import (
	"context"
	"io"

	"github.com/niknshinde/Traditional-Rag/internal/ui/client"
)

// Document is the client-side mirror of one uploaded document.
type Document struct {
	Name   string
	Size   int64
	Chunks int
}

// Role of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToastKind classifies a transient notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Input placeholders for the two chat states.
const (
	PlaceholderNoDocuments = "Upload a document first..."
	PlaceholderAsk         = "Ask a question..."
)

// Backend is the slice of the API client the controller needs.
type Backend interface {
	Status(ctx context.Context) (string, error)
	ListDocuments(ctx context.Context) ([]client.DocumentInfo, error)
	Upload(ctx context.Context, filename string, data io.Reader) (client.UploadResult, error)
	Query(ctx context.Context, question string) (string, error)
}

// View receives UI updates from the controller. Implementations render a
// terminal, a test recorder, or anything else; they must not call back into
// the controller while handling an update.
//
// Toasts are transient: views should dismiss them about four seconds after
// they appear.
type View interface {
	SetConnectionStatus(connected bool, label string)
	RenderDocuments(docs []Document)
	ShowToast(message string, kind ToastKind)

	SetChatEnabled(enabled bool, placeholder string)
	ClearWelcome()
	AppendMessage(role Role, content string)
	ShowTypingIndicator()
	HideTypingIndicator()

	ShowUploadProgress()
	SetUploadProgress(percent int, label string)
	HideUploadProgress()
}

// session is the page-lifetime state. At most one upload and one query may
// be in flight at a time; the flags below enforce that.
type session struct {
	documents   []Document
	isUploading bool
	isQuerying  bool
}

type Controller struct {
	backend Backend
	view    View
	state   session

	welcomeCleared bool
}

func New(backend Backend, view View) *Controller {
	return &Controller{backend: backend, view: view}
}

// Init runs the one-time startup sequence: a single status probe and the
// initial document listing. Connectivity failures degrade silently to the
// disconnected badge; no toast, no retry.
func (c *Controller) Init(ctx context.Context) {
	status, err := c.backend.Status(ctx)
	if err == nil && status == "connected" {
		c.view.SetConnectionStatus(true, "Connected")
	} else {
		c.view.SetConnectionStatus(false, "Disconnected")
	}

	docs, err := c.backend.ListDocuments(ctx)
	if err == nil {
		c.state.documents = c.state.documents[:0]
		for _, d := range docs {
			c.state.documents = append(c.state.documents, Document{Name: d.Name, Size: d.Size, Chunks: d.Chunks})
		}
	}
	c.view.RenderDocuments(c.Documents())
	c.updateChatAvailability()
}

// Documents returns a copy of the registry mirror in upload order.
func (c *Controller) Documents() []Document {
	out := make([]Document, len(c.state.documents))
	copy(out, c.state.documents)
	return out
}

// Uploading reports whether an upload is in flight.
func (c *Controller) Uploading() bool { return c.state.isUploading }

// Querying reports whether a question is in flight.
func (c *Controller) Querying() bool { return c.state.isQuerying }

// updateChatAvailability recomputes whether questions can be asked: chat is
// enabled only when at least one document is available and no query is
// outstanding.
func (c *Controller) updateChatAvailability() {
	if len(c.state.documents) == 0 {
		c.view.SetChatEnabled(false, PlaceholderNoDocuments)
		return
	}
	c.view.SetChatEnabled(!c.state.isQuerying, PlaceholderAsk)
}
