// Package console renders the document-QA controller in a terminal and
// drives it from a small command loop.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/niknshinde/Traditional-Rag/internal/ui/controller"
	"github.com/niknshinde/Traditional-Rag/internal/ui/format"
	"github.com/niknshinde/Traditional-Rag/internal/ui/render"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

// View renders controller updates to a terminal. The progress simulation
// ticks from its own goroutine, so writes are serialized with a mutex.
type View struct {
	mu  sync.Mutex
	out io.Writer

	placeholder string
	chatEnabled bool
	typing      bool

	// messages accumulates the conversation for transcript export.
	messages []render.Message
}

var _ controller.View = (*View)(nil)

func NewView(out io.Writer) *View {
	return &View{out: out, placeholder: controller.PlaceholderNoDocuments}
}

func (v *View) SetConnectionStatus(connected bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if connected {
		green.Fprintf(v.out, "● %s\n", label)
	} else {
		red.Fprintf(v.out, "● %s\n", label)
	}
}

func (v *View) RenderDocuments(docs []controller.Document) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(docs) == 0 {
		return
	}
	fmt.Fprintln(v.out, "Documents:")
	for _, d := range docs {
		fmt.Fprintf(v.out, "  📄 %s  %s  [Ready]\n", d.Name, format.HumanSize(d.Size))
	}
}

func (v *View) ShowToast(message string, kind controller.ToastKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if kind == controller.ToastError {
		red.Fprintf(v.out, "✗ %s\n", message)
		return
	}
	green.Fprintf(v.out, "✓ %s\n", message)
}

func (v *View) SetChatEnabled(enabled bool, placeholder string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chatEnabled = enabled
	v.placeholder = placeholder
}

func (v *View) ClearWelcome() {}

func (v *View) AppendMessage(role controller.Role, content string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch role {
	case controller.RoleUser:
		cyan.Fprint(v.out, "You: ")
		v.messages = append(v.messages, render.Message{Role: render.RoleUser, Content: content})
	default:
		yellow.Fprint(v.out, "Assistant: ")
		v.messages = append(v.messages, render.Message{Role: render.RoleAssistant, Content: content})
	}
	fmt.Fprintln(v.out, content)
}

func (v *View) ShowTypingIndicator() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typing = true
	faint.Fprint(v.out, "Assistant is typing...")
}

func (v *View) HideTypingIndicator() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.typing {
		fmt.Fprint(v.out, "\r\033[K")
		v.typing = false
	}
}

func (v *View) ShowUploadProgress() {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out)
}

func (v *View) SetUploadProgress(percent int, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	const width = 30
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Fprintf(v.out, "\r\033[K[%s] %3d%% %s", bar, percent, label)
}

func (v *View) HideUploadProgress() {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprint(v.out, "\r\033[K")
}

// Placeholder returns the current input hint for the prompt line.
func (v *View) Placeholder() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.placeholder
}

// ChatEnabled reports whether questions can currently be sent.
func (v *View) ChatEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.chatEnabled
}

// Messages returns the conversation so far, in order.
func (v *View) Messages() []render.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]render.Message, len(v.messages))
	copy(out, v.messages)
	return out
}
