package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/niknshinde/Traditional-Rag/internal/ui/controller"
	"github.com/niknshinde/Traditional-Rag/internal/ui/render"
)

// REPL reads commands and questions from a terminal and feeds them to the
// controller one at a time, so at most one upload and one question are ever
// in flight.
type REPL struct {
	ctrl *controller.Controller
	view *View
	in   io.Reader
	out  io.Writer
}

func NewREPL(ctrl *controller.Controller, view *View, in io.Reader, out io.Writer) *REPL {
	return &REPL{ctrl: ctrl, view: view, in: in, out: out}
}

// Run blocks until the input ends or /quit is entered.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Document Q&A — ask questions about your uploaded documents.")
	fmt.Fprintln(r.out, "Type /help for commands.")

	r.ctrl.Init(ctx)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		faint.Fprintf(r.out, "(%s) ", r.view.Placeholder())
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return nil
			}
			continue
		}

		if !r.view.ChatEnabled() {
			fmt.Fprintf(r.out, "%s\n", r.view.Placeholder())
			continue
		}
		r.ctrl.Ask(ctx, line)
	}
}

// command dispatches one slash command. Returns true when the loop should exit.
func (r *REPL) command(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Fprintln(r.out, "  /upload <path>   upload a PDF, DOCX, or TXT document")
		fmt.Fprintln(r.out, "  /docs            list uploaded documents")
		fmt.Fprintln(r.out, "  /save <path>     save the session as an HTML transcript")
		fmt.Fprintln(r.out, "  /quit            exit")
		fmt.Fprintln(r.out, "  anything else    ask a question")

	case "/upload":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: /upload <path>")
			return false
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			r.view.ShowToast(fmt.Sprintf("could not read %s: %v", arg, err), controller.ToastError)
			return false
		}
		r.ctrl.Upload(ctx, filepath.Base(arg), data)

	case "/docs":
		docs := r.ctrl.Documents()
		if len(docs) == 0 {
			fmt.Fprintln(r.out, "No documents uploaded yet.")
			return false
		}
		r.view.RenderDocuments(docs)

	case "/save":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: /save <path>")
			return false
		}
		if err := r.saveTranscript(arg); err != nil {
			r.view.ShowToast(fmt.Sprintf("save failed: %v", err), controller.ToastError)
			return false
		}
		r.view.ShowToast(fmt.Sprintf("Transcript saved to %s", arg), controller.ToastSuccess)

	default:
		fmt.Fprintf(r.out, "unknown command %s (try /help)\n", cmd)
	}
	return false
}

// saveTranscript writes the session (registry plus conversation) as HTML.
func (r *REPL) saveTranscript(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	docs := r.ctrl.Documents()
	entries := make([]render.Document, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, render.Document{Name: d.Name, Size: d.Size, Chunks: d.Chunks})
	}

	return render.WriteTranscript(f, render.Transcript{
		GeneratedAt: time.Now(),
		Documents:   entries,
		Messages:    r.view.Messages(),
	})
}
