package controller

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

// allowedExtensions are the file types the upload flow accepts, matched
// case-insensitively against the final extension.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// acceptedMIMETypes mirrors the accept hint offered to file pickers.
// Validation is by extension only; this list is never consulted.
var acceptedMIMETypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

const (
	progressTick = 200 * time.Millisecond
	progressCap  = 90
	completeHold = 500 * time.Millisecond
)

// Upload runs the full upload flow for one chosen file. It validates the
// extension before any network call, keeps a cosmetic progress bar moving
// while the request is outstanding, and reconciles the registry with the
// real result. A second upload is refused while one is in flight.
func (c *Controller) Upload(ctx context.Context, filename string, data []byte) {
	if c.state.isUploading {
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		c.view.ShowToast("Please upload a PDF, DOCX, or TXT file.", ToastError)
		return
	}

	c.state.isUploading = true
	c.view.ShowUploadProgress()
	c.view.SetUploadProgress(0, "Uploading...")

	stop := c.startProgressSimulation()

	res, err := c.backend.Upload(ctx, filename, bytes.NewReader(data))
	close(stop) // the simulation never outlives the request

	if err != nil {
		c.view.ShowToast(err.Error(), ToastError)
	} else {
		c.view.SetUploadProgress(100, "Processing complete!")
		time.Sleep(completeHold)

		c.view.ShowToast(fmt.Sprintf("Successfully processed %s (%d chunks)", res.Filename, res.Chunks), ToastSuccess)

		c.state.documents = append(c.state.documents, Document{
			Name:   res.Filename,
			Size:   int64(len(data)),
			Chunks: res.Chunks,
		})
		c.view.RenderDocuments(c.Documents())
		c.updateChatAvailability()
	}

	c.state.isUploading = false
	c.view.HideUploadProgress()
}

// startProgressSimulation animates the bar independently of real transfer
// progress: every tick it advances by a random amount in [0,15), capped at
// 90 percent so only a real success can finish it. The bar never regresses.
// Closing the returned channel stops the ticker.
func (c *Controller) startProgressSimulation() chan struct{} {
	stop := make(chan struct{})

	go func() {
		ticker := time.NewTicker(progressTick)
		defer ticker.Stop()

		var progress float64
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				progress += rand.Float64() * 15
				if progress > progressCap {
					progress = progressCap
				}
				c.view.SetUploadProgress(int(progress), "Uploading...")
			}
		}
	}()

	return stop
}
