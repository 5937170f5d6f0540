package controller

import (
	"context"
	"strings"
)

// Ask runs the chat flow for one question. It is a no-op when the trimmed
// question is empty, when no documents are available, or while another
// question is in flight; exactly one query may be outstanding at a time.
func (c *Controller) Ask(ctx context.Context, question string) {
	question = strings.TrimSpace(question)
	if question == "" || c.state.isQuerying {
		return
	}
	if len(c.state.documents) == 0 {
		// Input is disabled in this state; nothing to do.
		return
	}

	c.state.isQuerying = true
	c.view.SetChatEnabled(false, PlaceholderAsk)

	if !c.welcomeCleared {
		c.view.ClearWelcome()
		c.welcomeCleared = true
	}

	c.view.AppendMessage(RoleUser, question)
	c.view.ShowTypingIndicator()

	answer, err := c.backend.Query(ctx, question)

	c.view.HideTypingIndicator()
	if err != nil {
		c.view.AppendMessage(RoleAssistant, "Sorry, I encountered an error: "+err.Error())
		c.view.ShowToast("Failed to get response", ToastError)
	} else {
		c.view.AppendMessage(RoleAssistant, answer)
	}

	c.state.isQuerying = false
	c.updateChatAvailability()
}
