package ai

import (
	"fmt"
	"strings"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

// buildSystemPrompt renders the business configuration into assistant
// instructions.
func buildSystemPrompt(b *model.Business) string {
	description := b.Description
	if description == "" {
		description = "No description provided"
	}
	hours := b.BusinessHours
	if hours == "" {
		hours = "Not specified"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an AI assistant for %s, a %s business.\n\n", b.Name, b.Industry)
	fmt.Fprintf(&sb, "Business Information:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", b.Name)
	fmt.Fprintf(&sb, "- Industry: %s\n", b.Industry)
	fmt.Fprintf(&sb, "- Description: %s\n", description)
	fmt.Fprintf(&sb, "- Business Hours: %s\n\n", hours)
	sb.WriteString("Instructions:\n")
	sb.WriteString("- Respond as a helpful customer service representative\n")
	sb.WriteString("- Keep responses concise and professional\n")
	sb.WriteString("- Use the business information to provide relevant assistance\n")
	if b.AIInstructions != "" {
		sb.WriteString("- " + b.AIInstructions + "\n")
	}
	return sb.String()
}

// shouldRespond decides whether an automated reply is appropriate. Replies
// are suppressed when the business disabled auto-reply and for media without
// textual content.
func shouldRespond(req *Request) bool {
	if req.Business != nil && !req.Business.AutoReply {
		return false
	}
	switch req.MessageType {
	case "text":
		return strings.TrimSpace(req.Message) != ""
	case "image", "video", "document":
		// Media arrives as a bracketed placeholder; the reply can still
		// acknowledge receipt.
		return true
	default:
		// Audio, stickers, locations and unknown types get no automated
		// reply.
		return false
	}
}

// detectIntent tags the message with a coarse intent keyword.
func detectIntent(message string) string {
	m := strings.ToLower(message)
	switch {
	case containsAny(m, "price", "cost", "how much", "quote"):
		return "pricing"
	case containsAny(m, "hour", "open", "close", "when are you"):
		return "hours"
	case containsAny(m, "book", "appointment", "schedule", "reserve"):
		return "booking"
	case containsAny(m, "help", "problem", "issue", "support", "complaint"):
		return "support"
	case containsAny(m, "hi", "hello", "hey", "good morning", "good afternoon"):
		return "greeting"
	default:
		return "general"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
