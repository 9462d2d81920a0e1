package chat

import (
	"regexp"
	"strings"
)

// The outbound gate blocks user-authored messages that try to move the
// conversation to an external contact channel. Conversations with the
// platform staff are exempt: users must be able to send their own details
// to support.

// supportLabels is the case-insensitive substring test deciding the
// exemption; matching is on the conversation name.
var supportLabels = []string{"support", "admin"}

var (
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe  = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	handleRe = regexp.MustCompile(`(?i)\b(whatsapp|telegram|signal|skype|discord|wechat|viber|instagram|snapchat|facebook|messenger)\b`)
)

// GateContext identifies the conversation a message is about to enter.
type GateContext struct {
	ConversationName string
}

// Verdict is the gate's answer. A blocked verdict always carries the
// user-facing reason; the caller must surface it, never drop the message
// silently and never send it anyway.
type Verdict struct {
	Allowed bool
	Reason  string
}

func blocked(what string) Verdict {
	return Verdict{Reason: "sharing " + what + " is not allowed here; please keep all contact on the platform"}
}

// CheckOutbound applies the content policy to one outbound message.
func CheckOutbound(message string, gctx GateContext) Verdict {
	if isSupportConversation(gctx.ConversationName) {
		return Verdict{Allowed: true}
	}
	if emailRe.MatchString(message) {
		return blocked("an email address")
	}
	if handleRe.MatchString(message) {
		return blocked("external messenger contacts")
	}
	if phoneRe.MatchString(message) {
		return blocked("a phone number")
	}
	return Verdict{Allowed: true}
}

func isSupportConversation(name string) bool {
	n := strings.ToLower(name)
	for _, label := range supportLabels {
		if strings.Contains(n, label) {
			return true
		}
	}
	return false
}
