package mock

import (
	"context"
	"strings"

	"github.com/madhavkalra7/LegalEase/internal/session"
)

// Replies is a canned reply generator for -mock mode.
type Replies struct{}

func NewReplies() *Replies { return &Replies{} }

var cannedReplies = []struct {
	keyword string
	reply   string
}{
	{"itr", "An ITR (Income Tax Return) is the form you file to report income and taxes paid for an assessment year. Tell me to \"start ITR filing\" and I can walk through the portal for you."},
	{"filing", "Filing starts with logging into the e-filing portal with your PAN, choosing the assessment year and ITR type, then reviewing income and deductions. Say \"start filing\" to have me do it."},
	{"deduction", "Common deductions include 80C investments (up to 1,50,000) and 80D health insurance premiums. I can add them for you during an automated filing run."},
	{"pan", "Your PAN is the ten-character identifier used to log into the tax portal. Include it in your request (e.g. \"PAN: ABCDE1234F\") and I'll use it when filing."},
}

func (r *Replies) Reply(ctx context.Context, history []session.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Answer based on the latest user turn.
	var last string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == session.RoleUser {
			last = strings.ToLower(history[i].Content)
			break
		}
	}

	for _, c := range cannedReplies {
		if strings.Contains(last, c.keyword) {
			return c.reply, nil
		}
	}
	return "I can help with tax filing, government forms, and document questions. Ask me anything, or tell me to start a filing run.", nil
}
