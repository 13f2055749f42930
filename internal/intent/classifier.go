// Package intent maps free-text user commands to routing decisions:
// either a long-running automation task or a direct chat reply.
// Classification is pure keyword scanning with fixed confidence
// constants; identical input always yields identical output.
package intent

import "strings"

// Task types.
const (
	TaskTaxFiling   = "tax_filing"
	TaskFormFilling = "form_filling"
	TaskChat        = "chat"
)

// Intents.
const (
	IntentTaxFiling   = "tax_filing"
	IntentFormFilling = "form_filling"
	IntentHelp        = "help"
	IntentChat        = "chat"
)

// Refined tax-filing actions.
const (
	ActionStartFiling = "start_filing"
	ActionCheckStatus = "check_status"
	ActionHelpGuide   = "help_guide"
)

// Classification is the routing decision for one command.
type Classification struct {
	Intent             string
	RequiresAutomation bool
	TaskType           string
	Action             string
	Confidence         float64
}

// Keyword groups, scanned in priority order: first matching group wins.
var (
	taxKeywords  = []string{"tax", "itr", "income tax", "filing", "return", "assessment", "tax return", "file itr"}
	formKeywords = []string{"form", "application", "government", "fill", "submit", "portal", "government portal"}
	helpKeywords = []string{"help", "guide", "how", "what", "explain", "understand", "learn"}

	startActions  = []string{"start", "begin", "file", "submit"}
	statusActions = []string{"check", "status", "verify", "review"}
	guideActions  = []string{"help", "guide", "how", "explain"}
)

// Classify analyzes a user message and returns its routing decision.
func Classify(message string) Classification {
	lower := strings.ToLower(message)

	if containsAny(lower, taxKeywords) {
		c := Classification{
			Intent:             IntentTaxFiling,
			RequiresAutomation: true,
			TaskType:           TaskTaxFiling,
			Confidence:         0.9,
		}
		// A secondary action scan refines the classification and
		// adjusts confidence.
		switch {
		case containsAny(lower, startActions):
			c.Action = ActionStartFiling
			c.Confidence = 0.95
		case containsAny(lower, statusActions):
			c.Action = ActionCheckStatus
			c.Confidence = 0.8
		case containsAny(lower, guideActions):
			c.Action = ActionHelpGuide
			c.Confidence = 0.7
		}
		return c
	}

	if containsAny(lower, formKeywords) {
		return Classification{
			Intent:             IntentFormFilling,
			RequiresAutomation: true,
			TaskType:           TaskFormFilling,
			Confidence:         0.8,
		}
	}

	if containsAny(lower, helpKeywords) {
		return Classification{
			Intent:             IntentHelp,
			RequiresAutomation: false,
			TaskType:           TaskChat,
			Confidence:         0.6,
		}
	}

	return Classification{
		Intent:             IntentChat,
		RequiresAutomation: false,
		TaskType:           TaskChat,
		Confidence:         0.5,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
