package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		intent     string
		automation bool
		taskType   string
		action     string
		confidence float64
	}{
		{
			name:       "TaxStartAction",
			message:    "Start ITR filing for this year",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     ActionStartFiling,
			confidence: 0.95,
		},
		{
			name:       "TaxStatusAction",
			message:    "check my tax return status",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     ActionCheckStatus,
			confidence: 0.8,
		},
		{
			name:       "TaxGuideAction",
			message:    "explain income tax to me",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     ActionHelpGuide,
			confidence: 0.7,
		},
		{
			name:       "TaxNoAction",
			message:    "itr",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     "",
			confidence: 0.9,
		},
		{
			name:       "FormFilling",
			message:    "fill out the government portal application",
			intent:     IntentFormFilling,
			automation: true,
			taskType:   TaskFormFilling,
			confidence: 0.8,
		},
		{
			name:       "Help",
			message:    "help me understand deductions",
			intent:     IntentHelp,
			automation: false,
			taskType:   TaskChat,
			confidence: 0.6,
		},
		{
			name:       "Fallback",
			message:    "good morning",
			intent:     IntentChat,
			automation: false,
			taskType:   TaskChat,
			confidence: 0.5,
		},
		{
			// "filing" is a tax keyword and "file" a start action, so a
			// help-phrased request about filing still routes to
			// automation. Chat routing needs a prompt with no tax or
			// form keywords.
			name:       "HelpPhrasingDoesNotBeatTaxKeyword",
			message:    "Help me understand filing",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     ActionStartFiling,
			confidence: 0.95,
		},
		{
			// Tax keywords take priority over form and help keywords.
			name:       "TaxBeatsForm",
			message:    "help me submit my tax form",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     ActionStartFiling,
			confidence: 0.95,
		},
		{
			name:       "CaseInsensitive",
			message:    "FILE MY TAXES",
			intent:     IntentTaxFiling,
			automation: true,
			taskType:   TaskTaxFiling,
			action:     ActionStartFiling,
			confidence: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.message)
			if got.Intent != tt.intent {
				t.Errorf("intent = %q, want %q", got.Intent, tt.intent)
			}
			if got.RequiresAutomation != tt.automation {
				t.Errorf("requires automation = %v, want %v", got.RequiresAutomation, tt.automation)
			}
			if got.TaskType != tt.taskType {
				t.Errorf("task type = %q, want %q", got.TaskType, tt.taskType)
			}
			if got.Action != tt.action {
				t.Errorf("action = %q, want %q", got.Action, tt.action)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.confidence)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("start itr filing")
	for i := 0; i < 10; i++ {
		if got := Classify("start itr filing"); got != first {
			t.Fatalf("classification varied: %+v vs %+v", got, first)
		}
	}
}
