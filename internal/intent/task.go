package intent

import (
	"fmt"
	"strings"
)

// BuildFilingTask expands a user prompt and its extracted details into
// the step-by-step task description handed to the automation agent.
// Expansion is a pure function of the details: the same prompt always
// produces the same task.
func BuildFilingTask(userPrompt string, d FilingDetails) string {
	var incomes strings.Builder
	for _, income := range d.AdditionalIncomes {
		fmt.Fprintf(&incomes, `
         * Click "Add Income" button
         * Select "%s" from dropdown
         * Enter amount: %d`, income.Type, income.Amount)
	}

	var deductions strings.Builder
	for _, ded := range d.Deductions {
		fmt.Fprintf(&deductions, `
         * Click "Add Deduction" button
         * Select "%s"
         * Enter description: "%s"
         * Enter amount: %d`, ded.Type, ded.Description, ded.Amount)
	}

	return fmt.Sprintf(`User request: '%s'

Based on the user request, perform tax filing automation with the following details:
- PAN Number: %s
- Mobile: %s
- Assessment Year: %s
- ITR Type: %s

Follow these steps precisely to complete the tax filing process:

1. LOGIN PHASE:
   - Navigate to the income tax e-filing portal
   - Verify login form elements are present:
     * PAN Number field
     * Captcha field
     * "Get OTP" button
   - Enter PAN: %s
   - Read and enter the captcha shown on screen (look carefully at the image)
   - Click "Get OTP" button
   - When OTP field appears, enter: 123456
   - Click final login button
   - Verify successful login by checking for dashboard elements

2. START FILING PHASE:
   - On dashboard, locate "File ITR" section
   - Click "Start Filing" button
   - In the filing form:
     * Click Assessment Year dropdown
     * Select "%s"
     * Select ITR Type: "%s"
     * Choose Filing Mode: "%s"
   - Click "Continue" button

3. PRE-FILLED INFO PHASE:
   - Review pre-filled information
   - Verify personal details are correct
   - Click "Continue to Income & Deductions"

4. INCOME & DEDUCTIONS PHASE:
   - Under "Other Income" section:%s

   - Under "Deductions" section:%s

   - If any entry needs deletion, use the red delete button
   - Click "Continue to Tax Summary"

5. TAX SUMMARY & PAYMENT PHASE:
   - Review tax calculation summary
   - Verify calculated tax amounts
   - Click "Continue to Payment"
   - Select any available payment method (UPI/Net Banking/Card)
   - Click "Make Payment"

6. FINAL SUBMISSION:
   - Review all information in submission page
   - Verify all details are correct
   - Check "I accept the above declaration" checkbox
   - Click "Submit Return"
   - Verify successful submission message
   - Note down acknowledgment number if provided

Important Instructions:
- Take your time with each step and wait for page loads
- If any element is not found, wait a moment and try again
- Document each successful action with clear descriptions
- If any step fails, provide detailed error information
- Ensure each page loads completely before proceeding
- If captcha is unclear, describe what you see and try your best guess
- Take screenshots of any errors or important screens`,
		userPrompt,
		d.PAN, d.Mobile, d.AssessmentYear, d.ITRType,
		d.PAN,
		d.AssessmentYear, d.ITRType, d.FilingMode,
		incomes.String(), deductions.String())
}
