package services

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"careplan/internal/core/domain/model/kernel"
)

// Email is a rendered message ready for the mail client.
type Email struct {
	Subject string
	HTML    string
}

// FormURL returns the questionnaire link sent to a patient.
func FormURL(baseURL string, patientID kernel.UUID) string {
	base := strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s/patient-form.html?id=%s", base, url.QueryEscape(patientID.String()))
}

// InviteEmail is the first message a patient gets, linking the health goals questionnaire.
func InviteEmail(formURL string) Email {
	return Email{
		Subject: "Your Health Goals - YourGP Care Plan",
		HTML: fmt.Sprintf(`
    <p>Dear Patient,</p>
    <p>As part of your care planning, we'd like to understand your health goals better.</p>
    <p>Please click the link below to complete a short questionnaire about your health goals:</p>
    <p><a href="%s" style="color: #667eea; font-weight: bold;">Complete Your Health Goals Questionnaire</a></p>
    <p>This will help us create a personalised care plan that focuses on what matters most to you.</p>
    <p>If you have any questions, please contact the practice.</p>
    <p>Kind regards,<br>YourGP Care Team</p>
  `, html.EscapeString(formURL)),
	}
}

// ReminderEmail asks the patient to complete the health goals questionnaire.
func ReminderEmail(formURL string) Email {
	return Email{
		Subject: "Reminder: Your Health Goals Questionnaire - YourGP",
		HTML: fmt.Sprintf(`
    <p>Dear Patient,</p>
    <p>This is a friendly reminder that we're waiting for you to complete your health goals questionnaire.</p>
    <p>Please click the link below to complete the short questionnaire:</p>
    <p><a href="%s" style="color: #667eea; font-weight: bold;">Complete Your Health Goals Questionnaire</a></p>
    <p>Completing this helps us create a personalised care plan focused on what matters most to you.</p>
    <p>If you have any questions, please contact the practice.</p>
    <p>Kind regards,<br>YourGP Care Team</p>
  `, html.EscapeString(formURL)),
	}
}

// CarePlanHTML escapes plain plan text and keeps its line breaks.
func CarePlanHTML(planText string) string {
	escaped := html.EscapeString(planText)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// CarePlanEmail delivers the generated plan to the patient.
func CarePlanEmail(planText string) Email {
	return Email{
		Subject: "Your Care Plan - YourGP",
		HTML: fmt.Sprintf(`
    <p>Dear Patient,</p>
    <p>Thank you for completing your health goals questionnaire. Your personalised care plan has been prepared and is included below.</p>
    <p>Please review this plan and bring it to your upcoming telehealth consultation with your GP.</p>
    <hr style="border: 1px solid #e5e7eb; margin: 20px 0;">
    <div style="font-family: 'Courier New', monospace; font-size: 13px; line-height: 1.6; background: #f9fafb; padding: 20px; border-radius: 8px;">
      %s
    </div>
    <hr style="border: 1px solid #e5e7eb; margin: 20px 0;">
    <p>If you have any questions about your care plan, please discuss them with your GP during your consultation.</p>
    <p>Kind regards,<br>YourGP Care Team</p>
  `, CarePlanHTML(planText)),
	}
}
