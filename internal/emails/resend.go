package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// ResendSendRequest matches the Resend API v1 send email body.
type ResendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendSendResponse struct {
	ID string `json:"id"`
}

// Sender sends transactional emails (portal invite, lead alert). Nil = no-op.
type Sender interface {
	SendPortalInvite(ctx context.Context, toEmail, clientName, companyName, portalLink string) error
	SendLeadAlert(ctx context.Context, leadName, leadEmail, language string) error
}

// ResendClient sends emails via the Resend API. Env: RESEND_API_KEY, MAIL_FROM,
// LEAD_NOTIFY_TO.
type ResendClient struct {
	APIKey   string
	MailFrom string
	NotifyTo string
	Client   *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "hello@atelier.studio"
}

// send sends one email via the Resend API and returns the delivery id.
func (c *ResendClient) send(ctx context.Context, toEmail, subject, html string) (string, error) {
	if c.APIKey == "" {
		return "", nil
	}
	body := ResendSendRequest{
		From:    "Atelier Studio <" + c.from() + ">",
		To:      []string{toEmail},
		Subject: subject,
		HTML:    html,
		ReplyTo: "support@atelier.studio",
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("resend send failed: status %d", resp.StatusCode)
	}
	var out resendSendResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out.ID, nil
}

// SendPortalInvite sends the branded portal invitation. The identity service
// already sends its own set-password email; this one carries the workspace
// context (company, portal link).
func (c *ResendClient) SendPortalInvite(ctx context.Context, toEmail, clientName, companyName, portalLink string) error {
	if c.APIKey == "" {
		return nil
	}
	if clientName == "" {
		clientName = "there"
	}
	content := portalInviteContent(clientName, companyName, portalLink)
	_, err := c.send(ctx, toEmail, "Your Atelier client portal is ready", EmailLayout(content))
	return err
}

// SendLeadAlert notifies the agency inbox about a new lead from the marketing site.
func (c *ResendClient) SendLeadAlert(ctx context.Context, leadName, leadEmail, language string) error {
	if c.APIKey == "" || c.NotifyTo == "" {
		return nil
	}
	content := leadAlertContent(leadName, leadEmail, language)
	_, err := c.send(ctx, c.NotifyTo, "New lead: "+leadName, EmailLayout(content))
	return err
}

func portalInviteContent(clientName, companyName, portalLink string) string {
	return fmt.Sprintf(`
    <h1>Welcome aboard, %s!</h1>
    <p>Your workspace for <strong>%s</strong> is ready on the <strong>Atelier Studio</strong> client portal. You can follow your project's budget, see what the team is working on right now, and review deliverables as they land.</p>
    <p>Check your inbox for a separate message to set your password, then sign in below:</p>
    <center>
      <a href="%s" class="atelier-button">Open your portal</a>
    </center>
    <p style="margin-top: 20px; font-size: 14px; color: #666;">
      If you were not expecting this invitation, you can safely ignore this email.
    </p>
    <p>— The Atelier Studio Team</p>
`, EscapeHTML(clientName), EscapeHTML(companyName), portalLink)
}

func leadAlertContent(leadName, leadEmail, language string) string {
	if language == "" {
		language = "en"
	}
	return fmt.Sprintf(`
    <h1>New lead from the site</h1>
    <p><strong>Name:</strong> %s<br>
    <strong>Email:</strong> %s<br>
    <strong>Language:</strong> %s</p>
    <p>Reply within the day while it's warm.</p>
`, EscapeHTML(leadName), EscapeHTML(leadEmail), EscapeHTML(language))
}
