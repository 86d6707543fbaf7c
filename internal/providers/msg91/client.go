// Package msg91 реализует клиент почтового провайдера MSG91.
package msg91

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client клиент MSG91 Email API.
type Client struct {
	authKey    string
	fromEmail  string
	fromName   string
	domain     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент MSG91. Аргумент domain — домен отправителя,
// подтверждённый в кабинете провайдера.
func NewClient(authKey, fromEmail, fromName, domain string) *Client {
	return &Client{
		authKey:    authKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		domain:     domain,
		apiURL:     "https://control.msg91.com/api/v5",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured сообщает, задан ли ключ доступа.
func (c *Client) IsConfigured() bool {
	return c.authKey != ""
}

type sendEmailRequest struct {
	Recipients []recipient `json:"recipients"`
	From       address     `json:"from"`
	Domain     string      `json:"domain"`
	Subject    string      `json:"subject"`
	Body       body        `json:"body"`
}

type recipient struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type body struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// SendEmail отправляет письмо с HTML-телом одному получателю.
func (c *Client) SendEmail(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	payload := sendEmailRequest{
		Recipients: []recipient{{To: []address{{Email: toEmail, Name: toName}}}},
		From:       address{Email: c.fromEmail, Name: c.fromName},
		Domain:     c.domain,
		Subject:    subject,
		Body:       body{Type: "text/html", Data: htmlBody},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/email/send", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("authkey", c.authKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
