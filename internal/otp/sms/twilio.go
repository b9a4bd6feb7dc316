package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	defaultBaseURL = "https://api.twilio.com/2010-04-01"
	// maxErrorBody caps how much of a failed response is copied into the error.
	maxErrorBody = 1 << 10
)

// MessageBody returns the text sent for code.
func MessageBody(code string) string {
	return fmt.Sprintf("Your Mithai Bhandar OTP is: %s. Valid for 5 minutes. Do not share this code with anyone.", code)
}

// TwilioClient sends OTP SMS through the Twilio Messages API.
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	HTTPClient *http.Client
}

var _ Sender = (*TwilioClient)(nil)

// NewTwilioClient returns a client for the given account. baseURL may be empty for the public API.
func NewTwilioClient(accountSID, authToken, from, baseURL string) *TwilioClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SendOTP posts one message to "to" (E.164, e.g. +919876543210). Any non-2xx response is an error.
func (c *TwilioClient) SendOTP(ctx context.Context, to, code string) error {
	if c.AccountSID == "" || c.AuthToken == "" || c.From == "" {
		return fmt.Errorf("sms: twilio credentials not configured")
	}
	form := url.Values{}
	form.Set("From", c.From)
	form.Set("To", to)
	form.Set("Body", MessageBody(code))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.BaseURL, url.PathEscape(c.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: twilio request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("sms: twilio request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
