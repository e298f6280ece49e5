// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com"

// basicAuthTransport adds the account credentials to every request.
type basicAuthTransport struct {
	username  string
	password  string
	transport http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return t.transport.RoundTrip(req)
}

// TwilioTransport performs the single message-send POST against the
// Twilio REST API. The raw response status and body are handed back
// untouched; only network-level failures surface as errors.
type TwilioTransport struct {
	accountSID string
	client     *http.Client
	baseURL    string
}

func NewTwilioTransport(accountSID, authToken string) *TwilioTransport {
	return &TwilioTransport{
		accountSID: accountSID,
		baseURL:    twilioBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &basicAuthTransport{
				username:  accountSID,
				password:  authToken,
				transport: http.DefaultTransport,
			},
		},
	}
}

func (t *TwilioTransport) Send(ctx context.Context, to, from, body string) (*MessageReceipt, error) {
	form := url.Values{
		"To":   {to},
		"From": {from},
		"Body": {body},
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("message request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read message response: %w", err)
	}

	return &MessageReceipt{StatusCode: resp.StatusCode, Body: string(raw)}, nil
}
