package slack

import (
	"context"

	"relbot/internal/domain/release"
	"relbot/internal/pkg/client"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://slack.com/api"

var ErrMissingChannel = errors.New("missing slack channel")

// SlackError is returned when the API answers with "ok": false.
type SlackError struct {
	Code string
}

func (e *SlackError) Error() string {
	return "slack: " + e.Code
}

type SlackClient struct {
	Token   string
	BaseURL string
	rc      *resty.Client
}

type ClientOptions struct {
	Token   string
	BaseURL string
}

func New(o *ClientOptions) *SlackClient {
	baseURL := o.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &SlackClient{
		Token:   o.Token,
		BaseURL: baseURL,
		rc:      client.NewRestClient(baseURL, o.Token),
	}
}

type postMessageOptions struct {
	Channel string               `json:"channel"`
	Text    string               `json:"text,omitempty"`
	Blocks  release.Notification `json:"blocks,omitempty"`
}

// Post sends the notification with chat.postMessage.
func (c *SlackClient) Post(ctx context.Context, o *release.PostOptions) error {
	if o.Channel == "" {
		return ErrMissingChannel
	}

	log.Debugf("POST /chat.postMessage channel=%s blocks=%d", o.Channel, len(o.Notification))

	r, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetBody(postMessageOptions{
			Channel: o.Channel,
			Text:    o.Text,
			Blocks:  o.Notification,
		}).
		Post("/chat.postMessage")
	if err != nil {
		return err
	}
	if err = client.CheckResponse(r); err != nil {
		return err
	}

	parsed := gjson.ParseBytes(r.Body())
	if !parsed.Get("ok").Bool() {
		return &SlackError{Code: parsed.Get("error").String()}
	}

	return nil
}
