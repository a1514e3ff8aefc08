package slack

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"relbot/internal/domain/release"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *SlackClient {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(&ClientOptions{Token: "xoxb", BaseURL: srv.URL})
}

func TestSlackClient_Post(t *testing.T) {
	n := release.Notification{
		{Type: release.BlockHeader, Text: &release.Text{Type: release.TextPlain, Text: "Release"}},
		{Type: release.BlockDivider},
	}

	t.Run("fails when channel is missing", func(t *testing.T) {
		c := New(&ClientOptions{Token: "xoxb"})

		err := c.Post(context.Background(), &release.PostOptions{Notification: n})
		assert.ErrorIs(t, err, ErrMissingChannel)
	})

	t.Run("fails when slack answers not ok", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
		})

		err := c.Post(context.Background(), &release.PostOptions{Channel: "dev", Notification: n})
		var sErr *SlackError
		assert.ErrorAs(t, err, &sErr)
		assert.Equal(t, "channel_not_found", sErr.Code)
	})

	t.Run("succeeds otherwise", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat.postMessage", r.URL.Path)
			assert.Equal(t, "Bearer xoxb", r.Header.Get("Authorization"))

			buf, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			body := gjson.ParseBytes(buf)
			assert.Equal(t, "dev", body.Get("channel").String())
			assert.Equal(t, "Release", body.Get("text").String())
			assert.Equal(t, "header", body.Get("blocks.0.type").String())
			assert.Equal(t, "divider", body.Get("blocks.1.type").String())
			assert.False(t, body.Get("blocks.1.text").Exists())

			w.Write([]byte(`{"ok": true}`))
		})

		err := c.Post(context.Background(), &release.PostOptions{
			Channel:      "dev",
			Text:         "Release",
			Notification: n,
		})
		assert.NoError(t, err)
	})
}
