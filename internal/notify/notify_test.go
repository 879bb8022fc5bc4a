package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu    sync.Mutex
	got   []Notification
	err   error
	block chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, n Notification) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func TestDispatcher_RoutesBySettings(t *testing.T) {
	defer goleak.VerifyNone(t)

	fallback := &recordingSender{}
	webhook := &recordingSender{}
	d := NewDispatcher(zap.NewNop(), fallback, webhook, time.Second, 4)

	assert.True(t, d.Dispatch(Notification{FormID: 1, SubmissionID: "a"}))
	assert.True(t, d.Dispatch(Notification{FormID: 1, SubmissionID: "b", WebhookURL: "http://hook"}))
	d.Wait()

	assert.Equal(t, 1, fallback.count())
	assert.Equal(t, 1, webhook.count())
	assert.Equal(t, "b", webhook.got[0].SubmissionID)
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	failing := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(zap.NewNop(), failing, nil, time.Second, 1)

	assert.True(t, d.Dispatch(Notification{FormID: 2}))
	d.Wait()
	assert.Equal(t, 1, failing.count())
}

func TestDispatcher_DropsWhenSaturated(t *testing.T) {
	defer goleak.VerifyNone(t)

	blocked := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(zap.NewNop(), blocked, nil, time.Second, 1)

	require.True(t, d.Dispatch(Notification{FormID: 3}))
	assert.False(t, d.Dispatch(Notification{FormID: 3}))

	close(blocked.block)
	d.Wait()
	assert.Equal(t, 1, blocked.count())
}

func TestDispatcher_NilIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.False(t, d.Dispatch(Notification{}))
	d.Wait()
}

func TestWebhookSender_PostsJSON(t *testing.T) {
	var received Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := WebhookSender{Client: srv.Client()}
	err := s.Send(context.Background(), Notification{FormID: 5, SubmissionID: "x", WebhookURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, uint(5), received.FormID)
	assert.Equal(t, "x", received.SubmissionID)
}

func TestWebhookSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := WebhookSender{Client: srv.Client()}.Send(context.Background(), Notification{WebhookURL: srv.URL})
	assert.ErrorContains(t, err, "502")
}

func TestWebhookSender_RefusesInternalAddresses(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	localhost := strings.Replace(srv.URL, "127.0.0.1", "localhost", 1)
	for _, target := range []string{srv.URL + "/admin/flush-cache", localhost} {
		err := WebhookSender{Client: NewWebhookClient(time.Second)}.Send(context.Background(), Notification{WebhookURL: target})
		assert.ErrorIs(t, err, ErrBlockedAddress, target)
	}

	err := WebhookSender{}.Send(context.Background(), Notification{WebhookURL: srv.URL})
	assert.ErrorIs(t, err, ErrBlockedAddress, "the default client is guarded too")
	assert.Zero(t, hits.Load())
}

func TestValidateWebhookURL(t *testing.T) {
	for _, ok := range []string{
		"https://hooks.example.com/forms",
		"http://example.org:8080/cb?x=1",
		"https://93.184.216.34/hook",
	} {
		assert.NoError(t, ValidateWebhookURL(ok), ok)
	}

	bad := map[string]string{
		"ftp://example.com/x":           "http or https",
		"file:///etc/passwd":            "http or https",
		"example.com/hook":              "http or https",
		"http://":                       "host",
		"http://user:pw@example.com":    "credentials",
		"http://127.0.0.1:9000/":        "private or loopback",
		"http://10.1.2.3/":              "private or loopback",
		"http://192.168.0.10/":          "private or loopback",
		"http://169.254.169.254/latest": "private or loopback",
		"http://[::1]/":                 "private or loopback",
		"http://[::ffff:127.0.0.1]/":    "private or loopback",
		"http://0.0.0.0/":               "private or loopback",
		"http://100.64.0.1/":            "private or loopback",
		"http://exa mple.com/":          "malformed",
	}
	for raw, want := range bad {
		err := ValidateWebhookURL(raw)
		if assert.Error(t, err, raw) {
			assert.Contains(t, err.Error(), want, raw)
		}
	}
}
