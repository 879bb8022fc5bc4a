// Package notify tells form owners about new submissions. Delivery is best
// effort: callers hand off a Notification and never see the outcome.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type Notification struct {
	FormID       uint           `json:"form_id"`
	FormName     string         `json:"form_name"`
	SubmissionID string         `json:"submission_id"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	NotifyEmail  string         `json:"notify_email,omitempty"`
	WebhookURL   string         `json:"-"`
	Data         map[string]any `json:"data"`
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender records the notice in the service log. Email delivery is handled
// outside this service, which tails these entries.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, n Notification) error {
	s.Log.Info("submission notification",
		zap.Uint("form_id", n.FormID),
		zap.String("form_name", n.FormName),
		zap.String("submission_id", n.SubmissionID),
		zap.String("notify_email", n.NotifyEmail))
	return nil
}

// ErrBlockedAddress is returned when a webhook resolves to an address inside
// the service's own network.
var ErrBlockedAddress = errors.New("webhook address is not publicly routable")

// sharedAddressSpace is the carrier-grade NAT range, 100.64.0.0/10.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast() &&
		!addr.IsMulticast() &&
		!addr.IsUnspecified() &&
		!sharedAddressSpace.Contains(addr)
}

// ValidateWebhookURL accepts absolute http and https URLs. Hosts given as IP
// literals must be publicly routable; names are checked again when dialed.
func ValidateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("webhook_url is malformed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("webhook_url must use http or https")
	}
	if u.Hostname() == "" {
		return errors.New("webhook_url must include a host")
	}
	if u.User != nil {
		return errors.New("webhook_url must not carry credentials")
	}
	if addr, err := netip.ParseAddr(u.Hostname()); err == nil && !publicAddr(addr) {
		return errors.New("webhook_url must not point at a private or loopback address")
	}
	return nil
}

// refusePrivate is a net.Dialer Control hook. It runs after name resolution,
// so it also covers hostnames and redirects that lead to internal addresses.
func refusePrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || !publicAddr(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// NewWebhookClient returns an HTTP client that refuses to connect to
// loopback, private, link-local and other non-public addresses.
func NewWebhookClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: refusePrivate,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

var defaultWebhookClient = NewWebhookClient(10 * time.Second)

// WebhookSender posts the notification as JSON to the form's webhook URL.
// A nil Client uses a client built by NewWebhookClient.
type WebhookSender struct {
	Client *http.Client
}

func (s WebhookSender) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = defaultWebhookClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// Dispatcher sends notifications on background goroutines. Notifications
// with a webhook URL go to the webhook sender, the rest to the default one.
// At most maxInFlight sends run at once; extra notifications are dropped.
type Dispatcher struct {
	log      *zap.Logger
	fallback Sender
	webhook  Sender
	timeout  time.Duration
	slots    *semaphore.Weighted
	wg       sync.WaitGroup
}

func NewDispatcher(log *zap.Logger, fallback, webhook Sender, timeout time.Duration, maxInFlight int64) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxInFlight <= 0 {
		maxInFlight = 16
	}
	return &Dispatcher{
		log:      log,
		fallback: fallback,
		webhook:  webhook,
		timeout:  timeout,
		slots:    semaphore.NewWeighted(maxInFlight),
	}
}

// Dispatch returns immediately. It reports whether the notification was queued.
func (d *Dispatcher) Dispatch(n Notification) bool {
	if d == nil {
		return false
	}
	sender := d.fallback
	if n.WebhookURL != "" && d.webhook != nil {
		sender = d.webhook
	}
	if sender == nil {
		return false
	}
	if !d.slots.TryAcquire(1) {
		d.log.Warn("notification dropped, too many in flight", zap.Uint("form_id", n.FormID))
		return false
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.slots.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := sender.Send(ctx, n); err != nil {
			d.log.Warn("notification failed",
				zap.Uint("form_id", n.FormID),
				zap.String("submission_id", n.SubmissionID),
				zap.Error(err))
		}
	}()
	return true
}

// Wait blocks until queued notifications finish. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
