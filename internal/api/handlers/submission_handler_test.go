package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/linskybing/formbuilder-go/internal/domain/submission"
	"github.com/linskybing/formbuilder-go/internal/feed"
	"github.com/linskybing/formbuilder-go/internal/testutils/apptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFlow(t *testing.T) {
	app := apptest.SetupRouter(t)
	owner := apptest.Token(t, 1, "owner", false)
	f := newForm(t, app, owner, contactForm(true))
	nameKey := strconv.FormatUint(uint64(f.Pages[0].Fields[0].ID), 10)

	start := time.Now()
	w := app.Do(t, http.MethodPost, "/submissions", "", map[string]any{
		"form_id": f.ID,
		"data":    map[string]any{nameKey: "Grace"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var receipt submission.ReceiptDTO
	apptest.Envelope(t, w, &receipt)
	assert.Equal(t, f.ID, receipt.FormID)
	assert.False(t, receipt.SubmittedAt.IsZero())
	assert.False(t, receipt.SubmittedAt.Before(start))
	assert.Equal(t, submission.StatusReceived, receipt.Status)
	assert.NotEmpty(t, receipt.SubmissionID)

	w = app.Do(t, http.MethodPost, "/submissions", "", map[string]any{
		"form_id": f.ID,
		"data":    map[string]any{nameKey: ""},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "required field left blank")

	w = app.Do(t, http.MethodGet, fmt.Sprintf("/api/forms/%d/submissions", f.ID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []submission.Submission
	apptest.Envelope(t, w, &subs)
	require.Len(t, subs, 1)
	assert.Equal(t, "Grace", subs[0].Data[nameKey])

	w = app.Do(t, http.MethodGet, fmt.Sprintf("/api/forms/%d/submissions/stats", f.ID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats submission.Stats
	apptest.Envelope(t, w, &stats)
	assert.Equal(t, int64(1), stats.Total)

	stranger := apptest.Token(t, 2, "stranger", false)
	w = app.Do(t, http.MethodGet, fmt.Sprintf("/api/forms/%d/submissions", f.ID), stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitToClosedOrMissingForm(t *testing.T) {
	app := apptest.SetupRouter(t)
	owner := apptest.Token(t, 1, "owner", false)
	draft := newForm(t, app, owner, contactForm(false))

	for _, id := range []uint{draft.ID, 999} {
		w := app.Do(t, http.MethodPost, "/submissions", "", map[string]any{
			"form_id": id,
			"data":    map[string]any{"1": "x"},
		})
		require.Equal(t, http.StatusNotFound, w.Code)
		msg, _ := apptest.Envelope(t, w, nil)
		assert.Equal(t, "form not found", msg)
	}

	w := app.Do(t, http.MethodPost, "/submissions", "", map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "form_id is required")
}

func TestWatchSubmissions(t *testing.T) {
	app := apptest.SetupRouter(t)
	owner := apptest.Token(t, 1, "owner", false)
	f := newForm(t, app, owner, contactForm(true))

	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/ws/forms/%d/submissions", f.ID)
	header := http.Header{"Authorization": []string{"Bearer " + owner}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool {
		return app.Services.Hub.Subscribers(f.ID) == 1
	}, time.Second, 10*time.Millisecond)

	nameKey := strconv.FormatUint(uint64(f.Pages[0].Fields[0].ID), 10)
	w := app.Do(t, http.MethodPost, "/submissions", "", map[string]any{
		"form_id": f.ID,
		"data":    map[string]any{nameKey: "Linus"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev feed.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, f.ID, ev.FormID)
	assert.Equal(t, "Linus", ev.Data[nameKey])

	_, _, err = websocket.DefaultDialer.Dial(url, http.Header{"Authorization": []string{"Bearer " + apptest.Token(t, 2, "x", false)}})
	assert.ErrorIs(t, err, websocket.ErrBadHandshake, "non-owners cannot watch")
}

func TestWatchSubmissions_ChecksOrigin(t *testing.T) {
	app := apptest.SetupRouter(t)
	owner := apptest.Token(t, 1, "owner", false)
	f := newForm(t, app, owner, contactForm(true))

	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/ws/forms/%d/submissions", f.ID)

	header := http.Header{
		"Authorization": []string{"Bearer " + owner},
		"Origin":        []string{"https://evil.example"},
	}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	header.Set("Origin", "http://localhost:3000")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
}
