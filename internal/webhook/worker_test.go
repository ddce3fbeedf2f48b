package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/safety_guardian/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	results []string
}

func (r *countingRecorder) WebhookDelivery(result string) {
	r.results = append(r.results, result)
}

func newTestWorker(url string) (*WebhookWorker, *countingRecorder) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	recorder := &countingRecorder{}
	return NewWebhookWorker(nil, logger, cfg, recorder), recorder
}

func TestProcessWebhookEvent_SignsPayload(t *testing.T) {
	payload := `{"session_id":"abc","event":"started"}`
	var gotSignature, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotSignature = r.Header.Get("X-Webhook-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker, recorder := newTestWorker(server.URL)
	worker.processWebhookEvent(context.Background(), WebhookEvent{SessionID: "abc"}, payload)

	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(payload, "s3cret"), gotSignature)
	assert.Equal(t, []string{"delivered"}, recorder.results)
}

func TestProcessWebhookEvent_RetriesUntilSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	worker, recorder := newTestWorker(server.URL)
	worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"delivered"}, recorder.results)
}

func TestProcessWebhookEvent_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	worker, recorder := newTestWorker(server.URL)
	worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"failed"}, recorder.results)
}

func TestProcessWebhookEvent_SkipsWithoutURL(t *testing.T) {
	worker, recorder := newTestWorker("")
	worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)

	assert.Equal(t, []string{"skipped"}, recorder.results)
}

func TestDeliver_StopsOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	worker, _ := newTestWorker(server.URL)
	worker.cfg.WebhookBaseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := worker.deliver(ctx, worker.logger.WithField("test", true), `{}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateHMACSHA256(t *testing.T) {
	// echo -n 'payload' | openssl dgst -sha256 -hmac 'key'
	assert.Equal(t, "5d98b45c90a207fa998ce639fea6f02ecc8cc3f36fef81d694fb856b4d0a28ca", generateHMACSHA256("payload", "key"))
	assert.NotEqual(t, generateHMACSHA256("payload", "key"), generateHMACSHA256("payload", "other"))
}
