package queue

import (
	"encoding/json"
	"testing"

	"SteelPulse/pkg/logger"
)

func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewRedisQueue(lgr, nil, nil)
}

func TestQueueKeysSharePrefix(t *testing.T) {
	q := newTestQueue(t)
	if q.queueKey() != "steelpulse:queue:messages" {
		t.Fatalf("queue key: %q", q.queueKey())
	}
	if q.retryKey() != "steelpulse:queue:retry" {
		t.Fatalf("retry key: %q", q.retryKey())
	}
	if q.deadLetterKey() != "steelpulse:queue:dlq" {
		t.Fatalf("dlq key: %q", q.deadLetterKey())
	}
}

func TestConvertPayloadNormalizesRoundTrippedMaps(t *testing.T) {
	q := newTestQueue(t)

	got := q.convertPayload(map[string]interface{}{"symbol": "SLX"})
	raw, ok := got.(json.RawMessage)
	if !ok {
		t.Fatalf("expected json.RawMessage, got %T", got)
	}
	var decoded struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.Symbol != "SLX" {
		t.Fatalf("decode: %v, symbol=%q", err, decoded.Symbol)
	}

	// non-map payloads keep their original type
	if got := q.convertPayload("plain"); got != "plain" {
		t.Fatalf("passthrough: got %v", got)
	}
}

func TestQueueConfigDefaults(t *testing.T) {
	q := newTestQueue(t)
	if q.config.Workers != 1 {
		t.Fatalf("workers default: %d", q.config.Workers)
	}
	if q.config.RetryDelay <= 0 {
		t.Fatalf("retry delay default: %v", q.config.RetryDelay)
	}
}
