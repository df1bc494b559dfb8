package queue

import (
	"testing"

	"github.com/foodkart-next/internal/config"

	"github.com/hibiken/asynq"
)

func TestOrderPlacedTaskRoundTrip(t *testing.T) {
	task, err := NewOrderPlacedTask(OrderPlacedPayload{OrderID: 3, OrderNo: "381204"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderPlaced {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseOrderPlacedPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderID != 3 || payload.OrderNo != "381204" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestOrderPlacedTaskRequiresOrderNo(t *testing.T) {
	if _, err := NewOrderPlacedTask(OrderPlacedPayload{OrderID: 1}); err == nil {
		t.Fatalf("empty order_no should be rejected")
	}
	if _, err := ParseOrderPlacedPayload(asynq.NewTask(TaskOrderPlaced, []byte(`{"order_id":1}`))); err == nil {
		t.Fatalf("payload without order_no should be rejected")
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("nil config should produce disabled client")
	}
	if err := client.EnqueueOrderPlaced(OrderPlacedPayload{OrderNo: "100000"}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
