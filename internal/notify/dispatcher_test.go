package notify

import (
	"context"
	"testing"
	"time"
)

func TestDispatcherDeliversConfirmation(t *testing.T) {
	queue := NewMemoryQueue(8)
	email := &mockEmailSender{}
	svc := NewService(email, nil, time.Second, nil)
	pub := NewPublisher(queue, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(queue, svc, nil, WithWorkerCount(1), WithReceiveWaitSeconds(1))
	d.Start(ctx)

	if err := pub.PublishConfirmation(ctx, sampleAppointment(), sampleDoctor()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for len(email.sentMessages()) == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the confirmation email")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	d.Wait()

	sent := email.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if sent[0].To != "asha@example.com" {
		t.Errorf("unexpected recipient: %s", sent[0].To)
	}
}

func TestDispatcherDeliversReminder(t *testing.T) {
	queue := NewMemoryQueue(8)
	email := &mockEmailSender{}
	svc := NewService(email, nil, time.Second, nil)
	pub := NewPublisher(queue, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(queue, svc, nil, WithWorkerCount(1), WithReceiveWaitSeconds(1))
	d.Start(ctx)

	if err := pub.PublishReminder(ctx, sampleAppointment(), sampleDoctor()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for len(email.sentMessages()) == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the reminder email")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	d.Wait()
}

func TestDispatcherSkipsMalformedJob(t *testing.T) {
	queue := NewMemoryQueue(8)
	email := &mockEmailSender{}
	svc := NewService(email, nil, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(queue, svc, nil, WithWorkerCount(1), WithReceiveWaitSeconds(1))
	d.Start(ctx)

	if err := queue.Send(ctx, "{not json"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	cancel()
	d.Wait()

	if got := len(email.sentMessages()); got != 0 {
		t.Errorf("expected no emails for a malformed job, got %d", got)
	}
}

func TestMemoryQueueReceiveTimesOut(t *testing.T) {
	queue := NewMemoryQueue(1)
	msgs, err := queue.Receive(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}
