package queue

import (
    "fmt"
    "log"
    "math/rand"
    "sync"
    "time"

    "github.com/unclebandit/chairtime-backend/internal/repository"
)

// TopicSMSDispatch carries outbound message IDs awaiting transport.
const TopicSMSDispatch = "sms_dispatch"

// Queue interface
type Queue interface {
    Publish(topic string, payload any) error
    Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used when no broker is
// configured. The amqp worker binary covers the broker-backed path.
type InMemoryQueue struct {
    mu       sync.Mutex
    handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
    return &InMemoryQueue{
        handlers: make(map[string][]func(payload any) error),
    }
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
    Payload    any
    RetryCount int
    MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
    q.mu.Lock()
    handlers := q.handlers[topic]
    q.mu.Unlock()

    if len(handlers) == 0 {
        return fmt.Errorf("no subscribers for topic %s", topic)
    }

    job := JobPayload{
        Payload:    payload,
        RetryCount: 0,
        MaxRetries: 3,
    }

    for _, handler := range handlers {
        go q.processJob(handler, job)
    }

    return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
    for job.RetryCount <= job.MaxRetries {
        err := handler(job.Payload)
        if err == nil {
            return // ACK
        }

        job.RetryCount++
        log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

        if job.RetryCount > job.MaxRetries {
            log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
            return // No requeue
        }

        // Exponential backoff before retry
        time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
    }
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
    q.mu.Lock()
    defer q.mu.Unlock()

    q.handlers[topic] = append(q.handlers[topic], handler)
    return nil
}

// StartDispatchSubscriber wires the in-process send path: fetch the outbound
// row, push it through the transport, record the status, settle the credit.
func StartDispatchSubscriber(q Queue, outboundRepo repository.OutboundMessageRepositoryInterface, creditRepo repository.CreditRepositoryInterface) {
    go func() {
        err := q.Subscribe(TopicSMSDispatch, func(payload any) error {
            msgID, ok := payload.(int)
            if !ok {
                log.Println("⚠️ Invalid payload type, expected int")
                return nil
            }

            msg, err := outboundRepo.GetByID(msgID)
            if err != nil {
                log.Println("⚠️ Failed to fetch message:", err)
                return err
            }
            if msg == nil {
                log.Println("⚠️ Message not found for ID:", msgID)
                return nil // no retry
            }

            if err := MockSender(msg.RenderedContent); err != nil {
                _ = outboundRepo.UpdateStatus(msgID, "failed", err.Error())
                if _, serr := creditRepo.SettleFailed(msg.AccountID); serr != nil {
                    log.Println("⚠️ Failed to refund credit:", serr)
                }
                // The reservation is already refunded; requeueing would settle
                // the same credit twice.
                return nil
            }

            if err := outboundRepo.UpdateStatus(msgID, "delivered", ""); err != nil {
                log.Println("⚠️ Failed to update message status:", err)
                return err // retry
            }
            if _, serr := creditRepo.SettleDelivered(msg.AccountID); serr != nil {
                log.Println("⚠️ Failed to consume credit:", serr)
            }

            log.Println("✅ Message delivered:", msgID)
            return nil
        })

        if err != nil {
            log.Println("⚠️ Failed to start subscriber for", TopicSMSDispatch, ":", err)
        }
    }()
}

//////////////////////////
// Example Mock Sender  //
//////////////////////////

// MockSender simulates sending messages with 90% success
func MockSender(payload any) error {
    r := rand.Float64()
    if r < 0.9 {
        return nil // success
    }
    return fmt.Errorf("mock sending failed")
}
