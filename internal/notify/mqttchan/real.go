package mqttchan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/smorrow/strikewatch/internal/logic"
)

const (
	publishWait = 5 * time.Second
	bufferCap   = 256
)

// Real publishes to an actual MQTT broker. It implements Publisher,
// ConnectionStatus, and notify.Notifier. Event-feed messages published while
// the broker is unreachable are buffered and replayed on reconnect; alert
// messages are not buffered — a stale alert is worse than a missing one, and
// the dispatcher records the failure.
type Real struct {
	client paho.Client

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewReal creates a publisher connected to the given broker.
func NewReal(broker, clientID string) (*Real, error) {
	r := &Real{buffer: newRingBuffer(bufferCap)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { r.drainBuffer() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("mqtt connection lost", "error", err)
		})

	r.client = paho.NewClient(opts)
	token := r.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt: connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to broker: %w", err)
	}

	return r, nil
}

// Name returns the channel identifier.
func (r *Real) Name() string {
	return "mqtt"
}

// Send publishes rendered alert text to the alerts topic. Implements
// notify.Notifier; respects the dispatcher's per-channel deadline.
func (r *Real) Send(ctx context.Context, message string) error {
	wait := publishWait
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}

	// QoS 1: an alert should survive a flaky link when the broker is up.
	token := r.client.Publish(TopicAlerts, 1, false, []byte(message))
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("mqtt: publish alert timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish alert: %w", err)
	}
	return nil
}

// PublishEvent sends a classified event to the events topic, buffering it for
// replay if the broker is unreachable.
func (r *Real) PublishEvent(ev logic.ClassifiedEvent) error {
	payload, err := FormatEventPayload(ev)
	if err != nil {
		return fmt.Errorf("mqtt: format event payload: %w", err)
	}
	return r.publishOrBuffer(TopicEvents, payload, 0, false)
}

// PublishSystem sends a lifecycle event to the system topic.
func (r *Real) PublishSystem(ev SystemEvent) error {
	payload, err := FormatSystemPayload(ev)
	if err != nil {
		return fmt.Errorf("mqtt: format system payload: %w", err)
	}

	// QoS 1 so shutdown events survive a slow broker.
	token := r.client.Publish(TopicSystem, 1, ev.Retained, payload)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("mqtt: publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish system: %w", err)
	}
	return nil
}

// IsConnected reports the broker connection state.
func (r *Real) IsConnected() bool {
	return r.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (r *Real) Close() error {
	r.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (r *Real) publishOrBuffer(topic string, payload []byte, qos byte, retained bool) error {
	if !r.client.IsConnectionOpen() {
		r.mu.Lock()
		r.buffer.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := r.buffer.len()
		r.mu.Unlock()
		slog.Debug("mqtt disconnected, buffered event", "pending", n)
		return nil
	}

	token := r.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish: %w", err)
	}
	return nil
}

// drainBuffer replays buffered event-feed messages after reconnection.
func (r *Real) drainBuffer() {
	r.mu.Lock()
	msgs := r.buffer.drainAll()
	r.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	slog.Info("mqtt reconnected, replaying buffered events", "count", len(msgs))
	for _, m := range msgs {
		token := r.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(publishWait) || token.Error() != nil {
			slog.Warn("mqtt replay failed", "topic", m.topic, "error", token.Error())
		}
	}
}
