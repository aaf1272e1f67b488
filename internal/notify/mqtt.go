package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

const publishTimeout = 2 * time.Second

// MQTT publishes notifications to <prefix>/notifications and keeps the latest
// snapshot retained on <prefix>/snapshot, so displays that connect later get
// the current state at once.
type MQTT struct {
	client mqtt.Client
	prefix string
	logger *log.Logger
}

// DialMQTT connects to broker, e.g. "tcp://localhost:1883".
func DialMQTT(broker, clientID, prefix string, logger *log.Logger) (*MQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		if logger != nil {
			logger.Info("Connected to MQTT broker", "broker", broker)
		}
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		if logger != nil {
			logger.Warn("MQTT connection lost", "error", err)
		}
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connecting to MQTT broker %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", broker, err)
	}

	return NewMQTT(client, prefix, logger), nil
}

// NewMQTT wraps an already configured client.
func NewMQTT(client mqtt.Client, prefix string, logger *log.Logger) *MQTT {
	if prefix == "" {
		prefix = "vaktija"
	}
	return &MQTT{client: client, prefix: prefix, logger: logger}
}

// Notify publishes n as JSON with QoS 1.
func (m *MQTT) Notify(_ context.Context, n Notification) error {
	return m.publish(m.prefix+"/notifications", false, n)
}

// Publish stores s as the retained snapshot.
func (m *MQTT) Publish(_ context.Context, s prayer.Snapshot) error {
	return m.publish(m.prefix+"/snapshot", true, s)
}

func (m *MQTT) publish(topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	token := m.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
