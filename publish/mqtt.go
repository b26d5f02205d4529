package publish

import (
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 2 * time.Second

var ErrPublishTimeout = errors.New("publish: broker did not acknowledge in time")

// MQTTConfig selects the broker and credentials.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// MQTT publishes over an MQTT connection.
type MQTT struct {
	client mqtt.Client
	qos    byte
}

// DialMQTT connects to the broker. A missing client id gets a random one.
func DialMQTT(cfg MQTTConfig) (*MQTT, error) {
	id := cfg.ClientID
	if id == "" {
		id = "keypad-" + uuid.New().String()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(id).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.WithFields(log.Fields{"broker": cfg.Broker, "client_id": id}).Info("connected to mqtt broker")
	return &MQTT{client: client, qos: cfg.QoS}, nil
}

// Publish waits up to publishTimeout for the broker to acknowledge. Put a Queue
// in front of it when publishing from the scan loop.
func (m *MQTT) Publish(topic string, payload []byte) error {
	token := m.client.Publish(topic, m.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
