package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connTimeout    = 10
	reconnTimeout  = 1
	disconnTimeout = 250
)

var (
	errPublishTimeout = errors.New("failed to publish due to timeout reached")
	errEmptyID        = errors.New("empty ID")
)

type mqttNotifier struct {
	client    mqtt.Client
	qos       byte
	timeout   time.Duration
	baseTopic string
	logger    *slog.Logger
}

// NewMQTT returns a notifier that publishes each event as JSON to
// <baseTopic>/events/<event>.
func NewMQTT(url string, qos byte, id, username, password, baseTopic string, timeout time.Duration, logger *slog.Logger) (Notifier, error) {
	if id == "" {
		return nil, errEmptyID
	}

	client, err := newClient(url, id, username, password, timeout, logger)
	if err != nil {
		return nil, err
	}

	return &mqttNotifier{
		client:    client,
		qos:       qos,
		timeout:   timeout,
		baseTopic: baseTopic,
		logger:    logger,
	}, nil
}

func (n *mqttNotifier) Emit(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	topic := n.baseTopic + "/events/" + event
	token := n.client.Publish(topic, n.qos, false, data)
	if token.Error() != nil {
		return token.Error()
	}

	if ok := token.WaitTimeout(n.timeout); !ok {
		return errPublishTimeout
	}

	return nil
}

// Disconnect releases the broker connection.
func (n *mqttNotifier) Disconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		n.client.Disconnect(disconnTimeout)

		return nil
	}
}

func newClient(address, id, username, password string, timeout time.Duration, logger *slog.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(address).
		SetClientID(id).
		SetUsername(username).
		SetPassword(password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connTimeout * time.Second).
		SetMaxReconnectInterval(reconnTimeout * time.Minute)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("MQTT connection established")
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		args := []any{}
		if err != nil {
			args = append(args, slog.Any("error", err))
		}

		logger.Info("MQTT connection lost", args...)
	})

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if token.Error() != nil {
		return nil, errors.Join(errors.New("failed to connect to MQTT broker"), token.Error())
	}

	if ok := token.WaitTimeout(timeout); !ok {
		return nil, errors.New("timeout reached while connecting to MQTT broker")
	}

	return client, nil
}
