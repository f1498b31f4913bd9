// Package mqttbridge republishes console notifications to an MQTT broker,
// one topic per object and event kind.
package mqttbridge

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/notify"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 1000
	keepAlive         = 60 * time.Second
	maxQoS            = 2
)

type Config struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
	Prefix   string
	QoS      int
	Retain   bool
}

type Bridge struct {
	client pahomqtt.Client
	cfg    Config
	topics Topics
}

func options(cfg Config, topics Topics) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if len(cfg.Username) > 0 {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetWill(topics.Status(), statusPayload("offline", cfg.ClientID, "unexpected_disconnect"), 1, true)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		common.Uncritical("mqtt connection lost", err)
	})
	return opts
}

func Connect(cfg Config) (*Bridge, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.QoS < 0 || cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}
	if len(cfg.ClientID) == 0 {
		cfg.ClientID = fmt.Sprintf("%s-%d", common.Product.Name(), time.Now().Unix())
	}
	topics := Topics{Prefix: cfg.Prefix}
	client := pahomqtt.NewClient(options(cfg, topics))
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	result := &Bridge{client: client, cfg: cfg, topics: topics}
	err := result.publish(topics.Status(), []byte(statusPayload("online", cfg.ClientID, "")), true)
	common.Uncritical("mqtt status", err)
	common.Debug("Republishing notifications to %s under %q.", cfg.Broker, topics.prefix())
	return result, nil
}

func (it *Bridge) publish(topic string, body []byte, retained bool) error {
	if it.client == nil || !it.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := it.client.Publish(topic, byte(it.cfg.QoS), retained, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (it *Bridge) Deliver(notification notify.Notification) {
	body, err := Payload(notification)
	if err != nil {
		common.Uncritical("mqtt payload", err)
		return
	}
	common.Uncritical("mqtt publish", it.publish(it.topics.Event(notification), body, it.cfg.Retain))
}

func (it *Bridge) Close() error {
	if it.client == nil {
		return nil
	}
	if it.client.IsConnectionOpen() {
		common.Uncritical("mqtt status", it.publish(it.topics.Status(), []byte(statusPayload("offline", it.cfg.ClientID, "graceful_shutdown")), true))
	}
	it.client.Disconnect(disconnectQuiesce)
	it.client = nil
	return nil
}
