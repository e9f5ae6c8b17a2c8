// Package mqtt publishes committed detections to an MQTT broker for
// home-automation integrations.
package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/datastore"
	"github.com/Ojas-Arora/SoundAware/internal/errors"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/observability/metrics"
)

const (
	connectTimeout = 30 * time.Second
	publishTimeout = 10 * time.Second
)

// Client wraps a paho MQTT connection and publishes detection events as
// JSON on the configured topic.
type Client struct {
	mu             sync.Mutex
	broker         string
	clientID       string
	username       string
	password       string
	topic          string
	retain         bool
	internalClient pahomqtt.Client
	logger         *slog.Logger
	metrics        *metrics.MQTTMetrics
}

// NewClient creates a client from settings. It does not connect.
func NewClient(settings *conf.Settings) *Client {
	return &Client{
		broker:   settings.Realtime.MQTT.Broker,
		clientID: settings.Main.Name,
		username: settings.Realtime.MQTT.Username,
		password: settings.Realtime.MQTT.Password,
		topic:    settings.Realtime.MQTT.Topic,
		retain:   settings.Realtime.MQTT.Retain,
		logger:   logging.ForService("mqtt"),
	}
}

// SetMetrics attaches Prometheus metrics to the client. Safe to skip.
func (c *Client) SetMetrics(m *metrics.MQTTMetrics) {
	c.metrics = m
}

// Connect resolves the broker hostname and establishes the connection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := url.Parse(c.broker)
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTConnect).
			Context("broker", c.broker).
			Build()
	}

	// Resolve hostnames up front so an unreachable broker fails fast
	// instead of hanging in the paho connect loop.
	if host := u.Hostname(); net.ParseIP(host) == nil && host != "" {
		if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
			return errors.New(err).
				Component("mqtt").
				Category(errors.CategoryMQTTConnect).
				Context("host", host).
				Build()
		}
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(c.broker)
	opts.SetClientID(c.clientID)
	opts.SetUsername(c.username)
	opts.SetPassword(c.password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	c.internalClient = pahomqtt.NewClient(opts)

	token := c.internalClient.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errors.Newf("connection timeout after %s", connectTimeout).
			Component("mqtt").
			Category(errors.CategoryMQTTConnect).
			Context("broker", c.broker).
			Build()
	}
	if err := token.Error(); err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTConnect).
			Context("broker", c.broker).
			Build()
	}

	c.logger.Info("connected to MQTT broker", "broker", c.broker)
	if c.metrics != nil {
		c.metrics.UpdateConnectionStatus(true)
	}
	return nil
}

// Publish encodes the detection as JSON and sends it on the configured
// topic. Implements the detection.Publisher interface.
func (c *Client) Publish(ctx context.Context, det *datastore.Detection) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient == nil || !c.internalClient.IsConnected() {
		if c.metrics != nil {
			c.metrics.IncrementErrors()
		}
		return errors.Newf("not connected to MQTT broker").
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Build()
	}

	payload, err := json.Marshal(det)
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Build()
	}

	start := time.Now()
	token := c.internalClient.Publish(c.topic, 0, c.retain, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if !token.WaitTimeout(timeout) {
		if c.metrics != nil {
			c.metrics.IncrementErrors()
		}
		return errors.Newf("publish timeout on topic %s", c.topic).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Build()
	}
	if err := token.Error(); err != nil {
		if c.metrics != nil {
			c.metrics.IncrementErrors()
		}
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("topic", c.topic).
			Build()
	}

	if c.metrics != nil {
		c.metrics.IncrementMessagesDelivered()
		c.metrics.ObservePublishLatency(time.Since(start).Seconds())
	}
	c.logger.Debug("detection published", "topic", c.topic, "sound_type", det.SoundType)
	return nil
}

// IsConnected reports whether the client currently holds a connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect closes the connection gracefully.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient != nil {
		c.internalClient.Disconnect(250)
	}
	if c.metrics != nil {
		c.metrics.UpdateConnectionStatus(false)
	}
}

func (c *Client) onConnectionLost(_ pahomqtt.Client, err error) {
	c.logger.Warn("MQTT connection lost", "error", err)
	if c.metrics != nil {
		c.metrics.UpdateConnectionStatus(false)
	}
}
