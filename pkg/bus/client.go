package bus

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// ErrNotConnected indicates the client has no broker connection
var ErrNotConnected = errors.New("mqtt not connected")

// Config describes the broker connection.
type Config struct {
	Broker         string // e.g. tcp://localhost:1883 or ssl://host:8883
	ClientID       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	KeepAlive      time.Duration
	TLS            *tls.Config
}

// CommandHandler receives the payload of every message on the command topic.
// It runs on the client's network goroutine and must not block.
type CommandHandler func(token string)

// Client is an MQTT client that listens on one command topic.
// Reconnecting is left to the caller so it can be scheduled.
type Client struct {
	client       mqtt.Client
	cfg          Config
	commandTopic string
	onCommand    CommandHandler
}

// NewClient creates a client. Nothing is dialed until Connect.
func NewClient(cfg Config, commandTopic string, onCommand CommandHandler) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 30 * time.Second
	}

	c := &Client{
		cfg:          cfg,
		commandTopic: commandTopic,
		onCommand:    onCommand,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetKeepAlive(cfg.KeepAlive)
	if cfg.TLS != nil {
		opts.SetTLSConfig(cfg.TLS)
	}
	opts.SetDefaultPublishHandler(func(_ mqtt.Client, msg mqtt.Message) {
		log.Debug().Str("topic", msg.Topic()).Msg("Ignoring message on unexpected topic")
	})
	opts.OnConnectionLost = c.handleConnectionLost

	c.client = mqtt.NewClient(opts)
	return c
}

// Connect dials the broker and subscribes to the command topic.
func (c *Client) Connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}

	log.Info().Str("broker", c.cfg.Broker).Str("client_id", c.cfg.ClientID).Msg("Connecting to MQTT broker")
	token := c.client.Connect()
	if err := wait(ctx, token, c.cfg.ConnectTimeout); err != nil {
		return fmt.Errorf("connect %s: %w", c.cfg.Broker, err)
	}

	token = c.client.Subscribe(c.commandTopic, 0, c.handleMessage)
	if err := wait(ctx, token, c.cfg.ConnectTimeout); err != nil {
		c.client.Disconnect(250)
		return fmt.Errorf("subscribe %s: %w", c.commandTopic, err)
	}

	log.Info().Str("topic", c.commandTopic).Msg("MQTT connected")
	return nil
}

// Connected reports whether the broker connection is up.
func (c *Client) Connected() bool {
	return c.client.IsConnectionOpen()
}

// Publish sends a QoS 0 message.
func (c *Client) Publish(topic string, payload []byte, retained bool) error {
	if !c.Connected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, 0, retained, payload)
	if err := wait(context.Background(), token, c.cfg.PublishTimeout); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}

func (c *Client) handleConnectionLost(_ mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

func (c *Client) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	token := string(msg.Payload())
	log.Debug().Str("topic", msg.Topic()).Str("command", token).Msg("Received command")
	if c.onCommand != nil {
		c.onCommand(token)
	}
}

func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return fmt.Errorf("timed out after %s", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
