package bus

import (
	"fmt"
	"sync"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/rs/zerolog/log"
)

// BrokerConfig configures the embedded broker.
type BrokerConfig struct {
	Address  string // e.g. ":1883"
	Username string
	Password string
}

// Broker is an embedded MQTT broker for setups without one.
type Broker struct {
	server *mochi.Server

	subMu  sync.Mutex
	nextID int
}

// StartBroker starts a broker listening on cfg.Address. With a username
// set, only that user may connect and it may read and write every topic;
// otherwise all clients are allowed.
func StartBroker(cfg BrokerConfig) (*Broker, error) {
	server := mochi.New(&mochi.Options{InlineClient: true})

	if cfg.Username != "" {
		options := auth.Options{
			Ledger: &auth.Ledger{
				Auth: auth.AuthRules{
					{Username: auth.RString(cfg.Username), Password: auth.RString(cfg.Password), Allow: true},
				},
				ACL: auth.ACLRules{
					{Username: auth.RString(cfg.Username), Filters: auth.Filters{"#": auth.ReadWrite}},
				},
			},
		}
		if err := server.AddHook(new(auth.Hook), &options); err != nil {
			return nil, fmt.Errorf("add auth hook: %w", err)
		}
	} else {
		if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
			return nil, fmt.Errorf("add allow hook: %w", err)
		}
	}

	tcp := listeners.NewTCP(listeners.Config{ID: "tcp", Address: cfg.Address})
	if err := server.AddListener(tcp); err != nil {
		return nil, fmt.Errorf("add listener %s: %w", cfg.Address, err)
	}

	go func() {
		if err := server.Serve(); err != nil {
			log.Error().Err(err).Msg("Embedded broker stopped")
		}
	}()

	log.Info().Str("address", cfg.Address).Msg("Embedded MQTT broker started")
	return &Broker{server: server, nextID: 1}, nil
}

// Subscribe registers an in-process handler for a topic filter.
func (b *Broker) Subscribe(filter string, fn func(topic string, payload []byte)) error {
	b.subMu.Lock()
	id := b.nextID
	b.nextID++
	b.subMu.Unlock()

	return b.server.Subscribe(filter, id, func(_ *mochi.Client, _ packets.Subscription, pk packets.Packet) {
		fn(pk.TopicName, pk.Payload)
	})
}

// Publish sends a message from the broker's inline client.
func (b *Broker) Publish(topic string, payload []byte, retain bool) error {
	return b.server.Publish(topic, payload, retain, 0)
}

// Close stops the broker and its listeners.
func (b *Broker) Close() error {
	return b.server.Close()
}
