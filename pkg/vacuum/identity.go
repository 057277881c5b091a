package vacuum

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// Topics builds bus topics for one device identity.
type Topics struct {
	Base     string // e.g. "vacuum/"
	EntityID string
	Divider  string // e.g. "/"
	Command  string
	State    string
	Config   string
}

// DefaultTopics returns the conventional subtopic names for an entity.
func DefaultTopics(entityID string) Topics {
	return Topics{
		Base:     "vacuum/",
		EntityID: entityID,
		Divider:  "/",
		Command:  "command",
		State:    "state",
		Config:   "config",
	}
}

// Root returns base + entity ID, the "~" of the descriptor.
func (t Topics) Root() string {
	return t.Base + t.EntityID
}

// Topic returns base + entity ID + divider + subtopic.
func (t Topics) Topic(subtopic string) string {
	return t.Base + t.EntityID + t.Divider + subtopic
}

func (t Topics) CommandTopic() string { return t.Topic(t.Command) }
func (t Topics) StateTopic() string   { return t.Topic(t.State) }
func (t Topics) ConfigTopic() string  { return t.Topic(t.Config) }

// MACString renders a hardware address as lower-case hex with no separators.
func MACString(mac net.HardwareAddr) string {
	return hex.EncodeToString(mac)
}

// EntityID derives the stable device identity from a prefix and hardware address.
func EntityID(prefix string, mac net.HardwareAddr) string {
	return strings.ToLower(prefix + MACString(mac))
}

// LookupMAC returns the hardware address of the named interface, or of the
// first non-loopback interface that has one when name is empty.
func LookupMAC(name string) (net.HardwareAddr, error) {
	if name != "" {
		iface, err := net.InterfaceByName(name)
		if err != nil {
			return nil, fmt.Errorf("lookup interface %s: %w", name, err)
		}
		if len(iface.HardwareAddr) == 0 {
			return nil, fmt.Errorf("interface %s has no hardware address", name)
		}
		return iface.HardwareAddr, nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr, nil
	}
	return nil, fmt.Errorf("no interface with a hardware address")
}
