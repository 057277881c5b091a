package vacuum

// SupportedFeatures is the capability list advertised in the descriptor.
var SupportedFeatures = []string{"start", "stop", "pause", "return_home", "locate", "clean_spot"}

// Manufacturer is advertised in the descriptor device block.
const Manufacturer = "iRobot"

// Descriptor is the discovery document published on the config topic.
// Topic fields are relative to "~", the device root topic.
type Descriptor struct {
	Name              string           `json:"name"`
	UniqueID          string           `json:"unique_id"`
	Schema            string           `json:"schema"`
	Root              string           `json:"~"`
	StateTopic        string           `json:"stat_t"`
	CommandTopic      string           `json:"cmd_t"`
	SendCommandTopic  string           `json:"send_cmd_t"`
	AttributesTopic   string           `json:"json_attr_t"`
	SupportedFeatures []string         `json:"sup_feat"`
	Device            DescriptorDevice `json:"dev"`
}

// DescriptorDevice groups the entity under a device.
type DescriptorDevice struct {
	Name         string   `json:"name"`
	IDs          []string `json:"ids"`
	Manufacturer string   `json:"mf"`
	Model        string   `json:"mdl"`
}

// NewDescriptor builds the descriptor for a device identity.
func NewDescriptor(t Topics, mac, model string) Descriptor {
	name := "Roomba " + mac
	return Descriptor{
		Name:              name,
		UniqueID:          t.EntityID,
		Schema:            "state",
		Root:              t.Root(),
		StateTopic:        "~/" + t.State,
		CommandTopic:      "~/" + t.Command,
		SendCommandTopic:  "~/" + t.Command,
		AttributesTopic:   "~/" + t.State,
		SupportedFeatures: SupportedFeatures,
		Device: DescriptorDevice{
			Name:         name,
			IDs:          []string{t.EntityID},
			Manufacturer: Manufacturer,
			Model:        model,
		},
	}
}
