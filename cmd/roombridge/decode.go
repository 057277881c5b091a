package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/urmzd/roombridge/pkg/oi"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

var decodeFramed bool

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a captured sensor packet",
	Long: `Decodes sensor data captured from the vacuum and prints the readings,
the estimated activity and the status document that would be published.

The input is hex; spaces and colons are ignored. By default it is a packet
body of (id, value) entries. With --frame it is one or more raw stream
frames (19, length, body, checksum), each decoded separately.

Example:
  roombridge decode "15 00 16 3c 8c 17 fe 70 19 05 dc 1a 0a 8c"`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&decodeFramed, "frame", false, "Input is raw stream frames rather than a packet body")
}

// decodedPacket is one decoded body as printed by the decode command.
type decodedPacket struct {
	Distance      int16          `json:"distance"`
	ChargingState string         `json:"charging_state"`
	Voltage       uint16         `json:"voltage"`
	Current       int16          `json:"current"`
	Charge        int16          `json:"charge"`
	Capacity      uint16         `json:"capacity"`
	Mode          string         `json:"mode"`
	Status        *vacuum.Status `json:"status,omitempty"`
	StatusError   string         `json:"status_error,omitempty"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	packets, err := decodeHex(args[0], decodeFramed)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, p := range packets {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// decodeHex parses hex input into decoded packets.
func decodeHex(input string, framed bool) ([]decodedPacket, error) {
	cleaned := strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(input)
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	if !framed {
		p, err := decodeBody(raw)
		if err != nil {
			return nil, err
		}
		return []decodedPacket{p}, nil
	}

	parser := oi.NewStreamParser()
	parser.Feed(raw)

	var packets []decodedPacket
	for {
		body, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if body == nil {
			break
		}
		p, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}

	if len(packets) == 0 {
		return nil, fmt.Errorf("no complete stream frame in %d bytes", len(raw))
	}
	return packets, nil
}

func decodeBody(body []byte) (decodedPacket, error) {
	r, err := oi.DecodeSensors(body)
	if err != nil {
		return decodedPacket{}, err
	}

	state := vacuum.Estimate(r, 0)
	p := decodedPacket{
		Distance:      r.Distance,
		ChargingState: r.ChargingState.String(),
		Voltage:       r.Voltage,
		Current:       r.Current,
		Charge:        r.Charge,
		Capacity:      r.Capacity,
		Mode:          state.Mode(),
	}

	status, err := vacuum.NewStatus(state)
	if err != nil {
		p.StatusError = err.Error()
	} else {
		p.Status = &status
	}
	return p, nil
}
