package oi

import (
	"encoding/binary"
	"fmt"
)

// Readings holds the typed sensor values carried by one stream packet.
// Fields absent from the packet are left zero.
type Readings struct {
	Distance      int16         // mm
	ChargingState ChargingState // packet 21
	Voltage       uint16        // mV
	Current       int16         // mA, negative when drawing power
	Charge        int16         // mAh, signed because the device underflows it
	Capacity      uint16        // mAh
}

// sensorWidths maps every recognized packet ID to its data width in bytes.
var sensorWidths = map[byte]int{
	SensorGroup7to26:    26,
	SensorGroup7to16:    10,
	SensorBumpsAndDrops: 1,
	SensorVirtualWall:   1,
	SensorDistance:      2,
	SensorChargingState: 1,
	SensorVoltage:       2,
	SensorCurrent:       2,
	SensorBatteryCharge: 2,
	SensorBatteryCap:    2,
	SensorUndocumented:  1,
}

// SensorWidth returns the data width of a packet ID and whether it is known.
func SensorWidth(id byte) (int, bool) {
	w, ok := sensorWidths[id]
	return w, ok
}

// DecodeSensors decodes a stream packet body made of (id, value) entries.
// It either returns every reading or an error; nothing is partially applied.
func DecodeSensors(buf []byte) (Readings, error) {
	var r Readings

	for i := 0; i < len(buf); {
		id := buf[i]
		width, ok := SensorWidth(id)
		if !ok {
			return Readings{}, fmt.Errorf("%w: %d at offset %d", ErrUnknownPacketID, id, i)
		}
		end := i + 1 + width
		if end > len(buf) {
			return Readings{}, fmt.Errorf("%w: packet %d needs %d bytes at offset %d", ErrTruncated, id, width, i)
		}
		value := buf[i+1 : end]

		switch id {
		case SensorDistance:
			r.Distance = int16(binary.BigEndian.Uint16(value))
		case SensorChargingState:
			r.ChargingState = ChargingState(value[0])
		case SensorVoltage:
			r.Voltage = binary.BigEndian.Uint16(value)
		case SensorCurrent:
			r.Current = int16(binary.BigEndian.Uint16(value))
		case SensorBatteryCharge:
			r.Charge = int16(binary.BigEndian.Uint16(value))
		case SensorBatteryCap:
			r.Capacity = binary.BigEndian.Uint16(value)
		}

		i = end
	}

	return r, nil
}

// EncodeSensors is the inverse of DecodeSensors for the given packet IDs.
// Skip-only IDs are written as zero-filled blocks of their width.
func EncodeSensors(r Readings, ids ...byte) ([]byte, error) {
	buf := make([]byte, 0, 3*len(ids))

	for _, id := range ids {
		width, ok := SensorWidth(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPacketID, id)
		}
		buf = append(buf, id)

		switch id {
		case SensorDistance:
			buf = binary.BigEndian.AppendUint16(buf, uint16(r.Distance))
		case SensorChargingState:
			buf = append(buf, byte(r.ChargingState))
		case SensorVoltage:
			buf = binary.BigEndian.AppendUint16(buf, r.Voltage)
		case SensorCurrent:
			buf = binary.BigEndian.AppendUint16(buf, uint16(r.Current))
		case SensorBatteryCharge:
			buf = binary.BigEndian.AppendUint16(buf, uint16(r.Charge))
		case SensorBatteryCap:
			buf = binary.BigEndian.AppendUint16(buf, r.Capacity)
		default:
			buf = append(buf, make([]byte, width)...)
		}
	}

	return buf, nil
}
