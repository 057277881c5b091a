package oi

import (
	"errors"
	"testing"
)

func TestDecodeSensors_StreamSet(t *testing.T) {
	buf := []byte{
		19, 0xFF, 0xF6, // distance -10
		21, 2, // full charging
		22, 0x3A, 0x98, // 15000 mV
		23, 0xFE, 0x0C, // -500 mA
		25, 0x0A, 0x8C, // 2700 mAh
		26, 0x0B, 0xB8, // 3000 mAh
	}

	r, err := DecodeSensors(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Readings{
		Distance:      -10,
		ChargingState: FullCharging,
		Voltage:       15000,
		Current:       -500,
		Charge:        2700,
		Capacity:      3000,
	}
	if r != want {
		t.Errorf("got %+v, want %+v", r, want)
	}
}

func TestDecodeSensors_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		r    Readings
		ids  []byte
	}{
		{"zero", Readings{}, StreamSensors},
		{"docked", Readings{ChargingState: TrickleCharging, Voltage: 16800, Current: 120, Charge: 2999, Capacity: 3000}, StreamSensors},
		{"negative extremes", Readings{Distance: -32768, Current: -32768, Charge: -1}, StreamSensors},
		{"positive extremes", Readings{Distance: 32767, Voltage: 65535, Current: 32767, Charge: 32767, Capacity: 65535}, StreamSensors},
		{"with skipped groups", Readings{Voltage: 14000, Current: -900}, []byte{SensorGroup7to26, SensorVoltage, SensorBumpsAndDrops, SensorCurrent, SensorVirtualWall, SensorUndocumented, SensorGroup7to16}},
		{"reversed order", Readings{Distance: 42, Capacity: 2600}, []byte{SensorBatteryCap, SensorDistance}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := EncodeSensors(tt.r, tt.ids...)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeSensors(buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.r {
				t.Errorf("got %+v, want %+v", got, tt.r)
			}
		})
	}
}

func TestDecodeSensors_SkipWidths(t *testing.T) {
	tests := []struct {
		id    byte
		width int
	}{
		{SensorGroup7to26, 26},
		{SensorGroup7to16, 10},
		{SensorBumpsAndDrops, 1},
		{SensorVirtualWall, 1},
		{SensorUndocumented, 1},
	}

	for _, tt := range tests {
		// Fill the skipped block with bytes that would fail if read as IDs.
		buf := []byte{tt.id}
		for i := 0; i < tt.width; i++ {
			buf = append(buf, 0xEE)
		}
		buf = append(buf, SensorVoltage, 0x30, 0x39)

		r, err := DecodeSensors(buf)
		if err != nil {
			t.Fatalf("id %d: unexpected error: %v", tt.id, err)
		}
		if r.Voltage != 12345 {
			t.Errorf("id %d: voltage = %d, want 12345", tt.id, r.Voltage)
		}
	}
}

func TestDecodeSensors_UnknownID(t *testing.T) {
	for _, id := range []byte{2, 6, 20, 24, 27, 42, 100, 127, 129, 255} {
		buf := []byte{SensorVoltage, 0x30, 0x39, id, 0, 0}
		r, err := DecodeSensors(buf)
		if !errors.Is(err, ErrUnknownPacketID) {
			t.Errorf("id %d: expected ErrUnknownPacketID, got %v", id, err)
		}
		if r != (Readings{}) {
			t.Errorf("id %d: expected zero readings on failure, got %+v", id, r)
		}
	}
}

func TestDecodeSensors_Truncated(t *testing.T) {
	tests := [][]byte{
		{SensorVoltage},
		{SensorVoltage, 0x30},
		{SensorChargingState},
		{SensorGroup7to26, 0, 0, 0},
		{SensorCurrent, 0xFE, 0x0C, SensorBatteryCap, 0x0B},
	}

	for _, buf := range tests {
		if _, err := DecodeSensors(buf); !errors.Is(err, ErrTruncated) {
			t.Errorf("%v: expected ErrTruncated, got %v", buf, err)
		}
	}
}

func TestDecodeSensors_Empty(t *testing.T) {
	r, err := DecodeSensors(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != (Readings{}) {
		t.Errorf("expected zero readings, got %+v", r)
	}
}

func TestEncodeSensors_UnknownID(t *testing.T) {
	if _, err := EncodeSensors(Readings{}, 99); !errors.Is(err, ErrUnknownPacketID) {
		t.Errorf("expected ErrUnknownPacketID, got %v", err)
	}
}

func TestChargingState_Charging(t *testing.T) {
	tests := []struct {
		state ChargingState
		want  bool
	}{
		{NotCharging, false},
		{ReconditioningCharging, true},
		{FullCharging, true},
		{TrickleCharging, true},
		{Waiting, false},
		{ChargingFault, false},
		{ChargingState(9), false},
	}

	for _, tt := range tests {
		if got := tt.state.Charging(); got != tt.want {
			t.Errorf("%s: Charging() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
