package oi

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeFrame_Checksum(t *testing.T) {
	frame := EncodeFrame([]byte{SensorVoltage, 0x3A, 0x98})

	var sum byte
	for _, b := range frame {
		sum += b
	}
	if sum != 0 {
		t.Errorf("frame sum = %d, want 0", sum)
	}
	if frame[0] != 19 || frame[1] != 3 {
		t.Errorf("unexpected header %v", frame[:2])
	}
}

func TestStreamParser_SingleFrame(t *testing.T) {
	body := []byte{SensorCurrent, 0xFE, 0x0C}
	p := NewStreamParser()
	p.Feed(EncodeFrame(body))

	got, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("got %v, want %v", got, body)
	}

	if got, err := p.Next(); got != nil || err != nil {
		t.Errorf("expected empty parser, got %v, %v", got, err)
	}
}

func TestStreamParser_PartialReads(t *testing.T) {
	body, _ := EncodeSensors(Readings{Voltage: 15000, Current: -500}, StreamSensors...)
	frame := EncodeFrame(body)
	p := NewStreamParser()

	for i := 0; i < len(frame)-1; i++ {
		p.Feed(frame[i : i+1])
		if got, err := p.Next(); got != nil || err != nil {
			t.Fatalf("byte %d: frame completed early: %v, %v", i, got, err)
		}
	}

	p.Feed(frame[len(frame)-1:])
	got, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("got %v, want %v", got, body)
	}
}

func TestStreamParser_GarbagePrefix(t *testing.T) {
	body := []byte{SensorChargingState, 3}
	p := NewStreamParser()
	p.Feed(append([]byte{0x00, 0xAA, 0x42}, EncodeFrame(body)...))

	got, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("got %v, want %v", got, body)
	}
	if p.Dropped() != 3 {
		t.Errorf("dropped = %d, want 3", p.Dropped())
	}
}

func TestStreamParser_BadChecksumResyncs(t *testing.T) {
	bad := EncodeFrame([]byte{SensorVoltage, 0x01, 0x02})
	bad[len(bad)-1]++
	good := []byte{SensorChargingState, 2}

	p := NewStreamParser()
	p.Feed(bad)
	p.Feed(EncodeFrame(good))

	if _, err := p.Next(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}

	var got []byte
	for i := 0; i < 8 && got == nil; i++ {
		var err error
		got, err = p.Next()
		if err != nil && !errors.Is(err, ErrChecksum) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !bytes.Equal(got, good) {
		t.Errorf("got %v, want %v", got, good)
	}
}

func TestStreamParser_Reset(t *testing.T) {
	frame := EncodeFrame([]byte{SensorChargingState, 1})
	p := NewStreamParser()
	p.Feed(frame[:2])
	p.Reset()
	p.Feed(frame[2:])

	if got, _ := p.Next(); got != nil {
		t.Errorf("expected nothing after reset, got %v", got)
	}
}
