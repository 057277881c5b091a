package oi

// Open Interface command opcodes.
const (
	OpStart        = 128
	OpSafe         = 131
	OpPower        = 133
	OpSpot         = 134
	OpClean        = 135
	OpSong         = 140
	OpPlaySong     = 141
	OpSeekDock     = 143
	OpStream       = 148
	OpStreamToggle = 150
)

// Sensor packet IDs understood by the decoder.
const (
	SensorGroup7to26    = 0
	SensorGroup7to16    = 1
	SensorBumpsAndDrops = 7
	SensorVirtualWall   = 13
	SensorDistance      = 19
	SensorChargingState = 21
	SensorVoltage       = 22
	SensorCurrent       = 23
	SensorBatteryCharge = 25
	SensorBatteryCap    = 26
	SensorUndocumented  = 128
)

const (
	streamHeader        = 19
	streamCommandPause  = 0
	streamCommandResume = 1
	maxSongNotes        = 16
)

// StreamSensors is the sensor set requested from the device.
var StreamSensors = []byte{
	SensorDistance,
	SensorChargingState,
	SensorVoltage,
	SensorCurrent,
	SensorBatteryCharge,
	SensorBatteryCap,
}

// ChargingState is the value of sensor packet 21.
type ChargingState uint8

const (
	NotCharging ChargingState = iota
	ReconditioningCharging
	FullCharging
	TrickleCharging
	Waiting
	ChargingFault
)

var chargingStateNames = map[ChargingState]string{
	NotCharging:            "not_charging",
	ReconditioningCharging: "reconditioning_charging",
	FullCharging:           "full_charging",
	TrickleCharging:        "trickle_charging",
	Waiting:                "waiting",
	ChargingFault:          "fault",
}

func (c ChargingState) String() string {
	if name, ok := chargingStateNames[c]; ok {
		return name
	}
	return "unknown"
}

// Charging reports whether the battery is actively taking charge.
func (c ChargingState) Charging() bool {
	switch c {
	case ReconditioningCharging, FullCharging, TrickleCharging:
		return true
	}
	return false
}
