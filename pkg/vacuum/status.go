package vacuum

// Status is the JSON document published on the state topic.
type Status struct {
	BatteryLevel int    `json:"battery_level"`
	Cleaning     bool   `json:"cleaning"`
	Docked       bool   `json:"docked"`
	Charging     bool   `json:"charging"`
	Voltage      uint16 `json:"voltage"`
	Current      int16  `json:"current"`
	Charge       int16  `json:"charge"`
	State        string `json:"state"`
}

// NewStatus renders a State. It fails with ErrCapacityUnknown until a
// sample carrying the battery capacity has been decoded.
func NewStatus(s State) (Status, error) {
	level, err := s.BatteryPercent()
	if err != nil {
		return Status{}, err
	}

	return Status{
		BatteryLevel: level,
		Cleaning:     s.Cleaning,
		Docked:       s.Docked,
		Charging:     s.Charging(),
		Voltage:      s.Voltage,
		Current:      s.Current,
		Charge:       s.Charge,
		State:        s.Mode(),
	}, nil
}

// LowPowerStatus is published, retained, right before a low-power suspend.
// Voltage is the measured supply in volts.
type LowPowerStatus struct {
	BatteryLevel int     `json:"battery_level"`
	Cleaning     bool    `json:"cleaning"`
	Docked       bool    `json:"docked"`
	Charging     bool    `json:"charging"`
	Voltage      float64 `json:"voltage"`
	Charge       int     `json:"charge"`
}

// NewLowPowerStatus reports an empty, idle device at the given supply voltage.
func NewLowPowerStatus(millivolts float64) LowPowerStatus {
	return LowPowerStatus{Voltage: millivolts / 1000}
}
