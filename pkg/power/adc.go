package power

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultADCPath is the first channel of the first Linux IIO ADC.
const DefaultADCPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"

// ADC samples a supply voltage from a sysfs file holding a raw reading.
// The averaged raw value times Divider gives millivolts.
type ADC struct {
	Path     string
	Samples  int
	Divider  float64
	Interval time.Duration
}

// NewADC creates a sampler averaging samples readings 1ms apart.
func NewADC(path string, samples int, divider float64) *ADC {
	if samples <= 0 {
		samples = 1
	}
	return &ADC{
		Path:     path,
		Samples:  samples,
		Divider:  divider,
		Interval: time.Millisecond,
	}
}

// ReadMillivolts returns the averaged supply voltage in mV.
func (a *ADC) ReadMillivolts() (float64, error) {
	total := 0
	for i := 0; i < a.Samples; i++ {
		if i > 0 && a.Interval > 0 {
			time.Sleep(a.Interval)
		}
		raw, err := a.readRaw()
		if err != nil {
			return 0, err
		}
		total += raw
	}

	avg := total / a.Samples
	mv := float64(avg) * a.Divider
	log.Trace().Int("adc", avg).Float64("millivolts", mv).Int("samples", a.Samples).Msg("ADC reading")
	return mv, nil
}

func (a *ADC) readRaw() (int, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return 0, fmt.Errorf("read adc %s: %w", a.Path, err)
	}
	raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse adc %s: %w", a.Path, err)
	}
	return raw, nil
}
