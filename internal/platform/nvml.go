package platform

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"codeberg.org/mutker/overlayd/internal/errors"
	"codeberg.org/mutker/overlayd/internal/logger"
	"codeberg.org/mutker/overlayd/internal/telemetry"
)

// Degree-Celsius band boundaries for GPU temperature.
const (
	nvmlModerateC = 60
	nvmlSeriousC  = 70
	nvmlSevereC   = 78
	nvmlCriticalC = 85
	nvmlShutdownC = 92
)

// NVMLThermal maps GPU temperature to the thermal scale. Used on desktop
// rigs where the panel rides on GPU load rather than an SoC thermal zone.
type NVMLThermal struct {
	device      nvml.Device
	initialized bool
}

func NewNVMLThermal() (*NVMLThermal, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); !isNVMLSuccess(ret) {
		return nil, errFactory.WithData(errors.ErrInitFailed, nvml.ErrorString(ret))
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if !isNVMLSuccess(ret) {
		nvml.Shutdown()
		return nil, errFactory.WithData(errors.ErrInitFailed, nvml.ErrorString(ret))
	}

	if name, ret := device.GetName(); isNVMLSuccess(ret) {
		logger.Info().Str("gpu", name).Msg("NVML thermal source initialized")
	}

	return &NVMLThermal{
		device:      device,
		initialized: true,
	}, nil
}

// Current implements telemetry.ThermalSource.
func (n *NVMLThermal) Current() (telemetry.ThermalLevel, error) {
	errFactory := errors.New()

	if !n.initialized {
		return telemetry.ThermalNormal, errFactory.New(errors.ErrThermalRead)
	}

	temp, ret := n.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if !isNVMLSuccess(ret) {
		return telemetry.ThermalNormal, errFactory.WithData(errors.ErrThermalRead, nvml.ErrorString(ret))
	}

	return levelFromCelsius(int(temp)), nil
}

// Close shuts NVML down.
func (n *NVMLThermal) Close() error {
	errFactory := errors.New()

	if !n.initialized {
		return nil
	}
	n.initialized = false

	if ret := nvml.Shutdown(); !isNVMLSuccess(ret) {
		return errFactory.WithData(errors.ErrShutdownFailed, nvml.ErrorString(ret))
	}

	return nil
}

func levelFromCelsius(celsius int) telemetry.ThermalLevel {
	switch {
	case celsius < nvmlModerateC:
		return telemetry.ThermalNormal
	case celsius < nvmlSeriousC:
		return telemetry.ThermalModerate
	case celsius < nvmlSevereC:
		return telemetry.ThermalSerious
	case celsius < nvmlCriticalC:
		return telemetry.ThermalSevere
	case celsius < nvmlShutdownC:
		return telemetry.ThermalCritical
	default:
		return telemetry.ThermalShutdown
	}
}

func isNVMLSuccess(ret nvml.Return) bool {
	return ret == nvml.SUCCESS
}
