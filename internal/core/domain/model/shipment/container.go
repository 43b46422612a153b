package shipment

import "math"

// ContainerTypeReefer marks temperature-controlled containers.
const ContainerTypeReefer = "reefer"

// Container is one physical container attached to a shipment.
type Container struct {
	ContainerID   string
	ShipmentID    string
	CurrentTemp   *float64
	TargetTemp    *float64
	ContainerType string
}

// IsReefer reports whether the container has active temperature control.
func (c Container) IsReefer() bool {
	return c.ContainerType == ContainerTypeReefer
}

// TemperatureDeviation returns |current - target| in degrees Celsius.
// ok is false when either reading is missing.
func (c Container) TemperatureDeviation() (deviation float64, ok bool) {
	if c.CurrentTemp == nil || c.TargetTemp == nil {
		return 0, false
	}
	return math.Abs(*c.CurrentTemp - *c.TargetTemp), true
}
