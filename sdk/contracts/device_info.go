package contracts

// DeviceInfo describes a MIDI input visible to the host.
type DeviceInfo struct {
	Index        int    // Position of the device in the backend's listing.
	Name         string // Device or port name.
	Manufacturer string // Device manufacturer, when the backend reports one.
	EntityName   string // Name of the entity the endpoint belongs to.
}
