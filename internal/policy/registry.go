package policy

import (
	"fmt"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// Power-setting classes the agent subscribes to.
var (
	// GUID_MONITOR_POWER_ON {02731015-4510-4526-99E6-E5A17EBD1AEA}
	MonitorPowerOn = domain.NotificationClass{
		ID:   "monitor-power-on",
		Name: "Monitor power state",
		GUID: domain.GUID{
			Data1: 0x02731015, Data2: 0x4510, Data3: 0x4526,
			Data4: [8]byte{0x99, 0xE6, 0xE5, 0xA1, 0x7E, 0xBD, 0x1A, 0xEA},
		},
	}

	// GUID_LIDSWITCH_STATE_CHANGE {BA3E0F4D-B817-4094-A2D1-D56379E6A0F3}
	LidSwitchStateChange = domain.NotificationClass{
		ID:   "lid-switch",
		Name: "Lid switch state",
		GUID: domain.GUID{
			Data1: 0xBA3E0F4D, Data2: 0xB817, Data3: 0x4094,
			Data4: [8]byte{0xA2, 0xD1, 0xD5, 0x63, 0x79, 0xE6, 0xA0, 0xF3},
		},
	}
)

// Registry holds the notification classes a receiver subscribes to.
// Both classes share the single-u32 state encoding and the same policy.
type Registry struct {
	classes []domain.NotificationClass
	byGUID  map[domain.GUID]domain.NotificationClass
}

// NewRegistry creates a registry with the default subscriptions.
func NewRegistry() *Registry {
	return NewRegistryWithClasses(MonitorPowerOn, LidSwitchStateChange)
}

// NewRegistryWithClasses creates a registry with custom classes (for testing).
func NewRegistryWithClasses(classes ...domain.NotificationClass) *Registry {
	r := &Registry{
		byGUID: make(map[domain.GUID]domain.NotificationClass),
	}
	for _, c := range classes {
		r.Register(c)
	}
	return r
}

// Register adds a class. Re-registering a GUID replaces the earlier entry.
func (r *Registry) Register(c domain.NotificationClass) {
	if _, ok := r.byGUID[c.GUID]; ok {
		for i := range r.classes {
			if r.classes[i].GUID == c.GUID {
				r.classes[i] = c
			}
		}
	} else {
		r.classes = append(r.classes, c)
	}
	r.byGUID[c.GUID] = c
}

// Lookup returns the class registered under guid.
func (r *Registry) Lookup(guid domain.GUID) (domain.NotificationClass, bool) {
	c, ok := r.byGUID[guid]
	return c, ok
}

// Describe returns the class name for logs, or the raw GUID when unknown.
func (r *Registry) Describe(guid domain.GUID) string {
	if c, ok := r.byGUID[guid]; ok {
		return c.Name
	}
	return fmt.Sprintf("unknown class %s", guid)
}

// GetAll returns the registered classes in subscription order.
func (r *Registry) GetAll() []domain.NotificationClass {
	out := make([]domain.NotificationClass, len(r.classes))
	copy(out, r.classes)
	return out
}

// List returns the class IDs in subscription order.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		ids = append(ids, c.ID)
	}
	return ids
}
