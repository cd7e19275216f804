package config

// Config is the root configuration structure
type Config struct {
	// Offsets accepts the shorthand forms understood by ParseOffsets
	Offsets       interface{} `yaml:"offsets,omitempty" json:"offsets,omitempty"`
	Notify        *bool       `yaml:"notify,omitempty" json:"notify,omitempty"`
	NotifyTimeout string      `yaml:"notifyTimeout,omitempty" json:"notifyTimeout,omitempty"` // e.g. "2400ms"
	PollInterval  string      `yaml:"pollInterval,omitempty" json:"pollInterval,omitempty"`   // e.g. "300us"
	MarkerPath    string      `yaml:"markerPath,omitempty" json:"markerPath,omitempty"`
	SessionPath   string      `yaml:"sessionPath,omitempty" json:"sessionPath,omitempty"`
}
