package models

import (
	"time"

	"github.com/google/uuid"
)

// InstanceInfo describes the running tray process.
// This corresponds to instance.yaml in the config directory.
type InstanceInfo struct {
	Version    int       `yaml:"version"`
	InstanceID string    `yaml:"instance_id"`
	PID        int       `yaml:"pid"`
	StartedAt  time.Time `yaml:"started_at"`
}

// NewInstanceInfo creates instance info for the current process.
func NewInstanceInfo(pid int) *InstanceInfo {
	return &InstanceInfo{
		Version:    1,
		InstanceID: uuid.New().String(),
		PID:        pid,
		StartedAt:  time.Now().UTC(),
	}
}
