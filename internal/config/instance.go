package config

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/mic-monitor/mic-monitor/internal/models"
)

// processName is matched against the recorded PID so that a recycled PID
// is not mistaken for a running instance.
const processName = "mic-monitor"

// LoadInstanceInfo loads the running instance info from instance.yaml.
// Returns nil if the file doesn't exist.
func LoadInstanceInfo() (*models.InstanceInfo, error) {
	path, err := InstanceFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.InstanceInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveInstanceInfo records the current process in instance.yaml.
func SaveInstanceInfo(info *models.InstanceInfo) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	path, err := InstanceFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveInstanceInfo removes the instance.yaml file.
func RemoveInstanceInfo() error {
	path, err := InstanceFile()
	if err != nil {
		return err
	}
	return removeIfExists(path)
}

// IsInstanceRunning reports whether another tray process is alive.
// A stale instance.yaml (dead PID, or a PID now owned by another program)
// is removed.
func IsInstanceRunning() (bool, *models.InstanceInfo, error) {
	info, err := LoadInstanceInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}
	if info.PID == os.Getpid() {
		return false, info, nil
	}

	if !isMicMonitor(int32(info.PID)) {
		_ = RemoveInstanceInfo()
		return false, info, nil
	}
	return true, info, nil
}

func isMicMonitor(pid int32) bool {
	exists, err := process.PidExists(pid)
	if err != nil || !exists {
		return false
	}
	p, err := process.NewProcess(pid)
	if err != nil {
		return false
	}
	name, err := p.Name()
	if err != nil {
		// Can't tell; assume it is ours rather than start a second tray.
		return true
	}
	return strings.Contains(name, processName)
}
