// Package service installs and controls remapd as a systemd unit,
// grounded on original_source's service/systemctl command wrappers. No
// systemd/dbus client library appears anywhere in the example pack, so
// control is done the way the pack's MacroExpander-equivalent shell steps
// are: shelling out via os/exec (see DESIGN.md).
package service

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	unitName = "remapd.service"
	unitPath = "/etc/systemd/system/" + unitName

	unitTemplate = `[Unit]
Description=remapd keyboard remapping daemon
After=multi-user.target

[Service]
Type=simple
ExecStart=%s start
Restart=on-failure

[Install]
WantedBy=multi-user.target
`
)

// Install writes the unit file pointing at execPath and reloads systemd.
func Install(execPath string) error {
	unit := fmt.Sprintf(unitTemplate, execPath)
	if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
		return fmt.Errorf("service: writing %s: %w", unitPath, err)
	}
	return systemctl("daemon-reload")
}

// Uninstall stops and disables the unit, then removes its file.
func Uninstall() error {
	_ = systemctl("stop", unitName)
	_ = systemctl("disable", unitName)
	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("service: removing %s: %w", unitPath, err)
	}
	return systemctl("daemon-reload")
}

// Start enables and starts the unit.
func Start() error {
	if err := systemctl("enable", unitName); err != nil {
		return err
	}
	return systemctl("start", unitName)
}

// Stop stops the unit without disabling it.
func Stop() error {
	return systemctl("stop", unitName)
}

// Status returns systemd's one-line active-state summary for the unit.
func Status() (string, error) {
	out, err := exec.Command("systemctl", "is-active", unitName).CombinedOutput()
	status := strings.TrimSpace(string(out))
	if err != nil {
		// is-active exits non-zero for "inactive"/"failed"; that's still a
		// valid status to report, not a command failure.
		if status != "" {
			return status, nil
		}
		return "", fmt.Errorf("service: querying status: %w", err)
	}
	return status, nil
}

func systemctl(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("service: systemctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
