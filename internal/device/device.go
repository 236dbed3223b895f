// Package device discovers physical keyboard devices under /dev/input,
// grounded on the evdev device-scanning pattern in
// other_examples/825301c5_VinewZ-go-evdev-keyboard__main.go.go.
package device

import (
	"fmt"
	"strings"

	"github.com/holoplot/go-evdev"
)

// Info describes one evdev device discovered on the system.
type Info struct {
	Path string
	Name string
}

// List returns every evdev device capable of generating key events.
func List() ([]Info, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("device: listing device paths: %w", err)
	}

	var infos []Info
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if IsKeyboard(dev) {
			name, _ := dev.Name()
			infos = append(infos, Info{Path: p.Path, Name: name})
		}
		dev.Close()
	}
	return infos, nil
}

// IsKeyboard reports whether dev supports key events and repeat events
// (EV_REP), the signature of a real keyboard rather than e.g. a mouse or
// power button.
func IsKeyboard(dev *evdev.InputDevice) bool {
	types := dev.CapableTypes()
	hasKey, hasRep := false, false
	for _, t := range types {
		switch t {
		case evdev.EV_KEY:
			hasKey = true
		case evdev.EV_REP:
			hasRep = true
		}
	}
	return hasKey && hasRep
}

// FindPathByName returns the /dev/input path of the first keyboard whose
// reported name contains name (case-insensitive).
func FindPathByName(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("device: listing device paths: %w", err)
	}

	want := strings.ToLower(name)
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		devName, err := dev.Name()
		matched := err == nil && IsKeyboard(dev) && strings.Contains(strings.ToLower(devName), want)
		dev.Close()
		if matched {
			return p.Path, nil
		}
	}
	return "", fmt.Errorf("device: no keyboard matching %q found", name)
}
