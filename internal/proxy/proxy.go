// Package proxy implements the EventProxy boundary (spec.md §4.9) against
// a real evdev source device and a synthetic uinput sink, grounded on the
// evdev read loop in
// other_examples/825301c5_VinewZ-go-evdev-keyboard__main.go.go and the
// epoll usage patterns x/sys/unix shows elsewhere in the example pack.
package proxy

import (
	"errors"
	"fmt"
	"time"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/quillaja/remapd/internal/keycode"
)

// lowestKeyCode/highestKeyCode bound the capability range advertised by
// the synthetic sink device: broad enough to cover every remap target a
// configuration might name, including codes the source device itself
// doesn't have.
const (
	lowestKeyCode  = 1
	highestKeyCode = 248
)

// Evdev implements adapter.EventProxy against one grabbed physical
// keyboard and a uinput virtual keyboard it creates as the output sink.
type Evdev struct {
	source *evdev.InputDevice
	sink   *evdev.InputDevice
	epfd   int
}

// Open grabs exclusive access to the device at path and creates a uinput
// sink named after it. The sink advertises the fixed key range
// lowestKeyCode..highestKeyCode, not the source's own key set.
func Open(path string) (*Evdev, error) {
	source, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("proxy: opening %s: %w", path, err)
	}

	name, err := source.Name()
	if err != nil {
		name = "keyboard"
	}

	if err := source.Grab(); err != nil {
		source.Close()
		return nil, fmt.Errorf("proxy: grabbing %s: %w", path, err)
	}
	if err := source.NonBlock(); err != nil {
		source.Close()
		return nil, fmt.Errorf("proxy: setting %s non-blocking: %w", path, err)
	}

	sink, err := createSink(name)
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("proxy: creating sink for %s: %w", path, err)
	}

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		sink.Close()
		source.Close()
		return nil, fmt.Errorf("proxy: epoll_create1: %w", err)
	}
	sourceFd := int(source.Fd())
	event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(sourceFd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, sourceFd, &event); err != nil {
		unix.Close(epfd)
		sink.Close()
		source.Close()
		return nil, fmt.Errorf("proxy: epoll_ctl: %w", err)
	}

	return &Evdev{source: source, sink: sink, epfd: epfd}, nil
}

func createSink(sourceName string) (*evdev.InputDevice, error) {
	keys := make([]evdev.EvCode, 0, highestKeyCode-lowestKeyCode+1)
	for code := lowestKeyCode; code <= highestKeyCode; code++ {
		keys = append(keys, evdev.EvCode(code))
	}

	return evdev.CreateDevice(
		sourceName+" (remapd)",
		evdev.InputID{BusType: 0x03, Vendor: 0x4711, Product: 0x0001, Version: 1},
		map[evdev.EvType][]evdev.EvCode{evdev.EV_KEY: keys},
	)
}

// Wait blocks up to timeout for the source device's fd to become
// readable.
func (e *Evdev) Wait(timeout time.Duration) (bool, error) {
	events := make([]unix.EpollEvent, 1)
	n, err := unix.EpollWait(e.epfd, events, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("proxy: epoll_wait: %w", err)
	}
	return n > 0, nil
}

// FetchEvents drains every ready key event from the source device.
func (e *Evdev) FetchEvents() ([]keycode.Event, error) {
	var out []keycode.Event
	for {
		ev, err := e.source.ReadOne()
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				break
			}
			return out, fmt.Errorf("proxy: reading source device: %w", err)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		kind, ok := keycode.KindFromValue(ev.Value)
		if !ok {
			continue
		}
		out = append(out, keycode.Event{Code: keycode.Code(ev.Code), Kind: kind})
	}
	return out, nil
}

// Emit writes events to the sink, in order, followed by a SYN_REPORT so
// downstream listeners see them as one atomic batch.
func (e *Evdev) Emit(events []keycode.Event) error {
	for _, ev := range events {
		err := e.sink.WriteOne(&evdev.InputEvent{
			Type:  evdev.EV_KEY,
			Code:  evdev.EvCode(ev.Code),
			Value: int32(ev.Kind),
		})
		if err != nil {
			return fmt.Errorf("proxy: writing to sink: %w", err)
		}
	}
	return e.sink.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0})
}

// Close releases the device grab and closes both devices and the epoll
// fd.
func (e *Evdev) Close() error {
	unix.Close(e.epfd)
	sinkErr := e.sink.Close()
	sourceErr := e.source.Close()
	if sourceErr != nil {
		return sourceErr
	}
	return sinkErr
}
