// Command remapd runs the keyboard remapping engine described by a YAML
// configuration file, and manages its own systemd unit.
//
// Flag-based subcommands are used rather than a third-party CLI
// framework: no cobra/urfave-cli/kingpin-style package appears anywhere
// in the example pack, while flag.NewFlagSet is used extensively (see
// DESIGN.md).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/quillaja/remapd/internal/adapter"
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/device"
	"github.com/quillaja/remapd/internal/logging"
	"github.com/quillaja/remapd/internal/proxy"
	"github.com/quillaja/remapd/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "start":
		err = cmdStart(os.Args[2:])
	case "devices":
		err = cmdDevices(os.Args[2:])
	case "service":
		err = cmdService(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "remapd:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: remapd <command> [flags]

commands:
  start              run the remapping engine in the foreground
  devices            list evdev devices detected as keyboards
  service install     install the remapd systemd unit
  service uninstall   remove the remapd systemd unit
  service start        start the installed unit
  service stop          stop the installed unit
  service status       report the installed unit's state`)
}

func cmdStart(args []string) error {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml (default: platform config dir)")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logging.New(logging.ParseLevel(*logLevel))

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("resolving default config path: %w", err)
		}
	}

	file, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(file.Keyboards))

	for _, kb := range file.Keyboards {
		path, err := device.FindPathByName(kb.Name)
		if err != nil {
			return fmt.Errorf("keyboard %q: %w", kb.Name, err)
		}

		evProxy, err := proxy.Open(path)
		if err != nil {
			return fmt.Errorf("keyboard %q: %w", kb.Name, err)
		}
		defer evProxy.Close()

		a := adapter.New(kb, file.Defaults, evProxy, log.With("keyboard", kb.Name))

		wg.Add(1)
		go func(kb config.Keyboard) {
			defer wg.Done()
			if err := a.Run(ctx); err != nil && ctx.Err() == nil {
				errs <- fmt.Errorf("keyboard %q: %w", kb.Name, err)
			}
		}(kb)

		log.Info("remapping keyboard", "name", kb.Name, "device", path)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

func cmdDevices(args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	infos, err := device.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("%s\t%s\n", info.Path, info.Name)
	}
	return nil
}

func cmdService(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("service requires a subcommand: install, uninstall, start, stop, status")
	}

	switch args[0] {
	case "install":
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolving executable path: %w", err)
		}
		return service.Install(execPath)
	case "uninstall":
		return service.Uninstall()
	case "start":
		return service.Start()
	case "stop":
		return service.Stop()
	case "status":
		status, err := service.Status()
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	default:
		return fmt.Errorf("unknown service subcommand %q", args[0])
	}
}
