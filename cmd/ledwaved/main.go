// Package main is the entry point for the ledwaved daemon.
// ledwaved turns microphone or line-in audio into per-frame LED
// intensities, streaming them out as sACN DMX packets while a local
// control connection lets a client pick the device, effect, and color.
package main

import (
	"context"
	"fmt"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kbrandt/ledwave/internal/audiosrc"
	"github.com/kbrandt/ledwave/internal/config"
	"github.com/kbrandt/ledwave/internal/controller"
	"github.com/kbrandt/ledwave/internal/ipc"
	"github.com/kbrandt/ledwave/internal/sacnout"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Flags holds daemon configuration supplied on the command line.
type Flags struct {
	SocketPath string
	ConfigDir  string
	Verbose    bool
}

func main() {
	flags := parseFlags()

	if flags.Verbose {
		log.Printf("ledwaved version %s starting...", Version)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := run(ctx, flags); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.SocketPath, "socket", "", "IPC socket path (default: auto-generated based on UID)")
	flag.StringVar(&flags.ConfigDir, "config", "", "Configuration directory (default: ~/.config/ledwave)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if flags.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		flags.ConfigDir = homeDir + "/.config/ledwave"
	}

	if flags.SocketPath == "" {
		flags.SocketPath = fmt.Sprintf("/tmp/ledwaved-%d.sock", os.Getuid())
	}

	return flags
}

func run(ctx context.Context, flags *Flags) error {
	if err := os.MkdirAll(flags.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configMgr := config.NewManager(flags.ConfigDir)
	if err := configMgr.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	daemonCfg := configMgr.Get()
	if flags.SocketPath != "" {
		daemonCfg.SocketPath = flags.SocketPath
	}

	host, err := audiosrc.NewPortAudioHost()
	if err != nil {
		return fmt.Errorf("failed to initialize audio host: %w", err)
	}
	defer host.Close()

	sacnSource, err := sacnout.NewMulticastSource(daemonCfg.SacnBindAddress)
	if err != nil {
		return fmt.Errorf("failed to initialize sACN transport: %w", err)
	}

	ctrl := controller.New(host, sacnSource)

	devices, err := ctrl.AvailableInputDevices()
	if err != nil {
		return fmt.Errorf("failed to enumerate input devices: %w", err)
	}
	for _, d := range devices {
		if daemonCfg.PreferredDevice == "" || strings.Contains(strings.ToLower(d.Name), strings.ToLower(daemonCfg.PreferredDevice)) {
			ctrl.SelectInputDevice(d)
			log.Printf("[CONTROLLER] Selected input device: %s", d.Name)
			break
		}
	}

	server := ipc.NewServer(daemonCfg.SocketPath, ctrl, configMgr)

	log.Printf("Starting IPC server on %s", daemonCfg.SocketPath)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("IPC server error: %w", err)
	}

	return ctrl.Close()
}
