// Command anovactl controls an Anova Precision Cooker over Bluetooth LE.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/chaz8081/anovactl/internal/anova"
	"github.com/chaz8081/anovactl/internal/ble"
	"github.com/chaz8081/anovactl/internal/config"
	"github.com/chaz8081/anovactl/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.config/anovactl/config.yaml)")
	address := flag.String("address", "", "device address (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.DeviceAddress = *address
	}

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	if err := logging.Setup(level); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string) error {
	command := args[0]
	adapter := ble.NewBluetoothAdapter()

	if command == "scan" {
		return runScan(adapter, cfg)
	}

	limits := anova.DefaultLimits()
	limits.ResponseTimeout = cfg.ResponseTimeoutDuration()
	limits.ScanTimeout = cfg.ScanTimeoutDuration()

	client := anova.NewClient(adapter, anova.Options{
		Address: cfg.DeviceAddress,
		Name:    cfg.DeviceName,
		Limits:  limits,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	resp, err := dispatch(ctx, client, command, args[1:])
	if err != nil {
		return err
	}
	fmt.Println(resp)
	return nil
}

func runScan(adapter ble.Adapter, cfg *config.Config) error {
	devices, err := ble.ScanForDevices(adapter, cfg.ScanTimeoutDuration())
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No devices found")
		return nil
	}
	for _, dev := range devices {
		name := dev.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%-24s %s (RSSI %d)\n", name, dev.Address, dev.RSSI)
	}
	return nil
}

func dispatch(ctx context.Context, client *anova.Client, command string, args []string) (string, error) {
	switch command {
	case "status":
		return client.Status(ctx)
	case "temp":
		return client.CurrentTemperature(ctx)
	case "target":
		return client.TargetTemperature(ctx)
	case "set-temp":
		temp, err := floatArg(command, args)
		if err != nil {
			return "", err
		}
		return client.SetTemperature(ctx, temp)
	case "start":
		return client.StartCooking(ctx)
	case "stop":
		return client.StopCooking(ctx)
	case "timer":
		return client.Timer(ctx)
	case "set-timer":
		minutes, err := intArg(command, args)
		if err != nil {
			return "", err
		}
		return client.SetTimer(ctx, minutes)
	case "start-timer":
		return client.StartTimer(ctx)
	case "stop-timer":
		return client.StopTimer(ctx)
	case "unit":
		return client.Unit(ctx)
	case "set-unit":
		if len(args) < 1 {
			return "", fmt.Errorf("%s requires a value: c or f", command)
		}
		switch args[0] {
		case "c":
			return client.SetUnitCelsius(ctx)
		case "f":
			return client.SetUnitFahrenheit(ctx)
		default:
			return "", fmt.Errorf("set-unit value must be c or f, got %q", args[0])
		}
	default:
		return "", fmt.Errorf("unknown command %q", command)
	}
}

func floatArg(command string, args []string) (float64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s requires a value", command)
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid value %q", command, args[0])
	}
	return v, nil
}

func intArg(command string, args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s requires a value", command)
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid value %q", command, args[0])
	}
	return v, nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return cfg, nil
	}

	return config.Default(), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: anovactl [flags] <command> [value]

Commands:
  scan               list nearby BLE devices
  status             get device status
  temp               get current temperature
  target             get target temperature
  set-temp <value>   set target temperature
  start              start cooking
  stop               stop cooking
  timer              get timer status
  set-timer <min>    set timer in minutes
  start-timer        start the timer
  stop-timer         stop the timer
  unit               get temperature unit
  set-unit <c|f>     set temperature unit

Flags:
`)
	flag.PrintDefaults()
}
