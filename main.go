package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bast-security/keypad-firmware/config"
	"bast-security/keypad-firmware/gpio"
	"bast-security/keypad-firmware/keypad"
	"bast-security/keypad-firmware/publish"
)

var (
	configPath    string
	logLevel      string
	readerCommand string
	secret        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keypad-lock",
	Short: "Matrix keypad front end for the lock firmware",
	Long: `keypad-lock scans a matrix keypad wired to the GPIO header and forwards what is
typed to the lock controller over MQTT.

Examples:
  keypad-lock run -c keypad.yaml                 # scan and publish
  keypad-lock run -c keypad.yaml --card-reader card-reader
  keypad-lock check -c keypad.toml               # validate a configuration`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan the keypad until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, f)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a configuration file and print the key layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := f.KeypadMatrix()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "driver %s, mode %s, pull %s\n", f.Driver, f.Mode, m.Pull)
		for i, row := range m.Labels {
			fmt.Fprintf(out, "row %2d:", m.Rows[i])
			for _, label := range row {
				fmt.Fprintf(out, " %-12q", label)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	runCmd.Flags().StringVar(&readerCommand, "card-reader", "", "card reader command whose output lines are card numbers")
	runCmd.Flags().StringVar(&secret, "secret", "", "check codes locally and publish only accepted/rejected")
	rootCmd.AddCommand(runCmd, checkCmd)
}

func loadConfig() (config.File, error) {
	f := config.Default()
	if configPath != "" {
		var err error
		if f, err = config.Load(configPath); err != nil {
			return f, err
		}
	}
	if logLevel != "" {
		f.LogLevel = logLevel
	}
	level, err := log.ParseLevel(f.LogLevel)
	if err != nil {
		return f, err
	}
	log.SetLevel(level)
	return f, nil
}

func run(ctx context.Context, f config.File) error {
	driver, err := gpio.ParseDriver(f.Driver)
	if err != nil {
		return err
	}
	port, err := gpio.Open(driver)
	if err != nil {
		return fmt.Errorf("opening %s gpio: %w", driver, err)
	}
	defer port.Close()
	if err := port.Resolve(f.Pins()...); err != nil {
		return fmt.Errorf("checking wiring: %w", err)
	}

	kp := keypad.New(port, nil)
	if err := f.Apply(kp); err != nil {
		return err
	}
	interval, err := f.Interval()
	if err != nil {
		return err
	}

	fw, closeBroker, err := forwarder(f)
	if err != nil {
		return err
	}
	defer closeBroker()
	fw.Secret = secret
	if f.Server.URL != "" {
		server := publish.NewServer(f.Server.URL, f.Server.LockID)
		fw.Server = server
		log.WithField("url", server.AccessURL()).Info("lock server access enabled")
	}
	fw.Attach(kp)

	if readerCommand != "" {
		reader, err := startReader(ctx, readerCommand, fw.Card)
		if err != nil {
			return fmt.Errorf("starting card reader: %w", err)
		}
		defer reader.stop()
	}

	kp.Enable()
	log.WithFields(log.Fields{
		"driver":   driver,
		"mode":     kp.Mode(),
		"keys":     kp.Keys().Len(),
		"interval": interval,
	}).Info("keypad running")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			kp.Disable()
			log.Info("keypad stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			kp.Scan()
		}
	}
}

// forwarder publishes to the configured broker through a queue, or only logs
// when none is set.
func forwarder(f config.File) (*publish.Forwarder, func(), error) {
	if f.MQTT.Broker == "" {
		log.Warn("no mqtt broker configured, events are only logged at debug level")
		return publish.NewForwarder(logPublisher{}, f.MQTT.Prefix, nil), func() {}, nil
	}
	client, err := publish.DialMQTT(publish.MQTTConfig{
		Broker:   f.MQTT.Broker,
		ClientID: f.MQTT.ClientID,
		Username: f.MQTT.Username,
		Password: f.MQTT.Password,
		QoS:      1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", f.MQTT.Broker, err)
	}
	queue := publish.NewQueue(client, publish.DefaultQueueSize)
	closeAll := func() {
		queue.Close()
		client.Close()
	}
	return publish.NewForwarder(queue, f.MQTT.Prefix, nil), closeAll, nil
}

type logPublisher struct{}

func (logPublisher) Publish(topic string, payload []byte) error {
	log.WithField("topic", topic).Debug(string(payload))
	return nil
}
