// Package config loads keypad wiring and behaviour from a YAML or TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"bast-security/keypad-firmware/keypad"
)

// File is the on-disk configuration. Durations are Go duration strings ("600ms").
type File struct {
	Driver   string `yaml:"driver" toml:"driver"`
	LogLevel string `yaml:"log_level" toml:"log_level"`

	Matrix Matrix `yaml:"matrix" toml:"matrix"`

	Mode   string `yaml:"mode" toml:"mode"`
	Timing Timing `yaml:"timing" toml:"timing"`

	DeleteKey string `yaml:"delete_key" toml:"delete_key"`
	EnterKey  string `yaml:"enter_key" toml:"enter_key"`
	FloatKey  string `yaml:"float_key" toml:"float_key"`

	MaxTextLength int   `yaml:"max_text_length" toml:"max_text_length"`
	StoredText    *bool `yaml:"stored_text" toml:"stored_text"`
	PasswordMask  bool  `yaml:"password_mask" toml:"password_mask"`

	Buzzer Buzzer `yaml:"buzzer" toml:"buzzer"`
	MQTT   MQTT   `yaml:"mqtt" toml:"mqtt"`
	Server Server `yaml:"server" toml:"server"`

	ScanInterval string `yaml:"scan_interval" toml:"scan_interval"`
}

type Matrix struct {
	Rows   []uint8    `yaml:"rows" toml:"rows"`
	Cols   []uint8    `yaml:"cols" toml:"cols"`
	Labels [][]string `yaml:"labels" toml:"labels"`
	Pull   string     `yaml:"pull" toml:"pull"`
}

type Timing struct {
	KeyDown   string `yaml:"keydown" toml:"keydown"`
	LongPress string `yaml:"long_press" toml:"long_press"`
	T9        string `yaml:"t9" toml:"t9"`
	Idle      string `yaml:"idle" toml:"idle"`
}

type Buzzer struct {
	Pin      *uint8 `yaml:"pin" toml:"pin"`
	Duration string `yaml:"duration" toml:"duration"`
}

type MQTT struct {
	Broker   string `yaml:"broker" toml:"broker"`
	ClientID string `yaml:"client_id" toml:"client_id"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"`
}

// Server is the lock server that grants access. An empty URL disables it.
type Server struct {
	URL    string `yaml:"url" toml:"url"`
	LockID int64  `yaml:"lock_id" toml:"lock_id"`
}

// Default mirrors the factory keypad on rpio with a 5ms scan interval.
func Default() File {
	f := File{
		Driver:        "rpio",
		LogLevel:      "info",
		Mode:          "integer",
		DeleteKey:     "*",
		FloatKey:      "*",
		MaxTextLength: keypad.DefaultMaxTextLength,
		ScanInterval:  "5ms",
		MQTT:          MQTT{Prefix: "locks/keypad"},
	}
	m := keypad.FactoryMatrix()
	for _, p := range m.Rows {
		f.Matrix.Rows = append(f.Matrix.Rows, uint8(p))
	}
	for _, p := range m.Cols {
		f.Matrix.Cols = append(f.Matrix.Cols, uint8(p))
	}
	f.Matrix.Labels = m.Labels
	f.Matrix.Pull = "up"
	return f
}

// Load reads path on top of Default. The format follows the extension: .toml, else YAML.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	f, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return File{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the format named by ext (".toml", ".yaml", ".yml").
func Parse(ext string, data []byte) (File, error) {
	f := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f); err != nil {
			return File{}, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return File{}, err
		}
	}
	return f, f.check()
}

func (f File) check() error {
	if _, err := f.KeypadMatrix(); err != nil {
		return err
	}
	mode, err := keypad.ParseMode(f.Mode)
	if err != nil {
		return err
	}
	t, err := f.KeypadTiming()
	if err != nil {
		return err
	}
	if mode != keypad.ModeT9 && t.LongPress >= t.KeyDown {
		log.WithFields(log.Fields{
			"keydown":    t.KeyDown,
			"long_press": t.LongPress,
		}).Warn("long_press is not shorter than keydown, held keys will repeat instead of long-pressing")
	}
	if _, err := f.Interval(); err != nil {
		return err
	}
	for name, s := range map[string]string{"delete_key": f.DeleteKey, "enter_key": f.EnterKey, "float_key": f.FloatKey} {
		if utf8.RuneCountInString(s) > 1 {
			return fmt.Errorf("%s: %q is more than one character", name, s)
		}
	}
	if _, err := log.ParseLevel(f.LogLevel); err != nil {
		return err
	}
	if f.Server.URL != "" && f.Server.LockID <= 0 {
		return errors.New("server.lock_id: required with server.url")
	}
	return nil
}

// Pins lists every GPIO the configuration drives or reads, buzzer included.
func (f File) Pins() []keypad.Pin {
	var pins []keypad.Pin
	for _, p := range f.Matrix.Rows {
		pins = append(pins, keypad.Pin(p))
	}
	for _, p := range f.Matrix.Cols {
		pins = append(pins, keypad.Pin(p))
	}
	if f.Buzzer.Pin != nil {
		pins = append(pins, keypad.Pin(*f.Buzzer.Pin))
	}
	return pins
}

// KeypadMatrix builds and validates the wiring.
func (f File) KeypadMatrix() (keypad.Matrix, error) {
	m := keypad.Matrix{Labels: f.Matrix.Labels}
	for _, p := range f.Matrix.Rows {
		m.Rows = append(m.Rows, keypad.Pin(p))
	}
	for _, p := range f.Matrix.Cols {
		m.Cols = append(m.Cols, keypad.Pin(p))
	}
	switch strings.ToLower(f.Matrix.Pull) {
	case "", "up", "pullup":
		m.Pull = keypad.PullUp
	case "none", "off", "input":
		m.Pull = keypad.PullNone
	default:
		return m, fmt.Errorf("matrix.pull: unknown mode %q", f.Matrix.Pull)
	}
	return m, m.Validate()
}

// KeypadTiming fills unset durations from keypad.DefaultTiming.
func (f File) KeypadTiming() (keypad.Timing, error) {
	t := keypad.DefaultTiming()
	fields := []struct {
		name string
		in   string
		out  *time.Duration
	}{
		{"timing.keydown", f.Timing.KeyDown, &t.KeyDown},
		{"timing.long_press", f.Timing.LongPress, &t.LongPress},
		{"timing.t9", f.Timing.T9, &t.T9},
		{"timing.idle", f.Timing.Idle, &t.Idle},
	}
	for _, fl := range fields {
		if fl.in == "" {
			continue
		}
		d, err := time.ParseDuration(fl.in)
		if err != nil {
			return t, fmt.Errorf("%s: %w", fl.name, err)
		}
		*fl.out = d
	}
	return t, nil
}

// Interval is the scan period of the host loop.
func (f File) Interval() (time.Duration, error) {
	if f.ScanInterval == "" {
		return 5 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(f.ScanInterval)
	if err != nil {
		return 0, fmt.Errorf("scan_interval: %w", err)
	}
	return d, nil
}

// Apply configures kp: matrix, mode, timing, special keys, text and buzzer.
func (f File) Apply(kp *keypad.Keypad) error {
	m, err := f.KeypadMatrix()
	if err != nil {
		return err
	}
	mode, err := keypad.ParseMode(f.Mode)
	if err != nil {
		return err
	}
	timing, err := f.KeypadTiming()
	if err != nil {
		return err
	}
	if err := kp.Setup(m); err != nil {
		return err
	}

	kp.SetMode(mode)
	kp.SetTiming(timing)
	if r, ok := firstRune(f.DeleteKey); ok {
		kp.UseDeleteKey(r)
	} else {
		kp.IgnoreDeleteKey()
	}
	if r, ok := firstRune(f.EnterKey); ok {
		kp.SetEnterKey(r)
	} else {
		kp.IgnoreEnterKey()
	}
	if r, ok := firstRune(f.FloatKey); ok {
		kp.SetFloatKey(r)
	}
	if f.MaxTextLength > 0 {
		kp.SetMaxTextLength(f.MaxTextLength)
	}
	kp.SetStoredText(f.StoredText == nil || *f.StoredText)
	kp.SetPasswordMask(f.PasswordMask)

	if f.Buzzer.Pin != nil {
		var pulse time.Duration
		if f.Buzzer.Duration != "" {
			if pulse, err = time.ParseDuration(f.Buzzer.Duration); err != nil {
				return fmt.Errorf("buzzer.duration: %w", err)
			}
		}
		kp.EnableBuzzer(keypad.Pin(*f.Buzzer.Pin), pulse)
	} else {
		kp.DisableBuzzer()
	}
	return nil
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}
