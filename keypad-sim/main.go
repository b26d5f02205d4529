// keypad-sim drives the keypad session from the terminal keyboard, with the matrix
// and buzzer simulated in memory.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"bast-security/keypad-firmware/audio"
	"bast-security/keypad-firmware/config"
	"bast-security/keypad-firmware/keypad"
	"bast-security/keypad-firmware/sim"
)

const (
	defaultBuzzerPin = 12
	// Terminals repeat a held key every ~30-100ms after an initial delay, so a
	// press is kept closed for this long after the last repeat.
	holdWindow   = 150 * time.Millisecond
	scanInterval = 5 * time.Millisecond
	frameEvery   = 10
)

type simulator struct {
	screen tcell.Screen
	pins   *sim.Matrix
	kp     *keypad.Keypad
	byRune map[rune]*keypad.Key

	release map[*keypad.Key]time.Time
	latched bool

	lastEvent string
	entered   []string
	buzzing   bool
}

func main() {
	cfgPath := flag.StringP("config", "c", "", "keypad configuration (.yaml or .toml)")
	mode := flag.StringP("mode", "m", "", "override the input mode: integer, float or t9")
	mute := flag.Bool("mute", false, "do not sound the buzzer on the speaker")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
	}

	if err := run(*cfgPath, *mode, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, mode string, mute bool) error {
	f := config.Default()
	if cfgPath != "" {
		var err error
		if f, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if mode != "" {
		f.Mode = mode
	}
	if f.Buzzer.Pin == nil {
		pin := uint8(defaultBuzzerPin)
		f.Buzzer.Pin = &pin
	}

	s := &simulator{
		pins:    sim.NewMatrix(),
		byRune:  make(map[rune]*keypad.Key),
		release: make(map[*keypad.Key]time.Time),
	}
	s.kp = keypad.New(s.pins, nil)
	if err := f.Apply(s.kp); err != nil {
		return err
	}
	for _, k := range s.kp.Keys().Keys() {
		s.byRune[k.First()] = k
	}
	s.listen()

	buzzerPin := s.kp.Buzzer().Pin()
	s.pins.Watch(buzzerPin, func(high bool) { s.buzzing = high })
	if !mute {
		spk := audio.NewSpeaker(0)
		if err := spk.Init(); err != nil {
			log.WithError(err).Warn("speaker unavailable, buzzer is shown only")
		} else {
			defer spk.Close()
			s.pins.Watch(buzzerPin, func(high bool) {
				s.buzzing = high
				spk.Set(high)
			})
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	s.screen = screen

	s.kp.Enable()
	return s.loop()
}

func (s *simulator) listen() {
	s.kp.OnKeyDown(func(r rune) { s.lastEvent = fmt.Sprintf("down %q", r) })
	s.kp.OnKeyUp(func(r rune) { s.lastEvent = fmt.Sprintf("up %q", r) })
	s.kp.OnLongPress(func(r rune) { s.lastEvent = fmt.Sprintf("long press %q", r) })
	s.kp.OnDelete(func(r rune) { s.lastEvent = fmt.Sprintf("delete %q", r) })
	s.kp.OnMultipleKeys(func(keys string) { s.lastEvent = fmt.Sprintf("multiple %q", keys) })
	s.kp.OnIdle(func() { s.lastEvent = "idle" })
	s.kp.OnEnter(func(text string) {
		s.lastEvent = "enter"
		s.entered = append(s.entered, text)
		if len(s.entered) > 5 {
			s.entered = s.entered[1:]
		}
	})
}

func (s *simulator) loop() error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case ev := <-events:
			if !s.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			s.releaseExpired(now)
			s.kp.Scan()
			if frame++; frame%frameEvery == 0 {
				s.draw()
			}
		}
	}
}

// handle returns false when the user quits.
func (s *simulator) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			s.latched = !s.latched
			if !s.latched {
				s.releaseAll()
			}
		case tcell.KeyEnter:
			s.press('#')
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			s.press('*')
		case tcell.KeyRune:
			s.press(ev.Rune())
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *simulator) press(r rune) {
	k, ok := s.byRune[r]
	if !ok {
		return
	}
	if s.latched && s.pins.Closed(k.Row(), k.Col()) {
		s.pins.Release(k.Row(), k.Col())
		delete(s.release, k)
		return
	}
	s.pins.Press(k.Row(), k.Col())
	if s.latched {
		delete(s.release, k)
	} else {
		s.release[k] = time.Now().Add(holdWindow)
	}
}

func (s *simulator) releaseExpired(now time.Time) {
	for k, at := range s.release {
		if now.After(at) {
			s.pins.Release(k.Row(), k.Col())
			delete(s.release, k)
		}
	}
}

func (s *simulator) releaseAll() {
	s.pins.ReleaseAll()
	for k := range s.release {
		delete(s.release, k)
	}
}

func (s *simulator) draw() {
	s.screen.Clear()
	plain := tcell.StyleDefault
	dim := plain.Foreground(tcell.ColorGray)
	held := plain.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	wait := plain.Foreground(tcell.ColorGreen).Reverse(true)

	y := 1
	s.text(2, y, plain, fmt.Sprintf("mode %s   latch %v   ", s.kp.Mode(), s.latched))
	if s.buzzing {
		s.text(34, y, plain.Foreground(tcell.ColorRed), "BUZZ")
	}
	y += 2

	keys := s.kp.Keys().Keys()
	for i, k := range keys {
		row, col := i/s.kp.Cols(), i%s.kp.Cols()
		style := plain
		switch {
		case s.pins.Closed(k.Row(), k.Col()):
			style = held
		case k.Equal(s.kp.WaitKey()):
			style = wait
		case !k.Enabled():
			style = dim
		}
		cell := fmt.Sprintf(" %c ", k.First())
		if k.Equal(s.kp.WaitKey()) {
			cell = fmt.Sprintf(" %c ", k.Char())
		}
		s.text(2+col*6, y+row*2, style, cell)
	}
	y += s.kp.Rows()*2 + 1

	s.text(2, y, plain, "text  ["+s.kp.Text()+"]")
	s.text(2, y+1, plain, "event "+s.lastEvent)
	y += 3
	for _, code := range s.entered {
		s.text(2, y, dim, "entered "+code)
		y++
	}
	s.text(2, y+1, dim, "keys type, Enter is '#', Backspace is '*', Tab latches keys, Esc quits")
	s.screen.Show()
}

func (s *simulator) text(x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
