// pin-reader scans the 4x3 lock keypad and prints each code when '#' is pressed.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"bast-security/keypad-firmware/gpio"
	"bast-security/keypad-firmware/keypad"
)

//////////For Pin Pad//////////
//		col 1	col 2	col 3
// row 1	1	2	3
// row 2	4	5	6
// row 3	7	8	9
// row 4	*	0	#
//
// rows are GPIO10, GPIO3, GPIO4, GPIO27
// columns are GPIO22, GPIO9, GPIO17
var pinPad = keypad.Matrix{
	Labels: [][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
		{"7", "8", "9"},
		{"*", "0", "#"},
	},
	Rows: []keypad.Pin{10, 3, 4, 27},
	Cols: []keypad.Pin{22, 9, 17},
	Pull: keypad.PullUp,
}

func main() {
	out := flag.StringP("out", "o", "", "write codes to this file or named pipe instead of stdout")
	hold := flag.Duration("hold", 150*time.Millisecond,
		"how long '#' must be held to submit and '*' to delete; a shorter tap types the character")
	verbose := flag.BoolP("verbose", "v", false, "log every key event")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.OpenFile(*out, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			log.WithError(err).Fatal("cannot open output")
		}
		defer f.Close()
		w = f
	}

	port, err := gpio.OpenRPIO()
	if err != nil {
		log.WithError(err).Fatal("cannot open gpio")
	}
	defer port.Close()
	if err := port.Resolve(append(pinPad.Rows, pinPad.Cols...)...); err != nil {
		log.WithError(err).Fatal("bad pin pad wiring")
	}

	kp := keypad.New(port, nil)
	if err := kp.Setup(pinPad); err != nil {
		log.WithError(err).Fatal("bad pin pad layout")
	}
	timing := kp.Timing()
	timing.T9 = *hold
	kp.SetTiming(timing)
	kp.SetEnterKey('#')
	kp.OnEnter(func(code string) {
		if code == "" {
			return
		}
		if _, err := fmt.Fprintln(w, code); err != nil {
			log.WithError(err).Error("failed to write code")
		}
	})
	kp.Enable()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			kp.Scan()
		}
	}
}
