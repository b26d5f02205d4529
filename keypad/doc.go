// Package keypad drives a row/column matrix keypad from a cooperative scan loop.
//
// Every key owns a small debounced state machine. A Keypad session scans all keys once per
// call to Scan, turns their transitions into key-down, key-up, long-press, delete and enter
// events, keeps the entered text, and beeps an optional buzzer.
//
// A session is not safe for concurrent use: Scan and the setters must be called from the same
// goroutine, and listeners must not call Scan.
package keypad
