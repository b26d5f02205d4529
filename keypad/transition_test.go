package keypad

import (
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	timing := DefaultTiming()
	ms := time.Millisecond

	tests := []struct {
		name string
		in   input
		want step
	}{
		{
			name: "press",
			in:   input{event: EventIdle, pressed: true},
			want: step{next: EventDown, set: true, fire: true, index: indexReset},
		},
		{
			name: "short release",
			in:   input{event: EventWait, held: true, elapsed: 100 * ms},
			want: step{next: EventUp, set: true, fire: true},
		},
		{
			name: "long release",
			in:   input{event: EventWait, held: true, elapsed: 5001 * ms},
			want: step{next: EventLongPress, set: true, fire: true},
		},
		{
			name: "t9 release is never long",
			in:   input{event: EventWait, held: true, elapsed: 9000 * ms, mode: ModeT9},
			want: step{next: EventUp, set: true, fire: true},
		},
		{
			name: "release after delete",
			in:   input{event: EventPressDelete, held: true, role: roleDelete},
			want: step{next: EventReleaseDelete, set: true, fire: true},
		},
		{
			name: "release after clear",
			in:   input{event: EventClearScreen, held: true, role: roleDelete},
			want: step{next: EventReleaseDelete, set: true, fire: true},
		},
		{
			name: "release after enter",
			in:   input{event: EventPressEnter, held: true, role: roleEnter},
			want: step{next: EventReleaseEnter, set: true, fire: true},
		},
		{
			name: "down becomes wait",
			in:   input{event: EventDown, held: true, pressed: true, elapsed: 30 * ms},
			want: step{next: EventWait, set: true},
		},
		{
			name: "synthesized up repeats",
			in:   input{event: EventUp, held: true, pressed: true, elapsed: 30 * ms},
			want: step{next: EventDown, set: true, fire: true, index: indexReset},
		},
		{
			name: "wait before timeout",
			in:   input{event: EventWait, held: true, pressed: true, elapsed: 1000 * ms},
			want: step{next: EventWait},
		},
		{
			name: "wait past keydown timeout",
			in:   input{event: EventWait, held: true, pressed: true, elapsed: 1501 * ms},
			want: step{next: EventUp, set: true, fire: true},
		},
		{
			name: "t9 cycles",
			in:   input{event: EventWait, held: true, pressed: true, elapsed: 601 * ms, mode: ModeT9},
			want: step{next: EventDown, set: true, fire: true, index: indexNext},
		},
		{
			name: "t9 never repeats",
			in:   input{event: EventWait, held: true, pressed: true, elapsed: 500 * ms, mode: ModeT9},
			want: step{next: EventWait},
		},
		{
			name: "delete armed",
			in:   input{event: EventWait, held: true, pressed: true, elapsed: 601 * ms, role: roleDelete},
			want: step{next: EventPressDelete, set: true, fire: true},
		},
		{
			name: "delete held",
			in:   input{event: EventPressDelete, held: true, pressed: true, elapsed: 4000 * ms, role: roleDelete},
			want: step{next: EventPressDelete},
		},
		{
			name: "delete held long clears",
			in:   input{event: EventPressDelete, held: true, pressed: true, elapsed: 5001 * ms, role: roleDelete},
			want: step{next: EventClearScreen, set: true, fire: true},
		},
		{
			name: "clear fires once",
			in:   input{event: EventClearScreen, held: true, pressed: true, elapsed: 9000 * ms, role: roleDelete},
			want: step{next: EventClearScreen},
		},
		{
			name: "enter armed",
			in:   input{event: EventWait, held: true, pressed: true, elapsed: 601 * ms, role: roleEnter, mode: ModeT9},
			want: step{next: EventPressEnter, set: true, fire: true},
		},
		{
			name: "enter held",
			in:   input{event: EventPressEnter, held: true, pressed: true, elapsed: 9000 * ms, role: roleEnter},
			want: step{next: EventPressEnter},
		},
		{
			name: "settle to idle",
			in:   input{event: EventUp, elapsed: 30 * ms},
			want: step{next: EventIdle, set: true},
		},
		{
			name: "idle stays idle",
			in:   input{event: EventIdle, elapsed: 30 * ms},
			want: step{next: EventIdle},
		},
	}

	for _, tt := range tests {
		tt.in.timing = timing
		if got := transition(tt.in); got != tt.want {
			t.Errorf("%s: transition() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	if got := EventClearScreen.String(); got != "clear-screen" {
		t.Errorf("EventClearScreen.String() = %q", got)
	}
	if got := Event(200).String(); got != "unknown" {
		t.Errorf("Event(200).String() = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"", ModeInteger, false},
		{"integer", ModeInteger, false},
		{"float", ModeFloat, false},
		{"t9", ModeT9, false},
		{"hex", ModeInteger, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}
