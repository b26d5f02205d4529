package keypad

import (
	"testing"
	"time"
)

func TestBuzzerSequence(t *testing.T) {
	kp, port, clock := newTestKeypad()
	kp.EnableBuzzer(9, 50*time.Millisecond)
	b := kp.Buzzer()

	if port.levels[9] {
		t.Fatal("enabled buzzer should start silent")
	}
	if !kp.BeepBuzzer(2, 0) {
		t.Fatal("BeepBuzzer on an idle buzzer should succeed")
	}
	if !port.levels[9] {
		t.Error("beep should drive the pin high")
	}
	if kp.BeepBuzzer(1, 0) {
		t.Error("BeepBuzzer while busy should fail")
	}

	clock.Advance(50 * time.Millisecond)
	b.Check()
	if !port.levels[9] {
		t.Error("pulse should last its full duration")
	}

	wantLevels := []bool{false, true, false}
	for i, want := range wantLevels {
		clock.Advance(51 * time.Millisecond)
		b.Check()
		if port.levels[9] != want {
			t.Errorf("phase %d: level = %v, want %v", i, port.levels[9], want)
		}
	}
	if b.Active() || b.Remaining() != 0 {
		t.Errorf("after two pulses: active = %v, remaining = %d", b.Active(), b.Remaining())
	}
	if !kp.BeepBuzzer(1, 0) {
		t.Error("finished buzzer should accept a new sequence")
	}
}

func TestBuzzerDisable(t *testing.T) {
	kp, port, _ := newTestKeypad()

	if kp.BeepBuzzer(1, 0) {
		t.Error("BeepBuzzer without a buzzer should fail")
	}

	kp.EnableBuzzer(9, 0)
	kp.BeepBuzzer(3, 10*time.Millisecond)
	kp.DisableBuzzer()

	if port.levels[9] {
		t.Error("Disable should silence the pin")
	}
	if kp.Buzzer().Active() {
		t.Error("Disable should stop the sequence")
	}
	if kp.Buzzer().Enabled() {
		t.Error("buzzer should report disabled")
	}
}

func TestBuzzerDurationOverride(t *testing.T) {
	kp, port, clock := newTestKeypad()
	kp.EnableBuzzer(9, 0)
	kp.BeepBuzzer(1, 200*time.Millisecond)

	clock.Advance(DefaultBeepDuration + time.Millisecond)
	kp.Buzzer().Check()
	if !port.levels[9] {
		t.Error("override duration should keep the pulse on")
	}

	clock.Advance(200 * time.Millisecond)
	kp.Buzzer().Check()
	if port.levels[9] || kp.Buzzer().Active() {
		t.Error("single pulse should be over")
	}
}
