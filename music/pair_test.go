// SPDX-License-Identifier: EPL-2.0

package music

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
	"github.com/ik5/audmix/voice/sim"
)

const (
	trackX = 0
	trackY = 1
	trackZ = 2
)

type pairFixture struct {
	clock *sim.Clock
	v     [2]*sim.Voice
	pair  *ChannelPair
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPairFixture(t *testing.T, timing Timing, clipLen time.Duration) *pairFixture {
	t.Helper()

	clock := sim.NewClock()
	f := &pairFixture{clock: clock}
	var voices [2]voice.Voice
	for i := range voices {
		f.v[i] = sim.NewVoice("music", clock)
		voices[i] = f.v[i]
	}

	tracks := []*clip.Clip{
		clip.New("x", clipLen),
		clip.New("y", clipLen),
		clip.New("z", clipLen),
	}

	f.pair = NewChannelPair(tracks, voices, timing, 0.8, WithLogger(quietLogger()))
	return f
}

// tick advances the pair and the voices' clock together.
func (f *pairFixture) tick(dt time.Duration, n int) {
	for range n {
		f.clock.Advance(dt)
		f.pair.Update(dt)
	}
}

func (f *pairFixture) expect(t *testing.T, ch int, state Status, remaining time.Duration) {
	t.Helper()

	got := f.pair.Channel(ch)
	if got.State != state || got.Remaining != remaining {
		t.Errorf("channel %d = %v/%v, want %v/%v", ch, got.State, got.Remaining, state, remaining)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    Status
		want string
	}{
		{Stop, "stop"},
		{Playing, "playing"},
		{WaitInterval, "wait"},
		{FadeIn, "fade-in"},
		{FadeOut, "fade-out"},
		{Status(42), "invalid"},
	}

	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestTiming_Normalize(t *testing.T) {
	t.Parallel()

	got := Timing{FadeIn: -time.Second, FadeOut: -1, Interval: -time.Second}.Normalize()
	want := Timing{Interval: -time.Second}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNewChannelPair_Initial(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{}, time.Minute)

	if f.pair.Current() != Silent || f.pair.IsPlaying() || len(f.pair.Active()) != 0 {
		t.Error("fresh pair should be silent")
	}
	for i, v := range f.v {
		if v.Volume() != 0 {
			t.Errorf("voice %d volume = %v, want 0", i, v.Volume())
		}
	}
	if f.pair.Tracks() != 3 {
		t.Errorf("Tracks() = %d, want 3", f.pair.Tracks())
	}
}

func TestChannelPair_FirstTrackLifecycle(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: time.Second, FadeOut: time.Second, Interval: 500 * time.Millisecond}, time.Minute)

	f.pair.SetTrack(trackX)
	main := f.pair.Main()
	f.expect(t, main, WaitInterval, 500*time.Millisecond)
	if f.pair.Current() != trackX {
		t.Fatalf("Current() = %d, want %d", f.pair.Current(), trackX)
	}
	if f.v[main].Plays() != 0 {
		t.Fatal("voice started before the interval elapsed")
	}

	f.tick(250*time.Millisecond, 2)
	f.expect(t, main, FadeIn, time.Second)
	if f.v[main].Plays() != 1 {
		t.Fatalf("Plays() = %d after entering fade-in, want 1", f.v[main].Plays())
	}

	f.tick(250*time.Millisecond, 1)
	if got := f.pair.Channel(main).Volume; !approx(got, 0.2) {
		t.Errorf("volume a quarter into fade-in = %v, want 0.2", got)
	}

	f.tick(250*time.Millisecond, 3)
	f.expect(t, main, Playing, 0)
	if got := f.v[main].Volume(); got != 0.8 {
		t.Errorf("playing volume = %v, want 0.8", got)
	}
	if f.v[main].Plays() != 1 {
		t.Errorf("Plays() = %d, want no restart on reaching playing", f.v[main].Plays())
	}
}

func TestChannelPair_FadeCompleteness(t *testing.T) {
	t.Parallel()

	steps := [][]time.Duration{
		{time.Second},
		{300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond, 100 * time.Millisecond},
		{700 * time.Millisecond, 700 * time.Millisecond},
		{333 * time.Millisecond, 333 * time.Millisecond, 334 * time.Millisecond},
	}

	for _, seq := range steps {
		f := newPairFixture(t, Timing{FadeIn: time.Second, FadeOut: time.Second}, time.Minute)
		f.pair.SetCoefficient(0.5)
		f.pair.SetTrack(trackY)
		f.tick(time.Millisecond, 1)

		main := f.pair.Main()
		if f.pair.Channel(main).State != FadeIn {
			t.Fatalf("state = %v, want fade-in", f.pair.Channel(main).State)
		}

		for _, dt := range seq {
			f.tick(dt, 1)
		}

		got := f.pair.Channel(main)
		if got.State != Playing || got.Volume != 0.4 {
			t.Errorf("steps %v: channel = %v at %v, want playing at 0.4", seq, got.State, got.Volume)
		}
	}
}

func TestChannelPair_NonPositiveTick(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: time.Second, FadeOut: time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 1)
	f.tick(100*time.Millisecond, 1)

	before := f.pair.Channel(f.pair.Main())
	f.pair.Update(0)
	f.pair.Update(-time.Second)

	if after := f.pair.Channel(f.pair.Main()); after != before {
		t.Errorf("channel changed on non-positive tick: %+v -> %+v", before, after)
	}
}

func TestChannelPair_SetTrackTwiceCrossesOver(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeOut: 2 * time.Second, Interval: time.Second}, time.Minute)

	f.pair.SetTrack(trackX)
	first := f.pair.Main()
	f.pair.SetTrack(trackY)
	second := f.pair.Main()

	if first == second {
		t.Fatal("main channel did not swap")
	}
	f.expect(t, first, FadeOut, 2*time.Second)
	f.expect(t, second, WaitInterval, 3*time.Second)
	if f.pair.Current() != trackY {
		t.Errorf("Current() = %d, want %d", f.pair.Current(), trackY)
	}
}

func TestChannelPair_SameTrackIsNoOp(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 3)

	main := f.pair.Main()
	f.expect(t, main, Playing, 0)

	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 3)

	f.expect(t, main, Playing, 0)
	if f.v[main].Plays() != 1 {
		t.Errorf("Plays() = %d, want 1", f.v[main].Plays())
	}
	if f.pair.Main() != main {
		t.Error("main channel changed on redundant request")
	}
}

func TestChannelPair_ReturnToFadingTrack(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: 2 * time.Second, FadeOut: 2 * time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 1)
	f.tick(time.Second, 2)
	main := f.pair.Main()
	f.expect(t, main, Playing, 0)

	f.pair.SetTrack(Silent)
	f.expect(t, main, FadeOut, 2*time.Second)
	f.tick(time.Second, 1)
	if got := f.pair.Channel(main).Volume; !approx(got, 0.4) {
		t.Fatalf("volume half way out = %v, want 0.4", got)
	}

	f.pair.SetTrack(trackX)
	f.expect(t, main, FadeIn, time.Second)
	if f.v[main].Plays() != 1 {
		t.Errorf("Plays() = %d, fading track must not restart", f.v[main].Plays())
	}

	f.tick(500*time.Millisecond, 1)
	if got := f.pair.Channel(main).Volume; !approx(got, 0.6) {
		t.Errorf("volume after resuming = %v, want 0.6", got)
	}
}

func TestChannelPair_FadeOutFromFadeInIsProportional(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: 2 * time.Second, FadeOut: 4 * time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 1)
	f.tick(500*time.Millisecond, 1)

	main := f.pair.Main()
	if got := f.pair.Channel(main).Volume; !approx(got, 0.2) {
		t.Fatalf("volume = %v, want 0.2", got)
	}

	f.pair.SetTrack(Silent)
	f.expect(t, main, FadeOut, time.Second)
}

func TestChannelPair_SwitchBackToSubChannel(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: time.Second, FadeOut: time.Second, Interval: time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Second, 3)
	xCh := f.pair.Main()
	f.expect(t, xCh, Playing, 0)

	f.pair.SetTrack(trackY)
	yCh := f.pair.Main()
	f.tick(500*time.Millisecond, 1)

	f.pair.SetTrack(trackX)

	if f.pair.Main() != xCh {
		t.Fatal("designation did not swap back to the channel holding X")
	}
	f.expect(t, xCh, FadeIn, 500*time.Millisecond)
	f.expect(t, yCh, FadeOut, time.Second)
	if f.v[xCh].Plays() != 1 {
		t.Errorf("X restarted: Plays() = %d", f.v[xCh].Plays())
	}
}

func TestChannelPair_LouderChannelFadesOut(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: time.Second, FadeOut: time.Second, Interval: -time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 1)
	f.tick(time.Second, 1)
	xCh := f.pair.Main()
	f.expect(t, xCh, Playing, 0)

	// Negative interval: Y starts fading in on the next tick while X fades out.
	f.pair.SetTrack(trackY)
	yCh := f.pair.Main()
	f.tick(100*time.Millisecond, 1)
	f.tick(200*time.Millisecond, 1)

	x, y := f.pair.Channel(xCh), f.pair.Channel(yCh)
	if x.State != FadeOut || y.State != FadeIn || x.Volume <= y.Volume {
		t.Fatalf("want X fading out louder than Y fading in, got %+v and %+v", x, y)
	}

	f.pair.SetTrack(trackZ)

	// X was louder, so it keeps fading and Y is cut for Z.
	if f.pair.Main() != yCh {
		t.Fatal("Z should land on the quieter channel")
	}
	f.expect(t, xCh, FadeOut, x.Remaining)
	got := f.pair.Channel(yCh)
	if got.Track != trackZ || got.State != WaitInterval || got.Volume != 0 {
		t.Errorf("new channel = %+v, want Z waiting at zero volume", got)
	}
	if f.v[yCh].Stops() == 0 {
		t.Error("quieter channel was not hard stopped")
	}
}

func TestChannelPair_NegativeIntervalOverlap(t *testing.T) {
	t.Parallel()

	// fade-out 2s and interval -1s leave the incoming track waiting 1s, so
	// both tracks sound together for the last second of the fade-out.
	f := newPairFixture(t, Timing{FadeIn: 2 * time.Second, FadeOut: 2 * time.Second, Interval: -time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 1)
	f.tick(time.Second, 2)
	xCh := f.pair.Main()
	f.expect(t, xCh, Playing, 0)

	f.pair.SetTrack(trackY)
	yCh := f.pair.Main()
	f.expect(t, yCh, WaitInterval, time.Second)

	var overlap time.Duration
	step := 100 * time.Millisecond
	for range 40 {
		f.tick(step, 1)
		if f.pair.Channel(xCh).State == FadeOut && f.pair.Channel(yCh).State == FadeIn {
			overlap += step
		}
	}

	// The fade-in is entered on the tick the wait expires (t=1s) and the
	// fade-out ends on the tick reaching t=2s.
	if overlap != time.Second {
		t.Errorf("overlap = %v, want 1s", overlap)
	}
	if f.pair.Channel(xCh).State != Stop || f.pair.Channel(yCh).State != Playing {
		t.Error("crossfade did not settle")
	}
}

func TestChannelPair_NoDoubleAudible(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: 300 * time.Millisecond, FadeOut: 500 * time.Millisecond, Interval: -200 * time.Millisecond}, time.Minute)
	requests := []int{trackX, trackY, trackX, trackX, trackZ, Silent, trackY, trackY, trackZ, trackX}

	for i := range 400 {
		if i%37 == 0 {
			f.pair.SetTrack(requests[(i/37)%len(requests)])
		}
		f.tick(10*time.Millisecond, 1)

		a, b := f.pair.Channel(0), f.pair.Channel(1)
		if a.State == Playing && b.State == Playing && a.Track == b.Track {
			t.Fatalf("tick %d: both channels playing track %d", i, a.Track)
		}
		if a.State == FadeIn && b.State == FadeIn {
			t.Fatalf("tick %d: both channels fading in", i)
		}
	}
}

func TestChannelPair_OutOfRangeFadesOut(t *testing.T) {
	t.Parallel()

	for _, id := range []int{Silent, -5, 3, 100} {
		f := newPairFixture(t, Timing{FadeOut: time.Second}, time.Minute)
		f.pair.SetTrack(trackX)
		f.tick(time.Millisecond, 3)
		main := f.pair.Main()

		f.pair.SetTrack(id)
		f.expect(t, main, FadeOut, time.Second)
		f.expect(t, 1-main, Stop, 0)

		f.tick(time.Second, 1)
		if f.pair.IsPlaying() || f.pair.Current() != Silent {
			t.Errorf("SetTrack(%d): music still active after fade-out", id)
		}
		if f.v[main].IsPlaying() {
			t.Errorf("SetTrack(%d): voice still playing", id)
		}
	}
}

func TestChannelPair_HardStop(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeOut: 5 * time.Second, Interval: time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Second, 3)
	f.pair.SetTrack(trackY)

	f.pair.SetTrack(HardStop)

	for i := range 2 {
		f.expect(t, i, Stop, 0)
		if f.v[i].IsPlaying() || f.v[i].Volume() != 0 {
			t.Errorf("voice %d still audible", i)
		}
	}
}

func TestChannelPair_ZeroDurations(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{}, time.Minute)
	f.pair.SetTrack(trackX)
	main := f.pair.Main()

	f.tick(time.Millisecond, 1)
	f.expect(t, main, FadeIn, 0)
	f.tick(time.Millisecond, 1)
	f.expect(t, main, Playing, 0)

	f.pair.SetTrack(Silent)
	f.expect(t, main, FadeOut, 0)
	f.tick(time.Millisecond, 1)
	f.expect(t, main, Stop, 0)
}

func TestChannelPair_Volumes(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 3)
	main := f.pair.Main()

	tests := []struct {
		name      string
		apply     func()
		wantVol   float64
		wantCoeff float64
		wantVoice float64
	}{
		{"volume", func() { f.pair.SetVolume(0.5) }, 0.5, 1, 0.5},
		{"rejected volume", func() { f.pair.SetVolume(1.5) }, 0.5, 1, 0.5},
		{"coefficient", func() { f.pair.SetCoefficient(0.5) }, 0.5, 0.5, 0.25},
		{"rejected coefficient", func() { f.pair.SetCoefficient(-1) }, 0.5, 0.5, 0.25},
		{"mute", func() { f.pair.SetMute(true) }, 0.5, 0.5, 0.25},
		{"unmute", func() { f.pair.SetMute(false) }, 0.5, 0.5, 0.25},
	}

	// Steps build on each other, so no t.Parallel here.
	for _, tt := range tests {
		tt.apply()
		if f.pair.Volume() != tt.wantVol || f.pair.Coefficient() != tt.wantCoeff {
			t.Errorf("%s: volume, coefficient = %v, %v, want %v, %v",
				tt.name, f.pair.Volume(), f.pair.Coefficient(), tt.wantVol, tt.wantCoeff)
		}
		if got := f.v[main].Volume(); got != tt.wantVoice {
			t.Errorf("%s: voice volume = %v, want %v", tt.name, got, tt.wantVoice)
		}
	}

	if f.v[0].Muted() || f.v[1].Muted() {
		t.Error("voices still muted after unmute")
	}
}

func TestChannelPair_VolumeNotAppliedToFades(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{FadeIn: time.Second}, time.Minute)
	f.pair.SetTrack(trackX)
	f.tick(time.Millisecond, 1)
	f.tick(500*time.Millisecond, 1)
	main := f.pair.Main()

	f.pair.SetVolume(0.2)
	if got := f.v[main].Volume(); !approx(got, 0.4) {
		t.Errorf("fading voice volume = %v, want untouched 0.4", got)
	}

	f.tick(500*time.Millisecond, 1)
	if got := f.v[main].Volume(); got != 0.2 {
		t.Errorf("volume on reaching playing = %v, want 0.2", got)
	}
}

func TestChannelPair_LoopRearmsFinishedClip(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{}, time.Second)
	f.pair.SetLoop(false)
	f.pair.SetTrack(trackX)
	f.tick(100*time.Millisecond, 15)

	main := f.pair.Main()
	v := f.v[main]
	if v.IsPlaying() || f.pair.Channel(main).State != Playing {
		t.Fatal("one-shot clip should have run out while the channel stays playing")
	}

	f.pair.SetLoop(true)
	f.tick(100*time.Millisecond, 1)
	if !v.IsPlaying() || !v.Looping() || v.Plays() != 2 {
		t.Errorf("IsPlaying, Looping, Plays = %t, %t, %d, want true, true, 2", v.IsPlaying(), v.Looping(), v.Plays())
	}

	f.tick(time.Second, 3)
	if v.Plays() != 2 {
		t.Errorf("looping clip restarted %d more times", v.Plays()-2)
	}
}

func TestChannelPair_MainTimeLeft(t *testing.T) {
	t.Parallel()

	f := newPairFixture(t, Timing{}, 10*time.Second)
	if _, ok := f.pair.MainTimeLeft(); ok {
		t.Error("MainTimeLeft() ok before anything played")
	}

	f.pair.SetTrack(trackZ)
	f.tick(time.Second, 4)

	left, ok := f.pair.MainTimeLeft()
	if !ok || left != 7*time.Second {
		t.Errorf("MainTimeLeft() = %v, %t, want 7s, true", left, ok)
	}
}

func BenchmarkChannelPair_Update(b *testing.B) {
	clock := sim.NewClock()
	voices := [2]voice.Voice{sim.NewVoice("a", clock), sim.NewVoice("b", clock)}
	tracks := []*clip.Clip{clip.New("x", time.Minute), clip.New("y", time.Minute)}
	p := NewChannelPair(tracks, voices, Timing{FadeIn: time.Second, FadeOut: time.Second}, 1, WithLogger(quietLogger()))

	b.ReportAllocs()

	i := 0
	for b.Loop() {
		if i%120 == 0 {
			p.SetTrack(i / 120 % 2)
		}
		p.Update(16 * time.Millisecond)
		i++
	}
}
