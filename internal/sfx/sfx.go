// Package sfx synthesizes the simulation's sound effects as interleaved
// stereo float32 PCM. Playback lives in the desktop package.
package sfx

import (
	"encoding/binary"
	"io"
	"math"
)

const (
	SampleRate    = 44100
	ChannelCount  = 2
	bytesPerFrame = 8
)

// Kind identifies a sound effect.
type Kind int

const (
	Crash Kind = iota
	DoorOpen
	DoorClose
	Pickup
	WeatherChange
)

// Generate returns the PCM for kind. variant changes the noise seed so
// repeated crashes don't sound identical.
func Generate(kind Kind, variant uint64) []byte {
	switch kind {
	case Crash:
		return genCrash(variant)
	case DoorOpen:
		return genDoor(false)
	case DoorClose:
		return genDoor(true)
	case Pickup:
		return genPickup()
	case WeatherChange:
		return genChime()
	}
	return nil
}

// Reader streams a generated buffer once.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Duration is the play time of a generated buffer in seconds.
func Duration(buf []byte) float64 {
	return float64(len(buf)/bytesPerFrame) / SampleRate
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	binary.LittleEndian.PutUint32(buf[i*8:], v)
	binary.LittleEndian.PutUint32(buf[i*8+4:], v)
}

// softSat applies gentle tanh-like saturation, no hard clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func makeBuf(n int) []byte { return make([]byte, n*bytesPerFrame) }

// genCrash: metallic crunch. Low thump, bandpassed noise body and a ringing
// panel partial.
func genCrash(variant uint64) []byte {
	n := int(0.45 * SampleRate)
	buf := makeBuf(n)
	seed := variant*0x9E3779B97F4A7C15 + 77
	lp1, lp2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)

		thump := math.Sin(2*math.Pi*(90-50*p)*t) * math.Exp(-p*12) * 0.6

		raw := lcg(&seed)
		lp1 = lp1*0.7 + raw*0.3
		lp2 = lp2*0.97 + raw*0.03
		body := (lp1 - lp2) * math.Exp(-p*6) * 0.55

		ring := fm(t, 620+float64(variant%5)*40, 1.41, 2.2) * math.Exp(-p*9) * 0.18

		putStereoF32(buf, i, softSat(thump+body+ring))
	}
	return buf
}

// genDoor: short latch click, lower for closing.
func genDoor(closing bool) []byte {
	n := int(0.14 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(4242)
	base := 260.0
	if closing {
		base = 170
	}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.02, 0.3, 0.15, 0.4)
		click := 0.0
		if p < 0.08 {
			click = lcg(&seed) * (1 - p/0.08) * 0.5
		}
		s := fm(t, base, 0.5, 1.5*env)*env*0.45 + click
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genPickup: rising two-note bell.
func genPickup() []byte {
	freqs := []float64{880, 1318.5}
	noteLen := SampleRate * 70 / 1000
	tail := int(0.15 * SampleRate)
	total := len(freqs)*noteLen + tail
	mix := make([]float64, total)
	for fi, freq := range freqs {
		start := fi * noteLen
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.004, 0.5, 0.05, 0.4)
			mix[start+j] += fm(t, freq, 2.756, 4.0*env) * env * 0.35
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genChime: soft pad swell when the weather turns.
func genChime() []byte {
	n := int(0.6 * SampleRate)
	buf := makeBuf(n)
	chord := []float64{261.63, 329.63, 392.0}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.25, 0.2, 0.6, 0.4)
		s := 0.0
		for _, f := range chord {
			s += math.Sin(2*math.Pi*f*t) * 0.12
		}
		putStereoF32(buf, i, softSat(s*env))
	}
	return buf
}
