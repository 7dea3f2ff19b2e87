package sfx

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

func TestGenerate_AllKindsAreBoundedStereo(t *testing.T) {
	for _, k := range []Kind{Crash, DoorOpen, DoorClose, Pickup, WeatherChange} {
		buf := Generate(k, 3)
		require.NotEmpty(t, buf, "kind %d", k)
		assert.Zero(t, len(buf)%bytesPerFrame)
		assert.Greater(t, Duration(buf), 0.05)
		assert.Less(t, Duration(buf), 1.0)

		s := samples(buf)
		peak := float32(0)
		for i := 0; i < len(s); i += 2 {
			assert.Equal(t, s[i], s[i+1], "mono on both channels")
			v := s[i]
			if v < 0 {
				v = -v
			}
			assert.LessOrEqual(t, v, float32(1))
			peak = max(peak, v)
		}
		assert.Greater(t, peak, float32(0.01), "kind %d is audible", k)
	}
	assert.Nil(t, Generate(Kind(99), 0))
}

func TestGenerate_CrashVariants(t *testing.T) {
	assert.Equal(t, Generate(Crash, 1), Generate(Crash, 1))
	assert.NotEqual(t, Generate(Crash, 1), Generate(Crash, 2))
}

func TestReader_StreamsOnce(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})
	p := make([]byte, 3)

	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{4, 5}, p[:n])

	_, err = r.Read(p)
	assert.ErrorIs(t, err, io.EOF)
}

func TestADSR(t *testing.T) {
	assert.InDelta(t, 0.5, adsr(0.05, 0.1, 0.2, 0.5, 0.2), 1e-12)
	assert.InDelta(t, 0.5, adsr(0.5, 0.1, 0.2, 0.5, 0.2), 1e-12)
	assert.InDelta(t, 0, adsr(1, 0.1, 0.2, 0.5, 0.2), 1e-12)
}

func TestPutStereoF32(t *testing.T) {
	buf := make([]byte, 2*bytesPerFrame)
	putStereoF32(buf, 1, -0.25)
	assert.Equal(t, []float32{0, 0, -0.25, -0.25}, samples(buf))
}
