package noise

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 16000

// testSignal is one second of low-level noise followed by two seconds of a
// 440 Hz tone with the same noise mixed in. The leading window is what the
// filter will treat as the noise profile.
func testSignal() []float64 {
	rng := rand.New(rand.NewSource(42))
	samples := make([]float64, 3*testSampleRate)
	for i := range samples {
		n := 0.02 * (rng.Float64()*2 - 1)
		if i < testSampleRate {
			samples[i] = n
		} else {
			samples[i] = 0.5*math.Sin(2*math.Pi*440*float64(i)/testSampleRate) + n
		}
	}
	return samples
}

func writeTestWAV(t *testing.T, path string, samples []float64, channels int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, testSampleRate, 16, channels, 1)
	data := make([]int, len(samples)*channels)
	for i, s := range samples {
		v := int(s * 32767.0)
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = v
		}
	}
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:   data,
		Format: &audio.Format{SampleRate: testSampleRate, NumChannels: channels},
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func energy(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return sum
}

func TestReduceKeepsToneAttenuatesNoise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWAV(t, path, testSignal(), 1)

	require.NoError(t, Reduce(path))

	filtered, rate, err := readMono(path)
	require.NoError(t, err)
	assert.Equal(t, testSampleRate, rate)

	// Leading noise window should have lost most of its energy while the
	// tone region keeps the bulk of its own.
	noiseBefore := energy(testSignal()[:testSampleRate])
	noiseAfter := energy(filtered[:testSampleRate])
	assert.Less(t, noiseAfter, noiseBefore*0.5, "leading noise window not attenuated")

	toneBefore := energy(testSignal()[testSampleRate:])
	toneAfter := energy(filtered[testSampleRate:])
	assert.Greater(t, toneAfter, toneBefore*0.25, "tone energy collapsed")
}

func TestReduceTwiceDoesNotCollapseSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWAV(t, path, testSignal(), 1)

	require.NoError(t, Reduce(path))
	once, _, err := readMono(path)
	require.NoError(t, err)

	require.NoError(t, Reduce(path))
	twice, _, err := readMono(path)
	require.NoError(t, err)

	onceEnergy := energy(once[testSampleRate:])
	twiceEnergy := energy(twice[testSampleRate:])

	require.Greater(t, onceEnergy, 0.0)
	assert.Greater(t, twiceEnergy, onceEnergy*0.25, "repeated filtering ran away")
}

func TestReduceDownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWAV(t, path, testSignal(), 2)

	require.NoError(t, Reduce(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint32(testSampleRate), dec.SampleRate)
}

func TestReduceShortFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.wav")
	writeTestWAV(t, path, make([]float64, 100), 1)

	require.NoError(t, Reduce(path))
}

func TestReduceRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	assert.Error(t, Reduce(path))
}
