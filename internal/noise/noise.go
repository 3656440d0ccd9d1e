// Package noise implements best-effort stationary noise reduction for mono
// PCM WAV files using spectral subtraction. The noise profile is estimated
// from the leading one-second window, which recordings from push-to-record
// clients reliably start with.
package noise

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mjibson/go-dsp/fft"
)

const (
	frameSize = 1024

	// Each frequency bin keeps at least this fraction of its original
	// magnitude. The floor prevents musical-noise artifacts and keeps
	// repeated filtering from driving the signal to silence.
	spectralFloor = 0.05
)

// Reduce attenuates stationary noise in the WAV file at path, overwriting it
// in place at its original sample rate. Multi-channel input is down-mixed to
// mono by averaging channels. Failures are returned for the caller to log;
// the file is left untouched on error.
func Reduce(path string) error {
	samples, sampleRate, err := readMono(path)
	if err != nil {
		return err
	}
	if len(samples) < frameSize {
		// Too short to estimate anything useful.
		return nil
	}

	filtered := subtractNoise(samples, sampleRate)

	return writeMono(path, filtered, sampleRate)
}

// subtractNoise applies frame-wise spectral subtraction. The per-bin noise
// magnitude profile is the mean over the frames covering the first second.
func subtractNoise(samples []float64, sampleRate int) []float64 {
	noiseFrames := sampleRate / frameSize
	if noiseFrames < 1 {
		noiseFrames = 1
	}
	totalFrames := len(samples) / frameSize
	if noiseFrames > totalFrames {
		noiseFrames = totalFrames
	}

	profile := make([]float64, frameSize)
	for f := 0; f < noiseFrames; f++ {
		spectrum := fft.FFTReal(samples[f*frameSize : (f+1)*frameSize])
		for bin, c := range spectrum {
			profile[bin] += cmplxAbs(c)
		}
	}
	for bin := range profile {
		profile[bin] /= float64(noiseFrames)
	}

	out := make([]float64, len(samples))
	copy(out, samples)

	for f := 0; f < totalFrames; f++ {
		frame := out[f*frameSize : (f+1)*frameSize]
		spectrum := fft.FFTReal(frame)
		for bin, c := range spectrum {
			mag := cmplxAbs(c)
			if mag == 0 {
				continue
			}
			clean := mag - profile[bin]
			if floor := spectralFloor * mag; clean < floor {
				clean = floor
			}
			scale := complex(clean/mag, 0)
			spectrum[bin] *= scale
		}
		for i, c := range fft.IFFT(spectrum) {
			frame[i] = real(c)
		}
	}
	// The tail shorter than one frame is left as-is.

	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// readMono decodes a WAV file into a mono float64 signal in [-1, 1].
func readMono(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("input is not a valid WAV audio file")
	}

	var divisor float64
	switch decoder.BitDepth {
	case 16:
		divisor = 32768.0
	case 24:
		divisor = 8388608.0
	case 32:
		divisor = 2147483648.0
	default:
		return nil, 0, fmt.Errorf("unsupported bit depth: %d", decoder.BitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		return nil, 0, fmt.Errorf("invalid channel count: %d", channels)
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels) / divisor
	}

	return samples, int(decoder.SampleRate), nil
}

// writeMono rewrites path as a 16-bit mono WAV at the given sample rate. The
// new content replaces the file with a temp-and-rename so a failed write
// never leaves a truncated artifact.
func writeMono(path string, samples []float64, sampleRate int) error {
	tempPath := path + ".tmp"
	outFile, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := wav.NewEncoder(outFile, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		v := int(math.Round(s * 32767.0))
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		data[i] = v
	}

	if err := enc.Write(&audio.IntBuffer{
		Data:   data,
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: 1},
	}); err != nil {
		outFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write filtered audio: %w", err)
	}
	if err := enc.Close(); err != nil {
		outFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize filtered audio: %w", err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close filtered audio: %w", err)
	}

	return os.Rename(tempPath, path)
}
