// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/depthaudio/internal/audiotest"
)

// onlyReader hides Seek so the buffering path is used
type onlyReader struct{ io.Reader }

func readAll(t *testing.T, data []byte) ([]float32, int, int) {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []float32
	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	return out, src.SampleRate(), src.Channels()
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bits    int
		samples []int
		want    []float32
	}{
		{"8-bit unsigned", 8, []int{128, 192, 0, 255}, []float32{0, 0.5, -1, 127.0 / 128}},
		{"16-bit", 16, []int{0, 16384, -32768, 32767}, []float32{0, 0.5, -1, 32767.0 / 32768}},
		{"24-bit", 24, []int{0, 4194304, -8388608}, []float32{0, 0.5, -1}},
		{"32-bit", 32, []int{0, 1073741824, math.MinInt32}, []float32{0, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, rate, ch := readAll(t, audiotest.WAV(8000, 1, tt.bits, tt.samples))
			if rate != 8000 || ch != 1 {
				t.Errorf("format = %d Hz %d ch, want 8000 Hz 1 ch", rate, ch)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-4 {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_MultiChannel(t *testing.T) {
	t.Parallel()

	samples := []int{100, 200, 300, 400, 500, 600}
	got, rate, ch := readAll(t, audiotest.WAV(44100, 3, 16, samples))

	if rate != 44100 || ch != 3 {
		t.Errorf("format = %d Hz %d ch, want 44100 Hz 3 ch", rate, ch)
	}
	if len(got) != len(samples) {
		t.Errorf("got %d samples, want %d", len(got), len(samples))
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV(8000, 1, 16, []int{1, 2, 3})
	src, err := Decoder{}.Decode(onlyReader{bytes.NewReader(data)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	invalidMarker := new(bytes.Buffer)
	invalidMarker.WriteString("RIFF")
	_ = binary.Write(invalidMarker, binary.LittleEndian, uint32(36))
	invalidMarker.WriteString("NOPE")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"garbage", []byte("NOT A WAV FILE DATA"), ErrNotWavFile},
		{"bad WAVE marker", invalidMarker.Bytes(), ErrNotWavFile},
		{"truncated", []byte("RIFF\x00"), ErrNotWavFile},
		{"float data", audiotest.WAVWithFormat(audiotest.WAVFormatFloat, 8000, 1, 32, []int{0, 1}), ErrUnsupportedEncoding},
		{"12-bit", audiotest.WAV(8000, 1, 12, []int{1, 2}), ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV(8000, 1, 16, []int{1, 2, 3})))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
	if src.BufSize() <= 0 {
		t.Errorf("BufSize() = %d, want positive", src.BufSize())
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV(8000, 1, 16, []int{100, 200})))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if n != 2 || (err != nil && err != io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v, want 2 samples", n, err)
	}

	for range 2 {
		n, err = src.ReadSamples(dst)
		if n != 0 || err != io.EOF {
			t.Errorf("ReadSamples() after end = %d, %v, want 0, EOF", n, err)
		}
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 44100*2)
	for i := range samples {
		samples[i] = i % 1000
	}
	data := audiotest.WAV(44100, 2, 16, samples)
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src, _ := Decoder{}.Decode(bytes.NewReader(data))
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
