package assets

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a 16 bit stereo PCM file with the given frames.
func writeWAV(t *testing.T, path string, frames int) {
	t.Helper()
	const channels, bits = 2, 16
	dataLen := frames * channels * bits / 8

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&b, binary.LittleEndian, uint32(SampleRate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(SampleRate*channels*bits/8))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels*bits/8))
	_ = binary.Write(&b, binary.LittleEndian, uint16(bits))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
}

func TestDecodePCM_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain.wav")
	writeWAV(t, path, 64)

	pcm, err := decodePCM(SampleRate, path)
	require.NoError(t, err)
	assert.Len(t, pcm, 64*4)
}

func TestDecodePCM_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := decodePCM(SampleRate, filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)

	flac := filepath.Join(dir, "rain.flac")
	touch(t, flac)
	_, err = decodePCM(SampleRate, flac)
	assert.True(t, errors.Is(err, ErrUnsupported))

	broken := filepath.Join(dir, "broken.wav")
	touch(t, broken)
	_, err = decodePCM(SampleRate, broken)
	assert.Error(t, err)
}

func TestDecodeImage(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.png")
	touch(t, broken)

	_, err := decodeImage(broken)
	assert.Error(t, err)
}
