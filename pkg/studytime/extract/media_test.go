//go:build media

package extract

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the real ffprobe and need ffmpeg to generate a clip:
// go test -tags media ./pkg/studytime/extract/...

func requireTools(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

func TestFFProbe_GeneratedClip(t *testing.T) {
	requireTools(t)

	clip := filepath.Join(t.TempDir(), "tone.mkv")
	out, err := exec.Command("ffmpeg", "-v", "error",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=2",
		clip).CombinedOutput()
	require.NoError(t, err, string(out))

	ms, err := NewFFProbe("", 0).ProbeDuration(clip)
	require.NoError(t, err)
	assert.InDelta(t, 2000, ms, 100)
}

func TestFFProbe_NotAMediaFile(t *testing.T) {
	requireTools(t)

	path := filepath.Join(t.TempDir(), "notes.mp4")
	require.NoError(t, exec.Command("sh", "-c", "echo plain text > "+path).Run())

	_, err := NewFFProbe("", 0).ProbeDuration(path)
	assert.ErrorIs(t, err, ErrExtraction)
}
