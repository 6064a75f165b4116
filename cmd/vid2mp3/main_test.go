package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/vid2mp3/internal/check"
	"github.com/backmassage/vid2mp3/internal/pipeline"
)

const stubFfmpeg = `#!/bin/sh
case "$*" in
  *-version*) echo "ffmpeg version 6.1.1" ;;
  *-encoders*) echo " A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)" ;;
esac
exit 0
`

const stubFfprobe = "#!/bin/sh\necho \"ffprobe version 6.1.1\"\nexit 0\n"

type cliEnv struct {
	base string
	in   string
	out  string
}

// setupCLIEnv isolates the command from the user's config and PATH and
// provides stub ffmpeg/ffprobe binaries.
func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}

	base := t.TempDir()
	binDir := filepath.Join(base, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(stubFfmpeg), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(stubFfprobe), 0o755))

	t.Setenv("HOME", base)
	t.Setenv("PATH", binDir)
	t.Setenv("NO_COLOR", "1")
	chdir(t, base)

	env := &cliEnv{base: base, in: filepath.Join(base, "in"), out: filepath.Join(base, "out")}
	require.NoError(t, os.MkdirAll(env.in, 0o755))
	return env
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRoot_DryRunWritesNothing(t *testing.T) {
	env := setupCLIEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.in, "a.mp4"), []byte("video"), 0o644))

	err := execute(t, "--dry-run", "--no-color", env.in, env.out)
	require.NoError(t, err)
	assert.NoDirExists(t, env.out)
}

func TestRoot_EmptyInputCreatesOutput(t *testing.T) {
	env := setupCLIEnv(t)

	require.NoError(t, execute(t, env.in, env.out))
	assert.DirExists(t, env.out)

	entries, err := os.ReadDir(env.out)
	require.NoError(t, err)
	assert.Empty(t, entries, "no lock file is left in the output tree")
}

func TestRoot_TooManyArgs(t *testing.T) {
	setupCLIEnv(t)
	assert.Error(t, execute(t, "a", "b", "c"))
}

func TestRoot_MissingInput(t *testing.T) {
	env := setupCLIEnv(t)
	err := execute(t, filepath.Join(env.base, "nope"), env.out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not found")
}

func TestRoot_OutputEqualsInput(t *testing.T) {
	env := setupCLIEnv(t)
	assert.Error(t, execute(t, env.in, env.in))
}

func TestRoot_MissingFfmpegFails(t *testing.T) {
	env := setupCLIEnv(t)
	t.Setenv("PATH", t.TempDir())

	err := execute(t, env.in, env.out)
	require.Error(t, err)
	assert.ErrorIs(t, err, check.ErrFfmpegNotFound)
	assert.NoDirExists(t, env.out, "nothing is created before the dependency check")
}

func TestRoot_InvalidConfigValue(t *testing.T) {
	env := setupCLIEnv(t)
	t.Setenv("VID2MP3_AUDIO_QUALITY", "12")
	assert.Error(t, execute(t, env.in, env.out))
}

func TestRoot_LockHeld(t *testing.T) {
	env := setupCLIEnv(t)
	require.NoError(t, os.MkdirAll(env.out, 0o755))
	lock, err := pipeline.AcquireLock(env.out)
	require.NoError(t, err)
	defer lock.Release()

	err = execute(t, env.in, env.out)
	assert.ErrorIs(t, err, pipeline.ErrLocked)
}

func TestRoot_Check(t *testing.T) {
	setupCLIEnv(t)
	assert.NoError(t, execute(t, "--check"))
}

func TestRoot_CheckFailsWithoutFfmpeg(t *testing.T) {
	setupCLIEnv(t)
	t.Setenv("PATH", t.TempDir())
	assert.ErrorIs(t, execute(t, "--check"), errChecksFailed)
}

func TestRoot_ConfigFile(t *testing.T) {
	env := setupCLIEnv(t)
	cfgPath := filepath.Join(env.base, "custom.toml")
	content := "input_dir = \"" + env.in + "\"\noutput_dir = \"" + env.out + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	require.NoError(t, execute(t, "--config", cfgPath))
	assert.DirExists(t, env.out)
}

// chdir changes the working directory for the duration of the test.
// Stand-in for testing.T.Chdir, which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
