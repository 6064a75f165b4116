package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/library", "/media/library"},
		{"single trailing slash", "/media/library/", "/media/library"},
		{"multiple trailing slashes", "/media/library///", "/media/library"},
		{"root path", "/", "/"},
		{"relative path", "completed", "completed"},
		{"relative with slash", "completed/", "completed"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ".", cfg.InputDir)
	assert.Equal(t, "completed", cfg.OutputDir)
	assert.Equal(t, 0, cfg.AudioQuality)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.True(t, cfg.SkipExisting, "default SkipExisting should be true")
	assert.True(t, cfg.VerifyTags, "default VerifyTags should be true")
	assert.False(t, cfg.DryRun, "default DryRun should be false")
	require.NoError(t, cfg.Validate())
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"upper case is normalized", "NEVER", false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_AudioQuality(t *testing.T) {
	for _, q := range []int{0, 4, 9} {
		cfg := DefaultConfig()
		cfg.AudioQuality = q
		assert.NoError(t, cfg.Validate(), "quality %d", q)
	}
	for _, q := range []int{-1, 10} {
		cfg := DefaultConfig()
		cfg.AudioQuality = q
		assert.Error(t, cfg.Validate(), "quality %d", q)
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputDir = ""
	cfg.OutputDir = ""
	assert.Error(t, cfg.Validate(), "empty paths should fail when CheckOnly is false")

	cfg.CheckOnly = true
	assert.NoError(t, cfg.Validate(), "CheckOnly should not require paths")
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		wantErr bool
	}{
		{"separate directories", "/media/in", "/media/out", false},
		{"output equals input", "/media/lib", "/media/lib", true},
		{"output inside input is pruned later", "/media/lib", "/media/lib/completed", false},
		{"output is parent of input", "/media/lib/sub", "/media/lib", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.input, tt.output)
			assert.Equal(t, tt.wantErr, err != nil, "ValidatePaths(%q, %q) error = %v", tt.input, tt.output, err)
		})
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vid2mp3.toml")
	content := "input_dir = \"videos\"\noutput_dir = \"music\"\naudio_quality = 2\nverify_tags = false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("VID2MP3_AUDIO_QUALITY", "4")

	cfg := DefaultConfig()
	resolved, err := Load(path, &cfg)
	require.NoError(t, err)

	assert.Equal(t, path, resolved)
	assert.Equal(t, "videos", cfg.InputDir)
	assert.Equal(t, "music", cfg.OutputDir)
	assert.Equal(t, 4, cfg.AudioQuality, "environment overrides the file")
	assert.False(t, cfg.VerifyTags)
	assert.True(t, cfg.SkipExisting, "unset keys keep defaults")
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), &cfg)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("bitrate = \"320k\"\n"), 0o644))

	cfg := DefaultConfig()
	_, err := Load(path, &cfg)
	assert.Error(t, err)
}

func TestFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "no flags keeps defaults",
			args: nil,
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name: "positional args override paths",
			args: []string{"in/", "out/"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "in", cfg.InputDir)
				assert.Equal(t, "out", cfg.OutputDir)
			},
		},
		{
			name: "single positional arg keeps default output",
			args: []string{"videos"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "videos", cfg.InputDir)
				assert.Equal(t, "completed", cfg.OutputDir)
			},
		},
		{
			name: "force clears skip existing",
			args: []string{"--force"},
			check: func(t *testing.T, cfg Config) {
				assert.False(t, cfg.SkipExisting)
			},
		},
		{
			name: "no-color wins over color",
			args: []string{"--color", "--no-color"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, ColorNever, cfg.ColorMode)
			},
		},
		{
			name: "negated flags",
			args: []string{"--no-verify-tags", "--no-progress", "-q", "3"},
			check: func(t *testing.T, cfg Config) {
				assert.False(t, cfg.VerifyTags)
				assert.False(t, cfg.ShowProgress)
				assert.Equal(t, 3, cfg.AudioQuality)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flags
			fs := pflag.NewFlagSet("vid2mp3", pflag.ContinueOnError)
			f.Register(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg := DefaultConfig()
			require.NoError(t, f.Apply(fs, fs.Args(), &cfg))
			tt.check(t, cfg)
		})
	}
}

func TestFlagsApply_TooManyArgs(t *testing.T) {
	var f Flags
	fs := pflag.NewFlagSet("vid2mp3", pflag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"a", "b", "c"}))

	cfg := DefaultConfig()
	assert.Error(t, f.Apply(fs, fs.Args(), &cfg))
}
