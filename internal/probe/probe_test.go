package probe

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Music video in an MP4 container with:
//   - 1 H.264 video stream
//   - 1 AAC stereo audio stream
//   - 1 attached cover image
//   - container tags in mixed case, as ffprobe reports them
const sampleMusicVideo = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": { "language": "und" }
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 2,
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": { "language": "eng" }
    },
    {
      "index": 2,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "disposition": { "default": 0, "attached_pic": 1 }
    }
  ],
  "format": {
    "filename": "/videos/Band - Song.mp4",
    "nb_streams": 3,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "215.040000",
    "size": "48123904",
    "bit_rate": "1790321",
    "tags": {
      "title": "Song",
      "ARTIST": "Band",
      "creation_time": "2021-05-01T00:00:00.000000Z",
      "encoder": "Lavf58.29.100"
    }
  }
}`

// Screen recording without any audio stream or tags.
const sampleSilent = `{
  "streams": [
    { "index": 0, "codec_name": "vp9", "codec_type": "video" }
  ],
  "format": {
    "filename": "/videos/capture.webm",
    "nb_streams": 1,
    "format_name": "matroska,webm",
    "duration": "12.5"
  }
}`

func TestParseJSON_MusicVideo(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleMusicVideo))
	require.NoError(t, err)

	assert.Equal(t, "Band", pr.Format.Tags["ARTIST"])
	assert.Equal(t, "Song", pr.Format.Tags["title"])

	require.Len(t, pr.AudioStreams, 1, "video and cover streams are not audio")
	assert.Equal(t, Stream{Index: 1, Codec: "aac"}, pr.AudioStreams[0])
}

func TestParseJSON_MultipleAudioStreams(t *testing.T) {
	pr, err := ParseJSON([]byte(`{
	  "streams": [
	    { "index": 0, "codec_name": "h264", "codec_type": "video" },
	    { "index": 1, "codec_name": "aac", "codec_type": "audio" },
	    { "index": 2, "codec_name": "subrip", "codec_type": "subtitle" },
	    { "index": 3, "codec_name": "ac3", "codec_type": "audio" }
	  ],
	  "format": { "tags": {} }
	}`))
	require.NoError(t, err)

	assert.Equal(t, []Stream{{Index: 1, Codec: "aac"}, {Index: 3, Codec: "ac3"}}, pr.AudioStreams)
}

func TestParseJSON_NoAudioNoTags(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleSilent))
	require.NoError(t, err)

	assert.Empty(t, pr.AudioStreams)
	assert.Nil(t, pr.Format.Tags)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"format": `))
	assert.Error(t, err)
}

func TestProbe_MissingBinary(t *testing.T) {
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "no-ffprobe"), "x.mp4")
	assert.Error(t, err)
}

func TestProbe_Synthetic(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	path := filepath.Join(t.TempDir(), "clip.mkv")
	gen := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=1:size=160x120:rate=10",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1",
		"-metadata", "title=Probe Me",
		"-shortest", "-y", path,
	)
	require.NoError(t, gen.Run())

	pr, err := Probe(context.Background(), "", path)
	require.NoError(t, err)
	assert.Len(t, pr.AudioStreams, 1)
	assert.Equal(t, "Probe Me", pr.Format.Tags["title"])
}
