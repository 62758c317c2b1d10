package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// ErrAudioDisabled 没有可用的音频上下文
var ErrAudioDisabled = errors.New("audio context not available")

// ResourceManager is responsible for loading and caching the engine's audio assets.
// Assets are read from an fs.FS (a directory on disk or an embedded tree), so the
// same code serves desktop builds, mobile bindings and tests.
//
// Supported formats: MP3 (.mp3), OGG Vorbis (.ogg) and WAV (.wav).
//
// This implementation is NOT thread-safe; all loading happens on the game loop.
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(os.DirFS("assets"), audioContext)
//	player, err := rm.LoadMusic("audio/bgm.mp3")
type ResourceManager struct {
	fsys         fs.FS
	audioContext *audio.Context           // may be nil when audio is disabled
	audioCache   map[string]*audio.Player // path -> Player
}

// NewResourceManager creates a ResourceManager reading from fsys.
//
// Parameters:
//   - fsys: the asset tree; nil means no assets are available
//   - audioContext: the process-wide audio context; nil disables audio playback
func NewResourceManager(fsys fs.FS, audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		fsys:         fsys,
		audioContext: audioContext,
		audioCache:   make(map[string]*audio.Player),
	}
}

// AudioContext returns the audio context, or nil when audio is disabled.
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// Exists reports whether the asset exists.
func (rm *ResourceManager) Exists(name string) bool {
	if rm.fsys == nil || name == "" {
		return false
	}
	_, err := fs.Stat(rm.fsys, name)
	return err == nil
}

// ReadFile reads a whole asset into memory.
func (rm *ResourceManager) ReadFile(name string) ([]byte, error) {
	if rm.fsys == nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(rm.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// LoadMusic loads a looping background track and caches the player.
//
// Parameters:
//   - name: asset path inside the asset tree (e.g., "audio/bgm.mp3")
//
// Returns:
//   - A player that loops forever once started.
//   - An error if the file is missing, cannot be decoded, or audio is disabled.
func (rm *ResourceManager) LoadMusic(name string) (*audio.Player, error) {
	return rm.loadPlayer(name, true)
}

// LoadSoundEffect loads a one-shot sound effect and caches the player.
// Unlike LoadMusic, the stream is NOT wrapped in an infinite loop.
func (rm *ResourceManager) LoadSoundEffect(name string) (*audio.Player, error) {
	return rm.loadPlayer(name, false)
}

// GetAudioPlayer retrieves a previously loaded player, or nil.
func (rm *ResourceManager) GetAudioPlayer(name string) *audio.Player {
	return rm.audioCache[name]
}

func (rm *ResourceManager) loadPlayer(name string, loop bool) (*audio.Player, error) {
	if cached, ok := rm.audioCache[name]; ok {
		return cached, nil
	}

	data, err := rm.ReadFile(name)
	if err != nil {
		return nil, err
	}

	stream, err := decodeAudio(name, data)
	if err != nil {
		return nil, err
	}

	if rm.audioContext == nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", name, ErrAudioDisabled)
	}

	var src io.Reader = stream
	if loop {
		src = audio.NewInfiniteLoop(stream, stream.Length())
	}

	player, err := rm.audioContext.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", name, err)
	}

	rm.audioCache[name] = player
	return player, nil
}

// decodedStream is what every ebiten decoder returns.
type decodedStream interface {
	io.ReadSeeker
	Length() int64
}

// decodeAudio decodes in-memory audio data based on the file extension.
func decodeAudio(name string, data []byte) (decodedStream, error) {
	reader := bytes.NewReader(data)
	ext := strings.ToLower(path.Ext(name))

	switch ext {
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", name, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", name, err)
		}
		return s, nil
	case ".wav":
		s, err := wav.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", name, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}
}
