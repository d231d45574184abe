package sprig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate is the audio context sample rate.
const SampleRate = 44100

// SoundInfo describes a named sound effect.
type SoundInfo struct {
	Path     string
	Category string
}

// SoundCatalog resolves sound names. Unknown names return an error wrapping
// ErrUnknownSound.
type SoundCatalog interface {
	Sound(name string) (SoundInfo, error)
}

// Mixer plays one music track and any number of sound effects. The
// effective volume of music is main*music and of a sound main*category.
type Mixer struct {
	// SoundDir and MusicDir prefix relative paths.
	SoundDir, MusicDir string

	catalog SoundCatalog
	logger  *slog.Logger
	audio   *audio.Context

	main   float64
	music  float64
	sounds map[string]float64

	track     *audio.Player
	trackPath string
	paused    bool
	effects   []*effect
}

// effect is a sound effect being played.
type effect struct {
	player   *audio.Player
	category string
	elapsed  float64
	maxTime  float64
	fadeIn   float64
}

// NewMixer creates a mixer resolving sound names through catalog. The audio
// device is opened on first playback.
func NewMixer(catalog SoundCatalog, logger *slog.Logger) *Mixer {
	if logger == nil {
		logger = discardLogger()
	}
	return &Mixer{
		SoundDir: "assets/sounds",
		MusicDir: "assets/musics",
		catalog:  catalog,
		logger:   logger,
		main:     1,
		music:    1,
		sounds:   make(map[string]float64),
	}
}

func (m *Mixer) context() *audio.Context {
	if m.audio == nil {
		if c := audio.CurrentContext(); c != nil {
			m.audio = c
		} else {
			m.audio = audio.NewContext(SampleRate)
		}
	}
	return m.audio
}

// --- Volumes ---

// SetMainVolume sets the master volume in [0,1].
func (m *Mixer) SetMainVolume(v float64) {
	m.main = clamp01(v)
	m.applyVolumes()
}

// MainVolume returns the master volume.
func (m *Mixer) MainVolume() float64 { return m.main }

// SetMusicVolume sets the music volume in [0,1].
func (m *Mixer) SetMusicVolume(v float64) {
	m.music = clamp01(v)
	m.applyVolumes()
}

// MusicVolume returns the music volume.
func (m *Mixer) MusicVolume() float64 { return m.music }

// SetSoundVolume sets the volume of a sound category in [0,1].
func (m *Mixer) SetSoundVolume(category string, v float64) {
	m.sounds[category] = clamp01(v)
	m.applyVolumes()
}

// SoundVolume returns the volume of category, 1 if never set.
func (m *Mixer) SoundVolume(category string) float64 {
	if v, ok := m.sounds[category]; ok {
		return v
	}
	return 1
}

// EffectiveMusicVolume is main*music.
func (m *Mixer) EffectiveMusicVolume() float64 { return m.main * m.music }

// EffectiveSoundVolume is main*sounds[category].
func (m *Mixer) EffectiveSoundVolume(category string) float64 {
	return m.main * m.SoundVolume(category)
}

func (m *Mixer) applyVolumes() {
	if m.track != nil {
		m.track.SetVolume(m.EffectiveMusicVolume())
	}
	for _, fx := range m.effects {
		fx.player.SetVolume(fx.volume(m))
	}
}

func (fx *effect) volume(m *Mixer) float64 {
	v := m.EffectiveSoundVolume(fx.category)
	if fx.fadeIn > 0 && fx.elapsed < fx.fadeIn {
		v *= fx.elapsed / fx.fadeIn
	}
	return v
}

// --- Music ---

// PlayMusic replaces the current track with the file at path.
func (m *Mixer) PlayMusic(path string, loop bool) error {
	m.StopMusic()
	full := m.resolve(m.MusicDir, path)
	src, err := decodeAudio(full, loop)
	if err != nil {
		return resourceError("music "+path, err)
	}
	p, err := m.context().NewPlayer(src)
	if err != nil {
		return resourceError("music "+path, err)
	}
	p.SetVolume(m.EffectiveMusicVolume())
	p.Play()
	m.track, m.trackPath, m.paused = p, path, false
	m.logger.Debug("music", slog.String("path", full), slog.Bool("loop", loop))
	return nil
}

// StopMusic stops and releases the current track.
func (m *Mixer) StopMusic() {
	if m.track == nil {
		return
	}
	if err := m.track.Close(); err != nil {
		m.logger.Warn("close music", slog.Any("error", err))
	}
	m.track, m.trackPath, m.paused = nil, "", false
}

// PauseMusic pauses the current track.
func (m *Mixer) PauseMusic() {
	if m.track != nil && m.track.IsPlaying() {
		m.track.Pause()
		m.paused = true
	}
}

// UnpauseMusic resumes a paused track.
func (m *Mixer) UnpauseMusic() {
	if m.track != nil && m.paused {
		m.track.Play()
		m.paused = false
	}
}

// MusicBusy reports whether a track is playing.
func (m *Mixer) MusicBusy() bool { return m.track != nil && m.track.IsPlaying() }

// Music returns the path of the current track.
func (m *Mixer) Music() string { return m.trackPath }

// --- Sounds ---

// PlaySound plays the named sound. maxTime stops it after that many
// milliseconds and fadeIn ramps its volume up; 0 disables either.
func (m *Mixer) PlaySound(name string, loop bool, maxTime, fadeIn float64) error {
	if m.catalog == nil {
		return fmt.Errorf("sprig: %w: %q (no sound catalog)", ErrUnknownSound, name)
	}
	info, err := m.catalog.Sound(name)
	if err != nil {
		if errors.Is(err, ErrUnknownSound) {
			return err
		}
		return fmt.Errorf("sprig: %w: %q: %v", ErrUnknownSound, name, err)
	}
	src, err := decodeAudio(m.resolve(m.SoundDir, info.Path), loop)
	if err != nil {
		return resourceError("sound "+name, err)
	}
	p, err := m.context().NewPlayer(src)
	if err != nil {
		return resourceError("sound "+name, err)
	}
	fx := &effect{player: p, category: info.Category, maxTime: maxTime, fadeIn: fadeIn}
	p.SetVolume(fx.volume(m))
	p.Play()
	m.effects = append(m.effects, fx)
	return nil
}

// Playing returns the number of sound effects still alive.
func (m *Mixer) Playing() int { return len(m.effects) }

// Update advances fades and time limits by dt milliseconds and releases
// finished sounds.
func (m *Mixer) Update(dt float64) {
	live := m.effects[:0]
	for _, fx := range m.effects {
		fx.elapsed += dt
		if (fx.maxTime > 0 && fx.elapsed >= fx.maxTime) || !fx.player.IsPlaying() {
			if err := fx.player.Close(); err != nil {
				m.logger.Warn("close sound", slog.Any("error", err))
			}
			continue
		}
		if fx.fadeIn > 0 {
			fx.player.SetVolume(fx.volume(m))
		}
		live = append(live, fx)
	}
	clear(m.effects[len(live):])
	m.effects = live
}

func (m *Mixer) resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// decodeAudio decodes an ogg, wav or mp3 file, looping it when asked.
func decodeAudio(path string, loop bool) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)
	var stream interface {
		io.ReadSeeker
		Length() int64
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(SampleRate, r)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(SampleRate, r)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(SampleRate, r)
	default:
		return nil, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if loop {
		return audio.NewInfiniteLoop(stream, stream.Length()), nil
	}
	return stream, nil
}
