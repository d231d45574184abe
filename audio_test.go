package sprig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type mapCatalog map[string]SoundInfo

func (c mapCatalog) Sound(name string) (SoundInfo, error) {
	if s, ok := c[name]; ok {
		return s, nil
	}
	if name == "broken" {
		return SoundInfo{}, errors.New("catalog offline")
	}
	return SoundInfo{}, ErrUnknownSound
}

func TestMixerVolumes(t *testing.T) {
	m := NewMixer(nil, nil)
	if m.EffectiveMusicVolume() != 1 || m.SoundVolume("ui") != 1 {
		t.Fatal("volumes do not start at 1")
	}
	m.SetMainVolume(0.5)
	m.SetMusicVolume(1.5)
	m.SetSoundVolume("ui", 0.4)
	m.SetSoundVolume("steps", -1)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"main", m.MainVolume(), 0.5},
		{"music clamped", m.MusicVolume(), 1},
		{"effective music", m.EffectiveMusicVolume(), 0.5},
		{"effective ui", m.EffectiveSoundVolume("ui"), 0.2},
		{"clamped category", m.EffectiveSoundVolume("steps"), 0},
		{"unset category", m.EffectiveSoundVolume("voice"), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestEffectFadeIn(t *testing.T) {
	m := NewMixer(nil, nil)
	m.SetSoundVolume("ui", 0.8)
	fx := &effect{category: "ui", fadeIn: 200, elapsed: 50}
	if got := fx.volume(m); got != 0.2 {
		t.Errorf("fading volume = %v, want 0.2", got)
	}
	fx.elapsed = 300
	if got := fx.volume(m); got != 0.8 {
		t.Errorf("faded-in volume = %v, want 0.8", got)
	}
}

func TestPlaySoundErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "click.ogg"), []byte("not vorbis"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewMixer(nil, nil).PlaySound("click", false, 0, 0); !errors.Is(err, ErrUnknownSound) {
		t.Errorf("no catalog: %v, want ErrUnknownSound", err)
	}

	m := NewMixer(mapCatalog{"click": {Path: "click.ogg", Category: "ui"}}, nil)
	m.SoundDir = dir
	tests := []struct {
		name  string
		sound string
		want  error
	}{
		{"unknown name", "boom", ErrUnknownSound},
		{"catalog failure", "broken", ErrUnknownSound},
		{"undecodable file", "click", ErrResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.PlaySound(tt.sound, false, 0, 0); !errors.Is(err, tt.want) {
				t.Errorf("PlaySound(%q) = %v, want %v", tt.sound, err, tt.want)
			}
		})
	}
	if m.Playing() != 0 {
		t.Errorf("Playing = %d after failures", m.Playing())
	}
}

func TestPlayMusicMissingFile(t *testing.T) {
	m := NewMixer(nil, nil)
	m.MusicDir = t.TempDir()
	if err := m.PlayMusic("theme.ogg", true); !errors.Is(err, ErrResource) {
		t.Errorf("PlayMusic = %v, want ErrResource", err)
	}
	if m.MusicBusy() || m.Music() != "" {
		t.Error("failed track left state behind")
	}
	m.PauseMusic()
	m.UnpauseMusic()
	m.StopMusic()
}

func TestDecodeAudioFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeAudio(path, false); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("decodeAudio = %v, want unsupported format", err)
	}
}

func TestMixerResolve(t *testing.T) {
	m := NewMixer(nil, nil)
	abs, _ := filepath.Abs("x.ogg")
	tests := []struct {
		dir, path, want string
	}{
		{"assets/sounds", "click.ogg", filepath.Join("assets/sounds", "click.ogg")},
		{"assets/sounds", abs, abs},
		{"", "click.ogg", "click.ogg"},
	}
	for _, tt := range tests {
		if got := m.resolve(tt.dir, tt.path); got != tt.want {
			t.Errorf("resolve(%q, %q) = %q, want %q", tt.dir, tt.path, got, tt.want)
		}
	}
}
