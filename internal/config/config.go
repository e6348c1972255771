package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth      int `toml:"tab-width"`
	MaxStackDepth int `toml:"max-stack-depth"`
}

type TagsOptions struct {
	// File is the tag table consumed by the index. Relative paths are
	// resolved against the working directory.
	File string `toml:"file"`
	// Generate synthesizes a tag table from Go sources under Root when
	// File does not exist.
	Generate bool   `toml:"generate"`
	Root     string `toml:"root"`
}

type Keymap struct {
	// Motions remaps a single normal-mode key to a named motion,
	// e.g. "H" = "word-backward".
	Motions map[string]string `toml:"motions"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Tags   TagsOptions   `toml:"tags"`
	Keymap Keymap        `toml:"keymap"`
	Debug  bool          `toml:"debug"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:      4,
			MaxStackDepth: 20,
		},
		Tags: TagsOptions{
			File:     "tags",
			Generate: false,
			Root:     ".",
		},
		Keymap: Keymap{
			Motions: map[string]string{},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.MaxStackDepth > 0 {
		cfg.Editor.MaxStackDepth = userCfg.Editor.MaxStackDepth
	}
	if userCfg.Tags.File != "" {
		cfg.Tags.File = userCfg.Tags.File
	}
	if userCfg.Tags.Generate {
		cfg.Tags.Generate = true
	}
	if userCfg.Tags.Root != "" {
		cfg.Tags.Root = userCfg.Tags.Root
	}
	if userCfg.Keymap.Motions != nil {
		for k, v := range userCfg.Keymap.Motions {
			cfg.Keymap.Motions[k] = v
		}
	}
	if userCfg.Debug {
		cfg.Debug = true
	}

	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("VICMD_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "vicmd"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vicmd"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
