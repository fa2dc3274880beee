// Package config loads the server's TOML configuration file, following a
// load+os.ExpandEnv+applyDefaults pattern via github.com/pelletier/go-toml/v2.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/llmserver/llmserver/internal/chatformat"
)

// ChatModel describes one configured chat model entry in the config file.
type ChatModel struct {
	ModelID     string `toml:"model_id"`
	Alias       string `toml:"alias"`
	Tokenizer   string `toml:"tokenizer"`
	CPU         *bool  `toml:"cpu"`
	Seed        uint32 `toml:"seed"`
	GQA         int    `toml:"gqa"`
	ContextSize int    `toml:"context_size"`
	ChatFormat  string `toml:"chat_format"`
}

// WhisperModel describes one configured whisper model entry in the
// config file; cpu and quantized are *bool (not plain bool) because both
// default to true, which a zero-value bool can't distinguish from an
// explicit false.
type WhisperModel struct {
	ModelID   string `toml:"model_id"`
	Alias     string `toml:"alias"`
	CPU       *bool  `toml:"cpu"`
	Seed      uint64 `toml:"seed"`
	Quantized *bool  `toml:"quantized"`
}

// Config is the top-level shape of the TOML config file.
type Config struct {
	Host    string         `toml:"host"`
	Port    int            `toml:"port"`
	LibDir  string         `toml:"lib_dir"`
	Chat    []ChatModel    `toml:"chat_configs"`
	Whisper []WhisperModel `toml:"whisper_configs"`
}

// Load reads and parses a TOML config file at path, expanding ${VAR}
// environment references before parsing, then applying defaults for
// every field the file leaves unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses raw TOML bytes after expanding ${VAR} references.
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := toml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, err
	}
	applyDefaults(&c)
	return c, nil
}

const defaultSeed = 299792458 // arbitrary constant used upstream; kept for parity

// applyDefaults fills in this server's documented defaults for every
// field the config file leaves unset.
func applyDefaults(c *Config) {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.LibDir == "" {
		c.LibDir = "./lib"
	}
	for i := range c.Chat {
		if c.Chat[i].ChatFormat == "" {
			c.Chat[i].ChatFormat = string(chatformat.ChatML)
		}
		if c.Chat[i].ContextSize == 0 {
			c.Chat[i].ContextSize = 4096
		}
		if c.Chat[i].CPU == nil {
			c.Chat[i].CPU = boolPtr(true)
		}
		if c.Chat[i].Seed == 0 {
			c.Chat[i].Seed = defaultSeed
		}
	}
	for i := range c.Whisper {
		if c.Whisper[i].Seed == 0 {
			c.Whisper[i].Seed = defaultSeed
		}
		if c.Whisper[i].CPU == nil {
			c.Whisper[i].CPU = boolPtr(true)
		}
		if c.Whisper[i].Quantized == nil {
			c.Whisper[i].Quantized = boolPtr(true)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
