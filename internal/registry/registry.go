// Package registry loads the set of chat and whisper models named in
// configuration once at startup, building an immutable alias → model
// lookup table.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/chatengine"
	"github.com/llmserver/llmserver/internal/whisper"
)

// Registry is the immutable, fully-initialized set of models available to
// the HTTP layer, keyed by alias.
type Registry struct {
	chat    map[string]*chatengine.Model
	whisper map[string]*whisper.Model
	runtime *chatengine.Runtime
}

// Load initializes every configured model, aborting startup on the first
// failure: a registry is either fully initialized or never returned, so
// partial startup never serves traffic. Chat and whisper models load
// concurrently since each is independent once duplicate aliases are
// ruled out; the shared llama.cpp runtime handle is initialized at most
// once regardless of load order. libDir is where the llama.cpp shared
// library lives/installs.
func Load(libDir string, chatConfigs []chatengine.Config, whisperConfigs []whisper.Config) (*Registry, error) {
	reg := &Registry{
		chat:    make(map[string]*chatengine.Model, len(chatConfigs)),
		whisper: make(map[string]*whisper.Model, len(whisperConfigs)),
		runtime: chatengine.NewRuntime(libDir),
	}

	seen := make(map[string]bool, len(chatConfigs))
	for _, cfg := range chatConfigs {
		if seen[cfg.Alias] {
			return nil, apierr.Config(fmt.Sprintf("duplicate chat model alias %q", cfg.Alias), nil)
		}
		seen[cfg.Alias] = true
	}
	seenW := make(map[string]bool, len(whisperConfigs))
	for _, cfg := range whisperConfigs {
		if seenW[cfg.Alias] {
			return nil, apierr.Config(fmt.Sprintf("duplicate whisper model alias %q", cfg.Alias), nil)
		}
		seenW[cfg.Alias] = true
	}

	var mu sync.Mutex
	var g errgroup.Group

	for _, cfg := range chatConfigs {
		cfg := cfg
		g.Go(func() error {
			m, err := chatengine.Load(reg.runtime, cfg)
			if err != nil {
				return fmt.Errorf("chat model %q: %w", cfg.Alias, err)
			}
			mu.Lock()
			reg.chat[cfg.Alias] = m
			mu.Unlock()
			return nil
		})
	}
	for _, cfg := range whisperConfigs {
		cfg := cfg
		g.Go(func() error {
			m, err := whisper.Load(cfg)
			if err != nil {
				return fmt.Errorf("whisper model %q: %w", cfg.Alias, err)
			}
			slog.Info("loaded whisper model", "alias", cfg.Alias, "device", m.Device())
			mu.Lock()
			reg.whisper[cfg.Alias] = m
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		reg.closeAll()
		return nil, err
	}

	return reg, nil
}

// GetChat looks up a chat model by alias.
func (r *Registry) GetChat(alias string) (*chatengine.Model, bool) {
	m, ok := r.chat[alias]
	return m, ok
}

// GetWhisper looks up a whisper model by alias.
func (r *Registry) GetWhisper(alias string) (*whisper.Model, bool) {
	m, ok := r.whisper[alias]
	return m, ok
}

// Close releases every loaded model's resources and the shared llama.cpp
// runtime. Call once at process shutdown.
func (r *Registry) Close() {
	r.closeAll()
	r.runtime.Close()
}

func (r *Registry) closeAll() {
	for _, m := range r.chat {
		m.Close()
	}
	for _, m := range r.whisper {
		m.Close()
	}
}
