// Package chatengine implements the chat-completion generation loop:
// prompt templating, tokenization, prefill, the decode loop with
// repeat-penalty and sampling, and streamed or aggregated output. It is
// built on github.com/hybridgroup/yzma/pkg/llama, a pure-Go (purego, no
// cgo) binding to llama.cpp.
package chatengine

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/hybridgroup/yzma/pkg/download"
	"github.com/hybridgroup/yzma/pkg/llama"
)

// Runtime owns the process-wide yzma/llama.cpp library handle. It never
// downloads model weights from a remote hub — those are assumed to
// already be on local disk, so the only thing Runtime ensures is that the
// llama.cpp shared library itself is present and initialized.
type Runtime struct {
	libDir string

	mu          sync.Mutex
	initialized bool
}

// NewRuntime creates a Runtime that looks for (and, if absent, installs)
// the llama.cpp shared library under libDir.
func NewRuntime(libDir string) *Runtime {
	return &Runtime{libDir: libDir}
}

// Init installs the llama.cpp library if needed and initializes yzma.
// Safe to call multiple times; idempotent after the first success.
func (r *Runtime) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	libName := download.LibraryName(runtime.GOOS)
	if !libraryPresent(r.libDir, libName) {
		version, err := download.LlamaLatestVersion()
		if err != nil {
			return fmt.Errorf("determine llama.cpp version: %w", err)
		}
		processor := "cpu"
		if runtime.GOOS == "darwin" {
			processor = "metal"
		}
		if err := download.Get(runtime.GOARCH, runtime.GOOS, processor, version, r.libDir); err != nil {
			if processor != "cpu" {
				if err := download.Get(runtime.GOARCH, runtime.GOOS, "cpu", version, r.libDir); err != nil {
					return fmt.Errorf("install llama.cpp (cpu fallback): %w", err)
				}
			} else {
				return fmt.Errorf("install llama.cpp: %w", err)
			}
		}
	}

	llama.Load(r.libDir)
	llama.LogSet(llama.LogSilent())
	llama.Init()

	r.initialized = true
	return nil
}

// Close shuts down yzma. Call once at process exit.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		llama.Close()
		r.initialized = false
	}
}
