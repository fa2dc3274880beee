// Package cli wires the cobra root command: one required --configs flag,
// two optional positional host/port overrides, using persistent flags on
// a root cobra.Command and a package-level Run closure.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llmserver/llmserver/internal/chatengine"
	"github.com/llmserver/llmserver/internal/chatformat"
	"github.com/llmserver/llmserver/internal/config"
	"github.com/llmserver/llmserver/internal/httpserver"
	"github.com/llmserver/llmserver/internal/logging"
	"github.com/llmserver/llmserver/internal/registry"
	"github.com/llmserver/llmserver/internal/server"
	"github.com/llmserver/llmserver/internal/whisper"
)

var (
	configsPath string
	logLevel    string
)

// SetupRootCmd builds the "llmserver" root command: one required
// --configs flag, optional positional host/port overrides.
func SetupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "llmserver",
		Short: "Local OpenAI-compatible inference server for chat and Whisper models",
		Long: `llmserver loads one or more quantized chat models and Whisper speech-to-text
models from local disk and serves them over an OpenAI-compatible HTTP API:
POST /v1/chat/completions and POST /v1/audio/transcriptions.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hostOverride, portOverride string
			if len(args) > 0 {
				hostOverride = args[0]
			}
			if len(args) > 1 {
				portOverride = args[1]
			}
			return run(cmd.Context(), hostOverride, portOverride)
		},
	}

	rootCmd.Flags().StringVar(&configsPath, "configs", "", "path to the TOML configuration file (required)")
	rootCmd.MarkFlagRequired("configs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return rootCmd
}

func run(ctx context.Context, hostOverride, portOverride string) error {
	logging.Setup(logLevel)

	cfg, err := config.Load(configsPath)
	if err != nil {
		return fmt.Errorf("load config %q: %w", configsPath, err)
	}
	if hostOverride != "" {
		cfg.Host = hostOverride
	}
	if portOverride != "" {
		var port int
		if _, err := fmt.Sscanf(portOverride, "%d", &port); err != nil {
			return fmt.Errorf("invalid port override %q: %w", portOverride, err)
		}
		cfg.Port = port
	}

	chatConfigs := make([]chatengine.Config, 0, len(cfg.Chat))
	for _, c := range cfg.Chat {
		if !chatformat.Valid(c.ChatFormat) {
			return fmt.Errorf("alias %s: unknown chat_format %q", c.Alias, c.ChatFormat)
		}
		chatConfigs = append(chatConfigs, chatengine.Config{
			ModelID:     c.ModelID,
			Alias:       c.Alias,
			Tokenizer:   c.Tokenizer,
			CPU:         c.CPU == nil || *c.CPU,
			Seed:        c.Seed,
			GQA:         c.GQA,
			ChatFormat:  chatformat.Format(c.ChatFormat),
			ContextSize: c.ContextSize,
		})
	}

	whisperConfigs := make([]whisper.Config, 0, len(cfg.Whisper))
	for _, c := range cfg.Whisper {
		whisperConfigs = append(whisperConfigs, whisper.Config{
			ModelID:   c.ModelID,
			Alias:     c.Alias,
			CPU:       c.CPU == nil || *c.CPU,
			Seed:      c.Seed,
			Quantized: c.Quantized == nil || *c.Quantized,
		})
	}

	reg, err := registry.Load(cfg.LibDir, chatConfigs, whisperConfigs)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	defer reg.Close()

	handler := httpserver.NewRouter(reg)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return server.Run(sigCtx, addr, handler)
}
