package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readstat/internal/config"
	"github.com/verte-zerg/readstat/internal/watch"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# readstat configuration
# Uncomment a value to enable it. CLI flags override config values.

[analyze]
# format = %q                 # text, json or table
# markdown = false             # Treat every input as Markdown
# save = false                 # Record results in history
# exclude-proper-nouns = false # Count only common polysyllabic words
# workers = 0                  # Parallel workers (0 = CPU count)

[history]
# last = 0                     # Limit to the last N analyses (0 = all)
# window = %d                   # Moving average window for trends

[watch]
# debounce = %q            # Quiet period before re-analyzing
# max-batch = %d               # Changed files that force an early re-analysis
# save = false                 # Record every re-analysis in history

[log]
# level = "warn"               # debug, info, warn or error
# json = false                 # Log as JSON lines
`,
		defaultFormat,
		defaultWindow,
		watch.DefaultDebounce.String(),
		watch.DefaultMaxBatch,
	)
}
