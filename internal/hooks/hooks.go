package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/postgenie/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".postgenie.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	File    string // Path of the exported CSV file
	Count   int    // Number of exported posts
	Session string
}

// PostExport returns the post-export hook, or nil when none is configured.
func (c *Config) PostExport() *HookConfig {
	if c == nil {
		return nil
	}
	return c.Hooks.PostExport
}

// Execute runs hook through sh in workDir and returns what it printed.
// {{file}}, {{count}} and {{session}} are expanded in the command and also
// exported as POSTGENIE_EXPORT_FILE, POSTGENIE_EXPORT_COUNT and
// POSTGENIE_SESSION. A failing or timed-out hook is reported in the output,
// not as an error; only cancellation of ctx is returned.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	limit := hook.timeout()
	logger.Debug("Running post-export hook (timeout %s): %s", limit, command)

	runCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), vars.environ()...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	runErr := cmd.Run()

	switch {
	case ctx.Err() != nil:
		return "", ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		logger.Warn("Post-export hook exceeded %s: %s", limit, command)
		return fmt.Sprintf("[Hook timed out after %s]\nPartial output:\n%s", limit, stdout.String()), nil
	case runErr != nil:
		logger.Warn("Post-export hook failed: %v", runErr)
		return fmt.Sprintf("[Hook command failed: %v]\n%s", runErr, joinOutput(&stdout, &stderr)), nil
	}

	out := joinOutput(&stdout, &stderr)
	logger.Debug("Post-export hook printed %d bytes", len(out))
	return out, nil
}

func (h *HookConfig) timeout() time.Duration {
	if h.Timeout <= 0 {
		return DefaultTimeout * time.Second
	}
	return time.Duration(h.Timeout) * time.Second
}

func (v Variables) environ() []string {
	return []string{
		"POSTGENIE_EXPORT_FILE=" + v.File,
		"POSTGENIE_EXPORT_COUNT=" + strconv.Itoa(v.Count),
		"POSTGENIE_SESSION=" + v.Session,
	}
}

// joinOutput appends stderr below stdout under a marker.
func joinOutput(stdout, stderr *bytes.Buffer) string {
	if stderr.Len() == 0 {
		return stdout.String()
	}
	return stdout.String() + "\n[stderr]\n" + stderr.String()
}

// expandVariables replaces {{variable}} placeholders in the command string.
func expandVariables(command string, vars Variables) string {
	replacements := map[string]string{
		"{{file}}":    shellQuote(vars.File),
		"{{count}}":   strconv.Itoa(vars.Count),
		"{{session}}": shellQuote(vars.Session),
	}

	result := command
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// shellQuote wraps s in single quotes for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
