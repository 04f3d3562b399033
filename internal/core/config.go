package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LogConfig controls daemon logging.
type LogConfig struct {
	// Level is the minimum severity to emit: debug, info, warn, error.
	// Empty means info.
	Level string `yaml:"level,omitempty"`
}

// Config is the top-level daemon configuration.
type Config struct {
	// Listen overrides the platform default IPC endpoint (Unix socket
	// path or Named Pipe name).
	Listen string `yaml:"listen,omitempty"`
	// IdleTimeout shuts the daemon down after all clients have been
	// gone this long, e.g. "2m". Empty or "0" keeps it running.
	IdleTimeout string `yaml:"idle_timeout,omitempty"`
	// PIDFile overrides the platform default pidfile location.
	PIDFile string    `yaml:"pid_file,omitempty"`
	Logging LogConfig `yaml:"logging,omitempty"`
}

// IdleGrace returns the parsed idle_timeout. Zero means idle shutdown
// is disabled.
func (c Config) IdleGrace() (time.Duration, error) {
	if c.IdleTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_timeout %q: %w", c.IdleTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("idle_timeout must not be negative: %q", c.IdleTimeout)
	}
	return d, nil
}

// defaultConfig returns the configuration written on first run.
func defaultConfig() Config {
	return Config{
		Logging: LogConfig{Level: "info"},
	}
}

// ConfigManager handles loading, saving, and hot-reloading configuration.
type ConfigManager struct {
	mu       sync.RWMutex
	config   Config
	filePath string
	bus      *EventBus
	logger   *zap.SugaredLogger
}

// NewConfigManager creates a config manager that reads from the given
// file. Reloads are announced on bus as EventConfigReloaded.
func NewConfigManager(logger *zap.SugaredLogger, filePath string, bus *EventBus) *ConfigManager {
	return &ConfigManager{
		filePath: filePath,
		bus:      bus,
		logger:   logger.Named("config"),
	}
}

// Load reads and parses the configuration from disk.
// If the config file does not exist, it creates one with default values.
func (cm *ConfigManager) Load() error {
	data, err := os.ReadFile(cm.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			cm.logger.Infow("Config not found, creating default config", "path", cm.filePath)
			cm.mu.Lock()
			cm.config = defaultConfig()
			cm.mu.Unlock()
			if saveErr := cm.Save(); saveErr != nil {
				return fmt.Errorf("failed to create default config: %w", saveErr)
			}
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", cm.filePath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.IdleGrace(); err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	cm.mu.Lock()
	cm.config = cfg
	cm.mu.Unlock()

	if cm.bus != nil {
		cm.bus.Publish(Event{Type: EventConfigReloaded})
	}

	return nil
}

// Save writes the current configuration to disk.
func (cm *ConfigManager) Save() error {
	cm.mu.RLock()
	data, err := yaml.Marshal(&cm.config)
	cm.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", cm.filePath, err)
	}

	return nil
}

// Get returns a copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// WatchFile watches the config file and reloads it on writes. Blocks
// until ctx is done.
func (cm *ConfigManager) WatchFile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace files
	// on save and a file watch dies with the old inode.
	dir := filepath.Dir(cm.filePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	const (
		// Many editors write a file twice in quick succession.
		minTimeBetweenReloads = 500 * time.Millisecond
		// Let the editor finish flushing before reading.
		settleDelay = 50 * time.Millisecond
	)
	lastReload := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(cm.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			now := time.Now()
			if now.Sub(lastReload) < minTimeBetweenReloads {
				continue
			}
			lastReload = now
			time.Sleep(settleDelay)
			if err := cm.Load(); err != nil {
				cm.logger.Warnw("Failed to reload config file", "error", err)
				continue
			}
			cm.logger.Infow("Config reloaded", "path", cm.filePath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cm.logger.Warnw("Config watcher error", "error", err)
		}
	}
}
