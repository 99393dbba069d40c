package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.firstExisting(configSearchPaths(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.firstExisting([]string{
			fmt.Sprintf("./.env.%s", serviceName),
			"./.env",
			"./config/.env",
		})
	}
	return resolved
}

// configSearchPaths lists candidate config files in priority order.
func configSearchPaths(serviceName string) []string {
	paths := make([]string, 0, 12)
	for _, dir := range []string{fmt.Sprintf("./cmd/%s", serviceName), "./config", "."} {
		for _, name := range []string{serviceName, "config"} {
			for _, ext := range []string{"yml", "yaml"} {
				paths = append(paths, fmt.Sprintf("%s/%s.%s", dir, name, ext))
			}
		}
	}
	return paths
}

func (cr *Resolver) firstExisting(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Environment variable prefix; defaults to the service name
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix, without the trailing
// underscore.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for a service into the provided cfg struct.
// It searches for a config file and a .env file in standard locations,
// overlays prefixed environment variables, and unmarshals the result into
// cfg. A config file that exists but cannot be parsed is an error.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: envPrefix(serviceName)}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc)
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	log := logger.Get("config")
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidInput("config", fmt.Sprintf("cannot read %s", files.ConfigFile)).WithCause(err)
		}
		log.Debug("Config file loaded", logger.Fields("file", files.ConfigFile))
	}

	// .env values never override variables already set in the process.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("Failed to load .env file", logger.MergeWithError(logger.Fields("file", files.EnvFile), err))
		}
	}

	bindPrefixedEnv(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidInput("config", fmt.Sprintf("cannot decode config for %s", serviceName)).WithCause(err)
	}
	return nil
}

// envPrefix derives "MY_SVC" from "my-svc".
func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(serviceName))
}

// bindPrefixedEnv sets every PREFIX_* variable on v under each nested key
// spelling it could stand for.
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	if prefix == "" {
		return
	}
	prefix += "_"

	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) || key == prefix {
			continue
		}
		for _, variant := range generateEnvKeyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates all possible key variants for environment variable binding.
// Examples:
//
//	CHARSET_DEFAULT -> [charset_default, charset.default]
//	REDIS_KEY_PREFIX -> [redis_key_prefix, redis.key.prefix, redis.key_prefix]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Every split point between nesting and a snake_case leaf.
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
