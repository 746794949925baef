package cli

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/crudswag/internal/emitter"
)

const envPrefix = "CRUDSWAG_"

// Config captures every input of the serve and dump commands after merging
// defaults, environment, config file values and CLI overrides.
type Config struct {
	Models            string   `json:"models"`
	Addr              string   `json:"addr"`
	TrustProxyHeaders bool     `json:"trustProxyHeaders"`
	Title             string   `json:"title"`
	Version           string   `json:"version"`
	Description       string   `json:"description"`
	BasePath          string   `json:"basePath"`
	Out               string   `json:"out"`
	Formats           []string `json:"format"`
	DryRun            bool     `json:"dryRun"`
	Force             bool     `json:"force"`
	LogLevel          string   `json:"logLevel"`
	Verbose           bool     `json:"verbose"`
	ConfigPath        string   `json:"-"`
}

func defaultConfig() Config {
	return Config{
		Addr:     ":8080",
		BasePath: "/api",
		Formats:  []string{string(emitter.FormatJSON)},
		LogLevel: "info",
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func applyEnv(cfg *Config) error {
	cfg.Models = getEnv(envPrefix+"MODELS", cfg.Models)
	cfg.Addr = getEnv(envPrefix+"ADDR", cfg.Addr)
	cfg.Title = getEnv(envPrefix+"TITLE", cfg.Title)
	cfg.Version = getEnv(envPrefix+"VERSION", cfg.Version)
	cfg.Description = getEnv(envPrefix+"DESCRIPTION", cfg.Description)
	cfg.BasePath = getEnv(envPrefix+"BASE_PATH", cfg.BasePath)
	cfg.Out = getEnv(envPrefix+"OUT", cfg.Out)
	cfg.LogLevel = getEnv(envPrefix+"LOG", cfg.LogLevel)
	if v, ok := os.LookupEnv(envPrefix + "FORMAT"); ok {
		cfg.Formats = splitAndTrim(v)
	}
	boolEnv := map[string]*bool{
		"VERBOSE":             &cfg.Verbose,
		"TRUST_PROXY_HEADERS": &cfg.TrustProxyHeaders,
	}
	for name, dst := range boolEnv {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		b, err := valueAsBool(v)
		if err != nil {
			return newUsageError(fmt.Sprintf("environment %s%s: %v", envPrefix, name, err))
		}
		*dst = b
	}
	return nil
}

func resolveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := defaultConfig()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return &cfg, nil
}

// changed reports whether a flag is defined on this command and was set.
func changed(flags *pflag.FlagSet, name string) bool {
	return flags.Lookup(name) != nil && flags.Changed(name)
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *Config) error {
	stringFlags := map[string]*string{
		"models":      &cfg.Models,
		"addr":        &cfg.Addr,
		"title":       &cfg.Title,
		"version":     &cfg.Version,
		"description": &cfg.Description,
		"base-path":   &cfg.BasePath,
		"out":         &cfg.Out,
		"log-level":   &cfg.LogLevel,
	}
	for name, dst := range stringFlags {
		if !changed(flags, name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = value
	}
	if changed(flags, "format") {
		value, err := flags.GetStringSlice("format")
		if err != nil {
			return err
		}
		cfg.Formats = value
	}
	boolFlags := map[string]*bool{
		"dry-run":             &cfg.DryRun,
		"force":               &cfg.Force,
		"verbose":             &cfg.Verbose,
		"trust-proxy-headers": &cfg.TrustProxyHeaders,
	}
	for name, dst := range boolFlags {
		if !changed(flags, name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}
	return nil
}

func (c *Config) normalize() {
	c.Models = strings.TrimSpace(c.Models)
	c.Addr = strings.TrimSpace(c.Addr)
	c.Title = strings.TrimSpace(c.Title)
	c.Version = strings.TrimSpace(c.Version)
	c.Description = strings.TrimSpace(c.Description)
	c.BasePath = strings.TrimSpace(c.BasePath)
	c.Out = strings.TrimSpace(c.Out)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	formats := make([]string, 0, len(c.Formats))
	seen := map[string]bool{}
	for _, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	c.Formats = formats
}

var basePathPattern = regexp.MustCompile(`^/`)

func knownFormats() []interface{} {
	var out []interface{}
	for _, f := range emitter.KnownFormats() {
		out = append(out, string(f))
	}
	return out
}

func (c *Config) commonRules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&c.Models, validation.Required.Error("is required (set via --models, config file or CRUDSWAG_MODELS)")),
		validation.Field(&c.BasePath, validation.Required, validation.Match(basePathPattern).Error("must start with /")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	}
}

func (c *Config) validateServe() error {
	rules := append(c.commonRules(),
		validation.Field(&c.Addr, validation.Required, validation.By(listenAddr)),
	)
	return asUsageError("serve", validation.ValidateStruct(c, rules...))
}

func (c *Config) validateDump() error {
	rules := append(c.commonRules(),
		validation.Field(&c.Out, validation.Required),
		validation.Field(&c.Formats, validation.Required, validation.Each(validation.In(knownFormats()...))),
	)
	return asUsageError("dump", validation.ValidateStruct(c, rules...))
}

// listenAddr accepts host:port where the host may be empty.
func listenAddr(value interface{}) error {
	s, _ := value.(string)
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return validation.NewError("validation_listen_addr", "must be a host:port listen address")
	}
	if err := is.Port.Validate(port); err != nil {
		return err
	}
	if host != "" {
		return is.Host.Validate(host)
	}
	return nil
}

func asUsageError(command string, err error) error {
	if err == nil {
		return nil
	}
	return newUsageError(fmt.Sprintf("%s: %v", command, err))
}

func applyConfigFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, node := range raw {
		var value any
		if err := node.Decode(&value); err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
		var err error
		switch normalizeKey(key) {
		case "models":
			cfg.Models, err = valueAsString(value)
			cfg.Models = relativeTo(path, cfg.Models)
		case "addr":
			cfg.Addr, err = valueAsString(value)
		case "trustproxyheaders":
			cfg.TrustProxyHeaders, err = valueAsBool(value)
		case "title":
			cfg.Title, err = valueAsString(value)
		case "version":
			cfg.Version, err = scalarText(&node)
		case "description":
			cfg.Description, err = valueAsString(value)
		case "basepath":
			cfg.BasePath, err = valueAsString(value)
		case "out":
			cfg.Out, err = valueAsString(value)
		case "format", "formats":
			cfg.Formats, err = valueAsStringSlice(value)
		case "dryrun":
			cfg.DryRun, err = valueAsBool(value)
		case "force":
			cfg.Force, err = valueAsBool(value)
		case "loglevel":
			cfg.LogLevel, err = valueAsString(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

// relativeTo resolves a relative catalog path against the config file's
// directory. URLs and absolute paths are returned unchanged.
func relativeTo(configPath, p string) string {
	if p == "" || strings.Contains(p, "://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

// scalarText returns a scalar's source text, so `version: 1.0` stays "1.0"
// instead of passing through a float.
func scalarText(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected a scalar value, got %s", node.ShortTag())
	}
	if node.ShortTag() == "!!null" {
		return "", nil
	}
	return strings.TrimSpace(node.Value), nil
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
