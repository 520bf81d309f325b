package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the real filesystem.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a dotenv file into the process environment.
// Variables already set in the environment win.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
// Empty means none was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolve returns explicit paths from opts when set, otherwise the first
// existing candidate from the standard search locations.
func (r *Resolver) Resolve(serviceName string, opts Options) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

func configCandidates(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envCandidates(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/.env", serviceName),
		fmt.Sprintf("./.env.%s", serviceName),
		"./.env",
	}
}

// Options holds loader dependencies and optional overrides.
type Options struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix restricts environment overrides to variables starting with
	// PREFIX_. Defaults to the upper-cased service name.
	EnvPrefix string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

// Load reads configuration for serviceName into cfg, which must be a
// pointer to a struct with mapstructure tags.
//
// Precedence, lowest first: config file, .env file, process environment.
func Load(serviceName string, cfg any, opts ...Option) error {
	o := Options{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.EnvPrefix == "" {
		o.EnvPrefix = strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
	}

	resolver := &Resolver{FileSystem: o.FileSystem}
	files := resolver.Resolve(serviceName, o)

	v := viper.New()
	var empty []string
	if files.ConfigFile != "" {
		if !o.FileSystem.Exists(files.ConfigFile) {
			return fmt.Errorf("config file %s not found", files.ConfigFile)
		}
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
		// Must run before env binding: Get prefers overrides.
		empty = emptyMaps(v)
	}

	if files.EnvFile != "" && o.FileSystem.Exists(files.EnvFile) {
		if err := o.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", files.EnvFile, err)
		}
	}
	bindPrefixedEnv(v, o.EnvPrefix, os.Environ())

	settings := v.AllSettings()
	for _, path := range empty {
		restoreEmptyMap(settings, strings.Split(path, "."))
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", serviceName, err)
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", serviceName, err)
	}
	return nil
}

// emptyMaps returns the dotted paths of empty maps in the config file.
// Viper drops them from AllSettings, but an explicit {} is a value: a
// connection params block written as {} must decode to an empty map,
// not nil.
//
// Only subtrees holding at least one leaf are visited, since AllKeys is
// the sole view of the file's top level.
func emptyMaps(v *viper.Viper) []string {
	roots := map[string]bool{}
	for _, key := range v.AllKeys() {
		root, _, nested := strings.Cut(key, ".")
		if nested {
			roots[root] = true
		}
	}
	var out []string
	for root := range roots {
		if m, ok := v.Get(root).(map[string]any); ok {
			collectEmptyMaps(root, m, &out)
		}
	}
	return out
}

func collectEmptyMaps(prefix string, m map[string]any, out *[]string) {
	for k, val := range m {
		child, ok := val.(map[string]any)
		if !ok {
			continue
		}
		path := prefix + "." + strings.ToLower(k)
		if len(child) == 0 {
			*out = append(*out, path)
			continue
		}
		collectEmptyMaps(path, child, out)
	}
}

// restoreEmptyMap puts an empty map at path unless something already
// occupies it.
func restoreEmptyMap(settings map[string]any, path []string) {
	m := settings
	for _, seg := range path[:len(path)-1] {
		switch next := m[seg].(type) {
		case map[string]any:
			m = next
		case nil:
			child := map[string]any{}
			m[seg] = child
			m = child
		default:
			return
		}
	}
	if _, ok := m[path[len(path)-1]]; !ok {
		m[path[len(path)-1]] = map[string]any{}
	}
}

// bindPrefixedEnv sets every PREFIX_A_B_C variable under each key variant
// it could address (a.b.c, a.b_c, a_b.c, ...). Unknown keys are ignored
// on decode.
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	head := prefix + "_"
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, head) {
			continue
		}
		for _, key := range keyVariants(strings.TrimPrefix(name, head)) {
			v.Set(key, value)
		}
	}
}

// maxKeyParts bounds the 2^(n-1) expansion in keyVariants.
const maxKeyParts = 12

// keyVariants expands an env suffix into every dot/underscore split of
// its parts: LOGGING_NO_COLOR yields logging.no.color, logging_no.color,
// logging.no_color and logging_no_color.
func keyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	if len(parts) > maxKeyParts {
		return []string{strings.Join(parts, "."), strings.Join(parts, "_")}
	}
	n := len(parts) - 1
	out := make([]string, 0, 1<<n)
	var b strings.Builder
	for mask := 0; mask < 1<<n; mask++ {
		b.Reset()
		b.WriteString(parts[0])
		for i, part := range parts[1:] {
			if mask&(1<<i) != 0 {
				b.WriteByte('_')
			} else {
				b.WriteByte('.')
			}
			b.WriteString(part)
		}
		out = append(out, b.String())
	}
	return out
}
