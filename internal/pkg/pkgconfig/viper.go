package pkgconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GOTABULAR_TABULAR_ROW_LIMIT
// overrides tabular.row_limit.
const EnvPrefix = "GOTABULAR"

var _ Config = (*Viper)(nil)

type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at configPath, whose extension selects the format.
// Precedence from lowest to highest: defaults, file, GOTABULAR_* variables.
// The file is watched, so reloaded values are seen by later Get calls.
func NewViper(configPath string, defaults map[string]any) (*Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", filepath.Base(configPath), err)
	}
	v.WatchConfig()

	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return strings.TrimSpace(vc.v.GetString(key))
}

// GetDuration accepts Go duration strings ("250ms") as well as bare
// integers, which are read as milliseconds.
func (vc *Viper) GetDuration(key string) time.Duration {
	switch raw := vc.v.Get(key).(type) {
	case nil:
		return 0
	case string:
		if ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
		return vc.v.GetDuration(key)
	case time.Duration:
		return raw
	default:
		return time.Duration(vc.v.GetInt64(key)) * time.Millisecond
	}
}

// GetStrings reads a YAML list or a comma separated string (the form an
// environment variable takes). Blank items are dropped.
func (vc *Viper) GetStrings(key string) []string {
	var items []string
	if s, ok := vc.v.Get(key).(string); ok {
		items = strings.Split(s, ",")
	} else {
		items = vc.v.GetStringSlice(key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close is a no-op; viper holds no resources that need releasing.
func (vc *Viper) Close() error {
	return nil
}
