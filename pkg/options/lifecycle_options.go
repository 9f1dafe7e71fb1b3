package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*LifecycleOptions)(nil)

// LifecycleOptions configures the lifecycle metadata provider: the remote
// lifecycle service, the local cache, and the in-cluster override source.
type LifecycleOptions struct {
	// Endpoint is the base URL of the remote lifecycle metadata service.
	// Empty means only ConfigMap overrides and conservative defaults apply.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Timeout bounds a single remote lookup.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// CacheTTL is the staleness window for cached lifecycle entries.
	CacheTTL time.Duration `json:"cache-ttl" mapstructure:"cache-ttl"`

	// OverridesConfigMap names a ConfigMap in the advisor namespace whose
	// entries override remote lifecycle facts. Empty disables overrides.
	OverridesConfigMap string `json:"overrides-configmap" mapstructure:"overrides-configmap"`
}

// NewLifecycleOptions creates a new LifecycleOptions with default values.
func NewLifecycleOptions() *LifecycleOptions {
	return &LifecycleOptions{
		Endpoint:           "",
		Timeout:            10 * time.Second,
		CacheTTL:           30 * time.Minute,
		OverridesConfigMap: "",
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *LifecycleOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Endpoint != "" {
		if _, err := url.ParseRequestURI(o.Endpoint); err != nil {
			errors = append(errors, fmt.Errorf("lifecycle.endpoint is not a valid URL: %w", err))
		}
	}
	if o.CacheTTL <= 0 {
		errors = append(errors, fmt.Errorf("lifecycle.cache-ttl must be positive, got %s", o.CacheTTL))
	}

	return errors
}

// AddFlags adds flags for LifecycleOptions to the specified FlagSet.
func (o *LifecycleOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Endpoint, "lifecycle.endpoint", o.Endpoint, "Base URL of the remote lifecycle metadata service.")
	fs.DurationVar(&o.Timeout, "lifecycle.timeout", o.Timeout, "Timeout for one remote lifecycle lookup.")
	fs.DurationVar(&o.CacheTTL, "lifecycle.cache-ttl", o.CacheTTL, "Staleness window for cached lifecycle entries.")
	fs.StringVar(&o.OverridesConfigMap, "lifecycle.overrides-configmap", o.OverridesConfigMap, "ConfigMap with lifecycle metadata overrides.")
}
