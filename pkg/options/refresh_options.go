package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RefreshOptions)(nil)

// RefreshOptions configures the periodic snapshot refresh loop.
type RefreshOptions struct {
	// Interval between two snapshot refreshes.
	Interval time.Duration `json:"interval" mapstructure:"interval"`

	// ClusterName identifies this cluster in published notifications.
	ClusterName string `json:"cluster-name" mapstructure:"cluster-name"`
}

// NewRefreshOptions creates a new RefreshOptions with default values.
func NewRefreshOptions() *RefreshOptions {
	return &RefreshOptions{
		Interval:    15 * time.Minute,
		ClusterName: "default",
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *RefreshOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Interval < time.Minute {
		errors = append(errors, fmt.Errorf("refresh.interval must be at least 1m, got %s", o.Interval))
	}

	return errors
}

// AddFlags adds flags for RefreshOptions to the specified FlagSet.
func (o *RefreshOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.Interval, "refresh.interval", o.Interval, "Interval between inventory snapshot refreshes.")
	fs.StringVar(&o.ClusterName, "refresh.cluster-name", o.ClusterName, "Cluster name used in published notifications.")
}
