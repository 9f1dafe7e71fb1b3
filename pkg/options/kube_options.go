package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*KubeOptions)(nil)

// KubeOptions contains configuration for Kubernetes client interactions.
type KubeOptions struct {
	// Namespace is the namespace the advisor itself runs in. Component
	// subscriptions are discovered across all namespaces.
	Namespace string `json:"namespace" mapstructure:"namespace"`

	// KubeConfig is the path to the kubeconfig file.
	// If empty, it defaults to in-cluster config or standard KUBECONFIG env.
	KubeConfig string `json:"kubeconfig" mapstructure:"kubeconfig"`

	// FetchWorkers bounds the number of concurrent per-component detail
	// fetches while building an inventory snapshot.
	FetchWorkers int `json:"fetch-workers" mapstructure:"fetch-workers"`

	// FetchTimeout is the deadline for gathering one full inventory
	// snapshot. Components not collected in time are omitted.
	FetchTimeout time.Duration `json:"fetch-timeout" mapstructure:"fetch-timeout"`
}

// NewKubeOptions creates a new KubeOptions with default values.
func NewKubeOptions() *KubeOptions {
	return &KubeOptions{
		Namespace:    "upilot-system",
		KubeConfig:   "",
		FetchWorkers: 8,
		FetchTimeout: 30 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *KubeOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.FetchWorkers < 1 {
		errors = append(errors, fmt.Errorf("kube.fetch-workers must be at least 1, got %d", o.FetchWorkers))
	}

	return errors
}

// AddFlags adds flags for KubeOptions to the specified FlagSet.
func (o *KubeOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Namespace, "kube.namespace", o.Namespace, "The Kubernetes namespace the advisor operates in.")
	fs.StringVar(&o.KubeConfig, "kube.kubeconfig", o.KubeConfig, "Path to kubeconfig file with authorization and master location information.")
	fs.IntVar(&o.FetchWorkers, "kube.fetch-workers", o.FetchWorkers, "Maximum concurrent component detail fetches per snapshot.")
	fs.DurationVar(&o.FetchTimeout, "kube.fetch-timeout", o.FetchTimeout, "Deadline for building one inventory snapshot.")
}
