package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

// AdvisorOptions aggregates all flag groups of the advisor server.
type AdvisorOptions struct {
	KubeOptions      *options.KubeOptions      `json:"kube" mapstructure:"kube"`
	HttpOptions      *options.HttpOptions      `json:"http" mapstructure:"http"`
	MqttOptions      *options.MqttOptions      `json:"mqtt" mapstructure:"mqtt"`
	LifecycleOptions *options.LifecycleOptions `json:"lifecycle" mapstructure:"lifecycle"`
	RefreshOptions   *options.RefreshOptions   `json:"refresh" mapstructure:"refresh"`
	Log              *log.Options              `json:"log" mapstructure:"log"`
}

func NewAdvisorOptions() *AdvisorOptions {
	return &AdvisorOptions{
		KubeOptions:      options.NewKubeOptions(),
		HttpOptions:      options.NewHttpOptions(),
		MqttOptions:      options.NewMqttOptions(),
		LifecycleOptions: options.NewLifecycleOptions(),
		RefreshOptions:   options.NewRefreshOptions(),
		Log:              log.NewOptions(),
	}
}

func (o *AdvisorOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.KubeOptions.AddFlags(fss.FlagSet("kube"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.LifecycleOptions.AddFlags(fss.FlagSet("lifecycle"))
	o.RefreshOptions.AddFlags(fss.FlagSet("refresh"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *AdvisorOptions) Complete() error {
	return nil
}

func (o *AdvisorOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.KubeOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.LifecycleOptions.Validate()...)
	errs = append(errs, o.RefreshOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *AdvisorOptions) Config() (*advisor.Config, error) {
	return &advisor.Config{
		KubeOptions:      o.KubeOptions,
		HttpOptions:      o.HttpOptions,
		MqttOptions:      o.MqttOptions,
		LifecycleOptions: o.LifecycleOptions,
		RefreshOptions:   o.RefreshOptions,
	}, nil
}
