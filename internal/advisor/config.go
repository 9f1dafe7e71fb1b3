package advisor

import (
	"fmt"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/engine"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/service"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/k8s"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/lifecycle"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/notifier"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/refresh"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/server"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/server/http"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

// Config aggregates every option group the advisor needs.
type Config struct {
	KubeOptions      *options.KubeOptions
	HttpOptions      *options.HttpOptions
	MqttOptions      *options.MqttOptions
	LifecycleOptions *options.LifecycleOptions
	RefreshOptions   *options.RefreshOptions
}

// NewAdvisorServer wires the adapters into the core service and the
// servers around it.
func (cfg *Config) NewAdvisorServer() (*AdvisorServer, error) {
	k8sClient, err := k8s.InitializeK8sClient(cfg.KubeOptions)
	if err != nil {
		return nil, err
	}

	// Secondary adapters: inventory and lifecycle sources.
	inventory := k8s.NewInventoryRepository(k8sClient, cfg.KubeOptions, nil)

	var overrides core.LifecycleRepository
	if cfg.LifecycleOptions.OverridesConfigMap != "" {
		overrides = lifecycle.NewOverridesRepository(k8sClient, cfg.KubeOptions.Namespace, cfg.LifecycleOptions.OverridesConfigMap)
	}
	lifecycleRepo, err := lifecycle.Build(cfg.LifecycleOptions, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to init lifecycle provider: %w", err)
	}

	var bundleNotifier core.BundleNotifier
	if cfg.MqttOptions.Enabled() {
		mqttNotifier, err := notifier.NewMQTTNotifier(cfg.MqttOptions, cfg.RefreshOptions.ClusterName)
		if err != nil {
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		bundleNotifier = mqttNotifier
	}

	// Core domain service.
	svc := service.New(inventory, lifecycleRepo, bundleNotifier, engine.New(nil, nil), cfg.KubeOptions.FetchWorkers)

	// Primary adapters: the refresh loop and the API server.
	refresher := refresh.New(svc, cfg.RefreshOptions.Interval)
	httpSrv := http.NewServer(cfg.HttpOptions, svc, refresher)

	return &AdvisorServer{
		serverManager: server.NewManager(httpSrv, refresher),
	}, nil
}
