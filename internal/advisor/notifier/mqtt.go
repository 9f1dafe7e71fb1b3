// Package notifier publishes recommendation summaries to external
// systems. Currently the only implementation is MQTT.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	pkgmqtt "github.com/upgradepilot-io/upgradepilot/pkg/mqtt"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

var _ core.BundleNotifier = (*MQTTNotifier)(nil)

// MQTTNotifier publishes a compact summary of each freshly generated
// bundle so that fleet tooling can react without polling the API.
type MQTTNotifier struct {
	client    pkgmqtt.Client
	topicRoot string
	cluster   string
}

// bundleSummary is the published payload: enough to triage from, small
// enough for constrained subscribers. Full detail stays on the API.
type bundleSummary struct {
	Cluster         string    `json:"cluster"`
	PlatformVersion string    `json:"platformVersion"`
	Components      int       `json:"components"`
	CriticalIssues  int       `json:"criticalIssues"`
	Paths           []string  `json:"paths"`
	Windows         []string  `json:"windows"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// NewMQTTNotifier creates a notifier and starts its broker connection.
func NewMQTTNotifier(opts *options.MqttOptions, cluster string) (*MQTTNotifier, error) {
	cfg := opts.ToClientConfig()
	if cfg.ClientID == "" {
		cfg.ClientID = "upilot-advisor-" + cluster
	}

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err := client.Start(context.Background()); err != nil {
		return nil, err
	}

	return &MQTTNotifier{
		client:    client,
		topicRoot: opts.TopicRoot,
		cluster:   cluster,
	}, nil
}

// Publish sends the bundle summary to
// {topicRoot}/clusters/{cluster}/recommendations, retained so late
// subscribers see the latest state.
func (n *MQTTNotifier) Publish(ctx context.Context, bundle *model.RecommendationBundle) error {
	topic := fmt.Sprintf("%s/clusters/%s/recommendations", n.topicRoot, n.cluster)

	payload, err := json.Marshal(summarize(n.cluster, bundle))
	if err != nil {
		return err
	}

	return n.client.Publish(ctx, topic, 1, true, payload)
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close(ctx context.Context) {
	n.client.Disconnect(ctx)
}

func summarize(cluster string, bundle *model.RecommendationBundle) bundleSummary {
	s := bundleSummary{
		Cluster:         cluster,
		PlatformVersion: bundle.Snapshot.CurrentVersion,
		Components:      len(bundle.Snapshot.Components),
		CriticalIssues:  bundle.Snapshot.CriticalIssueCount(),
		GeneratedAt:     bundle.GeneratedAt,
	}
	for _, p := range bundle.Paths {
		s.Paths = append(s.Paths, p.ID)
	}
	for _, w := range bundle.Windows {
		s.Windows = append(s.Windows, w.ID)
	}
	return s
}
