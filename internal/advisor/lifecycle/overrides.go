package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/internal/pkg/metrics"
)

// errNoOverride signals fall-through to the next repository in the
// chain. It intentionally does not wrap anything.
var errNoOverride = fmt.Errorf("no lifecycle override")

// overridesRepository reads operator-supplied lifecycle overrides from a
// ConfigMap. Each data key is "<component>@<version>" (or just
// "<component>" to match every version) and holds a JSON lifecycle
// entry. Missing keys fall through to the next repository.
type overridesRepository struct {
	reader    client.Reader
	namespace string
	name      string
}

var _ core.LifecycleRepository = (*overridesRepository)(nil)

// NewOverridesRepository creates a repository reading overrides from
// the named ConfigMap.
func NewOverridesRepository(reader client.Reader, namespace, name string) core.LifecycleRepository {
	return &overridesRepository{reader: reader, namespace: namespace, name: name}
}

func (r *overridesRepository) Lookup(ctx context.Context, component, version string) (model.LifecycleInfo, error) {
	var cm corev1.ConfigMap
	key := client.ObjectKey{Namespace: r.namespace, Name: r.name}
	if err := r.reader.Get(ctx, key, &cm); err != nil {
		return model.LifecycleInfo{}, fmt.Errorf("reading lifecycle overrides %s: %w", key, err)
	}

	raw, ok := cm.Data[component+"@"+version]
	if !ok {
		raw, ok = cm.Data[component]
	}
	if !ok {
		return model.LifecycleInfo{}, errNoOverride
	}

	var dto entryDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return model.LifecycleInfo{}, fmt.Errorf("invalid lifecycle override for %s/%s: %w", component, version, err)
	}

	metrics.LifecycleLookupTotal.WithLabelValues("override").Inc()
	return dto.toModel(component, version), nil
}
