package k8s

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

// stubClient overrides just the read methods the repository uses; any
// other client call panics.
type stubClient struct {
	client.Client
	get  func(ctx context.Context, key client.ObjectKey, obj client.Object) error
	list func(ctx context.Context, list client.ObjectList) error
}

func (s *stubClient) Get(ctx context.Context, key client.ObjectKey, obj client.Object, _ ...client.GetOption) error {
	return s.get(ctx, key, obj)
}

func (s *stubClient) List(ctx context.Context, list client.ObjectList, _ ...client.ListOption) error {
	return s.list(ctx, list)
}

func clusterVersionContent() map[string]interface{} {
	return map[string]interface{}{
		"status": map[string]interface{}{
			"desired": map[string]interface{}{"version": "4.16.0"},
		},
	}
}

func subscriptionObj(name, ns, pkg, csv string) unstructured.Unstructured {
	return unstructured.Unstructured{Object: map[string]interface{}{
		"metadata": map[string]interface{}{"name": name, "namespace": ns},
		"spec":     map[string]interface{}{"name": pkg},
		"status":   map[string]interface{}{"installedCSV": csv},
	}}
}

func TestSnapshotOmitsFailedComponents(t *testing.T) {
	c := &stubClient{
		get: func(_ context.Context, key client.ObjectKey, obj client.Object) error {
			switch key.Name {
			case "version":
				obj.(*unstructured.Unstructured).Object = clusterVersionContent()
				return nil
			case "etcd-operator.v3.5.9":
				obj.(*unstructured.Unstructured).Object = map[string]interface{}{
					"spec": map[string]interface{}{"version": "3.5.9", "displayName": "etcd Operator"},
				}
				return nil
			default:
				// The broken component's CSV and every package manifest.
				return errors.New("not found")
			}
		},
		list: func(_ context.Context, list client.ObjectList) error {
			list.(*unstructured.UnstructuredList).Items = []unstructured.Unstructured{
				subscriptionObj("etcd-sub", "etcd-system", "etcd-operator", "etcd-operator.v3.5.9"),
				subscriptionObj("bad-sub", "bad-system", "bad-operator", "bad-operator.v1.0.0"),
			}
			return nil
		},
	}

	repo := NewInventoryRepository(c, options.NewKubeOptions(), nil)
	snapshot, err := repo.Snapshot(context.Background())

	require.NoError(t, err, "one broken component must not fail the snapshot")
	assert.Equal(t, "4.16.0", snapshot.CurrentVersion)
	require.Len(t, snapshot.Components, 1)
	assert.Equal(t, "etcd-operator", snapshot.Components[0].Installation.Name)
	assert.Equal(t, "3.5.9", snapshot.Components[0].Installation.CurrentVersion)
}

func TestSnapshotFatalWithoutClusterVersion(t *testing.T) {
	c := &stubClient{
		get: func(_ context.Context, _ client.ObjectKey, _ client.Object) error {
			return errors.New("apiserver unavailable")
		},
	}

	repo := NewInventoryRepository(c, options.NewKubeOptions(), nil)
	_, err := repo.Snapshot(context.Background())

	assert.Error(t, err, "platform version data is mandatory")
}

func TestSnapshotCancellationIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	c := &stubClient{
		get: func(_ context.Context, key client.ObjectKey, obj client.Object) error {
			if key.Name == "version" {
				obj.(*unstructured.Unstructured).Object = clusterVersionContent()
				return nil
			}
			// Cancellation arrives mid-collection.
			cancel()
			return ctx.Err()
		},
		list: func(_ context.Context, list client.ObjectList) error {
			list.(*unstructured.UnstructuredList).Items = []unstructured.Unstructured{
				subscriptionObj("etcd-sub", "etcd-system", "etcd-operator", "etcd-operator.v3.5.9"),
			}
			return nil
		},
	}

	repo := NewInventoryRepository(c, options.NewKubeOptions(), nil)
	snapshot, err := repo.Snapshot(ctx)

	require.Error(t, err, "a cancelled snapshot is not served partial")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, snapshot)
}
