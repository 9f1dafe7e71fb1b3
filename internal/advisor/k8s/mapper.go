package k8s

import (
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/pkg/semver"
)

var (
	clusterVersionGVK = schema.GroupVersionKind{
		Group: "config.openshift.io", Version: "v1", Kind: "ClusterVersion",
	}
	subscriptionListGVK = schema.GroupVersionKind{
		Group: "operators.coreos.com", Version: "v1alpha1", Kind: "SubscriptionList",
	}
	clusterServiceVersionGVK = schema.GroupVersionKind{
		Group: "operators.coreos.com", Version: "v1alpha1", Kind: "ClusterServiceVersion",
	}
	packageManifestGVK = schema.GroupVersionKind{
		Group: "packages.operators.coreos.com", Version: "v1", Kind: "PackageManifest",
	}
)

// platformFromClusterVersion converts the cluster's ClusterVersion
// object into the platform part of a snapshot. Available updates are
// normalized to ascending release order so that index 0 is always the
// immediately-next update.
func platformFromClusterVersion(obj *unstructured.Unstructured) *model.PlatformSnapshot {
	snapshot := &model.PlatformSnapshot{}

	snapshot.CurrentVersion, _, _ = unstructured.NestedString(obj.Object, "status", "desired", "version")
	snapshot.DesiredVersion = snapshot.CurrentVersion
	snapshot.Channel, _, _ = unstructured.NestedString(obj.Object, "spec", "channel")
	snapshot.EUS = strings.Contains(snapshot.Channel, "eus")

	if history, found, _ := unstructured.NestedSlice(obj.Object, "status", "history"); found && len(history) > 0 {
		// The first completed history entry is the version actually
		// running, which may lag behind the desired one mid-rollout.
		for _, raw := range history {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			state, _, _ := unstructured.NestedString(entry, "state")
			if state != "Completed" {
				continue
			}
			if v, _, _ := unstructured.NestedString(entry, "version"); v != "" {
				snapshot.CurrentVersion = v
			}
			break
		}
	}

	if updates, found, _ := unstructured.NestedSlice(obj.Object, "status", "availableUpdates"); found {
		for _, raw := range updates {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if v, _, _ := unstructured.NestedString(entry, "version"); v != "" {
				snapshot.AvailableUpdates = append(snapshot.AvailableUpdates, v)
			}
		}
		sortAscending(snapshot.AvailableUpdates)
	}

	return snapshot
}

// sortAscending orders versions oldest first. Unparsable versions sink
// to the end in their original relative order.
func sortAscending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		pi, pj := semver.Parsable(versions[i]), semver.Parsable(versions[j])
		if pi != pj {
			return pi
		}
		ord, ok := semver.Compare(versions[i], versions[j])
		return ok && ord == semver.Less
	})
}

// installationFromSubscription maps a Subscription plus its installed
// ClusterServiceVersion to an installation fact. The CSV may be nil
// when it could not be fetched; the subscription alone still identifies
// the component.
func installationFromSubscription(sub, csv *unstructured.Unstructured) model.ComponentInstallation {
	inst := model.ComponentInstallation{
		Namespace: sub.GetNamespace(),
	}

	inst.Name, _, _ = unstructured.NestedString(sub.Object, "spec", "name")
	if inst.Name == "" {
		inst.Name = sub.GetName()
	}
	inst.CurrentChannel, _, _ = unstructured.NestedString(sub.Object, "spec", "channel")
	inst.CatalogSource, _, _ = unstructured.NestedString(sub.Object, "spec", "source")

	approval, _, _ := unstructured.NestedString(sub.Object, "spec", "installPlanApproval")
	inst.AutoApproval = approval == "" || approval == "Automatic"

	inst.InstalledAt = sub.GetCreationTimestamp().Time

	if csv != nil {
		inst.CurrentVersion, _, _ = unstructured.NestedString(csv.Object, "spec", "version")
		inst.DisplayName, _, _ = unstructured.NestedString(csv.Object, "spec", "displayName")
		inst.UpdatedAt = csv.GetCreationTimestamp().Time
	}
	if inst.CurrentVersion == "" {
		// Fall back to the version embedded in the installed CSV name,
		// e.g. "etcd-operator.v3.5.9".
		installed, _, _ := unstructured.NestedString(sub.Object, "status", "installedCSV")
		inst.CurrentVersion = semver.Clean(installed)
	}

	return inst
}

// installedCSVName returns the name of the CSV a subscription resolved
// to, preferring the installed one over the pending one.
func installedCSVName(sub *unstructured.Unstructured) string {
	if name, _, _ := unstructured.NestedString(sub.Object, "status", "installedCSV"); name != "" {
		return name
	}
	name, _, _ := unstructured.NestedString(sub.Object, "status", "currentCSV")
	return name
}

// channelsFromPackageManifest extracts the update channels a component's
// catalog entry publishes.
func channelsFromPackageManifest(obj *unstructured.Unstructured) []model.Channel {
	raw, found, _ := unstructured.NestedSlice(obj.Object, "status", "channels")
	if !found {
		return nil
	}

	channels := make([]model.Channel, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		var ch model.Channel
		ch.Name, _, _ = unstructured.NestedString(entry, "name")
		ch.CurrentVersion, _, _ = unstructured.NestedString(entry, "currentCSVDesc", "version")
		if ch.CurrentVersion == "" {
			currentCSV, _, _ := unstructured.NestedString(entry, "currentCSV")
			ch.CurrentVersion = semver.Clean(currentCSV)
		}

		if dep, found, _ := unstructured.NestedMap(entry, "deprecation"); found {
			ch.Deprecated = true
			ch.DeprecationMessage, _, _ = unstructured.NestedString(dep, "message")
		}

		ch.MinPlatformVersion, _, _ = unstructured.NestedString(entry, "currentCSVDesc", "annotations", "olm.minKubeVersion")
		ch.MaxPlatformVersion, _, _ = unstructured.NestedString(entry, "currentCSVDesc", "annotations", "olm.maxOpenShiftVersion")

		if entries, found, _ := unstructured.NestedSlice(entry, "entries"); found {
			for _, e := range entries {
				em, ok := e.(map[string]interface{})
				if !ok {
					continue
				}
				if v, _, _ := unstructured.NestedString(em, "version"); v != "" {
					ch.AvailableVersions = append(ch.AvailableVersions, v)
				}
			}
			sortAscending(ch.AvailableVersions)
		}

		channels = append(channels, ch)
	}

	return channels
}
