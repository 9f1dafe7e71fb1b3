package k8s

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

// The lifecycle overrides repository reads typed ConfigMaps through the
// advisor's client, so the scheme must register the core group.
func TestNewSchemeRegistersCoreTypes(t *testing.T) {
	s := NewScheme()

	gvks, _, err := s.ObjectKinds(&corev1.ConfigMap{})
	require.NoError(t, err)
	require.NotEmpty(t, gvks)
	assert.Equal(t, "ConfigMap", gvks[0].Kind)
	assert.Equal(t, "v1", gvks[0].Version)
}
