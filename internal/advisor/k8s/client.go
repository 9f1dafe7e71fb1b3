package k8s

import (
	apiextensionsscheme "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/scheme"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	controllerclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/config"

	"github.com/upgradepilot-io/upgradepilot/pkg/log"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

// NewScheme builds the scheme for the advisor's clients: the standard
// client-go types (the lifecycle overrides ConfigMap is read typed)
// plus the apiextensions types. Platform and operator resources are
// read as unstructured objects and need no registration.
func NewScheme() *runtime.Scheme {
	upilotscheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(upilotscheme)) // Standard types like v1.ConfigMap.
	utilruntime.Must(apiextensionsscheme.AddToScheme(upilotscheme))
	return upilotscheme
}

// InitializeK8sClient creates the client the inventory adapter and the
// lifecycle overrides repository read with.
func InitializeK8sClient(opts *options.KubeOptions) (controllerclient.Client, error) {
	var cfg *rest.Config
	var err error

	if opts.KubeConfig != "" {
		// Local development config
		cfg, err = clientcmd.BuildConfigFromFlags("", opts.KubeConfig)
	} else {
		cfg, err = config.GetConfig()
	}
	if err != nil {
		log.Error(err, "failed to get kubernetes config")
		return nil, err
	}

	k8sclient, err := controllerclient.New(cfg, controllerclient.Options{Scheme: NewScheme()})
	if err != nil {
		log.Error(err, "failed to create kubernetes client")
		return nil, err
	}

	return k8sclient, nil
}
