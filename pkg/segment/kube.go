package segment

import (
	"fmt"
	"path/filepath"

	"k8s.io/client-go/tools/clientcmd"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type kubeArgs struct {
	Kubeconfig    string `args:"kubeconfig"`
	ShowNamespace bool   `args:"show_namespace"`
	ShowIcon      bool   `args:"show_icon"`
}

type kubeProvider struct{ args kubeArgs }

func newKube(raw map[string]any) (Provider, error) {
	p := kubeProvider{args: kubeArgs{ShowNamespace: true, ShowIcon: true}}
	if err := decodeArgs(theme.KindKube, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

// kubeconfigPaths follows kubectl: the explicit arg, else $KUBECONFIG, else
// ~/.kube/config.
func (p kubeProvider) kubeconfigPaths(c *Context) []string {
	if p.args.Kubeconfig != "" {
		return []string{p.args.Kubeconfig}
	}
	if v := c.Getenv(clientcmd.RecommendedConfigPathEnvVar); v != "" {
		return filepath.SplitList(v)
	}
	if home := c.Getenv("HOME"); home != "" {
		return []string{filepath.Join(home, clientcmd.RecommendedHomeDir, clientcmd.RecommendedFileName)}
	}
	return nil
}

// Compute shows the current kubeconfig context. It reads kubeconfig only and
// never contacts a cluster.
func (p kubeProvider) Compute(c *Context) ([]render.Fragment, error) {
	paths := p.kubeconfigPaths(c)
	if len(paths) == 0 {
		return nil, nil
	}
	rules := &clientcmd.ClientConfigLoadingRules{Precedence: paths}
	cfg, err := rules.Load()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}
	name := cfg.CurrentContext
	if name == "" {
		return nil, nil
	}

	text := name
	if kctx, ok := cfg.Contexts[name]; ok && p.args.ShowNamespace && kctx.Namespace != "" {
		text += "/" + kctx.Namespace
	}
	if p.args.ShowIcon {
		text = c.Glyph(theme.KindKube, theme.SubDefault) + " " + text
	}
	return one(c.Fragment(theme.KindKube, theme.SubDefault, text)), nil
}
