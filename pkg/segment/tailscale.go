package segment

import (
	"context"
	"fmt"
	"strings"

	"tailscale.com/client/local"
	"tailscale.com/ipn/ipnstate"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// TailscaleClient is the part of the tailscaled LocalAPI the segment uses.
// *local.Client satisfies it.
type TailscaleClient interface {
	StatusWithoutPeers(ctx context.Context) (*ipnstate.Status, error)
}

type tailscaleArgs struct {
	Socket      string `args:"socket"`
	Label       string `args:"label"`
	ShowStopped bool   `args:"show_stopped"`
}

type tailscaleProvider struct {
	args   tailscaleArgs
	client TailscaleClient
}

func newTailscale(raw map[string]any) (Provider, error) {
	p := tailscaleProvider{args: tailscaleArgs{Label: "hostname"}}
	if err := decodeArgs(theme.KindTailscale, raw, &p.args); err != nil {
		return nil, err
	}
	switch p.args.Label {
	case "hostname", "tailnet", "none":
	default:
		return nil, fmt.Errorf("segment tailscale: label must be hostname, tailnet or none, got %q", p.args.Label)
	}
	p.client = &local.Client{Socket: p.args.Socket}
	return p, nil
}

// Compute reports whether the node is connected to its tailnet and whether
// traffic leaves through an exit node. An unreachable daemon is an error,
// which the provider boundary turns into abstention.
func (p tailscaleProvider) Compute(c *Context) ([]render.Fragment, error) {
	ctx, cancel := c.Deadline()
	defer cancel()

	st, err := p.client.StatusWithoutPeers(ctx)
	if err != nil {
		return nil, fmt.Errorf("tailscale status: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("tailscale status: nil response")
	}

	if st.BackendState != "Running" {
		if !p.args.ShowStopped {
			return nil, nil
		}
		text := c.Glyph(theme.KindTailscale, "stopped") + " " + strings.ToLower(st.BackendState)
		return one(c.Fragment(theme.KindTailscale, "stopped", text)), nil
	}

	frags := []render.Fragment{c.Fragment(theme.KindTailscale, "running", p.label(c, st))}
	if ex := st.ExitNodeStatus; ex != nil && ex.Online {
		text := c.Glyph(theme.KindTailscale, "exit_node")
		if len(ex.TailscaleIPs) > 0 {
			text += " " + ex.TailscaleIPs[0].Addr().String()
		}
		frags = append(frags, c.Fragment(theme.KindTailscale, "exit_node", text))
	}
	return frags, nil
}

func (p tailscaleProvider) label(c *Context, st *ipnstate.Status) string {
	glyph := c.Glyph(theme.KindTailscale, "running")
	var name string
	switch p.args.Label {
	case "hostname":
		if st.Self != nil {
			name = st.Self.HostName
		}
	case "tailnet":
		if st.CurrentTailnet != nil {
			name = st.CurrentTailnet.Name
		}
	}
	if name == "" {
		return glyph
	}
	return glyph + " " + name
}
