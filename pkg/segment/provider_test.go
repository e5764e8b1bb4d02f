package segment

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tailscale.com/ipn/ipnstate"

	"gitlab.com/tinyland/lab/promptline/pkg/gitstate"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

func TestGitFragments(t *testing.T) {
	c := testContext(map[string]string{})
	tests := []struct {
		name string
		st   gitstate.State
		want []string
		bg   theme.Color
	}{
		{
			name: "clean branch",
			st:   gitstate.State{Head: gitstate.Head{Kind: gitstate.HeadBranch, Branch: "main"}},
			want: []string{"\uE0A0 main"},
			bg:   "148",
		},
		{
			name: "dirty detached with counters",
			st: gitstate.State{
				Head:        gitstate.Head{Kind: gitstate.HeadDetached, ShortID: "abc1234"},
				Operation:   gitstate.Operation{Kind: gitstate.OpRebase, Step: 2, Total: 5},
				AheadBehind: &gitstate.AheadBehind{Ahead: 1, Behind: 3},
				Status:      gitstate.Status{Staged: 2, Unstaged: 1, Untracked: 4, Conflicted: 1},
				Stash:       2,
			},
			want: []string{"⚓ abc1234", "↻ rebase 2/5", "1⬆", "3⬇", "2✔", "1✎", "4?", "1✼", "2⎘"},
			bg:   "161",
		},
		{
			name: "unborn",
			st:   gitstate.State{Head: gitstate.Head{Kind: gitstate.HeadUnborn, Branch: "trunk"}},
			want: []string{"\uE0A0 trunk"},
			bg:   "148",
		},
		{
			name: "in sync with upstream",
			st: gitstate.State{
				Head:        gitstate.Head{Kind: gitstate.HeadBranch, Branch: "main"},
				AheadBehind: &gitstate.AheadBehind{},
			},
			want: []string{"\uE0A0 main"},
			bg:   "148",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags := gitFragments(c, &tt.st, true)
			if diff := cmp.Diff(tt.want, texts(frags)); diff != "" {
				t.Errorf("fragments mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.bg, frags[0].Bg)
		})
	}
}

func TestGitProviderOptionsAndAbstention(t *testing.T) {
	var got gitstate.Options
	p := gitProvider{
		args: gitArgs{ShowUntracked: new(bool), ShortIDLength: 10},
		detect: func(start string, opts gitstate.Options) (*gitstate.State, error) {
			got = opts
			return nil, nil
		},
	}
	c := testContext(map[string]string{"PWD": "/work"})
	c.Git = gitstate.Options{OperationPriority: []gitstate.OperationKind{gitstate.OpMerge}}

	frags, err := p.Compute(c)
	require.NoError(t, err)
	assert.Empty(t, frags)
	assert.True(t, got.SkipUntracked)
	assert.Equal(t, 10, got.ShortIDLength)
	assert.Equal(t, []gitstate.OperationKind{gitstate.OpMerge}, got.OperationPriority)

	p.detect = func(string, gitstate.Options) (*gitstate.State, error) {
		return nil, gitstate.ErrUnsupportedRefStorage
	}
	_, err = p.Compute(c)
	assert.ErrorIs(t, err, gitstate.ErrUnsupportedRefStorage)
}

func TestLoad(t *testing.T) {
	p := loadProvider{
		args:  loadArgs{ShowIcon: true},
		avg:   func(context.Context) (*load.AvgStat, error) { return &load.AvgStat{Load1: 0.5}, nil },
		ncpus: func(context.Context) (int, error) { return 4, nil },
	}
	frags, err := p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"⚖ 0.50"}, texts(frags))
	assert.Equal(t, "load.normal", frags[0].Source)

	p.avg = func(context.Context) (*load.AvgStat, error) { return &load.AvgStat{Load1: 6.25}, nil }
	frags, err = p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"⚠ 6.25"}, texts(frags))

	p.args.HighThreshold = 8
	frags, err = p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "load.normal", frags[0].Source)

	p.avg = func(context.Context) (*load.AvgStat, error) { return nil, errors.New("no /proc") }
	_, err = p.Compute(testContext(nil))
	assert.Error(t, err)
}

type fakeTailscale struct {
	st  *ipnstate.Status
	err error
}

func (f fakeTailscale) StatusWithoutPeers(context.Context) (*ipnstate.Status, error) {
	return f.st, f.err
}

func TestTailscale(t *testing.T) {
	running := &ipnstate.Status{
		BackendState:   "Running",
		Self:           &ipnstate.PeerStatus{HostName: "laptop"},
		CurrentTailnet: &ipnstate.TailnetStatus{Name: "example.org"},
	}
	p := tailscaleProvider{args: tailscaleArgs{Label: "hostname"}, client: fakeTailscale{st: running}}
	frags, err := p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"⬢ laptop"}, texts(frags))

	p.args.Label = "tailnet"
	frags, err = p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"⬢ example.org"}, texts(frags))

	withExit := &ipnstate.Status{
		BackendState: "Running",
		ExitNodeStatus: &ipnstate.ExitNodeStatus{
			Online:       true,
			TailscaleIPs: []netip.Prefix{netip.MustParsePrefix("100.64.0.7/32")},
		},
	}
	p = tailscaleProvider{args: tailscaleArgs{Label: "none"}, client: fakeTailscale{st: withExit}}
	frags, err = p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"⬢", "⇄ 100.64.0.7"}, texts(frags))

	stopped := &ipnstate.Status{BackendState: "Stopped"}
	p = tailscaleProvider{args: tailscaleArgs{Label: "hostname"}, client: fakeTailscale{st: stopped}}
	frags, err = p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Empty(t, frags)

	p.args.ShowStopped = true
	frags, err = p.Compute(testContext(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"⬡ stopped"}, texts(frags))

	p.client = fakeTailscale{err: errors.New("dial unix: no such file")}
	_, err = p.Compute(testContext(nil))
	assert.Error(t, err)
}

func TestTailscaleRejectsBadLabel(t *testing.T) {
	_, err := New(Spec{Kind: theme.KindTailscale, Args: map[string]any{"label": "ip"}})
	assert.Error(t, err)
}
