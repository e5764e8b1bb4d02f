package segment

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type loadArgs struct {
	// HighThreshold is the 1-minute load considered high. Zero means the
	// number of logical CPUs.
	HighThreshold float64 `args:"high_threshold"`
	ShowIcon      bool    `args:"show_icon"`
}

type loadProvider struct {
	args  loadArgs
	avg   func(ctx context.Context) (*load.AvgStat, error)
	ncpus func(ctx context.Context) (int, error)
}

func newLoad(raw map[string]any) (Provider, error) {
	p := loadProvider{
		args:  loadArgs{ShowIcon: true},
		avg:   load.AvgWithContext,
		ncpus: func(ctx context.Context) (int, error) { return cpu.CountsWithContext(ctx, true) },
	}
	if err := decodeArgs(theme.KindLoad, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

func (p loadProvider) Compute(c *Context) ([]render.Fragment, error) {
	ctx, cancel := c.Deadline()
	defer cancel()

	avg, err := p.avg(ctx)
	if err != nil {
		return nil, fmt.Errorf("load average: %w", err)
	}
	threshold := p.args.HighThreshold
	if threshold <= 0 {
		n, err := p.ncpus(ctx)
		if err != nil || n <= 0 {
			n = 1
		}
		threshold = float64(n)
	}

	sub := "normal"
	if avg.Load1 >= threshold {
		sub = "high"
	}
	text := fmt.Sprintf("%.2f", avg.Load1)
	if p.args.ShowIcon {
		text = c.Glyph(theme.KindLoad, sub) + " " + text
	}
	return one(c.Fragment(theme.KindLoad, sub, text)), nil
}
