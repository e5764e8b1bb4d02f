package segment

import (
	"fmt"
	"math"
	"strings"

	"github.com/distatus/battery"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type batteryArgs struct {
	LowThreshold float64 `args:"low_battery_threshold"`
}

type batteryProvider struct {
	args   batteryArgs
	source func() ([]batteryInfo, error)
}

// batteryInfo is one battery as the platform reports it: charge in
// arbitrary matching units and a status name.
type batteryInfo struct {
	current, full float64
	status        string
}

func systemBatteries() ([]batteryInfo, error) {
	bats, err := battery.GetAll()
	out := make([]batteryInfo, 0, len(bats))
	for _, b := range bats {
		if b != nil {
			out = append(out, batteryInfo{current: b.Current, full: b.Full, status: b.State.String()})
		}
	}
	return out, err
}

func newBattery(raw map[string]any) (Provider, error) {
	p := batteryProvider{args: batteryArgs{LowThreshold: 50}, source: systemBatteries}
	if err := decodeArgs(theme.KindBattery, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

type batteryState int

const (
	batteryUnknown batteryState = iota
	batteryCharging
	batteryDischarging
	batteryFull
	batteryEmpty
)

type batteryReading struct {
	percent float64
	state   batteryState
}

// Compute shows the first battery's charge. Machines without a battery
// abstain.
func (p batteryProvider) Compute(c *Context) ([]render.Fragment, error) {
	b, ok, err := p.read(c)
	if err != nil || !ok {
		return nil, err
	}

	pct := fmt.Sprintf("%.0f%%", math.Round(b.percent))
	var colors, glyph string
	switch b.state {
	case batteryCharging:
		colors, glyph = "normal", "charging"
	case batteryFull:
		colors, glyph, pct = "normal", "full", "100%"
	case batteryEmpty:
		colors, glyph = "low", "empty"
	default:
		colors, glyph = "normal", "discharging"
		if b.percent < p.args.LowThreshold {
			colors = "low"
		}
	}
	text := pct + " " + c.Glyph(theme.KindBattery, glyph)
	return one(render.Styled("battery."+glyph, text, c.Style(theme.KindBattery, colors))), nil
}

// read returns the first battery that reports a charge level. Partial
// errors for other attributes are ignored; an error with no batteries at
// all means the platform has none to report.
func (p batteryProvider) read(c *Context) (batteryReading, bool, error) {
	bats, err := p.source()
	if len(bats) == 0 {
		if err != nil {
			c.logger().Debug("no battery", "err", err)
		}
		return batteryReading{}, false, nil
	}
	for _, b := range bats {
		if b.full <= 0 {
			continue
		}
		pct := math.Min(100, b.current/b.full*100)
		return batteryReading{percent: pct, state: parseBatteryStatus(b.status, pct)}, true, nil
	}
	return batteryReading{}, false, fmt.Errorf("battery reports no charge level: %v", err)
}

func parseBatteryStatus(s string, pct float64) batteryState {
	switch strings.ToLower(s) {
	case "charging":
		return batteryCharging
	case "discharging":
		if pct <= 0 {
			return batteryEmpty
		}
		return batteryDischarging
	case "full":
		return batteryFull
	case "empty":
		return batteryEmpty
	case "idle", "not charging":
		if pct >= 100 {
			return batteryFull
		}
		return batteryUnknown
	default:
		return batteryUnknown
	}
}
