package segment

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/promptline/pkg/render"
	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

type usernameProvider struct{}

func newUsername(args map[string]any) (Provider, error) {
	if err := decodeArgs(theme.KindUsername, args, &struct{}{}); err != nil {
		return nil, err
	}
	return usernameProvider{}, nil
}

func (usernameProvider) Compute(c *Context) ([]render.Fragment, error) {
	user := c.Getenv("USER")
	if user == "" {
		user = c.Getenv("LOGNAME")
	}
	if user == "" {
		return nil, nil
	}
	sub := theme.SubDefault
	if isRoot(c) {
		sub = "root"
	}
	return one(c.Fragment(theme.KindUsername, sub, user)), nil
}

// isRoot trusts the hook's $uid and falls back to the user name.
func isRoot(c *Context) bool {
	if uid, ok := c.LookupEnv("uid"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(uid), 10, 32)
		return err == nil && n == 0
	}
	return c.Getenv("USER") == "root"
}

type hostnameArgs struct {
	ShowDomain      bool `args:"show_domain"`
	ShowOSIndicator bool `args:"show_os_indicator"`
}

type hostnameProvider struct{ args hostnameArgs }

func newHostname(raw map[string]any) (Provider, error) {
	var p hostnameProvider
	if err := decodeArgs(theme.KindHostname, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

func (p hostnameProvider) Compute(c *Context) ([]render.Fragment, error) {
	host := c.Getenv("hostname")
	if host == "" {
		host = c.Getenv("HOSTNAME")
	}
	if host == "" {
		return nil, fmt.Errorf("hostname not set; is the shell hook installed?")
	}
	if !p.args.ShowDomain {
		host, _, _ = strings.Cut(host, ".")
	}
	if p.args.ShowOSIndicator {
		if sub := osSubState(runtime.GOOS); sub != "" {
			host += " " + c.Glyph(theme.KindHostname, sub)
		}
	}
	return one(c.Fragment(theme.KindHostname, theme.SubDefault, host)), nil
}

func osSubState(goos string) string {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "os_" + goos
	case "darwin":
		return "os_macos"
	default:
		return ""
	}
}

type exitProvider struct{}

func newExit(args map[string]any) (Provider, error) {
	if err := decodeArgs(theme.KindExit, args, &struct{}{}); err != nil {
		return nil, err
	}
	return exitProvider{}, nil
}

// Compute shows the privilege indicator, colored by the last exit code.
// A missing or unparsable code counts as success.
func (exitProvider) Compute(c *Context) ([]render.Fragment, error) {
	colors := "success"
	if code, err := strconv.Atoi(strings.TrimSpace(c.Getenv("code"))); err == nil && code != 0 {
		colors = "failure"
	}
	indicator := "user"
	if isRoot(c) {
		indicator = "root"
	}
	st := c.Style(theme.KindExit, colors)
	return one(render.Styled("exit."+colors, c.Glyph(theme.KindExit, indicator), st)), nil
}

type jobsProvider struct{}

func newJobs(args map[string]any) (Provider, error) {
	if err := decodeArgs(theme.KindJobs, args, &struct{}{}); err != nil {
		return nil, err
	}
	return jobsProvider{}, nil
}

func (jobsProvider) Compute(c *Context) ([]render.Fragment, error) {
	raw := strings.TrimSpace(c.Getenv("jobs"))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parse $jobs %q: %w", raw, err)
	}
	if n <= 0 {
		return nil, nil
	}
	return one(c.Fragment(theme.KindJobs, theme.SubDefault, fmt.Sprintf("%d %s", n, c.Glyph(theme.KindJobs, theme.SubDefault)))), nil
}

type screenArgs struct {
	ShowIcon         bool `args:"show_screen_icon"`
	ShowName         bool `args:"show_screen_name"`
	ShowPID          bool `args:"show_screen_pid"`
	ShowWindowNumber bool `args:"show_window_number"`
}

type screenProvider struct{ args screenArgs }

func newScreen(raw map[string]any) (Provider, error) {
	p := screenProvider{args: screenArgs{ShowIcon: true, ShowName: true, ShowWindowNumber: true}}
	if err := decodeArgs(theme.KindScreen, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

// Compute renders `window[pid.name] icon` for a GNU screen session.
func (p screenProvider) Compute(c *Context) ([]render.Fragment, error) {
	sty, ok := c.LookupEnv("STY")
	if !ok {
		return nil, nil
	}
	window, ok := c.LookupEnv("WINDOW")
	if !ok {
		return nil, nil
	}
	pid, name, ok := strings.Cut(sty, ".")
	if !ok {
		return nil, fmt.Errorf("parse $STY %q", sty)
	}

	var b strings.Builder
	a := p.args
	bracket := a.ShowWindowNumber && (a.ShowPID || a.ShowName)
	if a.ShowWindowNumber {
		b.WriteString(window)
	}
	if bracket {
		b.WriteByte('[')
	}
	if a.ShowPID {
		b.WriteString(pid + ".")
	}
	if a.ShowName {
		b.WriteString(name)
	}
	if bracket {
		b.WriteByte(']')
	}
	if a.ShowIcon {
		b.WriteString(" " + c.Glyph(theme.KindScreen, theme.SubDefault))
	}
	return one(c.Fragment(theme.KindScreen, theme.SubDefault, b.String())), nil
}

type clockArgs struct {
	Format   string `args:"format"`
	ShowIcon bool   `args:"show_icon"`
	UTC      bool   `args:"utc"`
}

type clockProvider struct{ args clockArgs }

func newClock(raw map[string]any) (Provider, error) {
	p := clockProvider{args: clockArgs{Format: "15:04:05"}}
	if err := decodeArgs(theme.KindTime, raw, &p.args); err != nil {
		return nil, err
	}
	return p, nil
}

func (p clockProvider) Compute(c *Context) ([]render.Fragment, error) {
	now := c.now()
	if p.args.UTC {
		now = now.UTC()
	}
	text := now.Format(p.args.Format)
	if p.args.ShowIcon {
		text = c.Glyph(theme.KindTime, theme.SubDefault) + " " + text
	}
	return one(c.Fragment(theme.KindTime, theme.SubDefault, text)), nil
}
