package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// isolate points every config lookup at an empty temporary home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{
		"PROMPTLINE_CONFIG", "PROMPTLINE_THEME", "PROMPTLINE_SHELL",
		"PROMPTLINE_WIDTH", "PROMPTLINE_LOG",
	} {
		t.Setenv(k, "")
	}
	return home
}

// resetFlags restores flag defaults, since the command tree is shared
// between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// newRepo creates a repository with one commit on main and makes it the
// working directory.
func newRepo(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))
	require.NoError(t, repo.Storer.SetReference(head))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hello\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{Author: &object.Signature{
		Name: "Prompt Tester", Email: "tester@example.com",
		When: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	t.Chdir(dir)
	t.Setenv("PWD", dir)
	return dir
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("PROMPTLINE_CONFIG", path)
	return path
}

func TestRootFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)

	flag = rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	for _, name := range []string{"shell", "width", "theme", "color"} {
		assert.NotNil(t, promptCmd.Flags().Lookup(name), "prompt --%s", name)
	}
}

func TestPrompt(t *testing.T) {
	isolate(t)
	dir := newRepo(t)
	writeConfig(t, `
[[segments]]
kind = "path"

[[segments]]
kind = "git"

[[segments]]
kind = "exit"
`)
	t.Setenv("code", "0")

	out, _, err := execute(t, "prompt", "--shell", "bash", "--color", "none", "--width", "300")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Base(dir))
	assert.Contains(t, out, "main")
	assert.True(t, strings.HasSuffix(out, " "), "prompt ends with a space: %q", out)
	assert.NotContains(t, out, "\x1b[", "no color profile means no escapes")
}

func TestPromptColorsAreWrappedForBash(t *testing.T) {
	isolate(t)
	newRepo(t)
	writeConfig(t, "[[segments]]\nkind = \"git\"\n")

	out, _, err := execute(t, "prompt", "--shell", "bash", "--color", "256")
	require.NoError(t, err)
	assert.Contains(t, out, `\[`+"\x1b[")
}

func TestPromptCleanRepository(t *testing.T) {
	isolate(t)
	newRepo(t)
	writeConfig(t, "[[segments]]\nkind = \"git\"\n")

	out, _, err := execute(t, "prompt", "--shell", "plain", "--color", "256", "--theme", "default")
	require.NoError(t, err)

	sgr := func(kind, sub string) string {
		st := theme.Default().Resolve(kind, sub)
		fg := termenv.ANSI256.Color(st.Fg.String()).Sequence(false)
		bg := termenv.ANSI256.Color(st.Bg.String()).Sequence(true)
		return termenv.CSI + fg + ";" + bg + "m"
	}
	assert.Contains(t, out, sgr(theme.KindGit, "clean")+" "+theme.Default().Resolve(theme.KindGit, "clean").Glyph)
	assert.NotContains(t, out, sgr(theme.KindGit, "dirty"))
	for _, sub := range []string{"staged", "unstaged", "untracked", "conflicted", "stash"} {
		assert.NotContains(t, out, "1"+theme.Default().Resolve(theme.KindGit, sub).Glyph, "no %s counter", sub)
	}
}

func TestPromptRejectsUnknownTheme(t *testing.T) {
	isolate(t)
	newRepo(t)

	_, _, err := execute(t, "prompt", "--theme", "no-such-theme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	newRepo(t)
	writeConfig(t, "[[segments]]\nkind = \"weather\"\n")

	_, _, err := execute(t, "segments")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "weather")

	out, errOut, err := execute(t, "prompt", "--shell", "plain", "--color", "none")
	require.NoError(t, err, "prompt falls back to the defaults")
	assert.Contains(t, out, "main")
	assert.Contains(t, errOut, "using default configuration")
}

func TestSegments(t *testing.T) {
	isolate(t)
	newRepo(t)
	writeConfig(t, "[[segments]]\nkind = \"git\"\n\n[[segments]]\nkind = \"jobs\"\n")
	t.Setenv("jobs", "")

	out, _, err := execute(t, "segments")
	require.NoError(t, err)
	assert.Contains(t, out, "shell: ")
	assert.Contains(t, out, "terminal: ")
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "git")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "abstained", "jobs abstains without $jobs")
}

func TestSegment(t *testing.T) {
	isolate(t)
	newRepo(t)
	writeConfig(t, "[[segments]]\nkind = \"git\"\n")

	out, _, err := execute(t, "segment", "0", "--color", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "git.")

	_, _, err = execute(t, "segment", "3")
	assert.ErrorContains(t, err, "out of range")

	_, _, err = execute(t, "segment", "first")
	assert.ErrorContains(t, err, "not a number")
}

func TestLocation(t *testing.T) {
	isolate(t)
	dir := newRepo(t)

	out, _, err := execute(t, "location")
	require.NoError(t, err)
	assert.Contains(t, out, "worktree:   "+dir)
	assert.Contains(t, out, "git dir:    "+filepath.Join(dir, ".git"))
	assert.NotContains(t, out, "linked")

	outside := t.TempDir()
	if _, err := os.Stat(filepath.Join(filepath.Dir(outside), ".git")); err == nil {
		t.Skip("temp dir is inside a repository")
	}
	_, _, err = execute(t, "location", outside)
	assert.ErrorContains(t, err, "not inside a git repository")
}

func TestConfigCommands(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "default-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[[segments]]")
	assert.Contains(t, out, `kind = "git"`)

	writeConfig(t, "width = 72\n")
	t.Setenv("PROMPTLINE_THEME", "nord")
	out, _, err = execute(t, "current-config")
	require.NoError(t, err)
	assert.Contains(t, out, "width = 72")
	assert.Contains(t, out, `name = "nord"`)

	out, _, err = execute(t, "current-config", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "width: 72")
}

func TestThemeCommands(t *testing.T) {
	isolate(t)
	t.Setenv("PROMPTLINE_THEME", "gruvbox")

	out, _, err := execute(t, "theme", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* gruvbox\n")
	assert.Contains(t, out, "  nord\n")

	out, _, err = execute(t, "theme", "export", "nord")
	require.NoError(t, err)
	assert.Contains(t, out, `name = "nord"`)

	_, _, err = execute(t, "theme", "export", "missing")
	assert.ErrorContains(t, err, "unknown theme")
}

func TestThemeDirIsLoaded(t *testing.T) {
	isolate(t)
	themes := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(themes, "mine.toml"),
		[]byte("name = \"mine\"\ninherits = \"nord\"\n"), 0o644))
	writeConfig(t, "[theme]\nname = \"mine\"\ndir = \""+filepath.ToSlash(themes)+"\"\n")

	out, _, err := execute(t, "theme", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* mine\n")
}

func TestInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "promptline", "config.toml")
	t.Setenv("PROMPTLINE_CONFIG", path)

	out, errOut, err := execute(t, "init", "bash", "--rc")
	require.NoError(t, err)
	assert.Contains(t, out, "load bash")
	assert.Contains(t, errOut, "wrote default config")
	assert.FileExists(t, path)

	out, errOut, err = execute(t, "init", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "precmd_functions")
	assert.Empty(t, errOut, "existing config is not rewritten")
}

func TestLoad(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "load", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "PROMPT_COMMAND")
	assert.Contains(t, out, "prompt --shell bash")

	_, _, err = execute(t, "load", "tcsh")
	assert.ErrorContains(t, err, "unknown shell")
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-03-01")
	t.Cleanup(func() { SetVersionInfo("", "", "") })

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "promptline 1.2.3")
	assert.Contains(t, out, "commit: abc123")
}
