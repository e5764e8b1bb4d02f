package gitstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	formatcfg "github.com/go-git/go-git/v5/plumbing/format/config"
)

var (
	// ErrUnsupportedRefStorage is returned for reftable repositories.
	ErrUnsupportedRefStorage = errors.New("gitstate: reftable reference storage is not supported")
	// ErrUnsupportedObjectFormat is returned for SHA-256 repositories.
	ErrUnsupportedObjectFormat = errors.New("gitstate: sha256 object format is not supported")
)

// repoConfig is the subset of the repository's config file the detector
// reads.
type repoConfig struct {
	raw *formatcfg.Config
}

func loadRepoConfig(commonDir string) (*repoConfig, error) {
	cfg := formatcfg.New()
	f, err := os.Open(filepath.Join(commonDir, "config"))
	if errors.Is(err, os.ErrNotExist) {
		return &repoConfig{raw: cfg}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gitstate: open config: %w", err)
	}
	defer f.Close()
	if err := formatcfg.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("gitstate: parse config: %w", err)
	}
	return &repoConfig{raw: cfg}, nil
}

// checkSupported rejects repository formats whose on-disk layout this
// package cannot read.
func (c *repoConfig) checkSupported() error {
	ext := c.raw.Section("extensions")
	if strings.EqualFold(ext.Option("refstorage"), "reftable") {
		return ErrUnsupportedRefStorage
	}
	if strings.EqualFold(ext.Option("objectformat"), "sha256") {
		return ErrUnsupportedObjectFormat
	}
	return nil
}

// abbrev returns core.abbrev when it is a number.
func (c *repoConfig) abbrev() int {
	n, err := strconv.Atoi(c.raw.Section("core").Option("abbrev"))
	if err != nil || n < 4 {
		return 0
	}
	return n
}

// untrackedDisabled reports status.showUntrackedFiles=no.
func (c *repoConfig) untrackedDisabled() bool {
	return strings.EqualFold(c.raw.Section("status").Option("showuntrackedfiles"), "no")
}

// upstream returns the remote-tracking ref for branch, following
// branch.<name>.remote and branch.<name>.merge through the remote's fetch
// refspecs. ok is false when no upstream is configured.
func (c *repoConfig) upstream(branch string) (plumbing.ReferenceName, bool) {
	sub := c.raw.Section("branch").Subsection(branch)
	remote := sub.Option("remote")
	merge := sub.Option("merge")
	if remote == "" || merge == "" {
		return "", false
	}
	mergeRef := plumbing.ReferenceName(merge)
	if remote == "." {
		return mergeRef, true
	}

	for _, spec := range c.raw.Section("remote").Subsection(remote).Options.GetAll("fetch") {
		rs := gitconfig.RefSpec(spec)
		if strings.HasPrefix(spec, "^") || rs.Validate() != nil {
			continue
		}
		if rs.Match(mergeRef) {
			return rs.Dst(mergeRef), true
		}
	}
	short := strings.TrimPrefix(merge, "refs/heads/")
	return plumbing.NewRemoteReferenceName(remote, short), true
}
