package gitstate

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// countStash returns the number of stash entries: the lines of the
// refs/stash reflog, or 1 when the ref exists without a reflog.
func countStash(repo *filesystem.Storage) (int, error) {
	f, err := repo.Filesystem().Open("logs/refs/stash")
	switch {
	case errors.Is(err, os.ErrNotExist):
		ok, err := refStore{repo}.exists("refs/stash")
		if err != nil || !ok {
			return 0, err
		}
		return 1, nil
	case err != nil:
		return 0, fmt.Errorf("gitstate: open stash log: %w", err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("gitstate: read stash log: %w", err)
	}
	return n, nil
}

// shallowBoundary returns the commits listed in the shallow file.
func shallowBoundary(repo *filesystem.Storage) (map[plumbing.Hash]bool, error) {
	hashes, err := repo.Shallow()
	if err != nil {
		return nil, fmt.Errorf("gitstate: read shallow: %w", err)
	}
	if len(hashes) == 0 {
		return nil, nil
	}
	out := make(map[plumbing.Hash]bool, len(hashes))
	for _, h := range hashes {
		if !h.IsZero() {
			out[h] = true
		}
	}
	return out, nil
}
