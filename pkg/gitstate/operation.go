package gitstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OperationKind is a multi-step git operation left in progress.
type OperationKind int

const (
	OpNone OperationKind = iota
	OpMerge
	OpRebase
	OpCherryPick
	OpRevert
	OpBisect
)

var operationNames = [...]string{
	OpNone:       "",
	OpMerge:      "merge",
	OpRebase:     "rebase",
	OpCherryPick: "cherry-pick",
	OpRevert:     "revert",
	OpBisect:     "bisect",
}

func (k OperationKind) String() string {
	if int(k) < len(operationNames) {
		return operationNames[k]
	}
	return ""
}

// ParseOperationKind accepts the names String returns.
func ParseOperationKind(s string) (OperationKind, error) {
	for k, name := range operationNames {
		if name != "" && strings.EqualFold(name, s) {
			return OperationKind(k), nil
		}
	}
	return OpNone, fmt.Errorf("gitstate: unknown operation %q", s)
}

// DefaultOperationPriority decides which operation is reported when markers
// for several are present, for example a rebase that stopped on a
// cherry-pick.
var DefaultOperationPriority = []OperationKind{OpRebase, OpCherryPick, OpRevert, OpMerge, OpBisect}

// Operation is the operation in progress. Step and Total are only set for
// rebases, and may be 0 when the progress files are missing.
type Operation struct {
	Kind  OperationKind
	Step  int
	Total int
}

func (o Operation) String() string {
	if o.Kind == OpRebase && o.Total > 0 {
		return fmt.Sprintf("%s %d/%d", o.Kind, o.Step, o.Total)
	}
	return o.Kind.String()
}

// detectOperation checks markers in gitDir in priority order.
func detectOperation(gitDir string, priority []OperationKind) (Operation, error) {
	if len(priority) == 0 {
		priority = DefaultOperationPriority
	}
	for _, kind := range priority {
		op, found, err := probeOperation(gitDir, kind)
		if err != nil || found {
			return op, err
		}
	}
	return Operation{}, nil
}

func probeOperation(gitDir string, kind OperationKind) (Operation, bool, error) {
	var marker string
	switch kind {
	case OpRebase:
		return probeRebase(gitDir)
	case OpCherryPick:
		marker = "CHERRY_PICK_HEAD"
	case OpRevert:
		marker = "REVERT_HEAD"
	case OpMerge:
		marker = "MERGE_HEAD"
	case OpBisect:
		marker = "BISECT_LOG"
	default:
		return Operation{}, false, nil
	}
	ok, err := pathExists(filepath.Join(gitDir, marker))
	if err != nil || !ok {
		return Operation{}, false, err
	}
	return Operation{Kind: kind}, true, nil
}

// probeRebase recognizes both rebase backends: rebase-merge (msgnum/end)
// and rebase-apply (next/last).
func probeRebase(gitDir string) (Operation, bool, error) {
	backends := []struct{ dir, step, total string }{
		{"rebase-merge", "msgnum", "end"},
		{"rebase-apply", "next", "last"},
	}
	for _, b := range backends {
		dir := filepath.Join(gitDir, b.dir)
		ok, err := pathExists(dir)
		if err != nil {
			return Operation{}, false, err
		}
		if !ok {
			continue
		}
		step, err := readCount(filepath.Join(dir, b.step))
		if err != nil {
			return Operation{}, false, err
		}
		total, err := readCount(filepath.Join(dir, b.total))
		if err != nil {
			return Operation{}, false, err
		}
		return Operation{Kind: OpRebase, Step: step, Total: total}, true, nil
	}
	return Operation{}, false, nil
}

// readCount reads a small integer file. Missing or unparsable files count
// as 0; only I/O failures are errors.
func readCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("gitstate: read %s: %w", path, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("gitstate: stat %s: %w", path, err)
	}
}
