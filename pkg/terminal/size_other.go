//go:build !unix

package terminal

import "github.com/charmbracelet/x/term"

func widthFromFd(fd uintptr) int {
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
