//go:build unix

package terminal

import "golang.org/x/sys/unix"

// widthFromFd queries the terminal size via TIOCGWINSZ. Returns 0 on failure.
func widthFromFd(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
