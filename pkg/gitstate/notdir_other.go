//go:build !unix

package gitstate

func isNotDir(error) bool { return false }
