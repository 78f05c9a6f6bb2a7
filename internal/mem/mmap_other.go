//go:build !unix && !windows

package mem

func mapAnon(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapAnon([]byte) error {
	return nil
}
