package fileremover

import "os"

// FileRemover abstracts filesystem deletion so the reporting sink's
// pre-run cleanup of stale artifacts can be tested without touching
// the disk.
type FileRemover interface {
	Remove(name string) error
	RemoveAll(path string) error
}

type fileRemover struct{}

// NewFileRemover ...
func NewFileRemover() FileRemover {
	return fileRemover{}
}

func (r fileRemover) Remove(name string) error {
	return os.Remove(name)
}

func (r fileRemover) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
