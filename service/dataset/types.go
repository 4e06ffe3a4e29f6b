package dataset

import "github.com/thirukguru/yolo-workbench/model"

// splitDirs maps manifest keys to their image directory under the dataset root.
var splitDirs = []struct {
	key string
	dir string
}{
	{"train", "train"},
	{"val", "valid"},
	{"test", "test"},
}

type service struct{}

// Service is the interface for dataset manifest rewriting.
type Service interface {
	Rewrite(manifestPath, destination string) (model.ManifestRewrite, error)
}
