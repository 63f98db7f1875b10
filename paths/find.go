// Package paths locates the files the tools need at runtime, ffdec.jar in
// particular, without requiring a flag for each of them.
package paths

import (
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Find locates the passed file shortname and returns an absolute or relative
// path to find the file at, or "" if it is nowhere to be found.
//
// For example, for "ffdec.jar" it may return
// "/home/user/.cache/go-swf/ffdec/ffdec.jar".
func Find(fileName string) string {
	for _, path := range getPossiblePathsImp(fileName) {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look, and
// opens it. If Find returns an empty string, an error is returned.
func Open(fileName string) (io.ReadCloser, error) {
	path := Find(fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "paths.Open(%q)", fileName)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q)", fileName)
	}
	return f, nil
}
