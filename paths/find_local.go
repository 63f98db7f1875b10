package paths

import (
	"os"
	"path/filepath"
)

// DefaultInstallDir is where ffdecinstall puts ffdec unless told otherwise.
// It is empty if the user has no cache directory.
func DefaultInstallDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "go-swf", "ffdec")
}

// getPossiblePathDirsImp lists the directories Find looks in, most specific
// first.
func getPossiblePathDirsImp() []string {
	dirs := []string{".", "bin"}

	if dir := os.Getenv("FFDEC_HOME"); dir != "" {
		dirs = append([]string{dir}, dirs...)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe), filepath.Join(filepath.Dir(exe), "bin"))
	}
	if dir := os.Getenv("TEST_SRCDIR"); dir != "" {
		dirs = append(dirs, filepath.Join(dir, "go_swf", "bin"))
	}
	if dir := os.Getenv("GOPATH"); dir != "" {
		dirs = append(dirs, filepath.Join(dir, "src", "badc0de.net", "pkg", "go-swf", "bin"))
	}
	if dir := DefaultInstallDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	return dirs
}

func getPossiblePathsImp(fileName string) []string {
	dirs := getPossiblePathDirsImp()
	paths := make([]string, len(dirs))
	for i, dir := range dirs {
		paths[i] = filepath.Join(dir, fileName)
	}
	return paths
}
