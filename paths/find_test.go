package paths

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-swf/ttesting"
)

func TestFindFFDecHome(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "ffdec.jar")
	if err := os.WriteFile(jar, []byte("jar"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("FFDEC_HOME", dir)

	ttesting.AssertEqualString(t, "found", Find("ffdec.jar"), jar)

	f, err := Open("ffdec.jar")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()
}

func TestFindMissing(t *testing.T) {
	t.Setenv("FFDEC_HOME", t.TempDir())
	ttesting.AssertEqualString(t, "missing", Find("no-such-file.jar"), "")

	if _, err := Open("no-such-file.jar"); !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("Open = %v; want not-exist", err)
	}
}

func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "ffdec.jar"), 0755)
	t.Setenv("FFDEC_HOME", dir)

	if got := Find("ffdec.jar"); got == filepath.Join(dir, "ffdec.jar") {
		t.Errorf("Find returned a directory")
	}
}

func TestSetupFilePathFlagSet(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "ffdec.jar")
	os.WriteFile(jar, nil, 0644)
	t.Setenv("FFDEC_HOME", dir)

	var got string
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	SetupFilePathFlagSet(fs, "ffdec.jar", "ffdec_jar_path", &got)
	ttesting.AssertEqualString(t, "default", got, jar)

	if err := fs.Parse([]string{"-ffdec_jar_path=/opt/ffdec/ffdec.jar"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ttesting.AssertEqualString(t, "overridden", got, "/opt/ffdec/ffdec.jar")
}
