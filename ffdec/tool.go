package ffdec

import (
	"context"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Tool runs ffdec commands.
type Tool struct {
	Jar Jar

	// TempDir is where temporary outputs are allocated. Empty means
	// os.TempDir().
	TempDir string

	// OnError is passed as -onerror to exports. Empty means "ignore", so
	// that one undecodable character does not abort a whole export.
	OnError string
}

// New returns a tool running the ffdec jar at jarPath.
func New(jarPath string) *Tool {
	return &Tool{Jar: NewJar(jarPath)}
}

// Extract runs e and returns where it was written.
func (t *Tool) Extract(e Export) (*Result, error) {
	return t.ExtractContext(context.Background(), e)
}

// ExtractContext runs e and returns where it was written. The run is killed
// if ctx is done first.
func (t *Tool) ExtractContext(ctx context.Context, e Export) (*Result, error) {
	if e.InputPath() == "" {
		return nil, ErrMissingInput
	}

	output := e.OutputDir()
	if output == "" {
		dir, err := os.MkdirTemp(t.TempDir, "swf_")
		if err != nil {
			return nil, errors.Wrap(err, "creating export output directory")
		}
		output = dir
	} else if err := os.MkdirAll(output, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating export output directory %q", output)
	}

	onError := t.OnError
	if onError == "" {
		onError = "ignore"
	}

	cmd, err := e.command(t.Jar, output, onError)
	if err != nil {
		return nil, err
	}

	glog.Infof("ffdec: exporting %v (ids %q) from %q to %q", e.Types(), e.SelectedIDs().String(), e.InputPath(), output)
	if _, err := cmd.Execute(ctx); err != nil {
		return nil, err
	}

	return NewResult(output), nil
}

// ToXML converts the swf at input into its XML structural report, and
// returns the report's path. An empty output allocates a temporary file.
func (t *Tool) ToXML(ctx context.Context, input, output string) (string, error) {
	if input == "" {
		return "", ErrMissingInput
	}
	if output == "" {
		f, err := os.CreateTemp(t.TempDir, "swf_xml_")
		if err != nil {
			return "", errors.Wrap(err, "creating xml output file")
		}
		output = f.Name()
		f.Close()
	}

	glog.Infof("ffdec: converting %q to xml %q", input, output)
	if _, err := t.Jar.Option("swf2xml", input).Argument(output).Execute(ctx); err != nil {
		return "", err
	}
	return output, nil
}
