package ffdec

import (
	"context"
	"os/exec"
	"strings"

	"github.com/golang/glog"
)

// Jar is a java -jar command line.
//
// Jar is a value: Argument and Option return a modified copy and never touch
// the receiver, so a partially built Jar can be shared and extended freely.
type Jar struct {
	java    string
	jar     string
	options []option
	args    []string
}

type option struct {
	name, value string
}

// NewJar returns a command running the passed jar with "java" from PATH.
func NewJar(jar string) Jar {
	return Jar{java: "java", jar: jar}
}

// WithJava returns a copy of j using the passed java executable.
func (j Jar) WithJava(java string) Jar {
	j.java = java
	return j
}

// Path returns the jar file path.
func (j Jar) Path() string {
	return j.jar
}

// Argument returns a copy of j with a positional argument appended.
func (j Jar) Argument(arg string) Jar {
	j.args = append(append([]string(nil), j.args...), arg)
	return j
}

// Option returns a copy of j with -name value set. Setting an option again
// replaces its value but keeps its original position on the command line.
func (j Jar) Option(name, value string) Jar {
	opts := append([]option(nil), j.options...)
	for i := range opts {
		if opts[i].name == name {
			opts[i].value = value
			j.options = opts
			return j
		}
	}
	j.options = append(opts, option{name: name, value: value})
	return j
}

// Args returns the arguments passed to the java executable.
func (j Jar) Args() []string {
	args := []string{"-jar", j.jar}
	for _, o := range j.options {
		args = append(args, "-"+o.name, o.value)
	}
	return append(args, j.args...)
}

// String renders the command line as it would be typed in a POSIX shell.
func (j Jar) String() string {
	var b strings.Builder
	b.WriteString(j.java)
	b.WriteString(" -jar ")
	b.WriteString(shellQuote(j.jar))
	for _, o := range j.options {
		b.WriteString(" -")
		b.WriteString(o.name)
		b.WriteString(" ")
		b.WriteString(shellQuote(o.value))
	}
	for _, a := range j.args {
		b.WriteString(" ")
		b.WriteString(shellQuote(a))
	}
	return b.String()
}

// Execute runs the command and returns its combined output. A non-zero exit
// status is reported as an *ExecError carrying that output.
func (j Jar) Execute(ctx context.Context) (string, error) {
	glog.V(1).Infof("ffdec: running %s", j)

	out, err := exec.CommandContext(ctx, j.java, j.Args()...).CombinedOutput()
	output := strings.TrimRight(string(out), "\r\n")
	if err != nil {
		return output, &ExecError{Command: j.String(), Output: output, Err: err}
	}
	return output, nil
}

func shellQuote(s string) string {
	return "'" + strings.Replace(s, "'", `'\''`, -1) + "'"
}
