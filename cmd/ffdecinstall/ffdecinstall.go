// Command ffdecinstall downloads the ffdec release the swf packages drive
// into a directory where paths.Find looks for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/paths"
)

var (
	target  = flag.String("target", paths.DefaultInstallDir(), "directory to install into")
	version = flag.String("version", "", "release tag to install; the tested one if empty")
	force   = flag.Bool("force", false, "whether to reinstall even if the version is already installed")
	timeout = flag.Duration("timeout", 10*time.Minute, "how long the download may take")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *target == "" {
		glog.Exitf("no default install directory on this system; pass -target")
	}

	i := ffdec.NewInstaller(*target)
	if *version != "" {
		i.Version = *version
	}
	if i.Installed() && !*force {
		fmt.Printf("%s %s already installed at %s\n", i.Repo, i.Version, i.JarPath())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	glog.Infof("installing %s/%s %s into %s", i.Owner, i.Repo, i.Version, *target)
	if err := i.Install(ctx); err != nil {
		glog.Exitf("installing: %v", err)
	}
	fmt.Println(i.JarPath())
}
