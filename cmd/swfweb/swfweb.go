// Command swfweb serves the sprites of the swf containers named on its
// command line over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace"

	swf "badc0de.net/pkg/go-swf"
	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/paths"
	"badc0de.net/pkg/go-swf/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for swfweb")
	resultDir     = flag.String("result_dir", "", "directory to export into, kept across restarts; a temporary one per container if empty")
	preload       = flag.String("preload", "", "comma separated names to export up front, in one ffdec run; needs -result_dir")

	ffdecJarPath string
)

func main() {
	paths.SetupFilePathFlag(swf.JarName, "ffdec_jar_path", &ffdecJarPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if flag.NArg() == 0 {
		glog.Exitf("usage: swfweb [flags] file.swf...")
	}
	if ffdecJarPath == "" {
		glog.Exitf("%s not found; run ffdecinstall or pass -ffdec_jar_path", swf.JarName)
	}

	l := swf.NewLoader(ffdec.New(ffdecJarPath))
	l.ResultDir = *resultDir

	if *preload != "" {
		if *resultDir == "" {
			glog.Exitf("-preload needs -result_dir")
		}
		if err := preloadNames(context.Background(), l, flag.Args(), strings.Split(*preload, ",")); err != nil {
			glog.Exitf("preloading: %v", err)
		}
	}

	var files []*swf.File
	for _, path := range flag.Args() {
		files = append(files, l.Open(path))
	}

	r := mux.NewRouter()
	web.NewHandler(files...).RegisterRoutes(r)
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux) // x/net/trace

	h := handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "HEAD"}),
		handlers.AllowedOrigins([]string{"*"}),
	)(r)
	h = handlers.LoggingHandler(os.Stderr, h)

	glog.Infof("swfweb: serving %d containers on %s", len(files), *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, h))
}

// preloadNames exports names into the result directory, which the files
// served later pick up from disk.
func preloadNames(ctx context.Context, l *swf.Loader, swfPaths, names []string) error {
	b, err := l.Bulk(ctx, swfPaths...)
	if err != nil {
		return err
	}
	b.Add(names...)
	found, err := b.Load(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := found[name]; !ok {
			glog.Warningf("swfweb: %q not found in any container", name)
		}
	}
	glog.Infof("swfweb: preloaded %d of %d names", len(found), len(names))
	return nil
}
