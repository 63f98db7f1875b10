package ffdec

import (
	"archive/zip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/net/context/ctxhttp"
)

// ReleaseURL is the GitHub API endpoint describing one release. The
// placeholders are replaced with the installer's owner, repo and version.
const ReleaseURL = "https://api.github.com/repos/{owner}/{repo}/releases/tags/{version}"

const userAgent = "go-swf-installer"

// Installer downloads an ffdec release from GitHub into a directory.
type Installer struct {
	Owner   string
	Repo    string
	Version string

	// Target directory; ffdec.jar ends up directly inside it.
	Target string

	// ReleaseURL overrides the package level ReleaseURL template.
	ReleaseURL string

	Client *http.Client
}

// NewInstaller returns an installer for the default release into target.
func NewInstaller(target string) *Installer {
	return &Installer{
		Owner:   "jindrapetrik",
		Repo:    "jpexs-decompiler",
		Version: "nightly1722",
		Target:  target,
	}
}

// JarPath is where the installed jar lives.
func (i *Installer) JarPath() string {
	return filepath.Join(i.Target, "ffdec.jar")
}

// Installed reports whether the configured version is already installed.
func (i *Installer) Installed() bool {
	if _, err := os.Stat(i.JarPath()); err != nil {
		return false
	}
	v, err := os.ReadFile(i.versionPath())
	return err == nil && string(v) == i.Version
}

// Install downloads and unpacks the release, overwriting any installed one.
func (i *Installer) Install(ctx context.Context) error {
	if err := os.MkdirAll(i.Target, 0755); err != nil {
		return errors.Wrap(err, "creating installation directory")
	}

	asset, err := i.zipAsset(ctx)
	if err != nil {
		return err
	}

	zipPath := filepath.Join(i.Target, filepath.Base(asset.Name))
	if err := i.download(ctx, asset.URL, zipPath); err != nil {
		return err
	}
	if err := unzip(zipPath, i.Target); err != nil {
		return errors.Wrapf(err, "unpacking %q", zipPath)
	}

	return errors.Wrap(os.WriteFile(i.versionPath(), []byte(i.Version), 0644), "writing installed version")
}

func (i *Installer) versionPath() string {
	return filepath.Join(i.Target, "version")
}

type releaseAsset struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	URL         string `json:"browser_download_url"`
}

func (i *Installer) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := ctxhttp.Do(ctx, i.Client, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("GET %s: http response.StatusCode=%v, want 200", url, resp.StatusCode)
	}
	return resp, nil
}

func (i *Installer) zipAsset(ctx context.Context) (releaseAsset, error) {
	tmpl := i.ReleaseURL
	if tmpl == "" {
		tmpl = ReleaseURL
	}
	url := strings.NewReplacer("{owner}", i.Owner, "{repo}", i.Repo, "{version}", i.Version).Replace(tmpl)

	resp, err := i.get(ctx, url)
	if err != nil {
		return releaseAsset{}, errors.Wrap(err, "fetching release description")
	}
	defer resp.Body.Close()

	var release struct {
		Assets []releaseAsset `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return releaseAsset{}, errors.Wrap(err, "invalid response from github API")
	}

	for _, a := range release.Assets {
		if a.ContentType == "application/zip" {
			return a, nil
		}
	}
	return releaseAsset{}, errors.Errorf("release %s/%s@%s has no zip asset", i.Owner, i.Repo, i.Version)
}

func (i *Installer) download(ctx context.Context, url, dest string) error {
	glog.Infof("ffdec: downloading %s", url)

	resp, err := i.get(ctx, url)
	if err != nil {
		return errors.Wrap(err, "downloading release")
	}
	defer resp.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "creating zip file")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return errors.Wrap(err, "writing zip file")
	}
	return f.Close()
}

func unzip(zipPath, target string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	clean := filepath.Clean(target)
	root := clean + string(os.PathSeparator)
	for _, zf := range zr.File {
		dest := filepath.Join(target, zf.Name)
		if dest == clean {
			// "./" and the like name the target itself, which exists.
			continue
		}
		if !strings.HasPrefix(dest, root) {
			return errors.Errorf("zip entry %q escapes the target directory", zf.Name)
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := extractFile(zf, dest); err != nil {
			return errors.Wrapf(err, "extracting %q", zf.Name)
		}
	}
	return nil
}

func extractFile(zf *zip.File, dest string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
