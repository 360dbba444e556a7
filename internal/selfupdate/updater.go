package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrNoRelease     = errors.New("release not found")
	ErrNoAsset       = errors.New("release has no build for this platform")
	ErrChecksum      = errors.New("checksum mismatch")
	ErrBadBinary     = errors.New("downloaded binary failed to run")
)

// maxDownload caps any single asset.
const maxDownload = 200 << 20

// Stage names a step of Update.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

// Progress receives one call per stage.
type Progress func(stage Stage, detail string)

// UpdateInput selects the release to install. An empty TargetVersion
// means the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// IsDevBuild reports whether v is a local build: unset, "(devel)", or a
// pseudo-version stamped by `go build` inside a checkout.
func IsDevBuild(v string) bool {
	switch v {
	case "", "dev", "(devel)":
		return true
	}
	return module.IsPseudoVersion(canonical(v))
}

// Update installs a release over the running executable. The new binary
// must answer `version --short` with its own tag before it replaces the
// old one. progress may be nil.
func (c *Checker) Update(ctx context.Context, in *UpdateInput, progress Progress) error {
	if IsDevBuild(in.CurrentVersion) {
		return ErrDevBuild
	}
	if progress == nil {
		progress = func(Stage, string) {}
	}

	progress(StageResolve, "Looking up release...")
	rel, err := c.resolve(ctx, in)
	if err != nil {
		return err
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH, rel.Tag)
	if err != nil {
		return err
	}
	assetURL, ok := rel.Assets[asset]
	if !ok {
		return fmt.Errorf("%w: %s has no %s", ErrNoAsset, rel.Tag, asset)
	}
	sumsURL, ok := rel.Assets[checksumsName(rel.Tag)]
	if !ok {
		return fmt.Errorf("%s has no checksums file", rel.Tag)
	}

	progress(StageDownload, fmt.Sprintf("Downloading %s...", asset))
	archive, err := c.download(ctx, assetURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", asset, err)
	}
	sums, err := c.download(ctx, sumsURL)
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}

	progress(StageVerify, "Verifying checksum...")
	if err := verify(archive, sums, asset); err != nil {
		return err
	}
	bin, err := unpack(archive, asset)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", asset, err)
	}

	progress(StageInstall, fmt.Sprintf("Installing %s...", rel.Tag))
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := install(ctx, bin, target, rel.Tag); err != nil {
		return err
	}

	progress(StageDone, fmt.Sprintf("Updated to %s", rel.Tag))
	return nil
}

func (c *Checker) resolve(ctx context.Context, in *UpdateInput) (*Release, error) {
	if in.TargetVersion != "" {
		tag := canonical(in.TargetVersion)
		if !semver.IsValid(tag) {
			return nil, fmt.Errorf("target version %q is not a semantic version", in.TargetVersion)
		}
		return c.fetchRelease(ctx, "tags/"+tag)
	}

	res, err := c.Check(ctx, &CheckInput{Version: in.CurrentVersion})
	if err != nil {
		return nil, fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		return nil, ErrAlreadyLatest
	}
	return res.release, nil
}

// assetFor returns the archive name a release publishes for a platform,
// e.g. aquacheck_1.2.0_linux_amd64.tar.gz.
func assetFor(goos, goarch, tag string) (string, error) {
	switch goarch {
	case "amd64", "arm64":
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrNoAsset, goos, goarch)
	}
	ext := ".tar.gz"
	switch goos {
	case "linux", "darwin":
	case "windows":
		ext = ".zip"
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrNoAsset, goos, goarch)
	}
	return fmt.Sprintf("aquacheck_%s_%s_%s%s", strings.TrimPrefix(tag, "v"), goos, goarch, ext), nil
}

func checksumsName(tag string) string {
	return fmt.Sprintf("aquacheck_%s_checksums.txt", strings.TrimPrefix(tag, "v"))
}

func (c *Checker) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("larger than %d bytes", maxDownload)
	}
	return data, nil
}

// verify checks archive against its line in a sha256sum-style listing.
// Names may carry the "*" binary-mode marker.
func verify(archive, sums []byte, asset string) error {
	var want string
	for _, line := range strings.Split(string(sums), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == asset {
			want = strings.ToLower(fields[0])
			break
		}
	}
	if want == "" {
		return fmt.Errorf("%w: %s is not listed", ErrChecksum, asset)
	}
	sum := sha256.Sum256(archive)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w: %s is %s, want %s", ErrChecksum, asset, got, want)
	}
	return nil
}

// unpack pulls the aquacheck executable out of a release archive.
func unpack(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			return nil, err
		}
		for _, f := range zr.File {
			if path.Base(f.Name) == "aquacheck.exe" {
				rc, err := f.Open()
				if err != nil {
					return nil, err
				}
				defer func() { _ = rc.Close() }()
				return io.ReadAll(io.LimitReader(rc, maxDownload))
			}
		}
		return nil, errors.New("aquacheck.exe not in archive")
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("aquacheck not in archive")
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == "aquacheck" {
			return io.ReadAll(io.LimitReader(tr, maxDownload))
		}
	}
}

// install writes bin next to target, runs it once, and renames it over
// target. The old binary is left alone on any failure.
func install(ctx context.Context, bin []byte, target, tag string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".aquacheck-update-*")
	if err != nil {
		return fmt.Errorf("stage update: %w", err)
	}
	staged := tmp.Name()
	defer func() { _ = os.Remove(staged) }()

	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("stage update: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("stage update: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage update: %w", err)
	}
	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return fmt.Errorf("stage update: %w", err)
	}

	out, err := exec.CommandContext(ctx, staged, "version", "--short").Output()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadBinary, err)
	}
	if got := strings.TrimSpace(string(out)); got != tag {
		return fmt.Errorf("%w: reports %q, want %q", ErrBadBinary, got, tag)
	}

	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}
