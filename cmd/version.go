package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/llm-mock-api/internal/cli"
)

// AppVersion is overwritten at build time with -ldflags "-X".
var AppVersion = "v0.1.0"

// ReleaseURL is the GitHub endpoint describing the latest release.
var ReleaseURL = "https://api.github.com/repos/nulzo/llm-mock-api/releases/latest"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

// IsOutdated reports whether latest is a newer version than current.
func IsOutdated(current, latest string) (bool, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parse current version %q: %w", current, err)
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("parse latest version %q: %w", latest, err)
	}
	return cur.LessThan(lat), nil
}

// LatestRelease fetches the tag of the latest published release.
func LatestRelease(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

// CheckForUpdates prints a notice when a newer release exists. Network and
// parse failures are silent.
func CheckForUpdates(ctx context.Context) {
	latest, err := LatestRelease(ctx, ReleaseURL)
	if err != nil {
		return
	}

	outdated, err := IsOutdated(AppVersion, latest)
	if err != nil || !outdated {
		return
	}

	fmt.Println("---------------------------------------------------------")
	fmt.Printf("%s You are running an outdated version (%s).\n", cli.WarningSign(), AppVersion)
	fmt.Printf("   The latest version is %s.\n", cli.Style(latest, cli.Bold))
	fmt.Println("---------------------------------------------------------")
}
