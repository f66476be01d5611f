// Package launcher opens playlists and URLs with the operating system's
// default handler. It is the fallback playback path when the Spotify Web
// API cannot reach a device, and it opens the browser during authorization.
package launcher

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const playlistPrefix = "spotify:playlist:"

// Launcher shells out to the platform's URL opener with a timeout.
type Launcher struct {
	timeout time.Duration
}

// New creates a Launcher. Commands that do not finish within the timeout
// are killed.
func New(timeout time.Duration) *Launcher {
	return &Launcher{timeout: timeout}
}

// Open hands the target to the OS default handler (browser, desktop app).
func (l *Launcher) Open(target string) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	args := commandFor(runtime.GOOS, target)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("open command timed out after %s", l.timeout)
	}
	if err != nil {
		if stderrStr := stderr.String(); stderrStr != "" {
			return fmt.Errorf("open command failed: %w, stderr: %s", err, stderrStr)
		}
		return fmt.Errorf("open command failed: %w", err)
	}
	return nil
}

// OpenPlaylist opens a playlist URI in the Spotify desktop app, falling
// back to the web player when no app handles the spotify: scheme.
func (l *Launcher) OpenPlaylist(uri string) error {
	if !strings.HasPrefix(uri, playlistPrefix) {
		return l.Open(uri)
	}
	if err := l.Open(uri); err != nil {
		return l.Open(webURL(uri))
	}
	return nil
}

// commandFor returns the platform command line that opens a target with
// its default handler.
func commandFor(goos, target string) []string {
	switch goos {
	case "darwin":
		return []string{"open", target}
	case "windows":
		// The empty string is the window title argument; without it
		// "start" treats a quoted URL as the title.
		return []string{"cmd", "/c", "start", "", target}
	default:
		return []string{"xdg-open", target}
	}
}

// webURL converts a playlist URI to its open.spotify.com equivalent.
// Anything that is not a playlist URI passes through unchanged.
func webURL(uri string) string {
	if !strings.HasPrefix(uri, playlistPrefix) {
		return uri
	}
	return "https://open.spotify.com/playlist/" + strings.TrimPrefix(uri, playlistPrefix)
}
