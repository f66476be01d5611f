// Package mood maps detected emotion labels to Spotify playlists.
package mood

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
)

// DefaultLabels is the class order the bundled emotion model was trained with.
var DefaultLabels = []string{
	"anger", "content", "disgust", "fear", "happy", "neutral", "sad", "surprise",
}

// DefaultFallback is played when a label has no playlist of its own.
const DefaultFallback = "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M"

var defaultPlaylists = map[string]string{
	"anger":    "spotify:playlist:37i9dQZF1DX8tZsk68tuDw",
	"content":  "spotify:playlist:37i9dQZF1DX4WYpdgoIcn6",
	"disgust":  "spotify:playlist:37i9dQZF1DX4VvfRBFClxm",
	"fear":     "spotify:playlist:37i9dQZF1DWXRqgorJj26U",
	"happy":    "spotify:playlist:37i9dQZF1DXdPec7aLTmlC",
	"neutral":  "spotify:playlist:37i9dQZF1DX4sWSpwq3LiO",
	"sad":      "spotify:playlist:37i9dQZF1DX7qK8ma5wgG1",
	"surprise": "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
}

// Mapping is an immutable label → playlist URI table. Lookups are case
// insensitive and always resolve: labels without an entry get the fallback.
type Mapping struct {
	entries  map[string]string
	fallback string
}

// NewMapping builds a mapping from exactly the given entries. Keys are
// lowercased and values may be spotify: URIs or open.spotify.com links.
// An empty fallback defaults to DefaultFallback.
func NewMapping(entries map[string]string, fallback string) *Mapping {
	m := &Mapping{
		entries:  make(map[string]string, len(entries)),
		fallback: normalizeURI(fallback),
	}
	if m.fallback == "" {
		m.fallback = DefaultFallback
	}
	for label, uri := range entries {
		m.entries[strings.ToLower(strings.TrimSpace(label))] = normalizeURI(uri)
	}
	return m
}

// DefaultMapping returns the built-in table covering every default label.
func DefaultMapping(fallback string) *Mapping {
	return NewMapping(defaultPlaylists, fallback)
}

// LoadFile reads a JSON object of label → playlist pairs and overlays it on
// the built-in table, so a partial file still leaves every label resolvable.
func LoadFile(path string, fallback string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading playlist map: %w", err)
	}

	var overrides map[string]string
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing playlist map %s: %w", path, err)
	}

	entries := make(map[string]string, len(defaultPlaylists)+len(overrides))
	for label, uri := range defaultPlaylists {
		entries[label] = uri
	}
	for label, uri := range overrides {
		entries[strings.ToLower(strings.TrimSpace(label))] = uri
	}
	return NewMapping(entries, fallback), nil
}

// Resolve returns the playlist URI for a label, or the fallback when the
// label is unknown or mapped to an empty value.
func (m *Mapping) Resolve(label string) string {
	if uri, ok := m.entries[strings.ToLower(strings.TrimSpace(label))]; ok && uri != "" {
		return uri
	}
	return m.fallback
}

// Fallback returns the URI used for unmapped labels.
func (m *Mapping) Fallback() string {
	return m.fallback
}

// Labels returns the mapped labels in sorted order.
func (m *Mapping) Labels() []string {
	labels := make([]string, 0, len(m.entries))
	for label := range m.entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// normalizeURI converts shared open.spotify.com playlist links into
// spotify:playlist: URIs. Anything else passes through untouched.
func normalizeURI(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "https://open.spotify.com/") && !strings.HasPrefix(raw, "http://open.spotify.com/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] != "playlist" || parts[1] == "" {
		return raw
	}
	return "spotify:playlist:" + parts[1]
}
