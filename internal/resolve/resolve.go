// Package resolve maps a song's persisted identity to a locally playable
// file path and a platform URL the media element can load.
package resolve

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jamsplayer/jams/internal/domain"
)

// PlayablePath deterministically builds the local cache path for a song:
// downloadFolder/xorname__fileName.extension. All four components must be
// present.
func PlayablePath(song domain.Song) (string, error) {
	if !song.HasCompleteIdentity() {
		return "", fmt.Errorf("song %q: %w", song.Title, domain.ErrIncompleteSongIdentity)
	}

	folder := strings.TrimRight(song.DownloadFolder, "/\\")
	name := CacheFileName(song.Xorname, song.FileName, song.Extension)

	return folder + "/" + name, nil
}

// CacheFileName returns the file name a downloaded song is cached under,
// e.g. 3509bad0...__BegBlag.mp3.
func CacheFileName(xorname, fileName, extension string) string {
	return xorname + "__" + strings.TrimSpace(fileName) + "." + strings.TrimSpace(extension)
}

// SplitPath breaks a full file path into its folder, file name, and
// extension (without the dot).
func SplitPath(fullPath string) (folder, fileName, extension string) {
	normalized := strings.ReplaceAll(fullPath, "\\", "/")
	folder = strings.TrimRight(normalized[:len(normalized)-len(filepath.Base(normalized))], "/")

	base := filepath.Base(normalized)
	if dot := strings.LastIndex(base, "."); dot >= 0 {
		fileName = base[:dot]
		extension = base[dot+1:]
	} else {
		fileName = base
	}
	return folder, fileName, extension
}

// URLStrategy converts a local cache path into a URL the media element can
// load. The two strategies mirror the two platform variants: a loopback
// HTTP server on one, native file URLs on the others. Which one applies is
// configuration-selected, never hardcoded.
type URLStrategy interface {
	PlayableURL(path string) (string, error)
}

// LoopbackStrategy serves cached songs through the local HTTP loopback
// server: the URL is the percent-encoded cache file name under the
// server's root.
type LoopbackStrategy struct {
	Port int
}

func (s LoopbackStrategy) PlayableURL(path string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(path, "\\", "/"))
	return fmt.Sprintf("http://127.0.0.1:%d/%s", s.Port, url.PathEscape(name)), nil
}

// FileStrategy converts the path to a native file URL.
type FileStrategy struct{}

func (FileStrategy) PlayableURL(path string) (string, error) {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(normalized, "/") {
		// Windows drive-letter path, e.g. C:/music/...
		normalized = "/" + normalized
	}
	u := url.URL{Scheme: "file", Path: normalized}
	return u.String(), nil
}

// NewStrategy selects a URL strategy by name. An empty name selects the
// native file strategy.
func NewStrategy(name string, loopbackPort int) (URLStrategy, error) {
	switch name {
	case "loopback":
		return LoopbackStrategy{Port: loopbackPort}, nil
	case "file", "":
		return FileStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown url strategy %q", name)
	}
}
