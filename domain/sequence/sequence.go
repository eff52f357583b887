package sequence

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	// Formats beyond the jpeg/png/gif decoders registered by imaging.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/soocke/boxlabel/domain/annotation"
)

var ErrEmpty = errors.New("no images found")

// DefaultExtensions lists the image file extensions scanned by default.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp"}

// Entry is one image of the sequence. Key is the token used in the
// annotation file.
type Entry struct {
	Key  string
	Path string
}

// Sequence is an ordered, wrapping list of images.
type Sequence struct {
	entries []Entry
	index   int
}

// Scan lists image files of dir whose extension is in exts, sorted by name.
// Files whose names cannot be used as record keys are skipped.
func Scan(dir string, exts []string, logger *slog.Logger) (*Sequence, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = struct{}{}
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var entries []Entry
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		name := de.Name()
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		if !annotation.ValidKey(name) {
			if logger != nil {
				logger.Warn("image skipped: name is not a valid key", "name", name)
			}
			continue
		}
		entries = append(entries, Entry{Key: name, Path: filepath.Join(dir, name)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	if logger != nil {
		logger.Info("image directory scanned", "dir", dir, "images", len(entries))
	}
	return New(entries), nil
}

// New wraps an explicit entry list.
func New(entries []Entry) *Sequence {
	return &Sequence{entries: append([]Entry(nil), entries...)}
}

func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *Sequence) Index() int {
	if s == nil {
		return 0
	}
	return s.index
}

// Entry returns the i-th entry.
func (s *Sequence) Entry(i int) (Entry, error) {
	if s.Len() == 0 {
		return Entry{}, ErrEmpty
	}
	if i < 0 || i >= len(s.entries) {
		return Entry{}, fmt.Errorf("image index %d out of range [0,%d)", i, len(s.entries))
	}
	return s.entries[i], nil
}

// Current returns the entry at the cursor.
func (s *Sequence) Current() (Entry, error) { return s.Entry(s.Index()) }

// Seek moves the cursor to i.
func (s *Sequence) Seek(i int) error {
	if _, err := s.Entry(i); err != nil {
		return err
	}
	s.index = i
	return nil
}

// NextIndex is the index after the cursor, wrapping to the first image.
func (s *Sequence) NextIndex() int {
	if s.Len() == 0 {
		return 0
	}
	return (s.index + 1) % len(s.entries)
}

// PrevIndex is the index before the cursor, wrapping to the last image.
func (s *Sequence) PrevIndex() int {
	n := s.Len()
	if n == 0 {
		return 0
	}
	return (s.index - 1 + n) % n
}

// Decode reads an image file, applying EXIF orientation.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
