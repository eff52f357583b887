package annotation

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidBox = errors.New("invalid box")

// Store persists the boxes of each image.
type Store interface {
	Save(key string, boxes []Box, w, h int) error
	Load(key string, w, h int) ([]Box, error)
}

// ClassValidator reports whether a class id may be persisted.
type ClassValidator interface {
	Valid(id int) bool
}

// sizeEpsilon absorbs float error from a normalize/denormalize round trip.
const sizeEpsilon = 1e-6

// MeetsMin reports whether both sides of b reach min.
func MeetsMin(b Box, min float64) bool {
	return b.W+sizeEpsilon >= min && b.H+sizeEpsilon >= min
}

// FileStore keeps every image's records in one flat text file.
// A single process is assumed to be the only writer.
type FileStore struct {
	path    string
	logger  *slog.Logger
	classes ClassValidator
	minSize float64
}

type Option func(*FileStore)

// WithClasses makes Save reject boxes whose class is not known to v.
func WithClasses(v ClassValidator) Option { return func(s *FileStore) { s.classes = v } }

// WithMinSize makes Save reject boxes with a side shorter than min pixels.
func WithMinSize(min float64) Option { return func(s *FileStore) { s.minSize = min } }

func NewFileStore(path string, logger *slog.Logger, opts ...Option) *FileStore {
	s := &FileStore{path: path, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the annotation file path.
func (s *FileStore) Path() string { return s.path }

// Load returns the boxes stored for key in file order. A missing file yields
// no boxes. Lines that fail to parse or hold out-of-range values are skipped
// and logged. Class and size limits are not applied here so that a stricter
// configuration never drops records already in the file.
func (s *FileStore) Load(key string, w, h int) ([]Box, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("load %s: %dx%d: %w", key, w, h, ErrInvalidSize)
	}
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}
	var boxes []Box
	for i, line := range lines {
		if LineKey(line) != key {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			s.skip(i+1, key, err)
			continue
		}
		b, err := Decode(rec, w, h)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, nil
}

// Save replaces every record of key with boxes. Records of other keys keep
// their content and relative order. Matching is exact on the key token.
// Boxes below the minimum, with an unknown class or reaching outside the
// image are rejected and the file is left untouched.
func (s *FileStore) Save(key string, boxes []Box, w, h int) error {
	if !ValidKey(key) {
		return fmt.Errorf("save: %q: %w", key, ErrInvalidKey)
	}
	recs := make([]string, 0, len(boxes))
	for i, b := range boxes {
		if !MeetsMin(b, s.minSize) {
			return fmt.Errorf("save %s: box %d is %.1fx%.1f: %w", key, i, b.W, b.H, ErrInvalidBox)
		}
		if s.classes != nil && !s.classes.Valid(b.ClassID) {
			return fmt.Errorf("save %s: box %d class %d: %w", key, i, b.ClassID, ErrInvalidBox)
		}
		rec, err := Encode(key, b, w, h)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		// Load skips out-of-range records, so writing one would lose it.
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("save %s: box %d: %w: %w", key, i, ErrInvalidBox, err)
		}
		recs = append(recs, rec.String())
	}
	lines, err := s.readLines()
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || LineKey(line) == key {
			continue
		}
		kept = append(kept, line)
	}
	kept = append(kept, recs...)
	if err := s.writeLines(kept); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("annotations saved", "key", key, "boxes", len(boxes), "path", s.path)
	}
	return nil
}

// Keys lists the distinct image keys present in the file in first-appearance order.
func (s *FileStore) Keys() ([]string, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var keys []string
	for _, line := range lines {
		k := LineKey(line)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *FileStore) skip(line int, key string, err error) {
	if s.logger != nil {
		s.logger.Warn("annotation record skipped", "path", s.path, "line", line, "key", key, "error", err)
	}
}

func (s *FileStore) readLines() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	return lines, nil
}

// writeLines replaces the file through a temp file and rename so a failed
// write leaves the previous content intact.
func (s *FileStore) writeLines(lines []string) (err error) {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	bw := bufio.NewWriter(tmp)
	for _, l := range lines {
		bw.WriteString(l)
		bw.WriteByte('\n')
	}
	if err = bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write annotations: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
