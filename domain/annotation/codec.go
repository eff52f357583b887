package annotation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrOutOfRange      = errors.New("normalized value out of range")
	ErrInvalidKey      = errors.New("invalid image key")
	ErrInvalidSize     = errors.New("invalid image size")
)

// Box is an axis-aligned rectangle in the pixel space of one image.
// X,Y is the top-left corner.
type Box struct {
	X, Y, W, H float64
	ClassID    int
}

// Record is one persisted line: a box for one image in normalized coordinates.
type Record struct {
	Key     string
	ClassID int
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// recordFields is the token count of a record line.
const recordFields = 6

// ValidKey reports whether key can be stored as a single record token.
func ValidKey(key string) bool {
	return key != "" && strings.IndexFunc(key, unicode.IsSpace) < 0
}

// Encode converts a pixel-space box of an image of size w x h to a record.
func Encode(key string, b Box, w, h int) (Record, error) {
	if !ValidKey(key) {
		return Record{}, fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	if w <= 0 || h <= 0 {
		return Record{}, fmt.Errorf("%dx%d: %w", w, h, ErrInvalidSize)
	}
	W, H := float64(w), float64(h)
	return Record{
		Key:     key,
		ClassID: b.ClassID,
		XCenter: (b.X + b.W/2) / W,
		YCenter: (b.Y + b.H/2) / H,
		Width:   b.W / W,
		Height:  b.H / H,
	}, nil
}

// Decode is the inverse of Encode.
func Decode(r Record, w, h int) (Box, error) {
	if w <= 0 || h <= 0 {
		return Box{}, fmt.Errorf("%dx%d: %w", w, h, ErrInvalidSize)
	}
	W, H := float64(w), float64(h)
	bw := r.Width * W
	bh := r.Height * H
	return Box{
		X:       r.XCenter*W - bw/2,
		Y:       r.YCenter*H - bh/2,
		W:       bw,
		H:       bh,
		ClassID: r.ClassID,
	}, nil
}

// Validate checks the normalized ranges: centers in [0,1], extents in (0,1].
func (r Record) Validate() error {
	if r.ClassID < 0 {
		return fmt.Errorf("class %d: %w", r.ClassID, ErrMalformedRecord)
	}
	for _, v := range [...]float64{r.XCenter, r.YCenter} {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("center %v: %w", v, ErrOutOfRange)
		}
	}
	for _, v := range [...]float64{r.Width, r.Height} {
		if !(v > 0 && v <= 1) {
			return fmt.Errorf("extent %v: %w", v, ErrOutOfRange)
		}
	}
	return nil
}

// String formats the record as a newline-less line.
func (r Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.Key)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(r.ClassID))
	for _, v := range [...]float64{r.XCenter, r.YCenter, r.Width, r.Height} {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return sb.String()
}

// LineKey returns the first whitespace-separated token of line.
func LineKey(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseRecord parses and range-checks one line.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != recordFields {
		return Record{}, fmt.Errorf("%d fields: %w", len(fields), ErrMalformedRecord)
	}
	cls, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("class %q: %w", fields[1], ErrMalformedRecord)
	}
	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return Record{}, fmt.Errorf("value %q: %w", fields[2+i], ErrMalformedRecord)
		}
		vals[i] = v
	}
	r := Record{Key: fields[0], ClassID: cls, XCenter: vals[0], YCenter: vals[1], Width: vals[2], Height: vals[3]}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
