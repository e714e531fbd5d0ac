package codec

import (
	"fmt"
	"strings"
)

// Format is a supported conversion target. Adding a format means adding a
// constant here plus its entries in the tables below; the rest of the
// pipeline is format-agnostic.
type Format int

const (
	FormatHEIC Format = iota
	FormatJPEG
)

// ParseFormat maps a user-supplied format selector to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "heic", "heif":
		return FormatHEIC, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("unknown target format %q (expected heic or jpeg)", value)
	}
}

// String returns the canonical selector name.
func (f Format) String() string {
	switch f {
	case FormatHEIC:
		return "heic"
	case FormatJPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Extension returns the output file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	default:
		return ".heic"
	}
}

// InputExtensions returns the lowercase input extensions accepted when
// converting to this format.
func (f Format) InputExtensions() []string {
	switch f {
	case FormatJPEG:
		return []string{".heic", ".heif"}
	default:
		return []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".gif"}
	}
}

// AcceptsInput reports whether a file with the given extension is an
// eligible source for this target format.
func (f Format) AcceptsInput(ext string) bool {
	ext = strings.ToLower(ext)
	for _, candidate := range f.InputExtensions() {
		if ext == candidate {
			return true
		}
	}
	return false
}

// coderName maps a Format to the ImageMagick coder identifier. The mapping
// lives at this boundary only; callers never see tool-specific names.
func (f Format) coderName() string {
	switch f {
	case FormatJPEG:
		return "JPEG"
	default:
		return "HEIC"
	}
}
