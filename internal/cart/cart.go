package cart

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"regexp"
	"strconv"
)

var (
	cartridgePattern = regexp.MustCompile(`var\s+cartridge\s*=\s*\[([0-9,\s]+)\]`)
	digitsPattern    = regexp.MustCompile(`\d+`)
)

// ErrNoCartridge means the page carries no embedded cartridge array.
var ErrNoCartridge = errors.New("no embedded cartridge in page")

// ExtractEmbedded pulls the cartridge byte array out of an HTML player page
// and returns the decoded .tic contents. A zlib stream is inflated; anything
// that does not inflate is assumed to be a raw cartridge already.
func ExtractEmbedded(html []byte) ([]byte, error) {
	match := cartridgePattern.FindSubmatch(html)
	if match == nil {
		return nil, ErrNoCartridge
	}

	digits := digitsPattern.FindAll(match[1], -1)
	raw := make([]byte, 0, len(digits))
	for _, d := range digits {
		v, err := strconv.Atoi(string(d))
		if err != nil || v < 0 || v > 255 {
			return nil, errors.New("invalid byte value in cartridge array")
		}
		raw = append(raw, byte(v))
	}
	if len(raw) == 0 {
		return nil, ErrNoCartridge
	}

	reader, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw, nil
	}
	defer reader.Close()
	inflated, err := io.ReadAll(reader)
	if err != nil {
		return raw, nil
	}
	return inflated, nil
}

// HasEmbedded reports whether the page contains a cartridge array.
func HasEmbedded(html []byte) bool {
	return cartridgePattern.Match(html)
}
