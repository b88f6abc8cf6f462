package assets

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"os"
	"time"
)

// FileHashes carries the three digests stored per cartridge.
type FileHashes struct {
	MD5  string
	SHA1 string
	// CRC32 in the uppercase 8-hex-digit form scrapers expect.
	CRC string
}

// Hashes computes MD5, SHA1, and CRC32 for the file at path.
func Hashes(path string) (FileHashes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileHashes{}, fmt.Errorf("read %s: %w", path, err)
	}
	return HashBytes(data), nil
}

// HashBytes computes the digests over an in-memory cartridge.
func HashBytes(data []byte) FileHashes {
	md5Sum := md5.Sum(data)
	sha1Sum := sha1.Sum(data)
	return FileHashes{
		MD5:  hex.EncodeToString(md5Sum[:]),
		SHA1: hex.EncodeToString(sha1Sum[:]),
		CRC:  fmt.Sprintf("%08X", crc32.ChecksumIEEE(data)),
	}
}

// SetModTime stamps both access and modification time of a file.
func SetModTime(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}
