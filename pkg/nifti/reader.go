package nifti

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Image is an open NIfTI-1 file positioned at the start of its payload.
// Reads return decompressed payload bytes; the caller owns Close.
type Image struct {
	Header  *Header
	payload io.Reader
	file    *os.File
	gz      *gzip.Reader
}

// Open parses the header of a NIfTI-1 file and positions the stream at
// the payload. Compressed files (.nii.gz) are decompressed transparently.
func Open(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}

	img := &Image{file: file}
	var stream io.Reader = file

	if isCompressedPath(path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open gzip stream of %s: %w", path, err)
		}
		img.gz = gz
		stream = gz
	}

	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(stream, buf); err != nil {
		img.Close()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %s is smaller than a NIfTI-1 header", ErrInvalidHeader, path)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	hdr, err := parseHeader(buf)
	if err != nil {
		img.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	img.Header = hdr

	// Skip the gap between the header and the payload region
	if skip := hdr.VoxOffset - headerSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, stream, skip); err != nil {
			img.Close()
			return nil, fmt.Errorf("failed to seek to payload of %s: %w", path, err)
		}
	}

	img.payload = stream
	return img, nil
}

// Read reads decompressed payload bytes
func (img *Image) Read(p []byte) (int, error) {
	return img.payload.Read(p)
}

// Close releases the underlying file and decompressor
func (img *Image) Close() error {
	if img.gz != nil {
		img.gz.Close()
	}
	if img.file != nil {
		return img.file.Close()
	}
	return nil
}
