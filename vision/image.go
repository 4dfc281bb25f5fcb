package vision

import (
	"bytes"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// readImage loads and validates an image file, returning its bytes and mime
// type. A missing file and an undecodable file are distinct failures.
func readImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := ImageDecodeFailure
		if os.IsNotExist(err) {
			kind = ImageNotFound
		}
		return nil, "", &ImageError{Path: path, Kind: kind, Err: err}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &ImageError{Path: path, Kind: ImageDecodeFailure, Err: err}
	}

	return data, "image/" + format, nil
}
