package imaging

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

// Decode reads an image from path, dispatching on its extension.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // path is operator-supplied reference image location
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.Wrap(err, derrors.CodeFileNotExist, "reference image not found: "+path)
		}

		return nil, core.WrapIOFailed(err, "open image: "+path)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	return decodeReader(file, path)
}

func decodeReader(r io.Reader, path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err := png.Decode(r)
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeTemplateInputError, "failed to decode png: "+path)
		}

		return img, nil
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeTemplateInputError, "failed to decode jpeg: "+path)
		}

		return img, nil
	default:
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeTemplateInputError, "failed to decode image: "+path)
		}

		return img, nil
	}
}

// EncodePNG writes img to path as a PNG, creating its directory first.
func EncodePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return core.WrapIOFailed(err, "create snapshot directory")
	}

	file, err := os.Create(path) //nolint:gosec // path is operator-configured snapshot directory
	if err != nil {
		return core.WrapIOFailed(err, "create snapshot file: "+path)
	}
	defer file.Close() //nolint:errcheck // best-effort diagnostic artifact

	if err := png.Encode(file, img); err != nil {
		return core.WrapSerializationFailed(err, "encode snapshot png")
	}

	return nil
}

// DefaultDirPerms is the permission bits used for created snapshot directories.
const DefaultDirPerms = 0o750
