package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
)

// ContentType is the media type served for every object in the library.
const ContentType = "audio/mpeg"

// Slice is the outcome of reading a media object: the HTTP status plus the
// header values the boundary layer needs to build the response.
// ContentRange is empty for a full-object (200) read.
type Slice struct {
	Status        int
	ContentType   string
	ContentLength int64
	ContentRange  string
	Body          []byte
}

// ErrNotFound indicates the media object does not exist on disk.
var ErrNotFound = errors.New("media object not found")

// ReadRange reads either the whole object (rng == nil, status 200) or
// exactly the bytes in [rng.Start, rng.End] (status 206). For a ranged read
// only the requested slice is materialized, so peak memory stays bounded by
// the max-chunk constant regardless of file size. Partially filled buffers
// from a failed read are discarded, never returned.
func ReadRange(path string, rng *ByteRange) (*Slice, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open media object: %w", err)
	}
	defer f.Close()

	if rng == nil {
		body, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read media object: %w", err)
		}
		return &Slice{
			Status:        http.StatusOK,
			ContentType:   ContentType,
			ContentLength: int64(len(body)),
			Body:          body,
		}, nil
	}

	if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek media object: %w", err)
	}

	body := make([]byte, rng.Length())
	if _, err := io.ReadFull(f, body); err != nil {
		return nil, fmt.Errorf("read media slice: %w", err)
	}

	return &Slice{
		Status:        http.StatusPartialContent,
		ContentType:   ContentType,
		ContentLength: rng.Length(),
		ContentRange:  rng.ContentRange(),
		Body:          body,
	}, nil
}
