package media

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxChunk bounds a single ranged response to 1 MiB. Clients are
// expected to issue follow-up ranged requests for subsequent chunks.
const DefaultMaxChunk = int64(1 << 20)

// ByteRange is a closed byte interval [Start, End] within an object of
// TotalSize bytes. Invariant: 0 <= Start <= End < TotalSize.
type ByteRange struct {
	Start     int64
	End       int64
	TotalSize int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange renders the Content-Range header value for a 206 response.
func (r ByteRange) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.TotalSize)
}

// RangeError reports a malformed or unsatisfiable Range header. The caller
// responds with 416 Range Not Satisfiable.
type RangeError struct {
	Header string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("unsatisfiable range %q: %s", e.Header, e.Reason)
}

// ParseRange translates an HTTP Range header into exact byte offsets.
//
// An empty header means no range was requested and the caller should serve
// the full object with a 200. The expected shape is "bytes=<start>-[<end>]";
// a missing end means end-of-object. An end past the object is pulled back
// to the last byte, then the interval is clamped to maxChunk bytes by
// pulling end down to start+maxChunk-1. Anything else (non-numeric parts,
// multiple ranges, start beyond the object, start > end) is a *RangeError.
func ParseRange(header string, totalSize, maxChunk int64) (*ByteRange, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}
	if maxChunk <= 0 {
		maxChunk = DefaultMaxChunk
	}

	rangeSpec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, &RangeError{Header: header, Reason: "unit must be bytes"}
	}
	if strings.Contains(rangeSpec, ",") {
		return nil, &RangeError{Header: header, Reason: "multiple ranges are not supported"}
	}

	startPart, endPart, ok := strings.Cut(rangeSpec, "-")
	if !ok {
		return nil, &RangeError{Header: header, Reason: "missing '-' separator"}
	}

	startPart = strings.TrimSpace(startPart)
	endPart = strings.TrimSpace(endPart)
	if startPart == "" {
		return nil, &RangeError{Header: header, Reason: "start offset is required"}
	}

	start, err := strconv.ParseInt(startPart, 10, 64)
	if err != nil || start < 0 {
		return nil, &RangeError{Header: header, Reason: "start offset is not a non-negative integer"}
	}
	if start >= totalSize {
		return nil, &RangeError{Header: header, Reason: fmt.Sprintf("start %d is beyond object size %d", start, totalSize)}
	}

	end := totalSize - 1
	if endPart != "" {
		end, err = strconv.ParseInt(endPart, 10, 64)
		if err != nil || end < 0 {
			return nil, &RangeError{Header: header, Reason: "end offset is not a non-negative integer"}
		}
		if end < start {
			return nil, &RangeError{Header: header, Reason: "end offset precedes start"}
		}
		if end > totalSize-1 {
			end = totalSize - 1
		}
	}

	if end-start+1 > maxChunk {
		end = start + maxChunk - 1
	}

	return &ByteRange{Start: start, End: end, TotalSize: totalSize}, nil
}
