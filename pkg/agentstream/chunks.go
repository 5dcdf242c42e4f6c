package agentstream

import (
	"errors"
	"io"
	"iter"
	"strconv"
)

const DefaultChunkSize = 4096

// Chunks yields the bytes of r as they arrive. Each yielded slice is only
// valid until the next iteration step. A read error other than io.EOF is
// yielded once and ends the sequence.
func Chunks(r io.Reader, size int) iter.Seq2[[]byte, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				if !yield(buf[:n], nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

func messageID(conversationID string, index int) string {
	return conversationID + "-" + strconv.Itoa(index)
}
