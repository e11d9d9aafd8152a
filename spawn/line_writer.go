// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package spawn

import (
	"bytes"
	"io"
	"sync"
)

// LineHandler receives each complete output line of the child.
type LineHandler func(stream, line string)

// lineWriter buffers partial lines and calls handler for each complete line.
// Output is also copied to output when it is set.
type lineWriter struct {
	stream  string
	output  io.Writer
	handler LineHandler
	buf     []byte
	mu      sync.Mutex
}

func (lw *lineWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.output != nil {
		n, err = lw.output.Write(p)
		if err != nil {
			return n, err
		}
	} else {
		n = len(p)
	}

	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(lw.buf[:idx], "\r"))
		lw.buf = lw.buf[idx+1:]
		if lw.handler != nil {
			lw.handler(lw.stream, line)
		}
	}

	return n, nil
}

// Flush processes any remaining buffered data as a final line.
func (lw *lineWriter) Flush() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if len(lw.buf) > 0 && lw.handler != nil {
		lw.handler(lw.stream, string(lw.buf))
	}
	lw.buf = nil
}
