package store

import (
	"fmt"
	"io"
)

// memSeeker is an in-memory io.WriteSeeker and io.ReaderAt, adapted from
// go/cli/mcap/testutils.BufReadWriteSeeker for use as a Write/Open target
// in tests that would otherwise need a real *os.File.
type memSeeker struct {
	buf    []byte
	offset int64
	length int64
}

func newMemSeeker() *memSeeker {
	return &memSeeker{buf: make([]byte, 1024)}
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.offset + int64(len(p))
	if end > int64(len(m.buf)) {
		newBuf := make([]byte, end*2)
		copy(newBuf, m.buf)
		m.buf = newBuf
	}
	n := copy(m.buf[m.offset:], p)
	m.offset += int64(n)
	if m.offset > m.length {
		m.length = m.offset
	}
	return n, nil
}

func (m *memSeeker) ReadAt(p []byte, off int64) (int, error) {
	if off >= m.length {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:m.length])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.offset = offset
	case io.SeekCurrent:
		m.offset += offset
	case io.SeekEnd:
		m.offset = m.length + offset
	}
	if m.offset < 0 {
		return 0, fmt.Errorf("memseeker: negative offset")
	}
	return m.offset, nil
}

func (m *memSeeker) Bytes() []byte { return m.buf[:m.length] }
