package log

import (
	"errors"
	"fmt"
	"io"
)

var (
	errWriterAlreadyLoaded = errors.New("io.Writer already loaded")
	errWriterNotFound      = errors.New("io.Writer not found")
)

// Add appends a new writer to the multiwriter slice
func (mw *multiWriter) Add(writer io.Writer) error {
	if writer == nil {
		return errNilWriter
	}
	mw.mu.Lock()
	defer mw.mu.Unlock()
	for i := range mw.writers {
		if mw.writers[i] == writer {
			return errWriterAlreadyLoaded
		}
	}
	mw.writers = append(mw.writers, writer)
	return nil
}

// Remove removes existing writer from multiwriter slice
func (mw *multiWriter) Remove(writer io.Writer) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	for i := range mw.writers {
		if mw.writers[i] != writer {
			continue
		}
		mw.writers = append(mw.writers[:i], mw.writers[i+1:]...)
		return nil
	}
	return errWriterNotFound
}

// Write writes to each writer in order. Every writer is attempted, the first
// error is returned
func (mw *multiWriter) Write(p []byte) (int, error) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	var firstErr error
	for x := range mw.writers {
		n, err := mw.writers[x].Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%T %w", mw.writers[x], err)
		}
	}
	if firstErr != nil {
		return 0, firstErr
	}
	return len(p), nil
}

// MultiWriter make and return a new copy of multiWriter
func MultiWriter(writers ...io.Writer) (*multiWriter, error) {
	mw := &multiWriter{}
	for x := range writers {
		if err := mw.Add(writers[x]); err != nil {
			return nil, err
		}
	}
	return mw, nil
}
