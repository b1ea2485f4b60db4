package resources

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// ResourceError reports a corpus or dictionary source that could not be
// opened. It is the only unrecoverable failure in a run.
type ResourceError struct {
	Name string
	Err  error
}

func (rsrcErr *ResourceError) Error() string {
	return fmt.Sprintf("unable to open %s: %v", rsrcErr.Name, rsrcErr.Err)
}

func (rsrcErr *ResourceError) Unwrap() error {
	return rsrcErr.Err
}

func (rsrcErr *ResourceError) Cause() error {
	return rsrcErr.Err
}

// IsResourceUnavailable reports whether err, or anything it wraps, is a
// *ResourceError, and returns the failing resource name.
func IsResourceUnavailable(err error) (string, bool) {
	var rsrcErr *ResourceError
	if errors.As(err, &rsrcErr) {
		return rsrcErr.Name, true
	}
	return "", false
}

// WriteCounter counts the number of bytes written to it, and every 10 seconds,
// it prints a message reporting the number of bytes written so far.
type WriteCounter struct {
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Since(wc.Last).Seconds() > 10 {
		wc.Reported = true
		wc.Last = time.Now()
		log.Printf("Downloading %s... %s / %s completed.",
			wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size))
	}
	return n, nil
}

// ResourceEntry is the resolved contents of one source. Local files are
// memory mapped and must be released with Close.
type ResourceEntry struct {
	Name    string
	Data    *[]byte
	release func() error
	file    *os.File
}

func (rsrc *ResourceEntry) Size() uint64 {
	if rsrc.Data == nil {
		return 0
	}
	return uint64(len(*rsrc.Data))
}

func (rsrc *ResourceEntry) Reader() io.Reader {
	if rsrc.Data == nil {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(*rsrc.Data)
}

func (rsrc *ResourceEntry) Close() error {
	var err error
	if rsrc.release != nil {
		err = rsrc.release()
		rsrc.release = nil
	}
	if rsrc.file != nil {
		if closeErr := rsrc.file.Close(); err == nil {
			err = closeErr
		}
		rsrc.file = nil
	}
	rsrc.Data = nil
	return err
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

// Resolve
// Given a local path or an http(s) URL, returns the resource's bytes. Local
// files are mapped read-only; remote resources are downloaded into memory.
// Any failure to reach the resource is returned as a *ResourceError.
func Resolve(uri string, auth string) (*ResourceEntry, error) {
	if isValidUrl(uri) {
		return resolveRemote(uri, auth)
	}
	return resolveLocal(uri)
}

func resolveLocal(path string) (*ResourceEntry, error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, &ResourceError{path, openErr}
	}
	stat, statErr := file.Stat()
	if statErr != nil {
		file.Close()
		return nil, &ResourceError{path, statErr}
	}
	if stat.IsDir() {
		file.Close()
		return nil, &ResourceError{path,
			errors.New("is a directory")}
	}
	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		empty := make([]byte, 0)
		return &ResourceEntry{Name: path, Data: &empty, file: file}, nil
	}
	data, release, mmapErr := readMmap(file)
	if mmapErr != nil {
		file.Close()
		return nil, &ResourceError{path,
			errors.Wrap(mmapErr, "error trying to mmap file")}
	}
	return &ResourceEntry{
		Name:    path,
		Data:    data,
		release: release,
		file:    file,
	}, nil
}

func resolveRemote(uri string, auth string) (*ResourceEntry, error) {
	size, sizeErr := SizeHTTP(uri, auth)
	if sizeErr != nil {
		return nil, &ResourceError{uri, sizeErr}
	}
	reader, fetchErr := FetchHTTP(uri, auth)
	if fetchErr != nil {
		return nil, &ResourceError{uri, fetchErr}
	}
	defer reader.Close()
	counter := &WriteCounter{
		Last: time.Now(),
		Path: uri,
		Size: uint64(size),
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, ioErr := io.Copy(buf, io.TeeReader(reader, counter)); ioErr != nil {
		return nil, &ResourceError{uri,
			errors.Wrap(ioErr, "error downloading")}
	}
	if counter.Reported {
		log.Printf("Downloaded %s... %s completed.", uri,
			humanize.Bytes(counter.Total))
	}
	data := buf.Bytes()
	return &ResourceEntry{Name: uri, Data: &data}, nil
}
