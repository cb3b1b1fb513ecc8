package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// DefaultMaxSize caps how much a single archive may hold in memory.
const DefaultMaxSize = 256 << 20

var (
	ErrNotZip          = errors.New("not a zip archive")
	ErrNoImages        = errors.New("archive contains no page images")
	ErrTooLarge        = errors.New("archive is too large")
	ErrS3NotConfigured = errors.New("s3 source requested but no s3 client configured")
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageName reports whether name looks like a page image.
func IsImageName(name string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(path.Ext(name)))
}

// Archive is a validated chapter ZIP held in memory.
type Archive struct {
	Name    string
	Data    []byte
	Summary Summary
}

func (a *Archive) Reader() io.Reader {
	return bytes.NewReader(a.Data)
}

// Summary describes the archive content.
type Summary struct {
	Files    int
	Images   int
	Chapters []string
}

// Validate checks that r is a ZIP with at least one image entry. Chapters
// lists the distinct top-level folders that contain images.
func Validate(r io.ReaderAt, size int64) (Summary, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	var s Summary
	chapters := map[string]struct{}{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || skipped(f.Name) {
			continue
		}
		s.Files++
		if !IsImageName(f.Name) {
			continue
		}
		s.Images++
		if dir, _, ok := strings.Cut(f.Name, "/"); ok {
			chapters[dir] = struct{}{}
		}
	}
	if s.Images == 0 {
		return s, ErrNoImages
	}

	for c := range chapters {
		s.Chapters = append(s.Chapters, c)
	}
	sort.Strings(s.Chapters)
	return s, nil
}

// skipped filters archiver noise such as __MACOSX folders and dotfiles.
func skipped(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if part == "__MACOSX" || strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// PackDir zips dir, expected to hold one folder per chapter
// ("1/001.jpg", "2/001.jpg"). Hidden files are left out.
func PackDir(dir string) ([]byte, error) {
	return packDir(dir, 0)
}

// packDir is PackDir with a cap on the zipped size. It gives up with
// ErrTooLarge as soon as the output passes limit. A zero limit means no cap.
func packDir(dir string, limit int64) ([]byte, error) {
	w := &capWriter{limit: limit}
	if err := packTo(w, dir); err != nil {
		if w.exceeded {
			return nil, ErrTooLarge
		}
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func packTo(out io.Writer, dir string) error {
	zw := zip.NewWriter(out)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if skipped(name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFile(zw, name, p)
	})
	if err != nil {
		return fmt.Errorf("pack %s: %w", dir, err)
	}
	return zw.Close()
}

// capWriter buffers writes and refuses any that would take it past limit.
type capWriter struct {
	buf      bytes.Buffer
	limit    int64
	exceeded bool
}

func (w *capWriter) Write(p []byte) (int, error) {
	if w.limit > 0 && int64(w.buf.Len()+len(p)) > w.limit {
		w.exceeded = true
		return 0, ErrTooLarge
	}
	return w.buf.Write(p)
}

func addFile(zw *zip.Writer, name, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// Loader resolves a source string into a validated Archive.
type Loader struct {
	s3      ObjectGetter
	maxSize int64
}

type LoaderOption func(*Loader)

// WithS3 enables s3:// sources.
func WithS3(g ObjectGetter) LoaderOption {
	return func(l *Loader) { l.s3 = g }
}

func WithMaxSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads src, which is an s3:// URI, a directory or a .zip file.
func (l *Loader) Load(ctx context.Context, src string) (*Archive, error) {
	data, name, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxSize {
		return nil, ErrTooLarge
	}

	summary, err := Validate(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return &Archive{Name: name, Data: data, Summary: summary}, nil
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, string, error) {
	if bucket, key, ok := ParseS3URI(src); ok {
		if l.s3 == nil {
			return nil, "", ErrS3NotConfigured
		}
		data, err := getObject(ctx, l.s3, bucket, key, l.maxSize)
		if err != nil {
			return nil, "", err
		}
		return data, zipName(path.Base(key)), nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		data, err := packDir(src, l.maxSize)
		if err != nil {
			return nil, "", err
		}
		return data, zipName(filepath.Base(filepath.Clean(src))), nil
	}
	if info.Size() > l.maxSize {
		return nil, "", ErrTooLarge
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, "", err
	}
	return data, zipName(filepath.Base(src)), nil
}

// zipName makes sure the upload name carries the .zip extension the
// backend insists on.
func zipName(base string) string {
	if strings.HasSuffix(strings.ToLower(base), ".zip") {
		return base
	}
	return base + ".zip"
}
