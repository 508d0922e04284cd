package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"sort"
	"time"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// BucketFS exposes the client's prefix as a read-only fs.FS, so docs
// loaders work the same against S3, embedded files and local directories.
type BucketFS struct {
	c   *Client
	ctx context.Context
}

// FS returns a BucketFS whose requests use ctx.
func (c *Client) FS(ctx context.Context) *BucketFS {
	return &BucketFS{c: c, ctx: ctx}
}

var (
	_ fs.ReadDirFS  = (*BucketFS)(nil)
	_ fs.ReadFileFS = (*BucketFS)(nil)
)

// Open implements fs.FS.
func (b *BucketFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return b.openDir(name)
	}

	data, err := b.ReadFile(name)
	if err == nil {
		return &objectFile{
			info:   fileInfo{name: path.Base(name), size: int64(len(data))},
			Reader: bytes.NewReader(data),
		}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return b.openDir(name)
}

// ReadFile implements fs.ReadFileFS.
func (b *BucketFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	data, err := b.c.Download(b.ctx, name)
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name.
func (b *BucketFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	dir := name
	if dir == "." {
		dir = ""
	}
	objects, dirs, err := b.c.List(b.ctx, dir)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	if name != "." && len(objects) == 0 && len(dirs) == 0 {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	entries := make([]fs.DirEntry, 0, len(objects)+len(dirs))
	for _, d := range dirs {
		entries = append(entries, fileInfo{name: d, dir: true})
	}
	for _, o := range objects {
		base := path.Base(o.Key)
		if base == "" || base == "." {
			continue
		}
		entries = append(entries, fileInfo{name: base, size: o.Size, mod: o.LastModified})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (b *BucketFS) openDir(name string) (fs.File, error) {
	entries, err := b.ReadDir(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &dirFile{info: fileInfo{name: path.Base(name), dir: true}, entries: entries}, nil
}

// fileInfo serves as both fs.FileInfo and fs.DirEntry.
type fileInfo struct {
	name string
	size int64
	mod  time.Time
	dir  bool
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) ModTime() time.Time { return fi.mod }
func (fi fileInfo) IsDir() bool        { return fi.dir }
func (fi fileInfo) Sys() any           { return nil }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

func (fi fileInfo) Type() fs.FileMode          { return fi.Mode().Type() }
func (fi fileInfo) Info() (fs.FileInfo, error) { return fi, nil }

type objectFile struct {
	*bytes.Reader
	info fileInfo
}

func (f *objectFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *objectFile) Close() error               { return nil }

type dirFile struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dirFile) Close() error               { return nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: errors.New("is a directory")}
}

// ReadDir implements fs.ReadDirFile.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
