package docs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"

	"docstudio/internal/storage"
	"docstudio/web"
)

// Source is where the content tree is read from.
type Source struct {
	FS   fs.FS
	Name string // "embedded", "dir:<path>" or "s3:<bucket>"
}

// OpenSource picks the content tree: the S3 bucket when a client is given,
// else dir when set, else the copy embedded in the binary.
func OpenSource(ctx context.Context, dir string, bucket *storage.Client) (Source, error) {
	switch {
	case bucket != nil:
		return Source{FS: bucket.FS(ctx), Name: "s3:" + bucket.Bucket()}, nil
	case dir != "":
		info, err := os.Stat(dir)
		if err != nil {
			return Source{}, fmt.Errorf("docs dir: %w", err)
		}
		if !info.IsDir() {
			return Source{}, fmt.Errorf("docs dir %s is not a directory", dir)
		}
		return Source{FS: os.DirFS(dir), Name: "dir:" + dir}, nil
	default:
		return Embedded(), nil
	}
}

// Embedded returns the content tree compiled into the binary.
func Embedded() Source {
	sub, err := fs.Sub(web.DocsFS, "docs")
	if err != nil {
		// fs.Sub only fails on an invalid path.
		panic(err)
	}
	return Source{FS: sub, Name: "embedded"}
}

// Uploader stores one object. *storage.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}

// Push copies every file of src to dst under the same relative key and
// returns the number of files written.
func Push(ctx context.Context, src fs.FS, dst Uploader) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := src.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		if err := dst.Upload(ctx, p, contentType(p), f, info.Size()); err != nil {
			return fmt.Errorf("upload %s: %w", p, err)
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("push docs: %w", err)
	}
	return n, nil
}

func contentType(name string) string {
	switch ext := path.Ext(name); ext {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".yml", ".yaml":
		return "application/yaml"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
