package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 keeps objects in memory, keyed by full object key.
type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	seen := map[string]bool{}
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			p := prefix + rest[:i+1]
			if !seen[p] {
				seen[p] = true
				out.CommonPrefixes = append(out.CommonPrefixes, s3types.CommonPrefix{Prefix: aws.String(p)})
			}
			continue
		}
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(f.objects[k])))})
	}
	return out, nil
}

func testBucket() (*fakeS3, *Client) {
	api := &fakeS3{objects: map[string][]byte{
		"docs/menus.yaml":              []byte("menus: []"),
		"docs/guides/cli/index.md":     []byte("# CLI"),
		"docs/guides/cli/local/dev.md": []byte("# Dev"),
		"other/ignored.txt":            []byte("nope"),
	}}
	return api, newClient(api, "bucket", "/docs/")
}

func TestBucketFSReadFile(t *testing.T) {
	_, c := testBucket()
	fsys := c.FS(context.Background())

	data, err := fs.ReadFile(fsys, "menus.yaml")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "menus: []" {
		t.Errorf("content: got %q", data)
	}

	_, err = fs.ReadFile(fsys, "missing.md")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v, want fs.ErrNotExist", err)
	}
}

func TestBucketFSWalk(t *testing.T) {
	_, c := testBucket()
	fsys := c.FS(context.Background())

	var files []string
	err := fs.WalkDir(fsys, "guides", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}

	want := []string{"guides/cli/index.md", "guides/cli/local/dev.md"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("files: got %v, want %v", files, want)
	}
}

func TestBucketFSOpenDirectory(t *testing.T) {
	_, c := testBucket()
	fsys := c.FS(context.Background())

	info, err := fs.Stat(fsys, "guides/cli")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("guides/cli should be a directory")
	}

	if _, err := fs.Stat(fsys, "nowhere"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat missing dir: got %v, want fs.ErrNotExist", err)
	}
}

func TestClientUploadUsesPrefix(t *testing.T) {
	api, c := testBucket()

	body := []byte("new")
	if err := c.Upload(context.Background(), "guides/new.md", "text/markdown", bytes.NewReader(body), int64(len(body))); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if string(api.objects["docs/guides/new.md"]) != "new" {
		t.Errorf("object not stored under prefix: %v", api.objects)
	}
}
