package vfs_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeisme/filevault/pkg/internal/vfs"
)

const testOwner = "alice"

func newTestVault(t *testing.T) *vfs.Vault {
	t.Helper()

	v, err := vfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return v
}

func writeVaultFile(t *testing.T, v *vfs.Vault, rel, content string) {
	t.Helper()

	if err := v.Save(testOwner, rel, strings.NewReader(content)); err != nil {
		t.Fatalf("Save(%q): %v", rel, err)
	}
}

func TestStatAndReadDir(t *testing.T) {
	v := newTestVault(t)

	writeVaultFile(t, v, "docs/a.txt", "hello")
	writeVaultFile(t, v, "docs/b.txt", "world!")

	stat, err := v.Stat(testOwner, "docs/a.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if !stat.IsFile || stat.IsDir || stat.Size != 5 {
		t.Fatalf("unexpected stat: %+v", stat)
	}

	entries, err := v.ReadDir(testOwner, "docs")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	for _, e := range entries {
		if e.Name != "a.txt" && e.Name != "b.txt" {
			t.Fatalf("unexpected entry %q", e.Name)
		}
	}
}

func TestStatRejectsEscapingPath(t *testing.T) {
	v := newTestVault(t)

	if _, err := v.Stat(testOwner, "../other/file.txt"); !errors.Is(err, vfs.ErrPathSecurity) {
		t.Fatalf("err = %v, want ErrPathSecurity", err)
	}
}

func TestCreateDirIsNonRecursive(t *testing.T) {
	v := newTestVault(t)

	if err := v.CreateDir(testOwner, "missing/child"); err == nil {
		t.Fatal("expected error when parent does not exist")
	}

	if err := v.CreateDir(testOwner, "top"); err != nil {
		t.Fatalf("CreateDir(top): %v", err)
	}

	if err := v.CreateDir(testOwner, "top/child"); err != nil {
		t.Fatalf("CreateDir(top/child): %v", err)
	}
}

func TestDeleteFileAndDirTree(t *testing.T) {
	v := newTestVault(t)

	writeVaultFile(t, v, "keep.txt", "k")
	writeVaultFile(t, v, "dir/inner/deep.txt", "d")

	if err := v.Delete(testOwner, "dir"); err != nil {
		t.Fatalf("Delete(dir): %v", err)
	}

	if _, err := v.Stat(testOwner, "dir"); err == nil {
		t.Fatal("dir should be gone")
	}

	if _, err := v.Stat(testOwner, "keep.txt"); err != nil {
		t.Fatalf("sibling should survive: %v", err)
	}
}

func TestDeleteBatchFailFast(t *testing.T) {
	v := newTestVault(t)

	writeVaultFile(t, v, "a.txt", "a")
	writeVaultFile(t, v, "c.txt", "c")

	deleted, err := v.DeleteBatch(testOwner, []string{"a.txt", "missing.txt", "c.txt"})
	if err == nil {
		t.Fatal("expected error on missing entry")
	}

	// 失败前已删除的保持已删除，失败之后的不再处理
	if len(deleted) != 1 || deleted[0] != "alice/a.txt" {
		t.Fatalf("unexpected deleted list: %v", deleted)
	}

	if _, err := v.Stat(testOwner, "a.txt"); err == nil {
		t.Fatal("a.txt should be gone")
	}

	if _, err := v.Stat(testOwner, "c.txt"); err != nil {
		t.Fatalf("c.txt should survive: %v", err)
	}
}

func TestOpenRangeRoundTrip(t *testing.T) {
	v := newTestVault(t)

	content := "0123456789abcdefghij"
	writeVaultFile(t, v, "data.bin", content)

	cases := []struct {
		name       string
		start, end int64
		want       string
	}{
		{"full", 0, int64(len(content) - 1), content},
		{"middle", 5, 9, "56789"},
		{"tail", 15, int64(len(content) - 1), "fghij"},
		{"single byte", 3, 3, "3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := v.OpenRange(testOwner, "data.bin", tc.start, tc.end)
			if err != nil {
				t.Fatalf("OpenRange: %v", err)
			}
			defer r.Close()

			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}

			if string(got) != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOpenRangeEmptyFile(t *testing.T) {
	v := newTestVault(t)

	writeVaultFile(t, v, "empty.bin", "")

	stat, err := v.Stat(testOwner, "empty.bin")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	start, end, partial := vfs.ParseRange("", stat.Size)
	if partial {
		t.Fatalf("empty file must not yield a partial response")
	}

	if length := end - start + 1; length != 0 {
		t.Fatalf("content length = %d, want 0", length)
	}

	r, err := v.OpenRange(testOwner, "empty.bin", start, end)
	if err != nil {
		t.Fatalf("OpenRange: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("got %d bytes from empty file", len(got))
	}
}

func TestZipStreamRoundTrip(t *testing.T) {
	v := newTestVault(t)

	writeVaultFile(t, v, "pack/a.txt", "alpha")
	writeVaultFile(t, v, "pack/sub/b.txt", "bravo")

	r, err := v.ZipStream(testOwner, "pack")
	if err != nil {
		t.Fatalf("ZipStream: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	// 回读压缩流验证内容
	zipPath := filepath.Join(t.TempDir(), "out.zip")
	if err := os.WriteFile(zipPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got := readZipContents(t, zipPath)

	want := map[string]string{
		"pack/a.txt":     "alpha",
		"pack/sub/b.txt": "bravo",
	}

	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	for name, content := range want {
		if got[name] != content {
			t.Fatalf("entry %q = %q, want %q", name, got[name], content)
		}
	}
}

func TestZipStreamConsumerCloseStopsProducer(t *testing.T) {
	v := newTestVault(t)

	// 足够大，保证关闭读端时打包方仍在写
	writeVaultFile(t, v, "big/blob.bin", strings.Repeat("x", 4<<20))

	r, err := v.ZipStream(testOwner, "big")
	if err != nil {
		t.Fatalf("ZipStream: %v", err)
	}

	buf := make([]byte, 1024)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("first read: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestReadZipEntriesTree(t *testing.T) {
	v := newTestVault(t)

	writeVaultFile(t, v, "pack/a.txt", "alpha")
	writeVaultFile(t, v, "pack/sub/b.txt", "bravo")

	r, err := v.ZipStream(testOwner, "pack")
	if err != nil {
		t.Fatalf("ZipStream: %v", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	r.Close()

	writeVaultFile(t, v, "archive.zip", string(data))

	root, err := v.ReadZipEntries(testOwner, "archive.zip")
	if err != nil {
		t.Fatalf("ReadZipEntries: %v", err)
	}

	if !root.IsDir {
		t.Fatalf("root should be a dir: %+v", root)
	}

	names := map[string]bool{}
	for _, child := range root.Children {
		names[child.Name] = child.IsDir
	}

	if isDir, ok := names["a.txt"]; !ok || isDir {
		t.Fatalf("a.txt missing or wrong kind: %v", names)
	}

	if isDir, ok := names["sub"]; !ok || !isDir {
		t.Fatalf("sub missing or wrong kind: %v", names)
	}
}

func readZipContents(t *testing.T, path string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()

	contents := map[string]string{}

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open entry %q: %v", zf.Name, err)
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, rc); err != nil {
			t.Fatalf("read entry %q: %v", zf.Name, err)
		}

		rc.Close()

		contents[zf.Name] = buf.String()
	}

	return contents
}
