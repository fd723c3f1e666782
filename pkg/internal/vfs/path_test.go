package vfs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/filevault/pkg/internal/vfs"
)

func TestSecureJoin(t *testing.T) {
	cases := []struct {
		name   string
		unsafe string
		want   string
		wantOK bool
	}{
		{"plain child", "b", "/a/b", true},
		{"nested child", "b/c", "/a/b/c", true},
		{"dot segment", "./b", "/a/b", true},
		{"empty", "", "/a", true},
		{"parent escape", "../b", "", false},
		{"nested escape", "b/../../c", "", false},
		{"trailing parent", "b/..", "", false},
		{"rooted", "/etc/passwd", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := vfs.SecureJoin("/a", tc.unsafe)

			if tc.wantOK {
				if err != nil {
					t.Fatalf("SecureJoin(%q): %v", tc.unsafe, err)
				}

				if got != filepath.FromSlash(tc.want) {
					t.Fatalf("SecureJoin(%q) = %q, want %q", tc.unsafe, got, tc.want)
				}

				return
			}

			if !errors.Is(err, vfs.ErrPathSecurity) {
				t.Fatalf("SecureJoin(%q) err = %v, want ErrPathSecurity", tc.unsafe, err)
			}
		})
	}
}

func TestSecureJoinAllowsSymlinkTraversal(t *testing.T) {
	// 词法版本不解析链接：指向 root 之外的链接可以被穿过
	root := t.TempDir()
	outside := t.TempDir()

	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	got, err := vfs.SecureJoin(root, "link/secret.txt")
	if err != nil {
		t.Fatalf("SecureJoin: %v", err)
	}

	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected traversable path, stat failed: %v", err)
	}
}

func TestSecureJoinStrict(t *testing.T) {
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := vfs.SecureJoinStrict(root, "sub"); err != nil {
		t.Fatalf("SecureJoinStrict(sub): %v", err)
	}

	if _, err := vfs.SecureJoinStrict(root, "/abs"); !errors.Is(err, vfs.ErrPathSecurity) {
		t.Fatalf("rooted path err = %v, want ErrPathSecurity", err)
	}

	// 不存在的路径无法解析
	if _, err := vfs.SecureJoinStrict(root, "missing"); err == nil {
		t.Fatal("expected error for nonexistent path")
	}
}

func TestSecureJoinStrictRejectsUpwardLink(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "a", "b", "c")

	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}

	// root 内的链接指向比 root 浅得多的目录
	if err := os.Symlink(base, filepath.Join(root, "up")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	if _, err := vfs.SecureJoinStrict(root, "up"); !errors.Is(err, vfs.ErrPathSecurity) {
		t.Fatalf("upward link err = %v, want ErrPathSecurity", err)
	}
}
