package vfs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathSecurity 请求路径试图越出受限根目录.
var ErrPathSecurity = errors.New("path escapes vault root")

// SecureJoin 把不可信的相对路径拼接到 root 下，保证结果仍在 root 内.
// 纯词法检查：拒绝绝对路径和任何 ".." 分量，但不解析符号链接，
// root 内指向外部的链接依旧可以被穿过.需要防链接穿越时用 SecureJoinStrict.
func SecureJoin(root, unsafePath string) (string, error) {
	if filepath.IsAbs(unsafePath) {
		return "", fmt.Errorf("%w: rooted path %q", ErrPathSecurity, unsafePath)
	}

	for _, comp := range strings.Split(filepath.ToSlash(unsafePath), "/") {
		if comp == ".." {
			return "", fmt.Errorf("%w: %q", ErrPathSecurity, unsafePath)
		}
	}

	return filepath.Join(root, unsafePath), nil
}

// SecureJoinStrict SecureJoin 的严格版：把拼接结果和 root 都解析到真实路径，
// 要求结果的深度不小于 root 的深度.路径必须已存在，否则解析失败.
func SecureJoinStrict(root, unsafePath string) (string, error) {
	if filepath.IsAbs(unsafePath) {
		return "", fmt.Errorf("%w: rooted path %q", ErrPathSecurity, unsafePath)
	}

	joined := filepath.Join(root, unsafePath)

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", unsafePath, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root: %w", err)
	}

	if pathDepth(resolved) < pathDepth(resolvedRoot) {
		return "", fmt.Errorf("%w: %q", ErrPathSecurity, unsafePath)
	}

	return joined, nil
}

// pathDepth 返回清理后的路径分量数.
func pathDepth(p string) int {
	return len(strings.Split(filepath.Clean(p), string(filepath.Separator)))
}
