package vfs

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yeisme/filevault/pkg/internal/types"
)

// ZipStream 把文件或整个目录树打包为 zip 流.
// 打包在单独的 goroutine 里进行，经由 io.Pipe 输出：消费者的读取速度
// 决定打包速度，消费者关闭读端后打包方在下一次写入时收到错误并退出.
// 条目不压缩（Store），只做归档.
func (v *Vault) ZipStream(owner, file string) (io.ReadCloser, error) {
	abs, err := v.Abs(owner, file)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", file, err)
	}

	base := filepath.Dir(abs)

	pr, pw := io.Pipe()

	go func() {
		zw := zip.NewWriter(pw)

		err := addToZip(zw, base, filepath.Base(abs))
		if err == nil {
			err = zw.Close()
		}

		pw.CloseWithError(err)
	}()

	return pr, nil
}

// addToZip 递归写入 base 下的相对路径 rel.
func addToZip(zw *zip.Writer, base, rel string) error {
	abs := filepath.Join(base, rel)

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(abs)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err := addToZip(zw, base, filepath.Join(rel, entry.Name())); err != nil {
				return err
			}
		}

		return nil
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.ToSlash(rel),
		Method:   zip.Store,
		Modified: info.ModTime(),
	})
	if err != nil {
		return err
	}

	f, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)

	return err
}

type zipNode struct {
	entry    types.ZipEntry
	children []*zipNode
}

// ReadZipEntries 读取 zip 文件的目录树而不解压内容.
// 条目可能乱序出现，先按父路径建图，根取最短的父路径；
// 没有显式目录条目的父目录按需合成.
func (v *Vault) ReadZipEntries(owner, file string) (types.ZipEntry, error) {
	abs, err := v.Abs(owner, file)
	if err != nil {
		return types.ZipEntry{}, err
	}

	zr, err := zip.OpenReader(abs)
	if err != nil {
		return types.ZipEntry{}, fmt.Errorf("failed to open zip %q: %w", file, err)
	}
	defer zr.Close()

	nodes := map[string]*zipNode{}

	// ensureDir 返回目录节点，不存在时连同全部祖先一起合成并挂接.
	// 许多 zip 不带显式目录条目，树必须能从文件路径反推出来.
	var ensureDir func(dir string) *zipNode
	ensureDir = func(dir string) *zipNode {
		if n, ok := nodes[dir]; ok {
			return n
		}

		n := &zipNode{entry: types.ZipEntry{
			Name:  path.Base(dir),
			Path:  dir,
			IsDir: true,
		}}
		if dir == "" {
			n.entry.Name = ""
		}

		nodes[dir] = n

		if dir != "" {
			p := ensureDir(parentOf(dir))
			p.children = append(p.children, n)
		}

		return n
	}

	var (
		root    string
		rootSet bool
	)

	for _, zf := range zr.File {
		name := strings.TrimSuffix(zf.Name, "/")
		if name == "" {
			continue
		}

		parent := parentOf(name)

		if zf.FileInfo().IsDir() {
			ensureDir(name)
		} else {
			node := &zipNode{entry: types.ZipEntry{
				Name:  path.Base(name),
				Path:  name,
				IsDir: false,
				Size:  int64(zf.UncompressedSize64),
			}}

			p := ensureDir(parent)
			p.children = append(p.children, node)
		}

		// 根取所有条目里最短的父路径
		if !rootSet || len(parent) < len(root) {
			root = parent
			rootSet = true
		}
	}

	rootNode, ok := nodes[root]
	if !rootSet || !ok {
		return types.ZipEntry{}, fmt.Errorf("failed to read zip %q: no entries", file)
	}

	return rootNode.toEntry(), nil
}

func parentOf(p string) string {
	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}

	return parent
}

func (n *zipNode) toEntry() types.ZipEntry {
	entry := n.entry
	for _, child := range n.children {
		entry.Children = append(entry.Children, child.toEntry())
	}

	return entry
}
