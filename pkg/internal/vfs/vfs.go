// Package vfs 在一个受限根目录之上提供文件仓库原语：
// 路径约束、元数据、目录列表、增删、范围读取与 zip 流.
// 所有对外暴露的路径都是 owner 子树内的相对路径.
package vfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/filevault/pkg/internal/types"
)

// Vault 一个受限文件仓库，Root 是磁盘上的约束根目录.
type Vault struct {
	Root string
}

// New 创建仓库并保证根目录存在.
func New(root string) (*Vault, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vault root: %w", err)
	}

	return &Vault{Root: root}, nil
}

// Abs 把 owner 相对路径解析为磁盘绝对路径，拒绝越界路径.
func (v *Vault) Abs(owner, file string) (string, error) {
	ownerRoot, err := SecureJoin(v.Root, owner)
	if err != nil {
		return "", err
	}

	return SecureJoin(ownerRoot, file)
}

// RelJoin 拼接 owner 与文件相对路径，结果仍是仓库相对路径.事件负载使用.
func (v *Vault) RelJoin(owner, file string) (string, error) {
	if _, err := v.Abs(owner, file); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(owner, file)), nil
}

// Stat 返回单个路径的元数据.
func (v *Vault) Stat(owner, file string) (types.FileStat, error) {
	dir, err := v.Abs(owner, file)
	if err != nil {
		return types.FileStat{}, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return types.FileStat{}, fmt.Errorf("failed to stat %q: %w", file, err)
	}

	return statFromInfo(info), nil
}

// ReadDir 列出目录，对每个子项做一次 stat.任何一个子项失败都让整个列表失败.
func (v *Vault) ReadDir(owner, dir string) ([]types.FileStatWithName, error) {
	abs, err := v.Abs(owner, dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read dir %q: %w", dir, err)
	}

	files := make([]types.FileStatWithName, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()

		stat, err := v.Stat(owner, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		files = append(files, withName(stat, name))
	}

	return files, nil
}

// CreateDir 创建单层目录，父目录必须已存在.
func (v *Vault) CreateDir(owner, dir string) error {
	abs, err := v.Abs(owner, dir)
	if err != nil {
		return err
	}

	if err := os.Mkdir(abs, 0o755); err != nil {
		return fmt.Errorf("failed to create dir %q: %w", dir, err)
	}

	return nil
}

// Delete 删除文件或整个目录树.
func (v *Vault) Delete(owner, file string) error {
	abs, err := v.Abs(owner, file)
	if err != nil {
		return err
	}

	stat, err := v.Stat(owner, file)
	if err != nil {
		return err
	}

	if stat.IsDir {
		err = os.RemoveAll(abs)
	} else {
		err = os.Remove(abs)
	}

	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", file, err)
	}

	return nil
}

// DeleteBatch 逐个删除，遇到第一个失败立即返回.
// 失败之前已删除的条目保持已删除状态，返回值是成功删除的仓库相对路径.
func (v *Vault) DeleteBatch(owner string, files []string) ([]string, error) {
	deleted := make([]string, 0, len(files))

	for _, file := range files {
		if err := v.Delete(owner, file); err != nil {
			return deleted, err
		}

		rel, err := v.RelJoin(owner, file)
		if err != nil {
			return deleted, err
		}

		deleted = append(deleted, rel)
	}

	return deleted, nil
}

// Save 把数据流落盘到 owner 子树内的相对路径，父目录自动创建.
func (v *Vault) Save(owner, file string, r io.Reader) error {
	abs, err := v.Abs(owner, file)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create parent dir of %q: %w", file, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", file, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()

		return fmt.Errorf("failed to write %q: %w", file, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", file, err)
	}

	return nil
}

// OpenRange 打开文件并定位到闭区间 [start, end]，返回只覆盖该区间的读取器.
func (v *Vault) OpenRange(owner, file string, start, end int64) (io.ReadCloser, error) {
	abs, err := v.Abs(owner, file)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", file, err)
	}

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		f.Close()

		return nil, fmt.Errorf("failed to seek %q: %w", file, err)
	}

	return &rangeReader{r: io.LimitReader(f, end-start+1), f: f}, nil
}

type rangeReader struct {
	r io.Reader
	f *os.File
}

func (rr *rangeReader) Read(p []byte) (int, error) {
	return rr.r.Read(p)
}

func (rr *rangeReader) Close() error {
	return rr.f.Close()
}

func statFromInfo(info os.FileInfo) types.FileStat {
	stat := types.FileStat{
		IsDir:    info.IsDir(),
		IsFile:   info.Mode().IsRegular(),
		Size:     info.Size(),
		Modified: info.ModTime().UnixMilli(),
	}

	// 创建/访问时间并非所有文件系统都提供，取不到时退回修改时间
	stat.Created = stat.Modified
	stat.Accessed = stat.Modified

	return stat
}

func withName(stat types.FileStat, name string) types.FileStatWithName {
	return types.FileStatWithName{
		Name:     name,
		IsDir:    stat.IsDir,
		IsFile:   stat.IsFile,
		Size:     stat.Size,
		Format:   stat.Format,
		Created:  stat.Created,
		Modified: stat.Modified,
		Accessed: stat.Accessed,
	}
}
