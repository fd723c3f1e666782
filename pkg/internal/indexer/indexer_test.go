package indexer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/indexer"
	"github.com/yeisme/filevault/pkg/internal/model"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	searchc "github.com/yeisme/filevault/pkg/internal/storage/search"
)

type testEnv struct {
	ix     *indexer.Indexer
	db     *dbc.Client
	search *searchc.Client
	root   string
}

func newTestEnv(t *testing.T, cfg configs.IndexConfig) *testEnv {
	t.Helper()

	root := t.TempDir()

	db, err := dbc.New(context.Background(), &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     filepath.Join(t.TempDir(), "index"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}

	if err := db.AutoMigrate(&model.FileIndex{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	search, err := searchc.NewInMemory(10)
	if err != nil {
		t.Fatalf("search.NewInMemory: %v", err)
	}

	t.Cleanup(func() { _ = search.Close() })

	return &testEnv{
		ix:     indexer.New(db, search, root, cfg),
		db:     db,
		search: search,
		root:   root,
	}
}

func defaultIndexConfig() configs.IndexConfig {
	return configs.IndexConfig{
		BatchSize:      25,
		ThrottleMs:     0,
		MaxExtractSize: 10 << 20,
	}
}

func (e *testEnv) writeFile(t *testing.T, rel, content string) {
	t.Helper()

	abs := filepath.Join(e.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) rowPaths(t *testing.T) map[string]int64 {
	t.Helper()

	var rows []model.FileIndex
	if err := e.db.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}

	paths := make(map[string]int64, len(rows))
	for _, row := range rows {
		if _, dup := paths[row.FilePath]; dup {
			t.Fatalf("duplicate generations for %q", row.FilePath)
		}

		paths[row.FilePath] = row.UpdatedAt
	}

	return paths
}

func TestWalkIndexesTree(t *testing.T) {
	e := newTestEnv(t, defaultIndexConfig())

	e.writeFile(t, "a.txt", "the quick brown fox")
	e.writeFile(t, "sub/b.txt", "jumped over the lazy dog")

	if err := e.ix.Walk(); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	paths := e.rowPaths(t)

	for _, want := range []string{"a.txt", "sub", filepath.Join("sub", "b.txt")} {
		if _, ok := paths[want]; !ok {
			t.Fatalf("missing row for %q, have %v", want, paths)
		}
	}

	if len(paths) != 3 {
		t.Fatalf("expected 3 rows, got %v", paths)
	}

	status := e.ix.Status()
	if status.State != "idle" {
		t.Fatalf("status after walk = %+v", status)
	}

	hits, err := e.search.Search(context.Background(), "quick")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 1 || hits[0].Path != "a.txt" {
		t.Fatalf("content should be searchable: %+v", hits)
	}
}

func TestWalkIsIdempotent(t *testing.T) {
	e := newTestEnv(t, defaultIndexConfig())

	e.writeFile(t, "a.txt", "alpha")
	e.writeFile(t, "b.txt", "bravo")

	if err := e.ix.Walk(); err != nil {
		t.Fatalf("first Walk: %v", err)
	}

	first := e.rowPaths(t)

	// 确保第二轮拿到不同的世代号
	time.Sleep(5 * time.Millisecond)

	if err := e.ix.Walk(); err != nil {
		t.Fatalf("second Walk: %v", err)
	}

	second := e.rowPaths(t)

	if len(first) != len(second) {
		t.Fatalf("row count changed: %v -> %v", first, second)
	}

	for p := range first {
		if _, ok := second[p]; !ok {
			t.Fatalf("path %q lost after second walk", p)
		}
	}

	// 未变化文件的搜索文档必须在对账后幸存
	hits, err := e.search.Search(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("doc for unchanged file lost: %+v", hits)
	}
}

func TestWalkReconcilesDeletedFiles(t *testing.T) {
	e := newTestEnv(t, defaultIndexConfig())

	e.writeFile(t, "stay.txt", "staying content")
	e.writeFile(t, "gone.txt", "leaving content")

	if err := e.ix.Walk(); err != nil {
		t.Fatalf("first Walk: %v", err)
	}

	if err := os.Remove(filepath.Join(e.root, "gone.txt")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(5 * time.Millisecond)

	if err := e.ix.Walk(); err != nil {
		t.Fatalf("second Walk: %v", err)
	}

	paths := e.rowPaths(t)
	if _, ok := paths["gone.txt"]; ok {
		t.Fatalf("row for deleted file survived: %v", paths)
	}

	if _, ok := paths["stay.txt"]; !ok {
		t.Fatalf("row for surviving file lost: %v", paths)
	}

	hits, err := e.search.Search(context.Background(), "leaving")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 0 {
		t.Fatalf("search doc for deleted file survived: %+v", hits)
	}
}

func TestWalkBusyIsNoOp(t *testing.T) {
	cfg := defaultIndexConfig()
	cfg.BatchSize = 1
	cfg.ThrottleMs = 100

	e := newTestEnv(t, cfg)

	for i := 0; i < 10; i++ {
		e.writeFile(t, filepath.Join("d", "f"+string(rune('0'+i))+".txt"), "x")
	}

	done := make(chan error, 1)
	go func() { done <- e.ix.Walk() }()

	// 等第一轮进入 running
	deadline := time.Now().Add(2 * time.Second)
	for e.ix.Status().State != "running" {
		if time.Now().After(deadline) {
			t.Fatal("walk never entered running state")
		}

		time.Sleep(5 * time.Millisecond)
	}

	// 再触发一次必须立刻无副作用返回
	start := time.Now()
	if err := e.ix.Walk(); err != nil {
		t.Fatalf("busy Walk returned error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("busy Walk blocked for %v", elapsed)
	}

	if err := <-done; err != nil {
		t.Fatalf("first Walk: %v", err)
	}

	if state := e.ix.Status().State; state != "idle" {
		t.Fatalf("state after walk = %v", state)
	}
}

func TestOnFilesAddedAndDeleted(t *testing.T) {
	e := newTestEnv(t, defaultIndexConfig())

	e.writeFile(t, "a.txt", "alpha body")
	e.writeFile(t, "b.txt", "bravo body")

	if err := e.ix.OnFilesAdded([]string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("OnFilesAdded: %v", err)
	}

	paths := e.rowPaths(t)
	if len(paths) != 2 {
		t.Fatalf("expected 2 rows, got %v", paths)
	}

	// 精确删除只影响给定路径
	if err := e.ix.OnFilesDeleted([]string{"a.txt"}); err != nil {
		t.Fatalf("OnFilesDeleted: %v", err)
	}

	paths = e.rowPaths(t)
	if _, ok := paths["a.txt"]; ok {
		t.Fatalf("a.txt should be deleted: %v", paths)
	}

	if _, ok := paths["b.txt"]; !ok {
		t.Fatalf("b.txt should survive: %v", paths)
	}

	hits, err := e.search.Search(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 0 {
		t.Fatalf("search doc for a.txt should be gone: %+v", hits)
	}

	hits, err = e.search.Search(context.Background(), "bravo")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("search doc for b.txt should survive: %+v", hits)
	}
}

func TestWalkErrorStateOnUnreadableRoot(t *testing.T) {
	e := newTestEnv(t, defaultIndexConfig())

	if err := os.RemoveAll(e.root); err != nil {
		t.Fatal(err)
	}

	if err := e.ix.Walk(); err == nil {
		t.Fatal("expected walk error for missing root")
	}

	status := e.ix.Status()
	if status.State != "error" || status.Message == "" {
		t.Fatalf("status = %+v, want error with message", status)
	}
}
