package search_test

import (
	"context"
	"testing"

	"github.com/yeisme/filevault/pkg/internal/storage/search"
)

func newTestClient(t *testing.T) *search.Client {
	t.Helper()

	c, err := search.NewInMemory(10)
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}

	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestInsertAndSearch(t *testing.T) {
	c := newTestClient(t)

	docs := []search.Document{
		{Name: "notes.txt", Path: "docs/notes.txt", Body: "grocery list and errands", UpdatedAt: 100},
		{Name: "report.txt", Path: "docs/report.txt", Body: "quarterly revenue numbers", UpdatedAt: 100},
	}
	if err := c.Insert(docs); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	hits, err := c.Search(context.Background(), "grocery")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 1 || hits[0].Path != "docs/notes.txt" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	if hits[0].Name != "notes.txt" {
		t.Fatalf("expected stored name, got %q", hits[0].Name)
	}
}

func TestSearchByFileName(t *testing.T) {
	c := newTestClient(t)

	docs := []search.Document{
		{Name: "budget.csv", Path: "finance/budget.csv", UpdatedAt: 100},
	}
	if err := c.Insert(docs); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	hits, err := c.Search(context.Background(), "budget.csv")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 1 || hits[0].Path != "finance/budget.csv" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestInsertOverwritesSamePath(t *testing.T) {
	c := newTestClient(t)

	if err := c.Insert([]search.Document{
		{Name: "a.txt", Path: "a.txt", Body: "alpha", UpdatedAt: 100},
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := c.Insert([]search.Document{
		{Name: "a.txt", Path: "a.txt", Body: "bravo", UpdatedAt: 200},
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	count, err := c.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}

	if count != 1 {
		t.Fatalf("expected 1 document after overwrite, got %d", count)
	}

	hits, err := c.Search(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 0 {
		t.Fatalf("old body should be gone, got %+v", hits)
	}
}

func TestDeleteByPaths(t *testing.T) {
	c := newTestClient(t)

	if err := c.Insert([]search.Document{
		{Name: "a.txt", Path: "a.txt", UpdatedAt: 100},
		{Name: "b.txt", Path: "b.txt", UpdatedAt: 100},
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := c.DeleteByPaths([]string{"a.txt", "missing.txt"}); err != nil {
		t.Fatalf("DeleteByPaths: %v", err)
	}

	count, err := c.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}

	if count != 1 {
		t.Fatalf("expected 1 document, got %d", count)
	}
}

func TestDeleteStale(t *testing.T) {
	c := newTestClient(t)

	if err := c.Insert([]search.Document{
		{Name: "old1.txt", Path: "old1.txt", UpdatedAt: 100},
		{Name: "old2.txt", Path: "old2.txt", UpdatedAt: 150},
		{Name: "fresh.txt", Path: "fresh.txt", UpdatedAt: 200},
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	deleted, err := c.DeleteStale(context.Background(), 200)
	if err != nil {
		t.Fatalf("DeleteStale: %v", err)
	}

	if deleted != 2 {
		t.Fatalf("expected 2 stale documents deleted, got %d", deleted)
	}

	count, err := c.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}

	if count != 1 {
		t.Fatalf("expected 1 surviving document, got %d", count)
	}

	hits, err := c.Search(context.Background(), "fresh.txt")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 1 || hits[0].Path != "fresh.txt" {
		t.Fatalf("surviving document should still be searchable: %+v", hits)
	}
}
