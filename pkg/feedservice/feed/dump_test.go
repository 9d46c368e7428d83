// +build unit
// +build !integration

package feed

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func TestDumpToCSV(t *testing.T) {
	first := NewItem()
	first.Set("id", "v1")
	first.Set("price", "100 USD")
	first.Set("color", "Red")

	second := NewItem()
	second.Set("id", "v2")
	second.Set("price", "200 USD")
	second.Set("size", "XL")

	path := filepath.Join(t.TempDir(), "feed.csv")
	if err := DumpToCSV([]*Item{first, second}, path); err != nil {
		t.Fatalf("%v", err)
	}

	raw, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("%v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus two rows, got %d lines", len(lines))
	}
	if lines[0] != "id,price,color,size" {
		t.Fatalf("Expected the union header in first-seen order, got %q", lines[0])
	}
	if lines[1] != "v1,100 USD,Red," {
		t.Fatalf("Expected empty cells for missing fields, got %q", lines[1])
	}
	if lines[2] != "v2,200 USD,,XL" {
		t.Fatalf("Unexpected second row %q", lines[2])
	}
}

func TestDumpToCSVSanitizesCells(t *testing.T) {
	item := NewItem()
	item.Set("id", "v1")
	item.Set("description", "line one\nline two")

	path := filepath.Join(t.TempDir(), "feed.csv")
	if err := DumpToCSV([]*Item{item}, path); err != nil {
		t.Fatalf("%v", err)
	}

	raw, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if strings.Contains(string(raw), "line one\nline two") {
		t.Fatalf("Expected multiline text to be flattened, got %q", raw)
	}
	if !strings.Contains(string(raw), "line oneline two") {
		t.Fatalf("Expected the sanitized cell, got %q", raw)
	}
}
