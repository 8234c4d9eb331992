package loaders

import (
	"strconv"
	"strings"
	"testing"

	"sqlcli/internal/datatable"
)

func TestLoadCSVAdvancedInternsLowUniqueRatioColumn(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,status\n")
	for i := 0; i < 20; i++ {
		status := "active"
		if i%3 == 0 {
			status = "inactive"
		}
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",")
		b.WriteString(status)
		b.WriteString("\n")
	}
	path := writeTempFile(t, "status.csv", b.String())

	tbl, err := LoadCSVAdvanced(path)
	if err != nil {
		t.Fatalf("LoadCSVAdvanced: %v", err)
	}
	statusIdx, _ := tbl.ColumnIndex("status")
	for i := 0; i < tbl.RowCount(); i++ {
		v := tbl.GetValue(i, statusIdx)
		if !v.Interned {
			t.Fatalf("row %d: expected interned string, got plain", i)
		}
	}
}

func TestLoadCSVAdvancedInternsByHeaderHintRegardlessOfRatio(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,category\n")
	for i := 0; i < 10; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",cat-")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n")
	}
	path := writeTempFile(t, "category.csv", b.String())

	tbl, err := LoadCSVAdvanced(path)
	if err != nil {
		t.Fatalf("LoadCSVAdvanced: %v", err)
	}
	catIdx, _ := tbl.ColumnIndex("category")
	if !tbl.GetValue(0, catIdx).Interned {
		t.Fatal("expected category column interned via header hint despite unique values")
	}
}

func TestLoadCSVAdvancedLeavesHighUniqueRatioColumnPlain(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,note\n")
	for i := 0; i < 10; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",note-")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n")
	}
	path := writeTempFile(t, "notes.csv", b.String())

	tbl, err := LoadCSVAdvanced(path)
	if err != nil {
		t.Fatalf("LoadCSVAdvanced: %v", err)
	}
	noteIdx, _ := tbl.ColumnIndex("note")
	if tbl.GetValue(0, noteIdx).Kind != datatable.KindString || tbl.GetValue(0, noteIdx).Interned {
		t.Fatal("expected note column to remain plain, non-interned")
	}
}

