package loaders

import (
	"testing"

	"sqlcli/internal/datatable"
)

func TestLoadJSONUnionsKeysAcrossObjects(t *testing.T) {
	path := writeTempFile(t, "people.json", `[
		{"name": "alice", "age": 30},
		{"name": "bob", "city": "nyc"}
	]`)

	tbl, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if tbl.ColumnCount() != 3 {
		t.Fatalf("expected union of 3 columns (name, age, city), got %d: %v", tbl.ColumnCount(), tbl.ColumnNames())
	}
	ageIdx, ok := tbl.ColumnIndex("age")
	if !ok {
		t.Fatal("expected age column present")
	}
	if !tbl.GetValue(1, ageIdx).IsNull() {
		t.Fatalf("expected missing age on row 1 to be Null, got %v", tbl.GetValue(1, ageIdx))
	}
	cityIdx, ok := tbl.ColumnIndex("city")
	if !ok {
		t.Fatal("expected city column present")
	}
	if !tbl.GetValue(0, cityIdx).IsNull() {
		t.Fatalf("expected missing city on row 0 to be Null, got %v", tbl.GetValue(0, cityIdx))
	}
}

func TestLoadJSONStringifiesNestedValues(t *testing.T) {
	path := writeTempFile(t, "nested.json", `[{"id": 1, "tags": ["a", "b"]}]`)

	tbl, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	tagsIdx, _ := tbl.ColumnIndex("tags")
	v := tbl.GetValue(0, tagsIdx)
	if v.Kind != datatable.KindString || v.Str == "" {
		t.Fatalf("expected nested array stringified into a non-empty String cell, got %+v", v)
	}
}

func TestLoadJSONRejectsNonArrayTopLevel(t *testing.T) {
	path := writeTempFile(t, "object.json", `{"not": "an array"}`)
	if _, err := LoadJSON(path); err == nil {
		t.Fatal("expected error for non-array top-level JSON value")
	}
}
