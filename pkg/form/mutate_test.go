package form

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sameBacking reports whether two list/record values share their underlying
// storage. The mutators promise untouched entries keep their storage.
func sameBacking(t *testing.T, a, b any) bool {
	t.Helper()
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Slice, reflect.Map:
		return ra.Pointer() == rb.Pointer()
	default:
		return a == b
	}
}

func seedValues() ValueMap {
	return ValueMap{
		"url":  String("https://example.com"),
		"tags": StringList{"a", "b", "c"},
		"headers": RecordList{
			{"name": String("accept"), "value": String("text/html")},
			{"name": String("agent"), "value": String("performate")},
		},
	}
}

func TestSetScalar(t *testing.T) {
	before := seedValues()
	after := SetScalar(before, "url", String("https://other.example"))

	if got := after["url"]; got != String("https://other.example") {
		t.Fatalf("scalar not replaced, got %v", got)
	}
	if before["url"] != String("https://example.com") {
		t.Fatalf("input map mutated in place")
	}
	if !sameBacking(t, before["tags"], after["tags"]) {
		t.Fatalf("untouched list entry lost its backing")
	}
	if !sameBacking(t, before["headers"], after["headers"]) {
		t.Fatalf("untouched record list entry lost its backing")
	}
}

func TestSetListItem(t *testing.T) {
	before := seedValues()
	after := SetListItem(before, "tags", 1, "z")

	if diff := cmp.Diff(StringList{"a", "z", "c"}, after["tags"]); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(StringList{"a", "b", "c"}, before["tags"]); diff != "" {
		t.Fatalf("input list mutated (-want +got):\n%s", diff)
	}
	if !sameBacking(t, before["headers"], after["headers"]) {
		t.Fatalf("untouched entry lost its backing")
	}

	if got := SetListItem(before, "tags", 9, "z"); !sameBacking(t, got["tags"], before["tags"]) {
		t.Fatalf("out-of-range index should leave the map unchanged")
	}
}

func TestAppendAndRemoveListItem(t *testing.T) {
	before := seedValues()

	grown := AppendListItem(before, "tags")
	if diff := cmp.Diff(StringList{"a", "b", "c", ""}, grown["tags"]); diff != "" {
		t.Fatalf("append mismatch (-want +got):\n%s", diff)
	}

	shrunk := RemoveListItem(grown, "tags", 1)
	if diff := cmp.Diff(StringList{"a", "c", ""}, shrunk["tags"]); diff != "" {
		t.Fatalf("remove mismatch (-want +got):\n%s", diff)
	}

	// remove-then-append restores the original length
	restored := AppendListItem(shrunk, "tags")
	if len(restored["tags"].(StringList)) != len(grown["tags"].(StringList)) {
		t.Fatalf("length not restored: %d vs %d",
			len(restored["tags"].(StringList)), len(grown["tags"].(StringList)))
	}

	appended := AppendListItem(before, "headers")
	list := appended["headers"].(RecordList)
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	if diff := cmp.Diff(Record{}, list[2]); diff != "" {
		t.Fatalf("appended record should be empty (-want +got):\n%s", diff)
	}
}

func TestSetRecordField(t *testing.T) {
	before := seedValues()
	after := SetRecordField(before, "headers", 1, "value", String("curl"))

	want := RecordList{
		{"name": String("accept"), "value": String("text/html")},
		{"name": String("agent"), "value": String("curl")},
	}
	if diff := cmp.Diff(want, after["headers"]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	beforeList := before["headers"].(RecordList)
	afterList := after["headers"].(RecordList)
	if !sameBacking(t, beforeList[0], afterList[0]) {
		t.Fatalf("untargeted record lost its backing")
	}
	if afterList[1]["name"] != beforeList[1]["name"] {
		t.Fatalf("sibling field of the target record changed")
	}
	if !sameBacking(t, before["tags"], after["tags"]) {
		t.Fatalf("untouched entry lost its backing")
	}

	if got := SetRecordField(before, "tags", 0, "x", String("")); !sameBacking(t, got["tags"], before["tags"]) {
		t.Fatalf("non-record target should leave the map unchanged")
	}
}
