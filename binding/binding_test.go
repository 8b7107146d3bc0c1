package binding

import (
	"strings"
	"testing"
)

var testFilters = Filters{
	"upper": strings.ToUpper,
	"wrap":  func(s string) string { return "[" + s + "]" },
}

func TestExpandSubstitutesAndFilters(t *testing.T) {
	data := map[string]string{"fullName": "john doe", "eventType": "Workshop"}
	got, err := Expand("${fullName|upper} / ${ eventType | wrap | upper }", data, testFilters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "JOHN DOE / [WORKSHOP]" {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestExpandIsStrict(t *testing.T) {
	data := map[string]string{"fullName": "john"}
	if _, err := Expand("${missing}", data, nil); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, err := Expand("${fullName|shout}", data, testFilters); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

// 字段名按原样查找，点号与下标不会被解析为路径。
func TestExpandFlatFields(t *testing.T) {
	data := map[string]string{"user.name": "Ada", "user": "nested"}
	got, err := Expand("${user.name}", data, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ada" {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if _, err := Expand("${user[0]}", data, nil); err == nil {
		t.Fatalf("expected error for indexed reference")
	}
	if _, err := Expand("${ | upper}", data, testFilters); err == nil {
		t.Fatalf("expected error for empty reference")
	}
	got, err = Expand("no references here", nil, nil)
	if err != nil || got != "no references here" {
		t.Fatalf("plain text should pass through: %q, %v", got, err)
	}
}

func TestReferences(t *testing.T) {
	refs := References("on ${completionDate|date} at ${institutionName}")
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Path != "completionDate" || len(refs[0].Filters) != 1 || refs[0].Filters[0] != "date" {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Path != "institutionName" || len(refs[1].Filters) != 0 {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}
}
