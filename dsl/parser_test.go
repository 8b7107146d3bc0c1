package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/certpress/dsl"
)

const sampleDSL = `
// award certificate
layout Award v2 {
  page width=841.89 height=595.28 margin=50

  center "${fullName|upper}" font="Lora-Regular" size=28 y=290 max-width=400
  paragraph "Completed “${courseType}” on ${completionDate|date}" font="Lora-Bold" size=14.3 y=260 max-width=500 leading=1.4x
  left "${email}" font="Unna-Italic" size=10 x=60mm y=40; column "${mentorName}" font="Lora-Regular" size=12 y=122 column-width=500
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Award" || doc.Version != "v2" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	kinds := []string{}
	for _, st := range doc.Statements {
		kinds = append(kinds, st.Kind())
	}
	if got := strings.Join(kinds, ","); got != "page,center,paragraph,left,column" {
		t.Fatalf("unexpected statements: %s", got)
	}

	page := doc.Statements[0].Page
	if len(page.Params) != 3 || page.Params[2].Key != "margin" || page.Params[2].Value.Raw() != "50" {
		t.Fatalf("unexpected page params: %+v", page.Params)
	}

	center := doc.Statements[1].Draw
	if string(center.Text) != "${fullName|upper}" {
		t.Fatalf("unexpected center text: %q", center.Text)
	}
	if center.Params[0].Key != "font" || center.Params[0].Value.String == nil || center.Params[0].Value.Raw() != "Lora-Regular" {
		t.Fatalf("font should be a string param, got %+v", center.Params[0].Value)
	}
	if center.Params[3].Key != "max-width" || center.Params[3].Value.Raw() != "400" {
		t.Fatalf("unexpected max-width param: %+v", center.Params[3])
	}

	para := doc.Statements[2].Draw
	if !strings.Contains(string(para.Text), "“${courseType}”") {
		t.Fatalf("unicode quotes should survive unquoting: %q", para.Text)
	}
	if last := para.Params[len(para.Params)-1]; last.Value.Raw() != "1.4x" {
		t.Fatalf("leading factor lost: %q", last.Value.Raw())
	}

	left := doc.Statements[3].Draw
	if left.Params[2].Value.Raw() != "60mm" {
		t.Fatalf("unit suffix lost: %q", left.Params[2].Value.Raw())
	}
}

func TestParseRejectsUnknownStatement(t *testing.T) {
	_, err := dsl.ParseString(`layout Broken v1 {
  right "x" font="Lora-Bold" size=10 y=10
}`)
	if err == nil {
		t.Fatalf("expected an error for an unknown draw kind")
	}
}

func TestParseRequiresHeader(t *testing.T) {
	if _, err := dsl.ParseString(`center "x" size=10 y=10`); err == nil {
		t.Fatalf("expected an error without layout header")
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse("sample.layout", strings.NewReader(sampleDSL))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(doc.Statements))
	}
}
