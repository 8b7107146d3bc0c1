package layout

import (
	"errors"
	"math"
	"strings"
	"testing"
)

var testFields = []string{"fullName", "courseType", "completionDate", "mentorName"}

// TestDefaultSpecCompiles 验证内置证书版式可以编译，且未指定 column-start 的栏在页面居中。
func TestDefaultSpecCompiles(t *testing.T) {
	spec, err := DefaultSpec(BuildOptions{})
	if err != nil {
		t.Fatalf("default layout failed to compile: %v", err)
	}
	if spec.Page != A4Landscape {
		t.Fatalf("unexpected page: %+v", spec.Page)
	}
	anchors := []Anchor{AnchorCenter, AnchorParagraph, AnchorCenter, AnchorColumn, AnchorColumn}
	if len(spec.Instructions) != len(anchors) {
		t.Fatalf("expected %d instructions, got %d", len(anchors), len(spec.Instructions))
	}
	for i, a := range anchors {
		if spec.Instructions[i].Anchor != a {
			t.Fatalf("instruction %d: want %s, got %s", i, a, spec.Instructions[i].Anchor)
		}
	}
	name := spec.Instructions[0]
	if name.Text != "${fullName|upper}" || name.Font != "Lora-Regular" || name.Size != 28 || name.Y != 290 || name.MaxWidth != 400 {
		t.Fatalf("unexpected name instruction: %+v", name)
	}
	para := spec.Instructions[1]
	if para.Leading != 20 || para.MaxWidth != 500 || !strings.Contains(para.Text, "${completionDate|date}") {
		t.Fatalf("unexpected paragraph instruction: %+v", para)
	}
	sig := spec.Instructions[3]
	if want := (A4Landscape.Width - 500) / 2; math.Abs(sig.ColumnStart-want) > 1e-9 {
		t.Fatalf("column start: want %g, got %g", want, sig.ColumnStart)
	}
}

func TestBuildPageOverrideAndUnits(t *testing.T) {
	spec, err := Compile(`layout Small v1 {
  left "${mentorName}" font="Lora-Regular" size=12pt x=10mm y=1in max-width=100
  column "${mentorName}" font="Lora-Regular" size=12 y=50 column-width=200
  paragraph "${courseType}" font="Lora-Bold" size=10 y=80 max-width=200 leading=1.5x
  page width=400 height=300 margin=20
}`, BuildOptions{Fields: testFields})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if spec.Page != (Page{Width: 400, Height: 300, Margin: 20}) {
		t.Fatalf("page statement not applied: %+v", spec.Page)
	}
	left := spec.Instructions[0]
	if math.Abs(left.X-10*MmToPt) > 1e-9 || left.Y != 72 {
		t.Fatalf("units not converted: %+v", left)
	}
	// page 语句写在最后，栏仍应相对该页面居中
	if spec.Instructions[1].ColumnStart != 100 {
		t.Fatalf("expected column start 100, got %g", spec.Instructions[1].ColumnStart)
	}
	if spec.Instructions[2].Leading != 15 {
		t.Fatalf("expected leading 15, got %g", spec.Instructions[2].Leading)
	}
}

func TestBuildRejectsBadLayouts(t *testing.T) {
	cases := map[string]string{
		"unknown field":   `layout X v1 { center "${nickname}" font="Lora-Bold" size=10 y=10 }`,
		"unknown filter":  `layout X v1 { center "${fullName|shout}" font="Lora-Bold" size=10 y=10 }`,
		"missing param":   `layout X v1 { paragraph "${fullName}" font="Lora-Bold" size=10 y=10 max-width=100 }`,
		"unknown param":   `layout X v1 { center "${fullName}" font="Lora-Bold" size=10 y=10 color=red }`,
		"duplicate param": `layout X v1 { center "${fullName}" font="Lora-Bold" size=10 size=12 y=10 }`,
		"non-numeric":     `layout X v1 { center "${fullName}" font="Lora-Bold" size=big y=10 }`,
		"zero size":       `layout X v1 { center "${fullName}" font="Lora-Bold" size=0 y=10 }`,
		"no instructions": `layout X v1 { page width=100 height=100 margin=0 }`,
		"syntax":          `layout X v1 { center font="Lora-Bold" }`,
	}
	for name, src := range cases {
		if _, err := Compile(src, BuildOptions{Fields: testFields, Filters: []string{"upper", "date"}}); err == nil {
			t.Fatalf("%s: expected compile error", name)
		}
	}
}

// TestRunExpandsAndPlaces 验证 Run 按指令顺序展开文本并生成文本层。
func TestRunExpandsAndPlaces(t *testing.T) {
	spec, err := DefaultSpec(BuildOptions{})
	if err != nil {
		t.Fatalf("default layout failed to compile: %v", err)
	}
	values := map[string]string{
		"${fullName|upper}":      "JOHN DOE",
		"${institutionName}":     "ABC College",
		"${mentorSignatureText}": "Jane Doe",
		"${mentorName}":          "Jane Doe",
	}
	layer, err := stubEngine().Run(spec, func(text string) (string, error) {
		if v, ok := values[text]; ok {
			return v, nil
		}
		return "course sentence", nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := []string{"JOHN DOE", "course sentence", "ABC College", "Jane Doe", "Jane Doe"}
	if got := layer.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %v", got)
	}
	if !layer.Contains("JOHN") || layer.Contains("john") {
		t.Fatalf("Contains misreports")
	}

	_, err = stubEngine().Run(spec, func(string) (string, error) { return "", errTest })
	if err == nil || !strings.Contains(err.Error(), "第 1 条指令") {
		t.Fatalf("expansion errors must surface with the instruction index, got %v", err)
	}
}

var errTest = errors.New("boom")
