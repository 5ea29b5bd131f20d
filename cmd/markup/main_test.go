package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danderson/markup"
	"github.com/google/go-cmp/cmp"
)

const testDoc = `
activities: [seq1, delay1]
properties:
  - path: seq1.Location
    type: wf:Point
    value: "10, 20"
  - path: delay1.Parent
    type: sys:Object
    value: "{wf:ActivityBind seq1, Path=Children}"
  - path: delay1.Next
    type: sys:Object
    value: "{wf:ActivityBind Name=nope}"
  - path: delay1.Size
    type: wf:Size
    value: "{wf:Size Width=x}"
`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte(testDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckDocument(t *testing.T) {
	doc, err := readDocument(writeDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc.Activities, []string{"seq1", "delay1"}); diff != "" {
		t.Fatalf("wrong activities (-got+want):\n%s", diff)
	}

	h := markup.NewHelpers()
	ctx := markup.WithResolver(context.Background(), doc.resolver())
	var (
		got  []any
		errs markup.ErrorList
	)
	for _, p := range doc.Properties {
		typ, ok := h.Types().Lookup(p.Type)
		if !ok {
			t.Fatalf("unknown type %q", p.Type)
		}
		v, err := h.Deserialize(ctx, typ, p.Value)
		if !errs.Add(atPath(err, p.Path)) {
			got = append(got, v)
		}
	}

	want := []any{
		markup.Point{X: 10, Y: 20},
		Binding{Activity: "seq1", Path: "Children"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("wrong values (-got+want):\n%s", diff)
	}

	var paths []string
	for _, e := range errs {
		paths = append(paths, e.Path)
	}
	if diff := cmp.Diff(paths, []string{"delay1.Next", "delay1.Size.Width"}); diff != "" {
		t.Errorf("wrong error paths (-got+want):\n%s", diff)
	}
	if !errors.Is(errs.Err(), markup.UnresolvedExtension) || !errors.Is(errs.Err(), markup.ConversionFailed) {
		t.Errorf("wrong error kinds: %v", errs.Err())
	}

	bs, err := report(doc.Properties, errs)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"checked: 4", "path: delay1.Next", "kind: unresolved extension"} {
		if !strings.Contains(string(bs), want) {
			t.Errorf("report doesn't contain %q:\n%s", want, bs)
		}
	}
}

func TestBindingResolver(t *testing.T) {
	doc := &document{Activities: []string{"a"}}
	h := markup.NewHelpers()
	ctx := markup.WithResolver(context.Background(), doc.resolver())

	v, err := markup.Deserialize[Binding](ctx, h, "{wf:ActivityBind a}")
	if err != nil {
		t.Fatal(err)
	}
	if v != (Binding{Activity: "a"}) {
		t.Errorf("got %v, want binding to a", v)
	}

	for _, bad := range []string{
		"{wf:ActivityBind}",
		"{wf:ActivityBind Path=x}",
		"{wf:ActivityBind b}",
	} {
		if _, err := markup.Deserialize[Binding](ctx, h, bad); !errors.Is(err, markup.UnresolvedExtension) {
			t.Errorf("Deserialize(%q) err = %v, want unresolved extension", bad, err)
		}
	}

	if _, err := h.Deserialize(ctx, reflect.TypeFor[int32](), "{wf:ActivityBind a}"); !errors.Is(err, markup.UnresolvedExtension) {
		t.Errorf("binding into int32 err = %v, want unresolved extension", err)
	}
}

func TestCompactText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"wf:Point", []string{"1", "2"}, "{wf:Point '1', '2'}"},
		{"wf:Point", []string{"Y=2"}, "{wf:Point Y='2'}"},
		{"wf:SynchronizationHandles", []string{"a, b", "c"}, "{wf:SynchronizationHandles 'a, b', 'c'}"},
		{"sys:Object", []string{"{wf:Point 1, 2}"}, "{sys:Object {wf:Point 1, 2}}"},
		{"wf:Point", nil, "{wf:Point}"},
	}
	for _, tc := range tests {
		got, err := compactText(tc.name, tc.args)
		if err != nil {
			t.Errorf("compactText(%q, %q) got err: %v", tc.name, tc.args, err)
			continue
		}
		if got != tc.want {
			t.Errorf("compactText(%q, %q) = %q, want %q", tc.name, tc.args, got, tc.want)
		}
	}

	if _, err := compactText("x:", nil); err == nil {
		t.Error("compactText with invalid name succeeded")
	}
}

func TestAtPath(t *testing.T) {
	if atPath(nil, "a") != nil {
		t.Error("atPath(nil) is not nil")
	}
	foreign := errors.New("boom")
	if atPath(foreign, "a") != foreign {
		t.Error("atPath changed a foreign error")
	}
	for _, tc := range []struct {
		path, want string
	}{
		{"", "act"},
		{"X", "act.X"},
		{"[1]", "act[1]"},
	} {
		err := atPath(&markup.SerializationError{Kind: markup.ConversionFailed, Path: tc.path}, "act")
		if got := err.(*markup.SerializationError).Path; got != tc.want {
			t.Errorf("atPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestIndenter(t *testing.T) {
	var buf strings.Builder
	out := indenter{out: &buf}
	out.v("top")
	out.indent(1)
	out.f("a: %d", 1)
	out.s("multi\nline")
	out.indent(0)
	out.v("end")

	want := "top\n  a: 1\n  multi\n  line\nend\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("wrong output (-got+want):\n%s", diff)
	}
}
