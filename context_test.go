package markup

import (
	"context"
	"reflect"
	"testing"

	"github.com/danderson/markup/attr"
)

func TestContextResolver(t *testing.T) {
	if r := contextResolver(context.Background()); r != nil {
		t.Fatalf("got resolver %v from context with no resolver", r)
	}

	want := bindResolver()
	ctx := WithResolver(context.Background(), want)
	got := contextResolver(ctx)
	if got == nil {
		t.Fatal("resolver not found in context")
	}
	// Func values don't compare, check identity through a call.
	if _, ok, err := got.ResolveExtension(ctx, Reference{}, reflect.TypeFor[any]()); ok || err != nil {
		t.Errorf("wrong resolver in context, resolved empty reference: %v, %v", ok, err)
	}

	ctx = WithResolver(ctx, nil)
	if r := contextResolver(ctx); r != nil {
		t.Errorf("got resolver %v after clearing", r)
	}
}

func TestReference(t *testing.T) {
	const raw = `{wf:ActivityBind  seq1 , Path='Children, 0', Extra={wf:Point 1, 2}}`
	ext, ok, err := attr.ParseExtension(raw)
	if err != nil || !ok {
		t.Fatalf("ParseExtension(%q) = %v, %v", raw, ok, err)
	}
	ref := Reference{Extension: ext, Raw: raw, h: NewHelpers()}

	if got, want := ref.Name(), "wf:ActivityBind"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := ref.NumArgs(), 3; got != want {
		t.Fatalf("NumArgs() = %d, want %d", got, want)
	}
	if got, want := ref.ArgText(0), "seq1"; got != want {
		t.Errorf("ArgText(0) = %q, want %q", got, want)
	}
	if got, ok := ref.Named("Path"); !ok || got != "Children, 0" {
		t.Errorf(`Named("Path") = %q, %v, want "Children, 0", true`, got, ok)
	}
	if got, ok := ref.Named("Extra"); !ok || got != "{wf:Point 1, 2}" {
		t.Errorf(`Named("Extra") = %q, %v, want "{wf:Point 1, 2}", true`, got, ok)
	}
	if got, ok := ref.Named("Missing"); ok {
		t.Errorf(`Named("Missing") = %q, want not found`, got)
	}
	if got := ref.String(); got != raw {
		t.Errorf("String() = %q, want raw text", got)
	}

	ctx := context.Background()
	v, err := ref.Arg(ctx, 2, reflect.TypeFor[Point]())
	if err != nil {
		t.Fatal(err)
	}
	if v != (Point{1, 2}) {
		t.Errorf("Arg(2) = %v, want (1, 2)", v)
	}

	_, err = ref.Arg(ctx, 3, reflect.TypeFor[string]())
	mustKind(t, err, MalformedCompactFormat)
	_, err = ref.Arg(ctx, 0, reflect.TypeFor[int32]())
	se := mustKind(t, err, ConversionFailed)
	if se.Path != "[0]" {
		t.Errorf("Arg(0) error path is %q, want [0]", se.Path)
	}

	detached := Reference{Extension: ext, Raw: raw}
	_, err = detached.Arg(ctx, 0, reflect.TypeFor[string]())
	mustKind(t, err, NoConverterAvailable)
}
