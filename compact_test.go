package markup

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeserializeCompact(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		text string
		want any
	}{
		{reflect.TypeFor[Point](), "{wf:Point 1, 2}", Point{1, 2}},
		{reflect.TypeFor[Point](), " {wf:Point X=1, Y=2} ", Point{1, 2}},
		{reflect.TypeFor[Point](), "{Point Y=-2}", Point{0, -2}},
		{reflect.TypeFor[Point](), "{wf:PointExtension 3}", Point{3, 0}},
		{reflect.TypeFor[Point](), "{wf:Point 1, y=5}", Point{1, 5}},
		{reflect.TypeFor[Point](), "{wf:Point}", Point{}},
		{reflect.TypeFor[*Point](), "{wf:Point 7, 8}", &Point{7, 8}},
		{reflect.TypeFor[any](), "{wf:Size 3, 4}", Size{3, 4}},
		{reflect.TypeFor[Size](), "{wf:Size Width='1', Height=\"2\"}", Size{1, 2}},
		{reflect.TypeFor[int32](), "{sys:Int32 5}", int32(5)},
		{reflect.TypeFor[string](), "{sys:String 'a, b'}", "a, b"},
		{reflect.TypeFor[any](), "{sys:Double 2.5}", float64(2.5)},
		{reflect.TypeFor[SynchronizationHandles](), "{wf:SynchronizationHandles a, b, , a}", SynchronizationHandles{"a", "b"}},
		{reflect.TypeFor[Counters](), "{test:Counters 1, 2, 3}", Counters{1, 2, 3}},
		{reflect.TypeFor[Counters](), "{test:Counters}", Counters{}},

		{
			reflect.TypeFor[Activity](),
			"{test:Activity Name=review, Location={wf:Point 10, 20}, Size='30, 40', Enabled=true, Handles='a, b, a'}",
			Activity{
				Name:     "review",
				Location: Point{10, 20},
				Size:     Size{30, 40},
				Enabled:  true,
				Handles:  SynchronizationHandles{"a", "b"},
			},
		},
		{
			reflect.TypeFor[Activity](),
			"{test:Activity 'with, comma', {wf:Point Y={sys:Int32 9}}}",
			Activity{Name: "with, comma", Location: Point{0, 9}},
		},
		{
			reflect.TypeFor[Activity](),
			`{test:Activity Name='it\'s {braced}', Handles='h\\,1, h\\,2'}`,
			Activity{Name: "it's {braced}", Handles: SynchronizationHandles{"h,1", "h,2"}},
		},
		{
			reflect.TypeFor[Bounds](),
			"{test:Bounds X=1, Y=2, Extent={wf:Size 3, 4}}",
			Bounds{Point: Point{1, 2}, Extent: Size{3, 4}},
		},
		{
			reflect.TypeFor[PtrEmbed](),
			"{test:PtrEmbed X=1, Name=a}",
			PtrEmbed{Point: &Point{X: 1}, Name: "a"},
		},
		{
			reflect.TypeFor[Renamed](),
			"{test:Renamed X=1, Top=2}",
			Renamed{Left: 1, Top: 2},
		},
		{
			reflect.TypeFor[WithRef](),
			"{test:WithRef Target={x:Null}, Type={x:Type sys:String}, Any={wf:Point 1, 2}, Count=3}",
			WithRef{Type: reflect.TypeFor[string](), Any: Point{1, 2}, Count: ptr(int32(3))},
		},
		{
			reflect.TypeFor[WithRef](),
			"{test:WithRef Target={test:Activity Name=inner}, Type={x:TypeExtension TypeName=wf:Point}}",
			WithRef{Target: &Activity{Name: "inner"}, Type: reflect.TypeFor[Point]()},
		},
		{reflect.TypeFor[*Activity](), "{x:Null}", (*Activity)(nil)},
		{reflect.TypeFor[[]string](), "{x:Null}", []string(nil)},
		{reflect.TypeFor[reflect.Type](), "{x:Type Size}", reflect.TypeFor[Size]()},
		{reflect.TypeFor[any](), "{x:Type sys:Int32}", reflect.TypeFor[int32]()},
	}

	h := testHelpers()
	for _, tc := range tests {
		got, err := h.Compact().DeserializeCompact(context.Background(), tc.typ, tc.text)
		if err != nil {
			t.Errorf("DeserializeCompact(%s, %q) got err: %v", tc.typ, tc.text, err)
			continue
		}
		if diff := cmp.Diff(got, tc.want, cmp.AllowUnexported(Renamed{}), cmp.Comparer(func(a, b reflect.Type) bool { return a == b })); diff != "" {
			t.Errorf("DeserializeCompact(%s, %q) wrong result (-got+want):\n%s", tc.typ, tc.text, diff)
		}
	}
}

func TestDeserializeCompactEmpty(t *testing.T) {
	h := testHelpers()
	for _, tc := range []struct {
		typ  reflect.Type
		want any
	}{
		{reflect.TypeFor[Point](), Point{}},
		{reflect.TypeFor[Size](), Size{}},
		{reflect.TypeFor[int32](), int32(0)},
		{reflect.TypeFor[*Activity](), (*Activity)(nil)},
	} {
		for _, text := range []string{"", "   ", "\t\n"} {
			got, err := h.Compact().DeserializeCompact(context.Background(), tc.typ, text)
			if err != nil {
				t.Errorf("DeserializeCompact(%s, %q) got err: %v", tc.typ, text, err)
				continue
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("DeserializeCompact(%s, %q) wrong result (-got+want):\n%s", tc.typ, text, diff)
			}
		}
	}

	got, err := h.Compact().DeserializeCompact(context.Background(), reflect.TypeFor[SynchronizationHandles](), " ")
	if err != nil {
		t.Fatal(err)
	}
	if hs, ok := got.(SynchronizationHandles); !ok || hs == nil || len(hs) != 0 {
		t.Errorf("blank handles = %#v, want empty non-nil SynchronizationHandles", got)
	}
}

func TestDeserializeCompactErrors(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		text string
		want Kind
		path string
	}{
		{reflect.TypeFor[Point](), "{x:}", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{}", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{:Point}", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{wf:Point 1, 2", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "not compact", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{wf:Point 1, 2, 3}", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{wf:Point X=1, 2}", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{wf:Point X=1, x=2}", MalformedCompactFormat, ""},
		{reflect.TypeFor[Point](), "{wf:Point Z=1}", UnknownProperty, ""},
		{reflect.TypeFor[Point](), "{wf:Point X=abc}", ConversionFailed, "X"},
		{reflect.TypeFor[Point](), "{wf:Size 1, 2}", ConversionFailed, ""},
		{reflect.TypeFor[Point](), "{x:Null}", ConversionFailed, ""},
		{reflect.TypeFor[Point](), "{x:Type sys:String}", ConversionFailed, ""},
		{reflect.TypeFor[Point](), "{wf:Unknown 1}", UnresolvedExtension, ""},
		{reflect.TypeFor[*Point](), "{x:Null 1}", MalformedCompactFormat, ""},
		{reflect.TypeFor[reflect.Type](), "{x:Type}", MalformedCompactFormat, ""},
		{reflect.TypeFor[reflect.Type](), "{x:Type wf:Nope}", UnresolvedExtension, ""},
		{reflect.TypeFor[reflect.Type](), "{x:Type x:Null}", UnresolvedExtension, ""},
		{reflect.TypeFor[int32](), "{sys:Int32}", MalformedCompactFormat, ""},
		{reflect.TypeFor[int32](), "{sys:Int32 1, 2}", MalformedCompactFormat, ""},
		{reflect.TypeFor[int32](), "{sys:Int32 big}", ConversionFailed, ""},
		{reflect.TypeFor[Counters](), "{test:Counters 1, x, 3}", ConversionFailed, "[1]"},
		{reflect.TypeFor[Activity](), "{test:Activity Location={wf:Point Y=oops}}", ConversionFailed, "Location.Y"},
		{reflect.TypeFor[Activity](), "{test:Activity Location={wf:Point Q=1}}", UnknownProperty, "Location"},
		{reflect.TypeFor[Activity](), "{test:Activity Location={wf:Bind x}}", UnresolvedExtension, "Location"},
		{reflect.TypeFor[Unconvertible](), "{test:Unconvertible 1}", NoConverterAvailable, "C"},
		{nil, "{wf:Point}", NoConverterAvailable, ""},
	}

	h := testHelpers()
	for _, tc := range tests {
		got, err := h.Compact().DeserializeCompact(context.Background(), tc.typ, tc.text)
		if err == nil {
			t.Errorf("DeserializeCompact(%v, %q) = %v, want %v error", tc.typ, tc.text, got, tc.want)
			continue
		}
		se := mustKind(t, err, tc.want)
		if se.Path != tc.path {
			t.Errorf("DeserializeCompact(%v, %q) error path is %q, want %q", tc.typ, tc.text, se.Path, tc.path)
		}
	}
}

func TestMalformedKeepsRawText(t *testing.T) {
	h := testHelpers()
	const text = "{x:}"
	_, err := h.Deserialize(context.Background(), reflect.TypeFor[Point](), text)
	se := mustKind(t, err, MalformedCompactFormat)
	if se.Token != text {
		t.Errorf("error token is %q, want %q", se.Token, text)
	}
}

func TestIsCompactFormat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"{wf:Point 1, 2}", true},
		{"  {x:Null}  ", true},
		{"{a {b} c}", true},
		{"1, 2", false},
		{"", false},
		{"{}literal", false},
		{"{}", false},
		{"{a}{b}", false},
		{"{a", false},
		{"a}", false},
	}
	for _, tc := range tests {
		if got := IsCompactFormat(tc.in); got != tc.want {
			t.Errorf("IsCompactFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
