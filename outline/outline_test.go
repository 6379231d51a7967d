package outline_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/layman-lang/layman/driver"
	"github.com/layman-lang/layman/outline"
)

const source = `import math
define class Dog that extends Animal and has
    property name which is Text
    define function bark that takes count as Number
        print "woof"
define type Shape as either Circle with radius of type Number or Empty
define function area that takes shape
    return 0
describe "shapes"
    test "area"
        expect 1 is 1
the variable double is function of x returning x times 2
`

func TestOutline(t *testing.T) {
	t.Parallel()

	o := outline.New()
	r := driver.NewPassRunner()
	r.AddPass(o)
	if _, err := r.RunSource(source, ""); err != nil {
		t.Fatal(err)
	}

	want := `1:0 import math
2:0 class Dog extends Animal
4:4 method bark (count Number)
6:0 type Shape Circle | Empty
6:28 constructor Circle (radius Number)
6:65 constructor Empty ()
7:0 function area (shape)
9:0 test shapes describe
10:4 test area
`
	if diff := cmp.Diff(want, o.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOutlineResetsOnInit(t *testing.T) {
	t.Parallel()

	o := outline.New()
	r := driver.NewPassRunner()
	r.AddPass(o)
	for range 2 {
		if _, err := r.RunSource("define function f\n    return 1\n", "f.lay"); err != nil {
			t.Fatal(err)
		}
	}

	if len(o.Entries) != 1 {
		t.Fatalf("got %d entries, want 1: %v", len(o.Entries), o.Entries)
	}
	e := o.Entries[0]
	if e.Kind != outline.Function || e.Name != "f" || e.Location.File != "f.lay" {
		t.Errorf("entry = %v", e)
	}
	if got := e.String(); got != "f.lay:1:0 function f ()" {
		t.Errorf("String() = %q", got)
	}
}

func TestOutlineImports(t *testing.T) {
	t.Parallel()

	o := outline.New()
	r := driver.NewPassRunner()
	r.AddPass(o)
	src := "import file \"lib.lay\" as lib\nfrom shapes import area and Circle\ndefine module web that exports fetch\n"
	if _, err := r.RunSource(src, ""); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"1:0 import lib.lay as lib",
		"2:0 import shapes (area, Circle)",
		"3:0 module web fetch",
	}
	got := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		got[i] = e.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
