package layout

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// solveSpec 是测试辅助：编译约束并用给定固有尺寸求解。
func solveSpec(t *testing.T, source string, names []string, intrinsics ...*Size) *Geometry {
	t.Helper()
	sys, err := Compile(source, names, Options{})
	if err != nil {
		t.Fatalf("编译约束失败: %v", err)
	}
	if intrinsics == nil {
		intrinsics = make([]*Size, len(names))
	}
	g, err := sys.Solve(intrinsics)
	if err != nil {
		t.Fatalf("求解失败: %v", err)
	}
	return g
}

func box(t *testing.T, g *Geometry, name string) Box {
	t.Helper()
	b, ok := g.Box(name)
	if !ok {
		t.Fatalf("缺少组件 %s", name)
	}
	return b
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestSolveFillsContainerAroundText(t *testing.T) {
	spec := "HV:|[bg]|\nHV:|-(>=16)-[label]-(>=16)-|"
	g := solveSpec(t, spec, []string{"bg", "label"}, nil, &Size{Width: 100, Height: 40})

	want := &Geometry{
		Container: Size{Width: 132, Height: 72},
		Boxes: []Box{
			{Name: "bg", Left: 0, Top: 0, Width: 132, Height: 72},
			{Name: "label", Left: 16, Top: 16, Width: 100, Height: 40},
		},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveEqualSpacing(t *testing.T) {
	spec := "H:|~[a(==40)]~[b(==40)]~|\nC:|.width == 200"
	g := solveSpec(t, spec, []string{"a", "b"})
	if a := box(t, g, "a"); !approx(a.Left, 40) {
		t.Fatalf("expected a.left 40, got %g", a.Left)
	}
	if b := box(t, g, "b"); !approx(b.Left, 120) {
		t.Fatalf("expected b.left 120, got %g", b.Left)
	}
}

func TestSolveEqualSpacingPredicate(t *testing.T) {
	g := solveSpec(t, "HV:|~(>=16)~[label]~|", []string{"label"}, &Size{Width: 50, Height: 10})
	if diff := cmp.Diff(Size{Width: 82, Height: 42}, g.Container); diff != "" {
		t.Fatalf("container mismatch (-want +got):\n%s", diff)
	}
	if l := box(t, g, "label"); !approx(l.Left, 16) || !approx(l.Top, 16) {
		t.Fatalf("expected label at 16,16, got %+v", l)
	}
}

func TestSolveCentering(t *testing.T) {
	spec := `
HV:|[bg(==200)]|
C:label.centerX == |.centerX
C:label.centerY == bg.centerY
`
	g := solveSpec(t, spec, []string{"bg", "label"}, nil, &Size{Width: 50, Height: 20})
	l := box(t, g, "label")
	if !approx(l.Left, 75) || !approx(l.Top, 90) {
		t.Fatalf("expected label at 75,90, got %+v", l)
	}
	if w, h := g.Bounds(); !approx(w, 200) || !approx(h, 200) {
		t.Fatalf("expected bounds 200x200, got %gx%g", w, h)
	}
}

func TestSolveTieBreakAndBounds(t *testing.T) {
	g := solveSpec(t, "H:[a]-[b]", []string{"a", "b"}, &Size{Width: 10, Height: 10}, &Size{Width: 20, Height: 10})
	want := []Box{
		{Name: "a", Left: 0, Top: 0, Width: 10, Height: 10},
		{Name: "b", Left: 18, Top: 0, Width: 20, Height: 10},
	}
	if diff := cmp.Diff(want, g.Boxes); diff != "" {
		t.Fatalf("boxes mismatch (-want +got):\n%s", diff)
	}
	if w, h := g.Bounds(); !approx(w, 38) || !approx(h, 10) {
		t.Fatalf("expected bounds 38x10, got %gx%g", w, h)
	}
}

func TestSolveCustomSpacing(t *testing.T) {
	sys, err := Compile("H:[a]-[b]", []string{"a", "b"}, Options{Spacing: 3})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	g, err := sys.Solve([]*Size{{Width: 10, Height: 1}, {Width: 10, Height: 1}})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if b := box(t, g, "b"); !approx(b.Left, 13) {
		t.Fatalf("expected b.left 13, got %g", b.Left)
	}
}

func TestSolveRelativeSize(t *testing.T) {
	g := solveSpec(t, "H:[a][b(a*2+4)]", []string{"a", "b"}, &Size{Width: 10, Height: 5}, nil)
	b := box(t, g, "b")
	if !approx(b.Left, 10) || !approx(b.Width, 24) {
		t.Fatalf("expected b at 10 with width 24, got %+v", b)
	}
}

func TestSolvePriorities(t *testing.T) {
	intrinsic := &Size{Width: 30, Height: 10}

	weak := solveSpec(t, "H:[a(==10@weak)]", []string{"a"}, intrinsic)
	if a := box(t, weak, "a"); !approx(a.Width, 30) {
		t.Fatalf("weak predicate should lose to intrinsic size, got width %g", a.Width)
	}

	required := solveSpec(t, "H:[a(==10)]", []string{"a"}, intrinsic)
	if a := box(t, required, "a"); !approx(a.Width, 10) {
		t.Fatalf("required predicate should win, got width %g", a.Width)
	}

	numeric := solveSpec(t, "H:[a(<=20@900)]", []string{"a"}, intrinsic)
	if a := box(t, numeric, "a"); !approx(a.Width, 20) {
		t.Fatalf("priority 900 should beat strong intrinsic, got width %g", a.Width)
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	spec := "HV:|[bg]|\nH:|-[a]-[b]-|\nV:|~[a]~|\nC:b.centerY == a.centerY"
	names := []string{"bg", "a", "b"}
	sys, err := Compile(spec, names, Options{})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	in := []*Size{nil, {Width: 33.5, Height: 12.25}, {Width: 7, Height: 30}}
	first, err := sys.Solve(in)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Geometry, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := sys.Solve(in)
			if err != nil {
				t.Errorf("solve failed: %v", err)
				return
			}
			results[i] = g
		}(i)
	}
	wg.Wait()
	for _, g := range results {
		if diff := cmp.Diff(first, g); diff != "" {
			t.Fatalf("non-deterministic geometry (-first +got):\n%s", diff)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name  string
		spec  string
		names []string
		want  error
		line  int
	}{
		{"syntax", "H:|[a", []string{"a"}, ErrSyntax, 1},
		{"unknown key", "H:|[a]|\nH:|[ghost]|", []string{"a"}, ErrUnknownKey, 2},
		{"unknown relation key", "H:|[a]|\nC:a.left == ghost.right", []string{"a"}, ErrUnknownKey, 2},
		{"unreferenced", "H:|[a]|", []string{"a", "b"}, ErrUnreferenced, 0},
		{"edge in middle", "H:[a]|[b]", []string{"a", "b"}, ErrSyntax, 1},
		{"leading gap", "H:-[a]", []string{"a"}, ErrSyntax, 1},
		{"no view", "H:|", nil, ErrSyntax, 1},
		{"mismatched gap", "H:[a]-8~[b]", []string{"a", "b"}, ErrSyntax, 1},
		{"bad priority", "H:[a(==10@2000)]", []string{"a"}, ErrSyntax, 1},
		{"unknown priority", "H:[a(==10@loud)]", []string{"a"}, ErrSyntax, 1},
		{"division by zero", "H:[a][b(a/0)]", []string{"a", "b"}, ErrSyntax, 1},
		{"infeasible", "H:[a(==10)]\nH:[a(>=20)]", []string{"a"}, ErrInfeasible, 0},
		{"infeasible container", "H:|[a(==100)]|\nH:|[b(==50)]|", []string{"a", "b"}, ErrInfeasible, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.spec, tc.names, Options{})
			if err == nil {
				t.Fatalf("expected error")
			}
			var lerr *Error
			if !errors.As(err, &lerr) {
				t.Fatalf("expected *layout.Error, got %T: %v", err, err)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.line > 0 && lerr.Pos.Line != tc.line {
				t.Fatalf("expected error on line %d, got %d (%v)", tc.line, lerr.Pos.Line, err)
			}
		})
	}
}

func TestCompileRejectsDuplicateNames(t *testing.T) {
	if _, err := Compile("H:[a]", []string{"a", "a"}, Options{}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestSolveRejectsWrongIntrinsicCount(t *testing.T) {
	sys, err := Compile("H:|[a]|", []string{"a"}, Options{})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if _, err := sys.Solve(nil); err == nil {
		t.Fatalf("expected error for missing intrinsics")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	g := solveSpec(t, "HV:|[a(==4)]|", []string{"a"})
	path := filepath.Join(t.TempDir(), "geometry.json")
	if err := WriteDebugJSON(g, path); err != nil {
		t.Fatalf("write debug json: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug json: %v", err)
	}
	if len(data) == 0 || data[0] != '{' {
		t.Fatalf("unexpected debug json: %s", data)
	}
}
