package sema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ternlint/internal/syntax"
)

func nullable(t Type) Type { return &Nullable{Elem: t} }

func TestImplicit(t *testing.T) {
	t.Parallel()

	point := &Named{Name: "Point"}
	conv := NewConversionTable()

	tests := []struct {
		name     string
		from, to Type
		want     bool
	}{
		{"identity", Int, Int, true},
		{"widening", Int, Long, true},
		{"widening to floating point", Long, Double, true},
		{"no narrowing", Long, Int, false},
		{"char to int", Char, Int, true},
		{"no int to char", Int, Char, false},
		{"bottom converts to anything", Bottom, point, true},
		{"null to reference", Null, String, true},
		{"null to nullable", Null, nullable(Int), true},
		{"null not to value", Null, Int, false},
		{"boxing", Int, Object, true},
		{"lifting", Int, nullable(Int), true},
		{"lifted widening", nullable(Int), nullable(Long), true},
		{"no unlifting", nullable(Int), Int, false},
		{"unrelated user types", point, &Named{Name: "Shape"}, false},
		{"invalid", Invalid, Int, false},
		{"nil", nil, Int, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conv.Implicit(tt.from, tt.to))
		})
	}
}

func TestConversionTableAllow(t *testing.T) {
	t.Parallel()

	circle, shape := &Named{Name: "Circle"}, &Named{Name: "Shape"}
	conv := NewConversionTable()
	assert.False(t, conv.Implicit(circle, shape))

	conv.Allow("Circle", "Shape")
	assert.True(t, conv.Implicit(circle, shape))
	assert.False(t, conv.Implicit(shape, circle))
	assert.True(t, conv.Implicit(circle, nullable(shape)))

	common, err := CommonType(conv, circle, shape)
	require.NoError(t, err)
	assert.Equal(t, "Shape", common.String())
}

func TestCommonType(t *testing.T) {
	t.Parallel()

	conv := NewConversionTable()
	tests := []struct {
		name string
		a, b Type
		want string
		err  error
	}{
		{"identical", Int, Int, "int", nil},
		{"widening", Int, Long, "long", nil},
		{"widening reversed", Double, Int, "double", nil},
		{"throw arm", Bottom, String, "string", nil},
		{"throw arm second", String, Bottom, "string", nil},
		{"null and reference", String, Null, "string", nil},
		{"null and nullable", nullable(Int), Null, "int?", nil},
		{"null and value", Int, Null, "", ErrNoCommonType},
		{"unrelated", String, Int, "", ErrNoCommonType},
		{"no direction", &Named{Name: "A"}, &Named{Name: "B"}, "", ErrNoCommonType},
		{"unknown", Invalid, Int, "", ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CommonType(conv, tt.a, tt.b)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTypes(t *testing.T) {
	t.Parallel()

	list := &Named{Name: "List", Args: []Type{nullable(Int)}}
	assert.Equal(t, "List<int?>", list.String())
	assert.Equal(t, "string[]", (&Array{Elem: String}).String())
	assert.True(t, Identical(list, &Named{Name: "List", Args: []Type{&Nullable{Elem: &Named{Name: "int"}}}}))
	assert.False(t, Identical(Int, nil))
	assert.True(t, Identical(nil, nil))

	assert.True(t, IsValueType(Int))
	assert.True(t, IsValueType(Bool))
	assert.False(t, IsValueType(String))
	assert.False(t, IsValueType(nullable(Int)))
	assert.True(t, IsNumeric(Decimal))
	assert.False(t, IsNumeric(Bool))

	elem, ok := ElementType(&Named{Name: "IEnumerable", Args: []Type{String}})
	require.True(t, ok)
	assert.Equal(t, String, elem)
	_, ok = ElementType(list)
	assert.False(t, ok)
}

func TestSyntaxConversion(t *testing.T) {
	t.Parallel()

	te := &syntax.TypeExpr{
		Name:  "Dictionary",
		Args:  []*syntax.TypeExpr{{Name: "string"}, {Name: "int", Nullable: true}},
		Array: true,
	}
	typ := FromSyntax(te)
	assert.Equal(t, "Dictionary<string, int?>[]", typ.String())
	assert.Equal(t, "Dictionary<string, int?>[]", syntax.TypeString(ToSyntax(typ)))

	assert.Same(t, Int, FromSyntax(&syntax.TypeExpr{Name: "int", Ref: true}))
	assert.Equal(t, Invalid, FromSyntax(nil))
}

const sumHeader = `long Sum(int a, long b, string s, int[] xs, bool c) {
    var n = a + 1;
    var t = s + a;
    int? maybe = null;
    char first = s[0];
`

const modelRest = `
IEnumerable<string> Names(bool c) {
    yield return "a";
}

void Log(string s) {
    Print(s);
}

ref int Slot(int[] xs) {
    return ref xs[0];
}
`

const modelSource = sumHeader + "    return a;\n}\n" + modelRest

func parseModel(t *testing.T) (*syntax.File, *Model) {
	t.Helper()
	f, err := syntax.ParseFile("m.cs", []byte(modelSource))
	require.NoError(t, err)
	return f, NewModel(f, nil)
}

// exprIn places src as a statement of Sum after its locals and returns the
// scope of Sum with the statement's expression.
func exprIn(t *testing.T, src string) (*Scope, syntax.Expr) {
	t.Helper()
	f, err := syntax.ParseFile("m.cs", []byte(sumHeader+"    "+src+";\n    return a;\n}\n"+modelRest))
	require.NoError(t, err, src)
	stmt, ok := f.Funcs[0].Body.List[4].(*syntax.ExprStmt)
	require.True(t, ok, src)
	return NewModel(f, nil).Func(f.Funcs[0]), stmt.X
}

func TestTypeOf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		expr string
		want string
	}{
		{"a", "int"},
		{"b", "long"},
		{"a + b", "long"},
		{"a * 2.0", "double"},
		{"a + 1m", "decimal"},
		{"-a", "int"},
		{"!c", "bool"},
		{"a < b", "bool"},
		{"c && c", "bool"},
		{"s + a", "string"},
		{"xs[0]", "int"},
		{"s[0]", "char"},
		{"n", "int"},
		{"t", "string"},
		{"maybe", "int?"},
		{"first", "char"},
		{"(long)a", "long"},
		{"new Point()", "Point"},
		{"(a)", "int"},
		{"b = a", "long"},
		{"1L", "long"},
		{"1.5f", "float"},
		{`"x"`, "string"},
		{"null", "null"},
		{"c ? throw new E() : a", "int"},
		{"c ? a : b", "long"},
		{"Sum(a, b, s, xs, c)", "long"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			scope, expr := exprIn(t, tt.expr)
			typ, err := scope.TypeOf(ctx, expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ.String())
		})
	}
}

func TestTypeOfUnknown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, src := range []string{"missing", "Print(s)", "s.Length", "c + 1", "-s", "c ? s : a + b * xs"} {
		scope, expr := exprIn(t, src)
		_, err := scope.TypeOf(ctx, expr)
		assert.ErrorIs(t, err, ErrUnknownType, src)
	}

	scope, expr := exprIn(t, "c ? s : a")
	_, err := scope.TypeOf(ctx, expr)
	assert.ErrorIs(t, err, ErrNoCommonType)
}

func TestTypeOfCanceled(t *testing.T) {
	t.Parallel()

	scope, expr := exprIn(t, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scope.TypeOf(ctx, expr)
	assert.ErrorIs(t, err, context.Canceled)

	// a canceled query does not leave the scope half declared
	typ, err := scope.TypeOf(context.Background(), expr)
	require.NoError(t, err)
	assert.Equal(t, Int, typ)
}

func TestTypeOfBlockScopes(t *testing.T) {
	t.Parallel()

	f, err := syntax.ParseFile("m.cs", []byte(`void F(bool b, long w) {
    if (b) {
        int v = 1;
        Use(v, w);
    } else {
        string v = "x";
        Use(v, w);
    }
    Use(v, w);
}`))
	require.NoError(t, err)
	scope := NewModel(f, nil).Func(f.Funcs[0])
	ctx := context.Background()

	args := func(s syntax.Stmt) []syntax.Expr {
		t.Helper()
		stmt, ok := s.(*syntax.ExprStmt)
		require.True(t, ok)
		call, ok := stmt.X.(*syntax.CallExpr)
		require.True(t, ok)
		return call.Args
	}
	ifs, ok := f.Funcs[0].Body.List[0].(*syntax.IfStmt)
	require.True(t, ok)
	then, ok := ifs.Then.(*syntax.BlockStmt)
	require.True(t, ok)
	els, ok := ifs.Else.(*syntax.BlockStmt)
	require.True(t, ok)

	inThen := args(then.List[1])
	typ, err := scope.TypeOf(ctx, inThen[0])
	require.NoError(t, err)
	assert.Equal(t, "int", typ.String())

	inElse := args(els.List[1])
	typ, err = scope.TypeOf(ctx, inElse[0])
	require.NoError(t, err)
	assert.Equal(t, "string", typ.String())

	typ, err = scope.TypeOf(ctx, inElse[1])
	require.NoError(t, err)
	assert.Equal(t, "long", typ.String())

	after := args(f.Funcs[0].Body.List[1])
	_, err = scope.TypeOf(ctx, after[0])
	assert.ErrorIs(t, err, ErrUnknownType)
	typ, err = scope.TypeOf(ctx, after[1])
	require.NoError(t, err)
	assert.Equal(t, "long", typ.String())
}

func TestScopeResultType(t *testing.T) {
	t.Parallel()

	f, model := parseModel(t)
	assert.NotNil(t, model.Conversions())

	sum := model.Func(f.Funcs[0])
	rt, err := sum.ResultType()
	require.NoError(t, err)
	assert.Equal(t, Long, rt)
	assert.False(t, sum.IsIterator())
	assert.False(t, sum.ReturnsRef())
	assert.Same(t, f.Funcs[0], sum.Decl())

	names := model.Func(f.Funcs[1])
	rt, err = names.ResultType()
	require.NoError(t, err)
	assert.Equal(t, String, rt)
	assert.True(t, names.IsIterator())

	_, err = model.Func(f.Funcs[2]).ResultType()
	assert.ErrorIs(t, err, ErrUnknownType)

	slot := model.Func(f.Funcs[3])
	assert.True(t, slot.ReturnsRef())
	rt, err = slot.ResultType()
	require.NoError(t, err)
	assert.Equal(t, Int, rt)
}
