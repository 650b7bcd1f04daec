package functionmap

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/snappage/el"
	"github.com/shibukawa/snappage/page"
)

func parseWithURI(t *testing.T, expr, uri string) *el.Nodes {
	t.Helper()

	nodes, err := el.Parse(expr, false)
	assert.NoError(t, err)

	for _, fn := range el.Functions(nodes) {
		fn.URI = uri
	}

	return nodes
}

func TestMapper_ReuseByLibrary(t *testing.T) {
	mapper := NewMapper("")

	first := parseWithURI(t, "${fn:m()}", "urn:a")
	second := parseWithURI(t, "${fn:m()}", "urn:a")
	other := parseWithURI(t, "${fn:m()}", "urn:b")

	for _, nodes := range []*el.Nodes{first, second, other} {
		assert.NoError(t, mapper.MapExpression(nodes))
	}

	assert.Equal(t, "_fnmap_0", first.MapName())
	assert.Equal(t, "_fnmap_0", second.MapName())
	assert.Equal(t, "_fnmap_1", other.MapName())
	assert.Equal(t, 2, len(mapper.Declarations()))
}

func TestMapper_PartialMatchAllocates(t *testing.T) {
	mapper := NewMapper("_m")

	single := parseWithURI(t, "${fn:m()}", "urn:a")
	pair := parseWithURI(t, "${fn:m()} ${fn:n()}", "urn:a")
	later := parseWithURI(t, "${fn:m(fn:m(1))}", "urn:a")
	none := parseWithURI(t, "${a.b}", "")

	for _, nodes := range []*el.Nodes{single, pair, later, none} {
		assert.NoError(t, mapper.MapExpression(nodes))
	}

	assert.Equal(t, "_m0", single.MapName())
	assert.Equal(t, "_m1", pair.MapName())
	// fn:m was last registered with the pair map
	assert.Equal(t, "_m1", later.MapName())
	assert.Equal(t, "", none.MapName())

	decls := mapper.Declarations()
	assert.Equal(t, 2, len(decls))
	assert.True(t, decls[0].IsSingle())
	assert.Equal(t, []string{"fn:m", "fn:n"}, []string{decls[1].Bindings[0].QualifiedName, decls[1].Bindings[1].QualifiedName})
}

func TestMapper_Map(t *testing.T) {
	attr := &page.Attribute{Name: "value", EL: parseWithURI(t, "${fn:trim(x)}", "urn:a")}
	tag := &page.Node{Kind: page.KindCustomTag, Line: 1, Attributes: []*page.Attribute{attr}}
	expr := &page.Node{Kind: page.KindELExpression, Line: 2, EL: parseWithURI(t, "${fn:split(a, b)}", "urn:a")}
	nested := &page.Node{Kind: page.KindELExpression, Line: 3, EL: parseWithURI(t, "${fn:trim(y)}", "urn:a")}

	root := &page.Node{Kind: page.KindRoot, File: "a.jsp", Line: 1}
	tag.Append(nested)
	root.Append(tag, expr)

	decls, err := NewMapper("").Map(&page.Unit{Artifact: "a", Root: root})
	assert.NoError(t, err)

	assert.Equal(t, 2, len(decls))
	assert.Equal(t, "_fnmap_0", attr.EL.MapName())
	assert.Equal(t, "_fnmap_0", nested.EL.MapName())
	assert.Equal(t, "_fnmap_1", expr.EL.MapName())
}

func TestMapper_AlreadyAssigned(t *testing.T) {
	nodes := parseWithURI(t, "${fn:m()}", "urn:a")
	assert.NoError(t, nodes.SetMapName("other"))

	err := NewMapper("").MapExpression(nodes)
	assert.Error(t, err)
}
