package page

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	tok "github.com/shibukawa/snappage/tokenizer"
)

const unitYAML = `
artifact: pages/list_jsp
prefixes:
  fn: http://example.com/functions
root:
  kind: root
  file: /list.jsp
  line: 1
  begin: 0
  end: 0
  body:
    - kind: text
      line: 1
      text: "<ul>\n"
      begin: 4
      end: 5
    - kind: custom_tag
      name: c:forEach
      line: 2
      begin: 5
      end: 9
      inner_scope: Loop
      attributes:
        - name: items
          value: "${fn:split(list, ',')}"
          quote: '"'
      body:
        - kind: el
          file: /item.jspf
          line: 1
          text: "${item}"
          begin: 2
          end: 3
`

func TestParse(t *testing.T) {
	unit, err := Parse([]byte(unitYAML))
	assert.NoError(t, err)

	assert.Equal(t, "pages/list_jsp", unit.Artifact)
	assert.Equal(t, "list_jsp.go", unit.OutputFileName())
	assert.Equal(t, map[string]string{"fn": "http://example.com/functions"}, unit.Prefixes)

	root := unit.Root
	assert.Equal(t, KindRoot, root.Kind)
	assert.Equal(t, 2, len(root.Body))

	tag := root.Body[1]
	assert.Equal(t, KindCustomTag, tag.Kind)
	assert.True(t, tag.HasInnerScope())
	assert.Equal(t, '"', tag.Attributes[0].QuoteChar())
	assert.True(t, tag.Parent() == root)
	assert.Equal(t, "/list.jsp", tag.SourceFile())

	item := tag.Body[0]
	assert.Equal(t, KindELExpression, item.Kind)
	assert.Equal(t, "/item.jspf", item.SourceFile())
	assert.True(t, item.Parent() == tag)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"no artifact", "root:\n  kind: root\n  line: 1\n  begin: 0\n  end: 0\n", ErrNoArtifact},
		{"no root", "artifact: a\n", ErrNoRoot},
		{"reversed lines", "artifact: a\nroot:\n  kind: scriptlet\n  line: 1\n  begin: 5\n  end: 3\n", ErrInvalidGeneratedLines},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.IsError(t, err, tt.err)
		})
	}
}

func TestParse_RejectsUnknown(t *testing.T) {
	_, err := Parse([]byte("artifact: a\nunknown: 1\nroot:\n  kind: root\n  line: 1\n  begin: 0\n  end: 0\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("artifact: a\nroot:\n  kind: banner\n  line: 1\n  begin: 0\n  end: 0\n"))
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	for kind, name := range kindNames {
		parsed, err := ParseKind(name)
		assert.NoError(t, err)
		assert.Equal(t, kind, parsed)
		assert.Equal(t, name, kind.String())
	}

	assert.Equal(t, "unknown", Kind(100).String())
	assert.True(t, KindDeclaration.IsScript())
	assert.False(t, KindELExpression.IsScript())
}

func TestMarshal(t *testing.T) {
	unit, err := Parse([]byte(unitYAML))
	assert.NoError(t, err)

	data, err := Marshal(unit)
	assert.NoError(t, err)

	again, err := Parse(data)
	assert.NoError(t, err)
	assert.Equal(t, unit.Root.Body[1].Body[0].Text, again.Root.Body[1].Body[0].Text)
	assert.Equal(t, KindCustomTag, again.Root.Body[1].Kind)
}

type recorder struct {
	events []string
}

func (r *recorder) Enter(n *Node) error {
	r.events = append(r.events, "enter "+n.Kind.String())
	return nil
}

func (r *recorder) Leave(n *Node) error {
	r.events = append(r.events, "leave "+n.Kind.String())
	return nil
}

func TestWalk(t *testing.T) {
	unit, err := Parse([]byte(unitYAML))
	assert.NoError(t, err)

	r := &recorder{}
	assert.NoError(t, Walk(unit.Root, r))

	assert.Equal(t, []string{
		"enter root",
		"enter text",
		"leave text",
		"enter custom_tag",
		"enter el",
		"leave el",
		"leave custom_tag",
		"leave root",
	}, r.events)

	var kinds []Kind

	Inspect(unit.Root, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != KindCustomTag
	})

	assert.Equal(t, []Kind{KindRoot, KindTemplateText, KindCustomTag}, kinds)
}

func TestFromTemplate(t *testing.T) {
	root, err := FromTemplate("hello.jsp", "Hi ${user}!\n#{bean.total}", tok.ScanOptions{})
	assert.NoError(t, err)

	assert.Equal(t, 4, len(root.Body))
	assert.Equal(t, KindTemplateText, root.Body[0].Kind)
	assert.Equal(t, "${user}", root.Body[1].Text)
	assert.Equal(t, KindELExpression, root.Body[1].Kind)
	assert.Equal(t, "!\n", root.Body[2].Text)
	assert.Equal(t, "#{bean.total}", root.Body[3].Text)
	assert.Equal(t, 2, root.Body[3].Line)
	assert.Equal(t, "hello.jsp", root.Body[3].SourceFile())
}
