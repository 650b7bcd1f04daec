// Package debuginfo correlates the nodes of a generated compilation unit with
// the lines they produced and renders the result as SMAP source maps.
package debuginfo

import (
	"path"
	"strings"

	"github.com/shibukawa/snappage/message"
	"github.com/shibukawa/snappage/page"
	"github.com/shibukawa/snappage/smap"
	"github.com/sirupsen/logrus"
)

// DefaultStratumName is the stratum holding template source lines.
const DefaultStratumName = "JSP"

// Options controls the correlation.
type Options struct {
	// BreakAtLF is set when every line of template text was generated as its
	// own output line.
	BreakAtLF   bool
	StratumName string
	Logger      logrus.FieldLogger
	Messages    *message.Catalog
}

// Scope is the stratum of one nested generated scope.
type Scope struct {
	Name    string
	Stratum *smap.Stratum
}

// Result holds the optimized strata of a unit.
type Result struct {
	Main   *smap.Stratum
	Scopes []Scope
}

// Correlate walks the unit and records the line correspondences of every node
// that produced code. Bodies of nodes with an inner scope are recorded into
// the stratum of that scope.
func Correlate(unit *page.Unit, opts Options) (*Result, error) {
	if opts.StratumName == "" {
		opts.StratumName = DefaultStratumName
	}

	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	result := &Result{Main: newStratum(opts)}

	scopes := map[string]*smap.Stratum{}

	page.Inspect(unit.Root, func(n *page.Node) bool {
		if n.HasInnerScope() {
			if _, ok := scopes[n.InnerScope]; !ok {
				s := newStratum(opts)
				scopes[n.InnerScope] = s
				result.Scopes = append(result.Scopes, Scope{Name: n.InnerScope, Stratum: s})
			}
		}

		return true
	})

	c := &correlator{
		opts:    opts,
		current: result.Main,
		scopes:  scopes,
	}

	if err := page.Walk(unit.Root, c); err != nil {
		return nil, err
	}

	result.Main.OptimizeLineSection()

	for _, scope := range result.Scopes {
		scope.Stratum.OptimizeLineSection()
	}

	return result, nil
}

func newStratum(opts Options) *smap.Stratum {
	s := smap.NewStratum(opts.StratumName)
	s.Logger = opts.Logger
	s.Messages = opts.Messages

	return s
}

type correlator struct {
	opts    Options
	current *smap.Stratum
	saved   []*smap.Stratum
	scopes  map[string]*smap.Stratum
}

func (c *correlator) Enter(n *page.Node) error {
	if err := c.mapNode(n); err != nil {
		return err
	}

	if n.HasInnerScope() {
		c.saved = append(c.saved, c.current)
		c.current = c.scopes[n.InnerScope]
	}

	return nil
}

func (c *correlator) Leave(n *page.Node) error {
	if n.HasInnerScope() {
		c.current = c.saved[len(c.saved)-1]
		c.saved = c.saved[:len(c.saved)-1]
	}

	return nil
}

func (c *correlator) mapNode(n *page.Node) error {
	if n.Line == 0 {
		return nil
	}

	switch {
	case n.Kind == page.KindRoot || n.Kind == page.KindComment:
		return nil
	case n.Kind == page.KindTemplateText:
		return c.mapTemplateText(n)
	case n.Kind.IsScript():
		return c.mapScript(n)
	default:
		return c.mapLines(n, 1, n.EndGeneratedLine-n.BeginGeneratedLine, 0)
	}
}

// mapTemplateText adds one entry per source line of the text.
func (c *correlator) mapTemplateText(n *page.Node) error {
	file := c.addFile(n)

	increment := 0
	if c.opts.BreakAtLF {
		increment = 1
	}

	lines := strings.Count(n.Text, "\n")
	if !strings.HasSuffix(n.Text, "\n") || lines == 0 {
		lines++
	}

	out := n.BeginGeneratedLine

	for i := range lines {
		if err := c.current.AddLineData(n.Line+i, file, 1, out, increment); err != nil {
			return err
		}

		out += increment
	}

	return nil
}

// mapScript maps program text copied into the output, leaving out leading
// comment and blank lines.
func (c *correlator) mapScript(n *page.Node) error {
	lineCount, skipped := countScriptLines(n.Text)
	return c.mapLines(n, lineCount, 1, skipped)
}

func (c *correlator) mapLines(n *page.Node, inLineCount, outIncrement, skippedLines int) error {
	file := c.addFile(n)

	return c.current.AddLineData(
		n.Line+skippedLines,
		file,
		inLineCount-skippedLines,
		n.BeginGeneratedLine+skippedLines,
		outIncrement)
}

func (c *correlator) addFile(n *page.Node) string {
	file := n.SourceFile()
	c.current.AddFile(path.Base(file), file)

	return file
}

// countScriptLines returns the number of lines of text and how many of the
// leading ones hold nothing but comments or blanks.
func countScriptLines(text string) (lineCount, skipped int) {
	lineCount = 1
	slashStarSeen := false
	beginning := true

	index := 0

	for {
		next := strings.IndexByte(text[index:], '\n')
		if next < 0 {
			break
		}

		if beginning {
			line := strings.TrimSpace(text[index : index+next])

			if !slashStarSeen && strings.HasPrefix(line, "/*") {
				slashStarSeen = true
			}

			switch {
			case slashStarSeen:
				skipped++

				if end := strings.Index(line, "*/"); end >= 0 {
					slashStarSeen = false

					if end < len(line)-2 {
						// code follows the comment on this line
						skipped--
						beginning = false
					}
				}
			case line == "" || strings.HasPrefix(line, "//"):
				skipped++
			default:
				beginning = false
			}
		}

		lineCount++
		index += next + 1
	}

	return lineCount, skipped
}
