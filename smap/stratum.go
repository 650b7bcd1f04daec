// Package smap builds source maps in the SMAP text format: per stratum a file
// table and a run-length compressed table of line correspondences between
// template source lines and generated output lines.
package smap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
	"github.com/sirupsen/logrus"
)

// LineInfo maps InputLineCount source lines starting at InputStartLine onto
// the output. Source line k of the run starts at output line
// OutputStartLine + k*OutputLineIncrement.
type LineInfo struct {
	InputStartLine      int
	InputLineCount      int
	FileID              int
	FileIDSet           bool
	OutputStartLine     int
	OutputLineIncrement int
}

// String renders the entry as a line section record.
func (l LineInfo) String() string {
	var builder strings.Builder

	builder.WriteString(strconv.Itoa(l.InputStartLine))

	if l.FileIDSet {
		builder.WriteByte('#')
		builder.WriteString(strconv.Itoa(l.FileID))
	}

	if l.InputLineCount != 1 {
		builder.WriteByte(',')
		builder.WriteString(strconv.Itoa(l.InputLineCount))
	}

	builder.WriteByte(':')
	builder.WriteString(strconv.Itoa(l.OutputStartLine))

	if l.OutputLineIncrement != 1 {
		builder.WriteByte(',')
		builder.WriteString(strconv.Itoa(l.OutputLineIncrement))
	}

	builder.WriteByte('\n')

	return builder.String()
}

// File is one entry of the file section.
type File struct {
	Name string
	Path string
}

// Stratum is one named coordinate space of a source map.
type Stratum struct {
	name       string
	files      []File
	lines      []LineInfo
	lastFileID int

	// Logger receives debug output, logrus.StandardLogger() when nil.
	Logger   logrus.FieldLogger
	Messages *message.Catalog
}

// NewStratum creates an empty stratum
func NewStratum(name string) *Stratum {
	return &Stratum{name: name}
}

// Name returns the stratum name
func (s *Stratum) Name() string {
	return s.name
}

// Files returns the file section entries
func (s *Stratum) Files() []File {
	return s.files
}

// Lines returns the line section entries
func (s *Stratum) Lines() []LineInfo {
	return s.lines
}

// AddFile registers a source file. Files are identified by path; adding a
// path twice keeps the first entry. An empty path means the name is the path.
func (s *Stratum) AddFile(name, path string) {
	if path == "" {
		path = name
	}

	if s.fileIndex(path) >= 0 {
		return
	}

	s.files = append(s.files, File{Name: name, Path: path})
}

func (s *Stratum) fileIndex(path string) int {
	for i, f := range s.files {
		if f.Path == path {
			return i
		}
	}

	return -1
}

// AddLineData appends a line correspondence for a file added with AddFile.
// An entry with outputStartLine 0 is ignored: such nodes are not attributed to
// generated code.
func (s *Stratum) AddLineData(inputStartLine int, path string, inputLineCount, outputStartLine, outputLineIncrement int) error {
	fileID := s.fileIndex(path)
	if fileID < 0 {
		msg := s.Messages.Message(message.SMAPUnknownFile, path, s.name)
		return fmt.Errorf("%w: %s", snappage.ErrUnknownSourceFile, msg)
	}

	if outputStartLine == 0 {
		s.logger().WithFields(logrus.Fields{
			"stratum": s.name,
			"file":    path,
			"line":    inputStartLine,
		}).Debug("dropping line data without output line")

		return nil
	}

	li := LineInfo{
		InputStartLine:      inputStartLine,
		InputLineCount:      inputLineCount,
		OutputStartLine:     outputStartLine,
		OutputLineIncrement: outputLineIncrement,
	}

	if fileID != s.lastFileID {
		li.FileID = fileID
		li.FileIDSet = true
	}

	s.lastFileID = fileID
	s.lines = append(s.lines, li)

	return nil
}

// OptimizeLineSection merges adjacent entries. The first pass folds entries
// for the same source line into the output increment of their predecessor,
// the second folds consecutive source lines into the input line count.
func (s *Stratum) OptimizeLineSection() {
	before := len(s.lines)

	for i := 0; i < len(s.lines)-1; {
		li, next := &s.lines[i], s.lines[i+1]
		if !next.FileIDSet &&
			next.InputStartLine == li.InputStartLine &&
			next.InputLineCount == 1 &&
			li.InputLineCount == 1 &&
			next.OutputStartLine == li.OutputStartLine+li.InputLineCount*li.OutputLineIncrement {
			li.OutputLineIncrement = next.OutputStartLine - li.OutputStartLine + next.OutputLineIncrement
			s.lines = append(s.lines[:i+1], s.lines[i+2:]...)
		} else {
			i++
		}
	}

	for i := 0; i < len(s.lines)-1; {
		li, next := &s.lines[i], s.lines[i+1]
		if !next.FileIDSet &&
			next.InputStartLine == li.InputStartLine+li.InputLineCount &&
			next.OutputLineIncrement == li.OutputLineIncrement &&
			next.OutputStartLine == li.OutputStartLine+li.InputLineCount*li.OutputLineIncrement {
			li.InputLineCount += next.InputLineCount
			s.lines = append(s.lines[:i+1], s.lines[i+2:]...)
		} else {
			i++
		}
	}

	s.logger().WithFields(logrus.Fields{
		"stratum": s.name,
		"before":  before,
		"after":   len(s.lines),
	}).Debug("optimized line section")
}

// String renders the stratum, file and line sections. A stratum without files
// or lines renders as "".
func (s *Stratum) String() string {
	if len(s.files) == 0 || len(s.lines) == 0 {
		return ""
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "*S %s\n", s.name)
	builder.WriteString("*F\n")

	for i, f := range s.files {
		if f.Path != f.Name {
			// paths are written relative to the document root
			fmt.Fprintf(&builder, "+ %d %s\n%s\n", i, f.Name, strings.TrimPrefix(f.Path, "/"))
		} else {
			fmt.Fprintf(&builder, "%d %s\n", i, strings.TrimPrefix(f.Name, "/"))
		}
	}

	builder.WriteString("*L\n")

	for _, li := range s.lines {
		builder.WriteString(li.String())
	}

	return builder.String()
}

func (s *Stratum) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}

	return s.Logger
}
