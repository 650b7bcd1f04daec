package smap

import (
	"strings"

	"github.com/neelance/sourcemap"
)

// ToSourceMap converts a stratum into a version 3 JSON source map for the
// generated file. Every source line is mapped at column 0 of each output line
// it produced.
func ToSourceMap(s *Stratum, generatedFile string) *sourcemap.Map {
	m := &sourcemap.Map{File: generatedFile}

	fileID := 0

	for _, li := range s.lines {
		if li.FileIDSet {
			fileID = li.FileID
		}

		file := strings.TrimPrefix(s.files[fileID].Path, "/")

		for k := range li.InputLineCount {
			out := li.OutputStartLine + k*li.OutputLineIncrement
			span := max(li.OutputLineIncrement, 1)

			for j := range span {
				m.AddMapping(&sourcemap.Mapping{
					GeneratedLine:   out + j,
					GeneratedColumn: 0,
					OriginalFile:    file,
					OriginalLine:    li.InputStartLine + k,
					OriginalColumn:  0,
				})
			}
		}
	}

	return m
}
