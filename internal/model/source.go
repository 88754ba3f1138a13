package model

// Path represents a file system path.
type Path string

// Position is a location in a source file. Lines are 1-based, columns 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans two positions in the same file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the range carries no location at all.
func (r Range) IsZero() bool {
	return r.Start.Line == 0 && r.End.Line == 0
}

// ContainsLine reports whether line falls between the start and end lines, inclusive.
func (r Range) ContainsLine(line int) bool {
	if r.IsZero() {
		return false
	}

	end := r.End.Line
	if end < r.Start.Line {
		end = r.Start.Line
	}

	return line >= r.Start.Line && line <= end
}
