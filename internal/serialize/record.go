package serialize

// Record is an ordered aggregate of fields, each one a Serializable
// (scalar, Array, or nested Record). Fields are written/read in
// declaration order, matching the protocol's aggregate traversal rule.
type Record struct {
	Fields []Serializable
}

// NewRecord builds a Record from an ordered field list.
func NewRecord(fields ...Serializable) *Record {
	return &Record{Fields: fields}
}

func (r *Record) compositeKind() {}

func (r *Record) Size() int {
	n := 0
	for _, f := range r.Fields {
		n += f.Size()
	}
	return n
}

func (r *Record) put(buf []byte, off int) int {
	for _, f := range r.Fields {
		off = f.put(buf, off)
	}
	return off
}

func (r *Record) get(buf []byte, off int) int {
	for _, f := range r.Fields {
		off = f.get(buf, off)
	}
	return off
}
