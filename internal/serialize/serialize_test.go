package serialize

import "testing"

func TestWriteRead_Scalars(t *testing.T) {
	buf := make([]byte, 64)
	off := 0

	u16 := &U16{V: 0xBEEF}
	var err error
	off, err = Write(buf, u16, off)
	if err != nil {
		t.Fatalf("Write U16: %v", err)
	}
	f64 := &F64{V: 3.14159}
	off, err = Write(buf, f64, off)
	if err != nil {
		t.Fatalf("Write F64: %v", err)
	}
	b := &Bool{V: true}
	off, err = Write(buf, b, off)
	if err != nil {
		t.Fatalf("Write Bool: %v", err)
	}
	rxUsed := off

	readOff := 0
	gotU16 := &U16{}
	readOff, err = Read(buf, gotU16, readOff, rxUsed)
	if err != nil {
		t.Fatalf("Read U16: %v", err)
	}
	if gotU16.V != u16.V {
		t.Fatalf("got %v want %v", gotU16.V, u16.V)
	}
	gotF64 := &F64{}
	readOff, err = Read(buf, gotF64, readOff, rxUsed)
	if err != nil {
		t.Fatalf("Read F64: %v", err)
	}
	if gotF64.V != f64.V {
		t.Fatalf("got %v want %v", gotF64.V, f64.V)
	}
	gotBool := &Bool{}
	if _, err = Read(buf, gotBool, readOff, rxUsed); err != nil {
		t.Fatalf("Read Bool: %v", err)
	}
	if gotBool.V != b.V {
		t.Fatalf("got %v want %v", gotBool.V, b.V)
	}
}

func TestWrite_InsufficientSpace(t *testing.T) {
	buf := make([]byte, 1)
	if _, err := Write(buf, &U32{V: 1}, 0); err != ErrInsufficientSpace {
		t.Fatalf("got %v want ErrInsufficientSpace", err)
	}
}

func TestRead_InsufficientData(t *testing.T) {
	buf := make([]byte, 8)
	if _, err := Read(buf, &U32{}, 2, 4); err != ErrInsufficientData {
		t.Fatalf("got %v want ErrInsufficientData", err)
	}
}

func TestArray_RoundTrip(t *testing.T) {
	items := []*U8{{V: 1}, {V: 2}, {V: 3}, {V: 4}}
	arr, err := NewArray(items)
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	buf := make([]byte, 16)
	off, err := Write(buf, arr, 0)
	if err != nil {
		t.Fatalf("Write array: %v", err)
	}

	got := []*U8{{}, {}, {}, {}}
	gotArr := &Array[*U8]{Items: got}
	if _, err := Read(buf, gotArr, 0, off); err != nil {
		t.Fatalf("Read array: %v", err)
	}
	for i := range items {
		if got[i].V != items[i].V {
			t.Fatalf("index %d: got %v want %v", i, got[i].V, items[i].V)
		}
	}
}

func TestNewArray_EmptyRejected(t *testing.T) {
	if _, err := NewArray([]*U8{}); err != ErrEmptyArray {
		t.Fatalf("got %v want ErrEmptyArray", err)
	}
}

func TestNewArray_NestedArrayRejected(t *testing.T) {
	inner, err := NewArray([]*U8{{V: 1}, {V: 2}})
	if err != nil {
		t.Fatalf("NewArray(inner): %v", err)
	}
	if _, err := NewArray([]*Array[*U8]{inner}); err != ErrMultidimensionalArray {
		t.Fatalf("got %v want ErrMultidimensionalArray", err)
	}
}

func TestNewArray_RecordElementRejected(t *testing.T) {
	rec := NewRecord(&U8{V: 1}, &Bool{V: true})
	if _, err := NewArray([]*Record{rec}); err != ErrMultidimensionalArray {
		t.Fatalf("got %v want ErrMultidimensionalArray", err)
	}
}

func TestRecord_NestedRoundTrip(t *testing.T) {
	items := []*U16{{V: 10}, {V: 20}}
	arr, err := NewArray(items)
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	inner := NewRecord(&U8{V: 7}, &Bool{V: false})
	outer := NewRecord(&I32{V: -42}, inner, arr)

	buf := make([]byte, outer.Size())
	if _, err := Write(buf, outer, 0); err != nil {
		t.Fatalf("Write record: %v", err)
	}

	gotInner := NewRecord(&U8{}, &Bool{})
	gotItems := []*U16{{}, {}}
	gotArr := &Array[*U16]{Items: gotItems}
	gotOuter := NewRecord(&I32{}, gotInner, gotArr)
	if _, err := Read(buf, gotOuter, 0, len(buf)); err != nil {
		t.Fatalf("Read record: %v", err)
	}

	if gotOuter.Fields[0].(*I32).V != -42 {
		t.Fatalf("outer field 0 mismatch")
	}
	if gotInner.Fields[0].(*U8).V != 7 || gotInner.Fields[1].(*Bool).V != false {
		t.Fatalf("inner record mismatch")
	}
	if gotItems[0].V != 10 || gotItems[1].V != 20 {
		t.Fatalf("array field mismatch: %v", gotItems)
	}
}

func TestRecord_SingleField(t *testing.T) {
	r := NewRecord(&U8{V: 9})
	buf := make([]byte, r.Size())
	if _, err := Write(buf, r, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := NewRecord(&U8{})
	if _, err := Read(buf, got, 0, len(buf)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Fields[0].(*U8).V != 9 {
		t.Fatalf("mismatch")
	}
}
