/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builder.go
Description: Pickle fixture builder for tests. Assembles protocol 4 records opcode by opcode
so tests never need an external interpreter to produce input streams.
*/

package streamtest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Builder assembles one protocol 4 pickle without framing
type Builder struct {
	buf bytes.Buffer
}

// New starts a record with the protocol header
func New() *Builder {
	b := &Builder{}
	b.buf.Write([]byte{0x80, 0x04})
	return b
}

// Op appends raw opcodes
func (b *Builder) Op(code ...byte) *Builder {
	b.buf.Write(code)
	return b
}

func (b *Builder) Mark() *Builder     { return b.Op('(') }
func (b *Builder) None() *Builder     { return b.Op('N') }
func (b *Builder) Dict() *Builder     { return b.Op('}') }
func (b *Builder) SetItems() *Builder { return b.Op('u') }
func (b *Builder) List() *Builder     { return b.Op(']') }
func (b *Builder) Appends() *Builder  { return b.Op('e') }
func (b *Builder) Tuple() *Builder    { return b.Op('t') }
func (b *Builder) EmptySet() *Builder { return b.Op(0x8f) }
func (b *Builder) AddItems() *Builder { return b.Op(0x90) }

// Bool pushes True or False
func (b *Builder) Bool(v bool) *Builder {
	if v {
		return b.Op(0x88)
	}
	return b.Op(0x89)
}

// Int pushes a small or 4-byte signed integer
func (b *Builder) Int(n int32) *Builder {
	if n >= 0 && n < 256 {
		return b.Op('K', byte(n))
	}
	b.buf.WriteByte('J')
	binary.Write(&b.buf, binary.LittleEndian, n)
	return b
}

// Float pushes a double
func (b *Builder) Float(f float64) *Builder {
	b.buf.WriteByte('G')
	binary.Write(&b.buf, binary.BigEndian, math.Float64bits(f))
	return b
}

// Str pushes a short string
func (b *Builder) Str(s string) *Builder {
	b.buf.WriteByte(0x8c)
	b.buf.WriteByte(byte(len(s)))
	b.buf.WriteString(s)
	return b
}

// Raw pushes a short bytes object
func (b *Builder) Raw(data []byte) *Builder {
	b.buf.WriteByte('C')
	b.buf.WriteByte(byte(len(data)))
	b.buf.Write(data)
	return b
}

// Set pushes a set of integers
func (b *Builder) Set(ns ...int32) *Builder {
	b.EmptySet()
	if len(ns) == 0 {
		return b
	}
	b.Mark()
	for _, n := range ns {
		b.Int(n)
	}
	return b.AddItems()
}

// Bytes returns the record so far without a STOP opcode
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Stop terminates the record and returns it
func (b *Builder) Stop() []byte {
	b.buf.WriteByte('.')
	return b.buf.Bytes()
}

// Scenario encodes {1: [{2,3},{4},set(),{5,6}], 2: [{1},set(),set(),set()]}
func Scenario() []byte {
	b := New().Dict().Mark()
	b.Int(1).List().Mark().Set(2, 3).Set(4).Set().Set(5, 6).Appends()
	b.Int(2).List().Mark().Set(1).Set().Set().Set().Appends()
	return b.SetItems().Stop()
}

// Concat joins records into one stream
func Concat(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}
