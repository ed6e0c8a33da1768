// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"encoding/binary"
	"fmt"
)

const (
	classMagic = 0xCAFEBABE

	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type (
	classReader struct {
		data []byte
		pos  int
		err  error
	}

	constant struct {
		tag   byte
		index uint16
		utf8  string
	}
)

// ModuleNameFromClass returns the module name declared by the Module
// attribute of a compiled module descriptor.
func ModuleNameFromClass(data []byte) (string, error) {
	r := &classReader{data: data}
	if r.u4() != classMagic {
		return "", fmt.Errorf("%w: bad magic", ErrClassFormat)
	}
	r.skip(4) // minor, major

	count := int(r.u2())
	pool := make([]constant, count)
	for i := 1; i < count && r.err == nil; i++ {
		slot := i
		c := constant{tag: r.u1()}
		switch c.tag {
		case tagUtf8:
			n := int(r.u2())
			c.utf8 = string(r.bytes(n))
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			c.index = r.u2()
		case tagMethodHandle:
			r.skip(3)
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.skip(4)
		case tagLong, tagDouble:
			r.skip(8)
			i++
		default:
			return "", fmt.Errorf("%w: unknown constant tag %d", ErrClassFormat, c.tag)
		}
		pool[slot] = c
	}

	r.skip(6) // access flags, this class, super class
	r.skip(2 * int(r.u2()))
	for range 2 { // fields, methods
		members := int(r.u2())
		for range members {
			r.skip(6)
			r.skipAttributes()
		}
	}

	attributes := int(r.u2())
	for range attributes {
		name := r.u2()
		length := int(r.u4())
		if r.err != nil {
			break
		}
		if utf8At(pool, name) != "Module" {
			r.skip(length)
			continue
		}
		module := r.u2()
		if r.err != nil || int(module) >= len(pool) || pool[module].tag != tagModule {
			return "", fmt.Errorf("%w: invalid module constant", ErrClassFormat)
		}
		if name := utf8At(pool, pool[module].index); name != "" {
			return name, nil
		}
		return "", fmt.Errorf("%w: empty module name", ErrClassFormat)
	}
	if r.err != nil {
		return "", r.err
	}
	return "", fmt.Errorf("%w: no Module attribute", ErrClassFormat)
}

func utf8At(pool []constant, i uint16) string {
	if int(i) >= len(pool) || pool[i].tag != tagUtf8 {
		return ""
	}
	return pool[i].utf8
}

func (r *classReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("%w: truncated at offset %d", ErrClassFormat, r.pos)
		r.pos = len(r.data)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *classReader) skip(n int) { r.bytes(n) }

func (r *classReader) u1() byte {
	if b := r.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *classReader) u2() uint16 {
	if b := r.bytes(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *classReader) u4() uint32 {
	if b := r.bytes(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *classReader) skipAttributes() {
	n := int(r.u2())
	for range n {
		r.skip(2)
		r.skip(int(r.u4()))
	}
}
