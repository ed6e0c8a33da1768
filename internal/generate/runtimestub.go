// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// ModuleInfoClassFile is the compiled descriptor written into each runtime
// module stub folder.
const ModuleInfoClassFile = "module-info.class"

const (
	classMagic         = 0xCAFEBABE
	classVersionJava9  = 53
	accModule          = 0x8000
	accSynthetic       = 0x1000
	accMandated        = 0x8000
	constantUtf8       = 1
	constantClass      = 7
	constantModule     = 19
	moduleAttributeLen = 22
)

// ModuleInfoClass returns a compiled, synthetic module descriptor that
// declares moduleName and requires only java.base. Put on the module path at
// compile time, it satisfies `requires /*runtime*/` without the real module.
func ModuleInfoClass(moduleName string) []byte {
	b := binary.BigEndian.AppendUint32(nil, classMagic)
	b = binary.BigEndian.AppendUint16(b, 0) // minor
	b = binary.BigEndian.AppendUint16(b, classVersionJava9)

	b = binary.BigEndian.AppendUint16(b, 8) // constant pool count
	b = appendUtf8(b, "module-info")        // #1
	b = appendRef(b, constantClass, 1)      // #2
	b = appendUtf8(b, "Module")             // #3
	b = appendUtf8(b, moduleName)           // #4
	b = appendRef(b, constantModule, 4)     // #5
	b = appendUtf8(b, "java.base")          // #6
	b = appendRef(b, constantModule, 6)     // #7

	b = binary.BigEndian.AppendUint16(b, accModule)
	b = binary.BigEndian.AppendUint16(b, 2) // this class
	b = binary.BigEndian.AppendUint16(b, 0) // super class
	b = binary.BigEndian.AppendUint16(b, 0) // interfaces
	b = binary.BigEndian.AppendUint16(b, 0) // fields
	b = binary.BigEndian.AppendUint16(b, 0) // methods

	b = binary.BigEndian.AppendUint16(b, 1) // attributes
	b = binary.BigEndian.AppendUint16(b, 3)
	b = binary.BigEndian.AppendUint32(b, moduleAttributeLen)
	b = binary.BigEndian.AppendUint16(b, 5) // module name
	b = binary.BigEndian.AppendUint16(b, accSynthetic)
	b = binary.BigEndian.AppendUint16(b, 0) // version
	b = binary.BigEndian.AppendUint16(b, 1) // requires
	b = binary.BigEndian.AppendUint16(b, 7)
	b = binary.BigEndian.AppendUint16(b, accMandated)
	b = binary.BigEndian.AppendUint16(b, 0)
	for range 4 { // exports, opens, uses, provides
		b = binary.BigEndian.AppendUint16(b, 0)
	}
	return b
}

// RuntimeStubs writes a synthetic module-info.class into every folder. The
// module name of a stub is the folder's base name. Written paths are returned
// in folder order.
func RuntimeStubs(folders []string) ([]string, error) {
	written := make([]string, 0, len(folders))
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", folder, err)
		}
		path := filepath.Join(folder, ModuleInfoClassFile)
		if err := os.WriteFile(path, ModuleInfoClass(filepath.Base(folder)), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func appendUtf8(b []byte, s string) []byte {
	b = append(b, constantUtf8)
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}

func appendRef(b []byte, tag byte, index uint16) []byte {
	b = append(b, tag)
	return binary.BigEndian.AppendUint16(b, index)
}
