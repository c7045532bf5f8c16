package heap

import (
	"bytes"
	"encoding/binary"
)

// Binary format constants for the single-memory module backing a Heap.
const (
	wasmMagic   uint32 = 0x6D736100
	wasmVersion uint32 = 0x01

	sectionMemory byte = 5
	sectionExport byte = 7

	kindMemory byte = 2

	limitsMinMax byte = 0x01
)

const memoryExport = "memory"

// encodeModule builds a module that declares one memory with the given page
// limits and exports it as "memory". It has no functions.
func encodeModule(minPages, maxPages uint32) []byte {
	var w bytes.Buffer

	w.Write(binary.LittleEndian.AppendUint32(nil, wasmMagic))
	w.Write(binary.LittleEndian.AppendUint32(nil, wasmVersion))

	var mem bytes.Buffer
	writeLEB128u(&mem, 1)
	mem.WriteByte(limitsMinMax)
	writeLEB128u(&mem, minPages)
	writeLEB128u(&mem, maxPages)
	writeSection(&w, sectionMemory, mem.Bytes())

	var exp bytes.Buffer
	writeLEB128u(&exp, 1)
	writeName(&exp, memoryExport)
	exp.WriteByte(kindMemory)
	writeLEB128u(&exp, 0)
	writeSection(&w, sectionExport, exp.Bytes())

	return w.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, body []byte) {
	w.WriteByte(id)
	writeLEB128u(w, uint32(len(body)))
	w.Write(body)
}

func writeName(w *bytes.Buffer, name string) {
	writeLEB128u(w, uint32(len(name)))
	w.WriteString(name)
}

func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
