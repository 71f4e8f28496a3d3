// Package disassembler renders MCS-51 CODE bytes as assembly text, one
// instruction at a time. It does not interpret control flow: a JMP target
// is printed as an address, not followed.
package disassembler

import (
	"fmt"

	"github.com/JVMerkle/mcs51emu/mcs51"
)

// Step disassembles the instruction at pc in code, returning its text and
// the byte length to advance PC by. An opcode with no handler installed in
// the mcs51 opcode table disassembles as "DB 0xNN" (raw byte), matching
// how the core itself would treat it as a one-cycle no-op/abort candidate.
func Step(pc uint16, code []uint8) (string, int) {
	op := code[pc]
	mnemonic, length, _, implemented := mcs51.OpcodeInfo(op)
	if !implemented {
		return fmt.Sprintf("DB 0x%02X", op), 1
	}

	args := make([]uint8, 0, length-1)
	for i := 1; i < length; i++ {
		if int(pc)+i >= len(code) {
			break
		}
		args = append(args, code[int(pc)+i])
	}

	switch length {
	case 1:
		return mnemonic, 1
	case 2:
		return fmt.Sprintf("%s 0x%02X", mnemonic, args[0]), 2
	case 3:
		return fmt.Sprintf("%s 0x%02X%02X", mnemonic, args[0], args[1]), 3
	default:
		return fmt.Sprintf("%s %v", mnemonic, args), length
	}
}

// Range disassembles count instructions starting at pc, returning one line
// per instruction prefixed with its address.
func Range(pc uint16, code []uint8, count int) []string {
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, n := Step(pc, code)
		lines = append(lines, fmt.Sprintf("%04X: %s", pc, text))
		pc += uint16(n)
	}
	return lines
}
