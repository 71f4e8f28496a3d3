package mcs51

// Handlers for unconditional/conditional jumps, calls, returns, and the
// decrement/compare branch family (DJNZ/CJNE). Operand bytes were fetched
// into p.instructionRegister.args (in CODE order) before the handler runs;
// see phases.go for the fetch sequencing.

func (ir *instructionRegister) addr16() uint16 {
	return uint16(ir.args[0])<<8 | uint16(ir.args[1])
}

func opNOP(p *Chip) {}

// opAJMP jumps within the current 2KB page using the 11-bit address encoded
// across the opcode's high 3 bits and the single argument byte.
func opAJMP(p *Chip) {
	page := p.PC &^ 0x07FF
	p.PC = page | uint16(p.instructionRegister.opcode.code&0xE0)<<3 | uint16(p.instructionRegister.args[0])
}

func opLJMP(p *Chip) {
	p.PC = p.instructionRegister.addr16()
}

func opACALL(p *Chip) {
	p.pushU16(p.PC)
	page := p.PC &^ 0x07FF
	p.PC = page | uint16(p.instructionRegister.opcode.code&0xE0)<<3 | uint16(p.instructionRegister.args[0])
}

func opLCALL(p *Chip) {
	p.pushU16(p.PC)
	p.PC = p.instructionRegister.addr16()
}

func opRET(p *Chip) {
	p.PC = p.popU16()
}

// opRETI pops the return address and tells the NVIC the current ISR is
// done, which clears the running routine's isrActiveMask bit and re-enables
// lower-or-equal priority dispatch.
func opRETI(p *Chip) {
	p.PC = p.popU16()
	p.nvic.reti(p)
}

func opPUSHDirect(p *Chip) {
	p.pushU8(p.readDirect(p.instructionRegister.args[0]))
}

func opPOPDirect(p *Chip) {
	p.writeDirect(p.instructionRegister.args[0], p.popU8())
}

func opSJMP(p *Chip) {
	p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[0])))
}

func branchRel(p *Chip, take bool) {
	if take {
		p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[0])))
	}
}

func opJC(p *Chip)  { branchRel(p, p.getCarry() == 1) }
func opJNC(p *Chip) { branchRel(p, p.getCarry() == 0) }
func opJZ(p *Chip)  { branchRel(p, p.D[SFR_ACC] == 0) }
func opJNZ(p *Chip) { branchRel(p, p.D[SFR_ACC] != 0) }

func opJB(p *Chip) {
	byteIdx, mask := bitAddress(p.instructionRegister.args[0])
	take := p.D[byteIdx]&mask != 0
	if take {
		p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[1])))
	}
}

func opJNB(p *Chip) {
	byteIdx, mask := bitAddress(p.instructionRegister.args[0])
	take := p.D[byteIdx]&mask == 0
	if take {
		p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[1])))
	}
}

// opJBC jumps if the bit is set, and always clears the bit regardless of
// the branch outcome - per the mnemonic (Jump if Bit set, then Clear).
func opJBC(p *Chip) {
	byteIdx, mask := bitAddress(p.instructionRegister.args[0])
	take := p.D[byteIdx]&mask != 0
	p.D[byteIdx] &^= mask
	if take {
		p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[1])))
	}
}

func opDJNZRn(n uint8) func(p *Chip) {
	return func(p *Chip) {
		v := p.rnRef(n) - 1
		p.setRn(n, v)
		if v != 0 {
			p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[0])))
		}
	}
}

func opDJNZDirect(p *Chip) {
	addr := p.instructionRegister.args[0]
	v := p.readDirect(addr) - 1
	p.writeDirect(addr, v)
	if v != 0 {
		p.PC = uint16(int32(p.PC) + int32(int8(p.instructionRegister.args[1])))
	}
}

func cjne(p *Chip, a, b uint8, rel int8) {
	if a != b {
		p.PC = uint16(int32(p.PC) + int32(rel))
	}
	if a < b {
		p.setCarry()
	} else {
		p.clearCarry()
	}
}

func opCJNEAImmedOffset(p *Chip) {
	cjne(p, p.D[SFR_ACC], p.instructionRegister.args[0], int8(p.instructionRegister.args[1]))
}

func opCJNEADirectOffset(p *Chip) {
	cjne(p, p.D[SFR_ACC], p.readDirect(p.instructionRegister.args[0]), int8(p.instructionRegister.args[1]))
}

func opCJNERnImmedOffset(n uint8) func(p *Chip) {
	return func(p *Chip) {
		cjne(p, p.rnRef(n), p.instructionRegister.args[0], int8(p.instructionRegister.args[1]))
	}
}

func opCJNEAtR0ImmedOffset(p *Chip) {
	cjne(p, p.readIndirect(p.rnRef(0)), p.instructionRegister.args[0], int8(p.instructionRegister.args[1]))
}

func opCJNEAtR1ImmedOffset(p *Chip) {
	cjne(p, p.readIndirect(p.rnRef(1)), p.instructionRegister.args[0], int8(p.instructionRegister.args[1]))
}
