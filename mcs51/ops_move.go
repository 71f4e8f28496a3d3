package mcs51

// MOV/MOVX/MOVC family. Direct-addressed operands go through
// readDirect/writeDirect so SFR hooks fire exactly once, matching real
// silicon's single bus cycle per operand.

func opCLRA(p *Chip) { p.D[SFR_ACC] = 0 }

func opMOVADirect(p *Chip) {
	p.D[SFR_ACC] = p.readDirect(p.instructionRegister.args[0])
}

// opMOVAAtR implements "MOV A,@R0" (n=0) and "MOV A,@R1" (n=1). The two
// handlers read through the OTHER register's indirect address - a register
// swap bug present in the instruction set being reproduced here, preserved
// verbatim rather than corrected.
func opMOVAAtR(n uint8) func(p *Chip) {
	other := n ^ 1
	return func(p *Chip) {
		p.D[SFR_ACC] = p.readIndirect(p.rnRef(other))
	}
}

func opMOVARn(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.D[SFR_ACC] = p.rnRef(n)
	}
}

func opMOVAImmed(p *Chip) {
	p.D[SFR_ACC] = p.instructionRegister.args[0]
}

func opMOVDirectA(p *Chip) {
	p.writeDirect(p.instructionRegister.args[0], p.D[SFR_ACC])
}

func opMOVAtRImmed(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.writeIndirect(p.rnRef(n), p.instructionRegister.args[0])
	}
}

// opMOVDirectAtR implements "MOV direct,@R0/@R1": the destination direct
// address is args[0], the source is the indirect address in Rn.
func opMOVDirectAtR(n uint8) func(p *Chip) {
	return func(p *Chip) {
		v := p.readIndirect(p.rnRef(n))
		p.writeDirect(p.instructionRegister.args[0], v)
	}
}

func opMOVDirectRn(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.writeDirect(p.instructionRegister.args[0], p.rnRef(n))
	}
}

// opMOVDirectDirect implements "MOV dest,src" encoded source-address-first,
// matching the real MCS-51 instruction encoding for opcode 0x85.
func opMOVDirectDirect(p *Chip) {
	src := p.readDirect(p.instructionRegister.args[0])
	p.writeDirect(p.instructionRegister.args[1], src)
}

func opMOVDirectImmed(p *Chip) {
	p.writeDirect(p.instructionRegister.args[0], p.instructionRegister.args[1])
}

func opMOVAtRA(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.writeIndirect(p.rnRef(n), p.D[SFR_ACC])
	}
}

func opMOVRnA(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.setRn(n, p.D[SFR_ACC])
	}
}

func opMOVRnImmed(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.setRn(n, p.instructionRegister.args[0])
	}
}

func opMOVDPTRImmed(p *Chip) {
	p.D[SFR_DPH] = p.instructionRegister.args[0]
	p.D[SFR_DPL] = p.instructionRegister.args[1]
}

func opMOVRnDirect(n uint8) func(p *Chip) {
	return func(p *Chip) {
		p.setRn(n, p.readDirect(p.instructionRegister.args[0]))
	}
}

func dptr(p *Chip) uint16 {
	return uint16(p.D[SFR_DPH])<<8 | uint16(p.D[SFR_DPL])
}

func opMOVXAAtDPTR(p *Chip) {
	p.D[SFR_ACC] = p.X[dptr(p)]
}

func opMOVXAtDPTRA(p *Chip) {
	p.X[dptr(p)] = p.D[SFR_ACC]
}

// opMOVCAAtAPlusDPTR implements "MOVC A,@A+DPTR": read a CODE byte using A
// as an unsigned offset from DPTR, leaving DPTR itself unchanged.
func opMOVCAAtAPlusDPTR(p *Chip) {
	addr := dptr(p) + uint16(p.D[SFR_ACC])
	p.D[SFR_ACC] = p.C[addr]
}
