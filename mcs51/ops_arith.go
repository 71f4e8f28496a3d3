package mcs51

// addCommon adds val (plus carryIn, for ADDC-style callers - always 0 here
// since only plain ADD is in the opcode set) into ACC, updating C, AC, and
// OV per the standard 8051 add flag rules.
func addCommon(p *Chip, val uint8) {
	a := p.D[SFR_ACC]
	sum := uint16(a) + uint16(val)
	result := uint8(sum)

	if sum > 0xFF {
		p.setCarry()
	} else {
		p.clearCarry()
	}
	if (a&0x0F)+(val&0x0F) > 0x0F {
		p.D[SFR_PSW] |= PSW_AC
	} else {
		p.D[SFR_PSW] &^= PSW_AC
	}
	// Overflow: the two operands share a sign and the result's sign differs.
	if (a^val)&0x80 == 0 && (a^result)&0x80 != 0 {
		p.D[SFR_PSW] |= PSW_OV
	} else {
		p.D[SFR_PSW] &^= PSW_OV
	}
	p.D[SFR_ACC] = result
}

func opADDAImmed(p *Chip) { addCommon(p, p.instructionRegister.args[0]) }
func opADDADirect(p *Chip) {
	addCommon(p, p.readDirect(p.instructionRegister.args[0]))
}
func opADDARn(n uint8) func(p *Chip) {
	return func(p *Chip) { addCommon(p, p.rnRef(n)) }
}

// subbCommon implements SUBB A,Rn (A := A - val - C, with C/AC set on
// borrow). Only Rn in {6,7} appear in the opcode table (see opcodes.go) -
// the original instruction set this reproduces never wired the rest of the
// Rn family for SUBB. The borrow tests compare A against val plus the
// incoming carry, so A==val with carryIn==1 borrows.
func subbCommon(p *Chip, val uint8) {
	a := p.D[SFR_ACC]
	c := p.getCarry()
	result := a - val - c

	if uint16(a) < uint16(val)+uint16(c) {
		p.setCarry()
	} else {
		p.clearCarry()
	}
	if a&0x0F < val&0x0F+c {
		p.D[SFR_PSW] |= PSW_AC
	} else {
		p.D[SFR_PSW] &^= PSW_AC
	}
	if (a^val)&0x80 != 0 && (a^result)&0x80 != 0 {
		p.D[SFR_PSW] |= PSW_OV
	} else {
		p.D[SFR_PSW] &^= PSW_OV
	}
	p.D[SFR_ACC] = result
}

func opSUBBARn(n uint8) func(p *Chip) {
	return func(p *Chip) { subbCommon(p, p.rnRef(n)) }
}

// opMULAB multiplies A by B, leaving the low byte in A and the high byte in
// B, setting OV when the product exceeds 0xFF and always clearing C.
func opMULAB(p *Chip) {
	product := uint16(p.D[SFR_ACC]) * uint16(p.D[SFR_B])
	p.D[SFR_ACC] = uint8(product)
	p.D[SFR_B] = uint8(product >> 8)
	p.clearCarry()
	if product > 0xFF {
		p.D[SFR_PSW] |= PSW_OV
	} else {
		p.D[SFR_PSW] &^= PSW_OV
	}
}

func opINCA(p *Chip) { p.D[SFR_ACC]++ }
func opDECA(p *Chip) { p.D[SFR_ACC]-- }

func opINCDirect(p *Chip) {
	addr := p.instructionRegister.args[0]
	p.writeDirect(addr, p.readDirect(addr)+1)
}

func opDECDirect(p *Chip) {
	addr := p.instructionRegister.args[0]
	p.writeDirect(addr, p.readDirect(addr)-1)
}

func opINCAtR(n uint8) func(p *Chip) {
	return func(p *Chip) {
		addr := p.rnRef(n)
		p.writeIndirect(addr, p.readIndirect(addr)+1)
	}
}

func opINCRn(n uint8) func(p *Chip) {
	return func(p *Chip) { p.setRn(n, p.rnRef(n)+1) }
}

func opDECRn(n uint8) func(p *Chip) {
	return func(p *Chip) { p.setRn(n, p.rnRef(n)-1) }
}

func opINCDPTR(p *Chip) {
	v := dptr(p) + 1
	p.D[SFR_DPH] = uint8(v >> 8)
	p.D[SFR_DPL] = uint8(v)
}
