package mcs51

// registerBank returns the active register bank index (0-3) selected by
// PSW bits 4:3. Rn accesses must always be resolved through this (never
// cached across instructions) since a PSW write can change the active
// bank mid-program.
func (p *Chip) registerBank() uint8 {
	return (p.D[SFR_PSW] >> 3) & 0b11
}

// rnIndex returns the D[] index backing register Rn (0<=n<=7) in the
// currently active bank.
func (p *Chip) rnIndex(n uint8) uint16 {
	return uint16(p.registerBank())*8 + uint16(n)
}

// rnRef returns the current value of Rn.
func (p *Chip) rnRef(n uint8) uint8 {
	return p.D[p.rnIndex(n)]
}

// setRn stores v into Rn.
func (p *Chip) setRn(n uint8, v uint8) {
	p.D[p.rnIndex(n)] = v
}

// readDirect reads D[addr], firing the SFR read hook if addr falls in the
// SFR window [0x80,0x100).
func (p *Chip) readDirect(addr uint8) uint8 {
	v := p.D[addr]
	if addr >= 0x80 {
		p.sfrTable[addr].onRead(p)
	}
	return v
}

// writeDirect writes v to D[addr], firing the SFR write hook after the
// store completes if addr falls in the SFR window.
func (p *Chip) writeDirect(addr uint8, v uint8) {
	p.D[addr] = v
	if addr >= 0x80 {
		p.sfrTable[addr].onWrite(p)
	}
}

// toIndirectAddress translates an 8-bit @Ri address into its physical index
// into D[]. Bit 7 clear maps into lower DATA [0x00,0x80); bit 7 set maps
// into upper IDATA [0x100,0x180). The SFR region is never reachable this
// way, by construction (bit 7 always routes past it).
func toIndirectAddress(addr uint8) uint16 {
	if addr&0x80 != 0 {
		return 0x100 | uint16(addr&0x7F)
	}
	return uint16(addr)
}

// readIndirect reads D[] through the indirect-address mapping. No SFR hook
// ever fires, since the SFR window is unreachable by indirect addressing.
func (p *Chip) readIndirect(addr uint8) uint8 {
	return p.D[toIndirectAddress(addr)]
}

// writeIndirect writes v through the indirect-address mapping.
func (p *Chip) writeIndirect(addr uint8, v uint8) {
	p.D[toIndirectAddress(addr)] = v
}

// pcReadU8 fetches the byte at PC and post-increments PC.
func (p *Chip) pcReadU8() uint8 {
	v := p.C[p.PC]
	p.PC++
	return v
}

// pcReadS8 fetches a signed byte at PC and post-increments PC. Used for
// PC-relative branch displacements.
func (p *Chip) pcReadS8() int8 {
	return int8(p.pcReadU8())
}

// pcReadU16 fetches a big-endian 16-bit value at PC, post-incrementing PC
// by 2 (high byte first, matching LJMP/LCALL addr16 operand order).
func (p *Chip) pcReadU16() uint16 {
	hi := uint16(p.pcReadU8())
	lo := uint16(p.pcReadU8())
	return hi<<8 | lo
}

// pushU8 pre-increments SP and stores v at D[SP].
func (p *Chip) pushU8(v uint8) {
	p.D[SFR_SP]++
	p.D[p.D[SFR_SP]] = v
}

// popU8 loads D[SP] and post-decrements SP.
func (p *Chip) popU8() uint8 {
	v := p.D[p.D[SFR_SP]]
	p.D[SFR_SP]--
	return v
}

// pushU16 pushes the low byte of v, then the high byte. This is the
// asymmetric convention the original implementation uses - see popU16 -
// and is preserved exactly since RETI/LCALL/ACALL depend on the pair being
// self-consistent and any hand-written CODE pushing a return address via
// PUSH direct + RET depends on the precise byte order.
func (p *Chip) pushU16(v uint16) {
	p.pushU8(uint8(v))
	p.pushU8(uint8(v >> 8))
}

// popU16 pops the high byte, then the low byte - the reverse order from
// pushU16's low-then-high, preserved verbatim from the source.
func (p *Chip) popU16() uint16 {
	hi := uint16(p.popU8())
	lo := uint16(p.popU8())
	return hi<<8 | lo
}

// getCarry returns PSW.C as 0 or 1.
func (p *Chip) getCarry() uint8 {
	return (p.D[SFR_PSW] >> 7) & 1
}

// setCarry sets PSW.C.
func (p *Chip) setCarry() {
	p.D[SFR_PSW] |= PSW_C
}

// clearCarry clears PSW.C.
func (p *Chip) clearCarry() {
	p.D[SFR_PSW] &^= PSW_C
}

// bitAddress decodes a bit address b in [0x00,0xFF] into the byte index
// and bit mask within D[] it refers to, per spec.md §3: b<0x80 maps into
// the bit-addressable DATA region starting at 0x20; b>=0x80 maps directly
// onto the SFR byte containing that bit.
func bitAddress(b uint8) (byteIdx uint8, mask uint8) {
	mask = 1 << (b % 8)
	if b < 0x80 {
		byteIdx = 0x20 + b/8
		return byteIdx, mask
	}
	return b &^ 0x07, mask
}
