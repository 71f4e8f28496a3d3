package mcs51

// SFR addresses in the direct address space [0x80..0xFF]. Named to match
// the canonical 8051 register set; unlisted addresses in that range are
// still valid SFR slots (display name "" in sfrTable) but carry no
// architectural meaning used by this core.
const (
	SFR_P0    = uint8(0x80)
	SFR_SP    = uint8(0x81)
	SFR_DPL   = uint8(0x82)
	SFR_DPH   = uint8(0x83)
	SFR_PCON  = uint8(0x87)
	SFR_TCON  = uint8(0x88)
	SFR_TMOD  = uint8(0x89)
	SFR_TL0   = uint8(0x8A)
	SFR_TL1   = uint8(0x8B)
	SFR_TH0   = uint8(0x8C)
	SFR_TH1   = uint8(0x8D)
	SFR_AUXR  = uint8(0x8E)
	SFR_P1    = uint8(0x90)
	SFR_SCON  = uint8(0x98)
	SFR_SBUF  = uint8(0x99)
	SFR_SADEN = uint8(0x9B)
	SFR_P2    = uint8(0xA0)
	SFR_AUXR1 = uint8(0xA2)
	SFR_SADDR = uint8(0xA9)
	SFR_IE    = uint8(0xA8)
	SFR_P3    = uint8(0xB0)
	SFR_IP    = uint8(0xB8)
	SFR_BDRCON = uint8(0xBF)
	SFR_BRL   = uint8(0xBE)
	SFR_PSW   = uint8(0xD0)
	SFR_ACC   = uint8(0xE0)
	SFR_B     = uint8(0xF0)
)

// PSW bit masks.
const (
	PSW_C  = uint8(1 << 7)
	PSW_AC = uint8(1 << 6)
	PSW_F0 = uint8(1 << 5)
	PSW_RS1 = uint8(1 << 4)
	PSW_RS0 = uint8(1 << 3)
	PSW_OV = uint8(1 << 2)
	PSW_P  = uint8(1 << 0)
)

// TCON bit masks.
const (
	TCON_IT0 = uint8(1 << 0)
	TCON_IE0 = uint8(1 << 1)
	TCON_IT1 = uint8(1 << 2)
	TCON_IE1 = uint8(1 << 3)
	TCON_TR0 = uint8(1 << 4)
	TCON_TF0 = uint8(1 << 5)
	TCON_TR1 = uint8(1 << 6)
	TCON_TF1 = uint8(1 << 7)
)

// TMOD bit masks (Timer 1 uses the Timer 0 layout shifted by 4).
const (
	TMOD_T0M0 = uint8(1 << 0)
	TMOD_T0M1 = uint8(1 << 1)
	TMOD_T0CT = uint8(1 << 2)
	TMOD_T0GATE = uint8(1 << 3)
	TMOD_T1M0 = uint8(1 << 4)
	TMOD_T1M1 = uint8(1 << 5)
	TMOD_T1CT = uint8(1 << 6)
	TMOD_T1GATE = uint8(1 << 7)
)

// IE bit masks.
const (
	IE_EX0 = uint8(1 << 0)
	IE_ET0 = uint8(1 << 1)
	IE_EX1 = uint8(1 << 2)
	IE_ET1 = uint8(1 << 3)
	IE_ES  = uint8(1 << 4)
	IE_EA  = uint8(1 << 7)
)

// SCON bit masks.
const (
	SCON_RI  = uint8(1 << 0)
	SCON_TI  = uint8(1 << 1)
	SCON_RB8 = uint8(1 << 2)
	SCON_TB8 = uint8(1 << 3)
	SCON_REN = uint8(1 << 4)
	SCON_SM2 = uint8(1 << 5)
	SCON_SM1 = uint8(1 << 6)
	SCON_SM0 = uint8(1 << 7)
)

// AUXR bit masks.
const (
	AUXR_A0 = uint8(1 << 0) // ALE disable.
)

// sfr describes one of the 256 directly-addressable memory slots. Address
// and bit-addressability are fixed data; on_read/on_write are invoked from
// readDirect/writeDirect whenever an instruction performs direct access at
// that address (never from indirect access - the SFR window is unreachable
// from @Ri per spec).
type sfr struct {
	address        uint8
	name           string
	bitAddressable bool
	onRead         func(p *Chip)
	onWrite        func(p *Chip)
}

func noopHook(*Chip) {}

func onWriteSBUF(p *Chip) {
	p.sfrDirtySBUF = true
}

func onAccessIE(p *Chip) {
	p.instructionRegister.accessedSFRIE = true
}

func onAccessIP(p *Chip) {
	p.instructionRegister.accessedSFRIP = true
}

// sfrNames assigns display names to the subset of the direct address space
// with architectural meaning. Every other slot in [0x80..0xFF] is still a
// valid, addressable SFR byte; it simply carries no name.
var sfrNames = map[uint8]string{
	SFR_P0: "P0", SFR_SP: "SP", SFR_DPL: "DPL", SFR_DPH: "DPH",
	SFR_PCON: "PCON", SFR_TCON: "TCON", SFR_TMOD: "TMOD",
	SFR_TL0: "TL0", SFR_TL1: "TL1", SFR_TH0: "TH0", SFR_TH1: "TH1",
	SFR_AUXR: "AUXR", SFR_P1: "P1", SFR_SCON: "SCON", SFR_SBUF: "SBUF",
	SFR_SADEN: "SADEN", SFR_P2: "P2", SFR_AUXR1: "AUXR1", SFR_SADDR: "SADDR",
	SFR_IE: "IE", SFR_P3: "P3", SFR_IP: "IP", SFR_BDRCON: "BDRCON",
	SFR_BRL: "BRL", SFR_PSW: "PSW", SFR_ACC: "ACC", SFR_B: "B",
}

// isBitAddressableSFR reports whether an SFR address is bit-addressable per
// the 8051 architecture (every SFR whose address is a multiple of 8).
func isBitAddressableSFR(addr uint8) bool {
	return addr&0x07 == 0
}

// newSFRTable builds the 256-entry SFR metadata table with default no-op
// hooks, then installs the three hooks the core cares about: a write-dirty
// latch on SBUF, and read+write side-channel flags on IE/IP.
func newSFRTable() [0x100]sfr {
	var t [0x100]sfr
	for i := range t {
		addr := uint8(i)
		t[i] = sfr{
			address:        addr,
			name:           sfrNames[addr],
			bitAddressable: isBitAddressableSFR(addr),
			onRead:         noopHook,
			onWrite:        noopHook,
		}
	}
	t[SFR_SBUF].onWrite = onWriteSBUF
	t[SFR_IE].onRead = onAccessIE
	t[SFR_IE].onWrite = onAccessIE
	t[SFR_IP].onRead = onAccessIP
	t[SFR_IP].onWrite = onAccessIP
	return t
}
