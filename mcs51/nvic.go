package mcs51

// IP bit masks - interrupt priority select, one bit per source.
const (
	IP_PX0 = uint8(1 << 0)
	IP_PT0 = uint8(1 << 1)
	IP_PX1 = uint8(1 << 2)
	IP_PT1 = uint8(1 << 3)
	IP_PS  = uint8(1 << 4)
)

// nvicSource describes one of the five interrupt sources: the bit it
// occupies in isrPending/isrActiveMask (chip.go's intXXX constants), the
// IE bit that must be set to enable it, the IP bit selecting its priority
// level, its service-routine vector address in CODE, and - for the four
// sources the hardware clears automatically on dispatch - the flag SFR
// address and bit mask to clear. The serial source leaves clearsFlag
// false: RI/TI are software-cleared, never by the NVIC itself.
type nvicSource struct {
	bit        uint8
	ieMask     uint8
	ipBit      uint8
	vector     uint16
	clearsFlag bool
	flagSFR    uint8
	flagMask   uint8
}

// nvicSources is declared LSB-to-MSB of its bit field, which doubles as
// priority order within a priority level (lower bit wins ties).
var nvicSources = [5]nvicSource{
	{bit: intINT0, ieMask: IE_EX0, ipBit: IP_PX0, vector: 0x0003, clearsFlag: true, flagSFR: SFR_TCON, flagMask: TCON_IE0},
	{bit: intT0, ieMask: IE_ET0, ipBit: IP_PT0, vector: 0x000B, clearsFlag: true, flagSFR: SFR_TCON, flagMask: TCON_TF0},
	{bit: intINT1, ieMask: IE_EX1, ipBit: IP_PX1, vector: 0x0013, clearsFlag: true, flagSFR: SFR_TCON, flagMask: TCON_IE1},
	{bit: intT1, ieMask: IE_ET1, ipBit: IP_PT1, vector: 0x001B, clearsFlag: true, flagSFR: SFR_TCON, flagMask: TCON_TF1},
	{bit: intSer, ieMask: IE_ES, ipBit: IP_PS, vector: 0x0023},
}

// nvic is the nested vector interrupt controller: a priority scanner that
// decides, once per retired instruction, whether to divert the fetch into
// a synthetic call to an interrupt service routine.
type nvic struct {
	isrPending     uint8 // live snapshot of which sources are currently asserted
	isrActiveMask  uint8 // sources with a service routine in progress (nested)
	dispatchVector uint16
}

func (n *nvic) reset() {
	n.isrPending = 0
	n.isrActiveMask = 0
	n.dispatchVector = 0
}

// latchInterruptFlags recomputes isrPending from the live TCON/SCON flag
// bits. This runs every machine cycle (see phases.go's S5P2), so a flag
// cleared by software before dispatch disappears from isrPending on the
// next latch rather than staying stuck.
func (n *nvic) latchInterruptFlags(p *Chip) {
	var pending uint8
	if p.D[SFR_TCON]&TCON_IE0 != 0 {
		pending |= intINT0
	}
	if p.D[SFR_TCON]&TCON_TF0 != 0 {
		pending |= intT0
	}
	if p.D[SFR_TCON]&TCON_IE1 != 0 {
		pending |= intINT1
	}
	if p.D[SFR_TCON]&TCON_TF1 != 0 {
		pending |= intT1
	}
	if p.D[SFR_SCON]&(SCON_RI|SCON_TI) != 0 {
		pending |= intSer
	}
	n.isrPending = pending
}

// scanLSB returns the first (LSB-to-MSB) source bit set in mask, or 0 if
// mask is empty.
func scanLSB(mask uint8) uint8 {
	for _, s := range nvicSources {
		if mask&s.bit != 0 {
			return s.bit
		}
	}
	return 0
}

// priorityScan runs the two-level scan: high-priority bits (per ip) within
// mask first, LSB-to-MSB, falling back to a plain LSB-to-MSB scan of the
// whole mask if no high-priority bit is set.
func priorityScan(ip, mask uint8) uint8 {
	if hi := scanLSB(ip & mask); hi != 0 {
		return hi
	}
	return scanLSB(mask)
}

// selectCandidate scans isrActiveMask unioned with currently
// pending-and-enabled sources, by priority. Including the active mask in
// the scan lets a strictly higher-priority pending source win over (and
// thus preempt) whatever is already running; if the winning bit is
// already active, nothing is dispatched, since it is already in service.
// Grounded directly on nvic.c's nvic_select_next_interrupt/
// nvic_priority_scan.
func (n *nvic) selectCandidate(p *Chip) (nvicSource, bool) {
	ie := p.D[SFR_IE]
	var pendingEnabled uint8
	for _, s := range nvicSources {
		if n.isrPending&s.bit != 0 && ie&s.ieMask != 0 {
			pendingEnabled |= s.bit
		}
	}
	candidates := n.isrActiveMask | pendingEnabled
	if candidates == 0 {
		return nvicSource{}, false
	}
	selected := priorityScan(p.D[SFR_IP], candidates)
	if selected == 0 || n.isrActiveMask&selected != 0 {
		return nvicSource{}, false
	}
	for _, s := range nvicSources {
		if s.bit == selected {
			return s, true
		}
	}
	return nvicSource{}, false
}

// dispatch evaluates the four-condition gate (IE.EA set; the previous
// instruction was not RETI; the previous instruction did not access IE or
// IP directly; an eligible pending source exists) and, if all hold,
// installs a synthetic two-cycle LJMP to the selected source's vector -
// pushing the current PC first, exactly as a real call would. Returns the
// synthetic opcode and true if a dispatch is happening this fetch.
func (n *nvic) dispatch(p *Chip) (opcode, bool) {
	if p.D[SFR_IE]&IE_EA == 0 {
		return opcode{}, false
	}
	ir := &p.instructionRegister
	if ir.opcode.code == 0x32 { // RETI just retired: one fetch of latency before re-dispatch.
		return opcode{}, false
	}
	if ir.accessedSFRIE || ir.accessedSFRIP {
		return opcode{}, false
	}
	s, ok := n.selectCandidate(p)
	if !ok {
		return opcode{}, false
	}
	if s.clearsFlag {
		p.D[s.flagSFR] &^= s.flagMask
	}
	p.pushU16(p.PC)
	n.isrActiveMask |= s.bit
	n.dispatchVector = s.vector
	vector := s.vector
	return opcode{
		code:     0x02,
		length:   3,
		cycles:   2,
		mnemonic: "LJMP",
		handler:  func(pp *Chip) { pp.PC = vector },
	}, true
}

// reti clears the isrActiveMask bit of the service routine currently
// running. The currently running routine is always whichever active bit
// priorityScan would select from isrActiveMask alone - selectCandidate
// only ever dispatches a source that outranks the entire active set, so
// the most recently dispatched source remains the top of that scan until
// it RETIs. No explicit call stack is needed to find it.
func (n *nvic) reti(p *Chip) {
	running := priorityScan(p.D[SFR_IP], n.isrActiveMask)
	n.isrActiveMask &^= running
}
