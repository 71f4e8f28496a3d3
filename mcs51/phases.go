package mcs51

// phaseHandlers holds the twelve oscillator-period handlers S1P1..S6P2, in
// order, selected by StepOscillatorPeriod via oscPeriods%12. ALE pulses
// twice per machine cycle (set at S1P2/cleared at S2P2, set again at
// S4P2/cleared at S5P2), matching the 8051's two-pulse-per-cycle ALE
// behavior; the remaining phases (S1P1, S2P1, S3P1/P2, S4P1, S5P1, S6P1)
// carry no bus activity this core models and are idle.
var phaseHandlers = [12]func(p *Chip) error{
	phaseIdle,
	phaseS1P2,
	phaseIdle,
	phaseS2P2,
	phaseIdle, phaseIdle,
	phaseIdle,
	phaseS4P2,
	phaseIdle,
	phaseS5P2,
	phaseIdle,
	phaseS6P2,
}

func phaseIdle(p *Chip) error { return nil }

func (p *Chip) aleOn() {
	p.ale = p.D[SFR_AUXR]&AUXR_A0 == 0
}

// phaseS1P2 starts the first ALE pulse of the cycle and, if the previous
// instruction has fully retired, runs the NVIC dispatch gate and fetches
// the next instruction (real or synthetic).
func phaseS1P2(p *Chip) error {
	p.aleOn()
	if p.instructionRegister.cyclesRemaining == 0 {
		return p.fetchNextInstruction()
	}
	return nil
}

// phaseS2P2 ends the first ALE pulse.
func phaseS2P2(p *Chip) error {
	p.ale = false
	return nil
}

// phaseS4P2 starts the second ALE pulse of the cycle and, on the
// instruction's final machine cycle, runs its handler exactly once and
// decrements the cycles-remaining counter.
func phaseS4P2(p *Chip) error {
	p.aleOn()
	p.instructionRegister.cyclesRemaining--
	if p.instructionRegister.cyclesRemaining == 0 && !p.instructionRegister.bodyExecuted {
		p.instructionRegister.opcode.handler(p)
		p.instructionRegister.bodyExecuted = true
	}
	return nil
}

// phaseS5P2 ends the second ALE pulse and latches the NVIC's interrupt
// flags from TCON/SCON.
func phaseS5P2(p *Chip) error {
	p.ale = false
	p.nvic.latchInterruptFlags(p)
	return nil
}

// phaseS6P2 ticks the timers - the last action of the machine cycle, so a
// timer overflow this cycle is visible to the NVIC's flag latch only on
// the next cycle's S5P2, never this one.
func phaseS6P2(p *Chip) error {
	return p.timerTick()
}

// fetchNextInstruction is called once per retired instruction, from
// phaseS1P2. It first gives the NVIC a chance to divert the fetch into a
// synthetic ISR call; failing that, it fetches a real opcode and its
// operand bytes from CODE at PC.
func (p *Chip) fetchNextInstruction() error {
	ir := &p.instructionRegister

	if synthetic, ok := p.nvic.dispatch(p); ok {
		ir.opcode = synthetic
		ir.args = [3]uint8{}
		ir.cyclesRemaining = synthetic.cycles
		ir.bodyExecuted = false
		ir.accessedSFRIE = false
		ir.accessedSFRIP = false
		return nil
	}

	code := p.C[p.PC]
	p.PC++
	op := p.opcodeTable[code]
	if op.handler == nil {
		if p.AbortOnUnimplementedOpcode {
			return UnimplementedOpcode{Opcode: code}
		}
		op = opcode{code: code, length: 1, cycles: 1, mnemonic: "???", handler: opNOP}
	}

	ir.opcode = op
	ir.args = [3]uint8{}
	for i := 0; i < op.length-1; i++ {
		ir.args[i] = p.pcReadU8()
	}
	ir.cyclesRemaining = op.cycles
	ir.bodyExecuted = false
	ir.accessedSFRIE = false
	ir.accessedSFRIP = false
	return nil
}
