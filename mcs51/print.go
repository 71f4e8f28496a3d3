package mcs51

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// phaseNames mirrors phaseHandlers' ordering for diagnostics.
var phaseNames = [12]string{
	"S1P1", "S1P2", "S2P1", "S2P2", "S3P1", "S3P2",
	"S4P1", "S4P2", "S5P1", "S5P2", "S6P1", "S6P2",
}

// PhaseName returns the name of the oscillator phase about to run.
func (p *Chip) PhaseName() string {
	return phaseNames[p.oscPeriods%12]
}

// CurrentInstruction returns a one-line human-readable description of the
// instruction latched in the instruction register, for logging.
func (p *Chip) CurrentInstruction() string {
	ir := p.instructionRegister
	return fmt.Sprintf("%s (0x%02X) args=%v cycles_left=%d body_done=%t",
		ir.opcode.mnemonic, ir.opcode.code, ir.args[:ir.opcode.length-1], ir.cyclesRemaining, ir.bodyExecuted)
}

// DumpState renders the full processor state with go-spew, for test
// failure output and CLI diagnostics. SFR/opcode tables are excluded since
// they're static and would drown the interesting fields in noise.
func (p *Chip) DumpState() string {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true}
	return cfg.Sdump(struct {
		PC                  uint16
		D                   [0x200]uint8
		OscPeriods          uint64
		ALE                 bool
		InstructionRegister instructionRegister
		ISRPending          uint8
		ISRActive           uint8
	}{
		PC:                  p.PC,
		D:                   p.D,
		OscPeriods:          p.oscPeriods,
		ALE:                 p.ale,
		InstructionRegister: p.instructionRegister,
		ISRPending:          p.nvic.isrPending,
		ISRActive:           p.nvic.isrActiveMask,
	})
}
