package mcs51

// timerTick advances Timer 0 (modes 0 and 1) and Timer 1 (mode 2 only) by
// one machine cycle each, matching the MCS-51's 1 count per 12 oscillator
// periods in timer mode. Counter mode (TMOD.C/T set) and the external gate
// pin are not modeled - there is no host-visible pin in this core - so
// gating only depends on TCON.TRx.
func (p *Chip) timerTick() error {
	if p.D[SFR_TCON]&TCON_TR0 != 0 {
		if err := p.tickTimer0(); err != nil {
			return err
		}
	}
	if p.D[SFR_TCON]&TCON_TR1 != 0 {
		if err := p.tickTimer1(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Chip) tickTimer0() error {
	mode := p.D[SFR_TMOD] & (TMOD_T0M0 | TMOD_T0M1)
	switch mode {
	case 0: // 13-bit: TL0 holds the low 5 bits, TH0 the high 8.
		p.D[SFR_TL0]++
		if p.D[SFR_TL0] > 0b11111 {
			p.D[SFR_TL0] = 0
			p.D[SFR_TH0]++
			if p.D[SFR_TH0] == 0 {
				p.D[SFR_TCON] |= TCON_TF0
			}
		}
	case TMOD_T0M0: // mode 1: full 16-bit TL0:TH0.
		p.D[SFR_TL0]++
		if p.D[SFR_TL0] == 0 {
			p.D[SFR_TH0]++
			if p.D[SFR_TH0] == 0 {
				p.D[SFR_TCON] |= TCON_TF0
			}
		}
	default:
		return InvalidState{Reason: "timer 0 mode 2/3 not implemented"}
	}
	return nil
}

// tickTimer1 implements mode 2 (8-bit auto-reload) only - the mode UART
// baud-rate generation actually uses. On overflow it reloads TL1 from TH1,
// sets TF1, and - if serial mode 1 is selected and a byte has been written
// to SBUF since the last transmission - completes the UART frame: invokes
// OnSerialTX with the pending byte, sets SCON.TI, and clears the dirty
// latch. Any other Timer 1 mode returns InvalidState. Serial modes other
// than mode 1 never transmit and raise no error.
func (p *Chip) tickTimer1() error {
	mode := p.D[SFR_TMOD] & (TMOD_T1M0 | TMOD_T1M1)
	if mode != TMOD_T1M1 {
		return InvalidState{Reason: "timer 1 mode 0/1/3 not implemented"}
	}
	p.D[SFR_TL1]++
	if p.D[SFR_TL1] != 0 {
		return nil
	}
	p.D[SFR_TL1] = p.D[SFR_TH1]
	p.D[SFR_TCON] |= TCON_TF1

	serialMode1 := p.D[SFR_SCON]&SCON_SM0 == 0 && p.D[SFR_SCON]&SCON_SM1 != 0
	if serialMode1 && p.sfrDirtySBUF {
		p.OnSerialTX(p.D[SFR_SBUF])
		p.D[SFR_SCON] |= SCON_TI
		p.sfrDirtySBUF = false
	}
	return nil
}
