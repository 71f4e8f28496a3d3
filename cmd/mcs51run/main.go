// mcs51run loads a raw CODE image and drives an mcs51.Chip until a NOP
// (0x00) opcode is fetched - the halt idiom original_source's own example
// harness uses - then reports the elapsed oscillator periods and
// simulated execution time.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/JVMerkle/mcs51emu/disassembler"
	"github.com/JVMerkle/mcs51emu/mcs51"
	"github.com/JVMerkle/mcs51emu/serial"
)

var (
	offset      = flag.Int("offset", 0x0000, "Offset into CODE to load the image at.")
	maxCycles   = flag.Int("max_cycles", 10_000_000, "Safety bound on machine cycles before giving up on halt detection.")
	trace       = flag.Bool("trace", false, "If true, disassemble and print every retired instruction.")
	abortOnUnimp = flag.Bool("abort_on_unimplemented", true, "If true, stop on an unimplemented opcode instead of treating it as a no-op.")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [-offset <n>] [-max_cycles <n>] [-trace] <code.bin>", os.Args[0])
	}

	b, err := ioutil.ReadFile(flag.Args()[0])
	if err != nil {
		log.Fatalf("Can't open %q - %v", flag.Args()[0], err)
	}

	p := &mcs51.Chip{}
	p.Init()
	p.AbortOnUnimplementedOpcode = *abortOnUnimp
	copy(p.C[*offset:], b)
	p.PC = uint16(*offset)

	sink := serial.NewWriter(os.Stdout)
	p.OnSerialTX = sink.TX

	cycles := 0
	for ; cycles < *maxCycles; cycles++ {
		if *trace && p.InstructionCyclesRemaining() == 0 {
			text, _ := disassembler.Step(p.PC, p.C[:])
			fmt.Printf("%04X: %s\n", p.PC, text)
		}
		if err := p.StepMachineCycle(); err != nil {
			sink.Flush()
			log.Fatalf("halted at PC=0x%04X after %d cycles: %v\n%s", p.PC, cycles, err, p.DumpState())
		}
		if p.CurrentOpcode() == 0x00 {
			break
		}
	}
	sink.Flush()

	fmt.Printf("halted at PC=0x%04X, oscillator periods=%d, execution time=%.3fms\n",
		p.PC, p.OscPeriods(), p.ExecutionTimeMS())
}
