package fv1

import (
	"maps"
	"slices"
)

const (
	// DelaySize is the number of samples of delay memory.
	DelaySize = 32768
	// MaxInstructions is the program length of the FV-1.
	MaxInstructions = 128
	// MaxSkip is the largest SKP offset.
	MaxSkip = 63
)

type argKind int

const (
	argRegister argKind = iota
	argAddress
	argS1_14
	argS1_9
	argS_10
	argS4_6
	argS_15
	argMask
	argCondition
	argSkip
	argSinLFO
	argRampLFO
	argSinFreq
	argSinAmp
	argRampFreq
	argRampAmp
	argChoLFO
	argChoFlags
	argRaw
)

// real field limits as (minimum, maximum, bit width)
var realFields = map[argKind]struct {
	name     string
	min, max float64
	bits     uint
}{
	argS1_14: {"S1.14", -2.0, 2.0 - 1.0/(1<<14), 16},
	argS1_9:  {"S1.9", -2.0, 2.0 - 1.0/(1<<9), 11},
	argS_10:  {"S.10", -1.0, 1.0 - 1.0/(1<<10), 11},
	argS4_6:  {"S4.6", -16.0, 16.0 - 1.0/(1<<6), 11},
	argS_15:  {"S.15", -1.0, 1.0 - 1.0/(1<<15), 16},
}

var opcodes = map[string][]argKind{
	"RDA":  {argAddress, argS1_9},
	"RMPA": {argS1_9},
	"WRA":  {argAddress, argS1_9},
	"WRAP": {argAddress, argS1_9},
	"RDAX": {argRegister, argS1_14},
	"RDFX": {argRegister, argS1_14},
	"LDAX": {argRegister},
	"WRAX": {argRegister, argS1_14},
	"WRHX": {argRegister, argS1_14},
	"WRLX": {argRegister, argS1_14},
	"MAXX": {argRegister, argS1_14},
	"ABSA": {},
	"MULX": {argRegister},
	"LOG":  {argS1_14, argS4_6},
	"EXP":  {argS1_14, argS_10},
	"SOF":  {argS1_14, argS_10},
	"AND":  {argMask},
	"CLR":  {},
	"OR":   {argMask},
	"XOR":  {argMask},
	"NOT":  {},
	"SKP":  {argCondition, argSkip},
	"NOP":  {},
	"WLDS": {argSinLFO, argSinFreq, argSinAmp},
	"WLDR": {argRampLFO, argRampFreq, argRampAmp},
	"JAM":  {argRampLFO},
	"CHO":  nil,
	"RAW":  {argRaw},
}

// choTypes lists the operands that follow the CHO type, and how many are required.
var choTypes = map[string]struct {
	args     []argKind
	required int
}{
	"RDA":  {[]argKind{argChoLFO, argChoFlags, argAddress}, 3},
	"SOF":  {[]argKind{argChoLFO, argChoFlags, argS_15}, 3},
	"RDAL": {[]argKind{argChoLFO, argChoFlags}, 1},
}

// IsOpcode reports whether name is an instruction mnemonic.
func IsOpcode(name string) bool {
	_, ok := opcodes[name]
	return ok
}

// Opcodes returns every mnemonic, sorted.
func Opcodes() []string {
	return slices.Sorted(maps.Keys(opcodes))
}

// Directives are the assembler directives.
var Directives = []string{"EQU", "MEM"}

func builtins() map[string]Value {
	symbols := map[string]Value{
		"SIN0_RATE":  Int(0x00),
		"SIN0_RANGE": Int(0x01),
		"SIN1_RATE":  Int(0x02),
		"SIN1_RANGE": Int(0x03),
		"RMP0_RATE":  Int(0x04),
		"RMP0_RANGE": Int(0x05),
		"RMP1_RATE":  Int(0x06),
		"RMP1_RANGE": Int(0x07),
		"POT0":       Int(0x10),
		"POT1":       Int(0x11),
		"POT2":       Int(0x12),
		"ADCL":       Int(0x14),
		"ADCR":       Int(0x15),
		"DACL":       Int(0x16),
		"DACR":       Int(0x17),
		"ADDR_PTR":   Int(0x18),

		// lfo selectors
		"SIN0": Int(0),
		"SIN1": Int(1),
		"RMP0": Int(2),
		"RMP1": Int(3),

		// cho types
		"RDA":  Int(0),
		"SOF":  Int(2),
		"RDAL": Int(3),

		// cho flags
		"SIN":   Int(0x00),
		"COS":   Int(0x01),
		"REG":   Int(0x02),
		"COMPC": Int(0x04),
		"COMPA": Int(0x08),
		"RPTR2": Int(0x10),
		"NA":    Int(0x20),

		// skp conditions
		"RUN": Int(0x10),
		"ZRC": Int(0x08),
		"ZRO": Int(0x04),
		"GEZ": Int(0x02),
		"NEG": Int(0x01),
	}
	for i := int64(0); i < 32; i++ {
		symbols["REG"+itoa(i)] = Int(0x20 + i)
	}
	return symbols
}

func itoa(i int64) string {
	return Int(i).String()
}
