package docs

var (
	delayAddress = Parameter{"ADDR", 16, []string{"Decimal (0 - 32767)", "Hex ($0 - $7FFF)", "Symbolic"}}
	register     = Parameter{"ADDR", 6, []string{"Decimal (0 - 63)", "Hex ($0 - $3F)", "Symbolic"}}
	delayCoeff   = Parameter{"C", 11, []string{"Real (S1.9)", "Hex ($400 - $000 - $3FF)", "Symbolic"}}
	regCoeff     = Parameter{"C", 16, []string{"Real (S1.14)", "Hex ($8000 - $0000 - $7FFF)", "Symbolic"}}
	offsetS10    = Parameter{"D", 11, []string{"Real (S.10)", "Hex ($400 - $000 - $3FF)", "Symbolic"}}
	offsetS46    = Parameter{"D", 11, []string{"Real (S4.6)", "Hex ($400 - $000 - $3FF)", "Symbolic"}}
	mask         = Parameter{"M", 24, []string{"Binary", "Hex ($000000 - $FFFFFF)", "Symbolic"}}
	rampSelect   = Parameter{"N", 1, []string{"RAMP LFO select: (0, 1)", "Symbolic"}}
	choSelect    = Parameter{"N", 2, []string{"LFO select: SIN0,SIN1,RMP0,RMP1", "Symbolic"}}
	choFlags     = Parameter{"C", 6, []string{"Bit flags", "Symbolic"}}
)

var instructions = []*Instruction{
	{
		Opcode:     "RDA",
		Parameters: []Parameter{delayAddress, delayCoeff},
		Operation:  "SRAM[ADDR] * C + ACC",
		Coding:     "CCCCCCCCCCCAAAAAAAAAAAAAAAA00000",
		Summary: " multiplies the sample read from delay memory at `ADDR` by `C` and adds the product to `ACC`. " +
			"The sample is also latched into `LR` for a following `WRAP`. " +
			"Delay addresses are usually given as a delay buffer name with an optional `#` (end) or `^` (middle) suffix.",
		Example: "delay\tMEM\t1024\n\nrdax\tADCL,\t1.0\t; read the input\nrda\tdelay#,\t0.5\t; add half of the oldest sample\nwra\tdelay,\t0\t; write the sum back",
	},
	{
		Opcode:     "RMPA",
		Parameters: []Parameter{delayCoeff},
		Operation:  "SRAM[PNTR[N]] * C + ACC",
		Coding:     "CCCCCCCCCCC000000000001100000001",
		Summary: " reads delay memory at the address held in `ADDR_PTR`, multiplies it by `C` and adds the result to `ACC`. " +
			"`ADDR_PTR` is written in units of 1/256 of the memory size, so the pointer value is the sample address shifted left by 8.",
		Example: "rdax\tPOT0,\t1.0\nwrax\tADDR_PTR,\t0\t; pot 0 selects the tap\nrmpa\t1.0\nwrax\tDACL,\t0",
	},
	{
		Opcode:     "WRA",
		Parameters: []Parameter{delayAddress, delayCoeff},
		Operation:  "ACC -> SRAM[ADDR], ACC * C",
		Coding:     "CCCCCCCCCCCAAAAAAAAAAAAAAAA00010",
		Summary: " stores `ACC` in delay memory at `ADDR` and then multiplies `ACC` by `C`. " +
			"A coefficient of 0 writes the sample and leaves `ACC` cleared for the next block.",
		Example: "buf\tMEM\t4096\n\nrdax\tADCR,\t1.0\nwra\tbuf,\t0.25\t; store the input and keep a quarter of it",
	},
	{
		Opcode:     "WRAP",
		Parameters: []Parameter{delayAddress, delayCoeff},
		Operation:  "ACC -> SRAM[ADDR], (ACC * C) + LR",
		Coding:     "CCCCCCCCCCCAAAAAAAAAAAAAAAA00011",
		Summary: " stores `ACC` in delay memory at `ADDR`, multiplies `ACC` by `C` and adds `LR`, the sample latched by the last delay read. " +
			"Paired with `RDA` it forms a single all-pass filter in two instructions.",
		Example: "ap1\tMEM\t334\nkap\tEQU\t0.6\n\nrda\tap1#,\tkap\nwrap\tap1,\t-kap\t; all-pass stage",
	},
	{
		Opcode:     "RDAX",
		Parameters: []Parameter{register, regCoeff},
		Operation:  "C * REG[ADDR] + ACC",
		Coding:     "CCCCCCCCCCCCCCCC00000AAAAAA00100",
		Summary: " multiplies the register at `ADDR` by `C` and adds the product to `ACC`. " +
			"It is the usual way to read the ADC inputs and pots, and to mix register values together.",
		Example: "rdax\tADCL,\t0.5\nrdax\tADCR,\t0.5\t; mono sum of both inputs\nwrax\tDACL,\t0",
	},
	{
		Opcode:     "RDFX",
		Parameters: []Parameter{register, regCoeff},
		Operation:  "(ACC - REG[ADDR]) * C + REG[ADDR]",
		Coding:     "CCCCCCCCCCCCCCCC00000AAAAAA00101",
		Summary: " subtracts the register at `ADDR` from `ACC`, multiplies the difference by `C` and adds the register back. " +
			"Followed by a `WRAX` to the same register it implements a one pole low pass filter.",
		Example: "lp\tEQU\tREG0\n\nrdax\tADCL,\t1.0\nrdfx\tlp,\t0.02\nwrax\tlp,\t0\t; low pass the input",
	},
	{
		Opcode:     "LDAX",
		Parameters: []Parameter{register},
		Operation:  "REG[ADDR] -> ACC",
		Coding:     "000000000000000000000AAAAAA00101",
		Summary: " loads `ACC` with the register at `ADDR`. " +
			"It is assembled as `RDFX ADDR, 0`.",
		Example: "tmp\tEQU\tREG3\n\nldax\ttmp\t; restore a saved value",
	},
	{
		Opcode:     "WRAX",
		Parameters: []Parameter{register, regCoeff},
		Operation:  "ACC -> REG[ADDR], C * ACC",
		Coding:     "CCCCCCCCCCCCCCCC00000AAAAAA00110",
		Summary: " stores `ACC` in the register at `ADDR` and then multiplies `ACC` by `C`. " +
			"Use a coefficient of 0 to clear `ACC` or 1.0 to keep the value for further processing.",
		Example: "rdax\tADCL,\t1.0\nwrax\tDACL,\t1.0\t; pass through\nwrax\tDACR,\t0",
	},
	{
		Opcode:     "WRHX",
		Parameters: []Parameter{register, regCoeff},
		Operation:  "ACC -> REG[ADDR], (ACC * C) + PACC",
		Coding:     "CCCCCCCCCCCCCCCC00000AAAAAA00111",
		Summary: " stores `ACC` in the register at `ADDR`, then multiplies `ACC` by `C` and adds `PACC`, the value `ACC` held before the current instruction. " +
			"It builds shelving high pass filters together with `RDFX`.",
		Example: "hp\tEQU\tREG1\n\nrdax\tADCL,\t1.0\nrdfx\thp,\t0.01\nwrhx\thp,\t-0.5\t; high shelf",
	},
	{
		Opcode:     "WRLX",
		Parameters: []Parameter{register, regCoeff},
		Operation:  "ACC -> REG[ADDR], (PACC - ACC) * C + PACC",
		Coding:     "CCCCCCCCCCCCCCCC00000AAAAAA01000",
		Summary: " stores `ACC` in the register at `ADDR`, subtracts `ACC` from `PACC`, multiplies the difference by `C` and adds `PACC`. " +
			"It builds shelving low pass filters together with `RDFX`.",
		Example: "lps\tEQU\tREG2\n\nrdax\tADCR,\t1.0\nrdfx\tlps,\t0.05\nwrlx\tlps,\t-1.0\t; low shelf",
	},
	{
		Opcode:     "MAXX",
		Parameters: []Parameter{register, regCoeff},
		Operation:  "MAX(|REG[ADDR] * C|, |ACC|)",
		Coding:     "CCCCCCCCCCCCCCCC00000AAAAAA01001",
		Summary: " loads `ACC` with the larger of the magnitudes of `ACC` and the register at `ADDR` scaled by `C`. " +
			"It is the building block of peak detectors.",
		Example: "peak\tEQU\tREG4\n\nrdax\tADCL,\t1.0\nmaxx\tpeak,\t0.999\nwrax\tpeak,\t0\t; decaying peak",
	},
	{
		Opcode:    "ABSA",
		Operation: "|ACC| -> ACC",
		Coding:    "00000000000000000000000000001001",
		Summary: " replaces `ACC` with its absolute value. " +
			"It is assembled as `MAXX 0, 0`.",
		Example: "rdax\tADCL,\t1.0\nabsa\t; full wave rectify\nwrax\tREG5,\t0",
	},
	{
		Opcode:     "MULX",
		Parameters: []Parameter{register},
		Operation:  "ACC * REG[ADDR]",
		Coding:     "000000000000000000000AAAAAA01010",
		Summary: " multiplies `ACC` by the register at `ADDR`. " +
			"Because both operands are variables it is used for gain control with pots and envelope followers.",
		Example: "rdax\tADCL,\t1.0\nmulx\tPOT0\t; volume\nwrax\tDACL,\t0",
	},
	{
		Opcode:     "LOG",
		Parameters: []Parameter{regCoeff, offsetS46},
		Operation:  "C * LOG(|ACC|) + D",
		Coding:     "CCCCCCCCCCCCCCCCDDDDDDDDDDD01011",
		Summary: " takes the base 2 logarithm of the magnitude of `ACC`, divided by 16, then multiplies it by `C` and adds `D`. " +
			"Together with `EXP` it turns multiplications into additions for compressors and pitch controls.",
		Example: "rdax\tREG6,\t1.0\nlog\t0.5,\t0\t; square root in the log domain\nexp\t1.0,\t0",
	},
	{
		Opcode:     "EXP",
		Parameters: []Parameter{regCoeff, offsetS10},
		Operation:  "C * EXP(ACC) + D",
		Coding:     "CCCCCCCCCCCCCCCCDDDDDDDDDDD01100",
		Summary: " raises 2 to the power of `ACC` scaled by 16, multiplies the result by `C` and adds `D`. " +
			"Inputs of zero or more saturate to just under 1.0.",
		Example: "rdax\tPOT1,\t1.0\nsof\t1.0,\t-1.0\nexp\t1.0,\t0\t; exponential pot taper\nwrax\tREG7,\t0",
	},
	{
		Opcode:     "SOF",
		Parameters: []Parameter{regCoeff, offsetS10},
		Operation:  "C * ACC + D",
		Coding:     "CCCCCCCCCCCCCCCCDDDDDDDDDDD01101",
		Summary: " scales `ACC` by `C` and adds the offset `D`. " +
			"Chaining `SOF` instructions gives gains above two and reshapes pot responses.",
		Example: "rdax\tPOT2,\t1.0\nsof\t-0.5,\t0.5\t; invert and shrink the pot range\nwrax\tREG8,\t0",
	},
	{
		Opcode:     "AND",
		Parameters: []Parameter{mask},
		Operation:  "ACC & MASK",
		Coding:     "MMMMMMMMMMMMMMMMMMMMMMMM00001110",
		Summary: " performs a bitwise AND of the upper 24 bits of `ACC` with `M`. " +
			"Masking off low bits reduces the resolution of a control signal.",
		Example: "rdax\tPOT0,\t1.0\nand\t%01111110_00000000_00000000\t; quantize the pot",
	},
	{
		Opcode:    "CLR",
		Operation: "0 -> ACC",
		Coding:    "00000000000000000000000000001110",
		Summary: " clears `ACC`. " +
			"It is assembled as `AND 0`.",
		Example: "clr\t; start a new block from silence\nrdax\tADCR,\t1.0",
	},
	{
		Opcode:     "OR",
		Parameters: []Parameter{mask},
		Operation:  "ACC | MASK",
		Coding:     "MMMMMMMMMMMMMMMMMMMMMMMM00001111",
		Summary: " performs a bitwise OR of the upper 24 bits of `ACC` with `M`. " +
			"Combined with `CLR` it loads a constant into `ACC`.",
		Example: "clr\nor\t$7FFFFF\t; largest positive value\nwrax\tREG9,\t0",
	},
	{
		Opcode:     "XOR",
		Parameters: []Parameter{mask},
		Operation:  "ACC ^ MASK",
		Coding:     "MMMMMMMMMMMMMMMMMMMMMMMM00010000",
		Summary: " performs a bitwise exclusive OR of the upper 24 bits of `ACC` with `M`. " +
			"XOR with a register value followed by `SKP ZRO` tests two values for equality.",
		Example: "ldax\tREG10\nxor\t$100000\t; compare against a constant\nskp\tZRO,\tequal\nequal:",
	},
	{
		Opcode:    "NOT",
		Operation: "/ACC -> ACC",
		Coding:    "11111111111111111111111100010000",
		Summary: " inverts every bit of `ACC`. " +
			"It is assembled as `XOR $FFFFFF`.",
		Example: "rdax\tREG11,\t1.0\nnot\t; one's complement\nwrax\tREG11,\t0",
	},
	{
		Opcode: "SKP",
		Parameters: []Parameter{
			{"CMASK", 5, []string{"Binary", "Hex ($00 - $1F)", "Symbolic"}},
			{"N", 6, []string{"Decimal (1 - 63)", "Label"}},
		},
		Operation: "CMASK N",
		Coding:    "CCCCCNNNNNN000000000000000010001",
		Summary: " allows conditional program execution. " +
			"When every condition selected in `CMASK` holds, the next `N` instructions are skipped. " +
			"Conditions are `RUN` (not the first pass through the program), `ZRC` (`ACC` changed sign), " +
			"`ZRO` (`ACC` is zero), `GEZ` (`ACC` is zero or positive) and `NEG` (`ACC` is negative). " +
			"`N` may be a target label that follows the `SKP`.",
		Example: "skp\tRUN,\tinit\nwldr\tRMP0,\t0,\t4096\t; first pass only\ninit:\nclr",
	},
	{
		Opcode:    "NOP",
		Operation: "PC + 1 -> PC",
		Coding:    "00000000000000000000000000010001",
		Summary: " does nothing for one instruction cycle. " +
			"It is assembled as `SKP 0, 0`.",
		Example: "nop\t; pad the program",
	},
	{
		Opcode: "WLDS",
		Parameters: []Parameter{
			{"N", 1, []string{"SIN LFO select: (0, 1)", "Symbolic"}},
			{"F", 9, []string{"Decimal (0 - 511)", "Hex ($000 - $1FF)", "Symbolic"}},
			{"A", 15, []string{"Decimal (0 - 32767)", "Hex ($0000 - $7FFF)", "Symbolic"}},
		},
		Operation: "See description",
		Coding:    "00NFFFFFFFFFAAAAAAAAAAAAAAA10010",
		Summary: " loads sine LFO `N` with frequency `F` and amplitude `A`. " +
			"It is normally guarded by `SKP RUN` so the LFO is only set up on the first pass.",
		Example: "skp\tRUN,\t1\nwlds\tSIN0,\t12,\t160\t; slow chorus sweep",
	},
	{
		Opcode: "WLDR",
		Parameters: []Parameter{
			rampSelect,
			{"F", 16, []string{"Decimal (-16384 - 32768)", "Hex ($4000 - $000 - $7FFF)", "Symbolic"}},
			{"A", 2, []string{"Decimal (512, 1024, 2048, 4096)", "Symbolic"}},
		},
		Operation: "See description",
		Coding:    "01NFFFFFFFFFFFFFFFF000000AA10010",
		Summary: " loads ramp LFO `N` with rate `F` and amplitude `A`. " +
			"A negative rate ramps upwards. The amplitude selects the ramp length in delay samples.",
		Example: "skp\tRUN,\t1\nwldr\tRMP1,\t-8192,\t2048\t; pitch up ramp",
	},
	{
		Opcode:     "JAM",
		Parameters: []Parameter{rampSelect},
		Operation:  "0 -> RAMP LFO N",
		Coding:     "0000000000000000000000001N010011",
		Summary: " resets ramp LFO `N` to its starting point. " +
			"Pitch shifters use it to resynchronize the ramp.",
		Example: "jam\tRMP0\t; restart the ramp",
	},
	{
		Opcode:     "CHO RDA",
		Parameters: []Parameter{choSelect, choFlags, {"D", 16, []string{"Decimal (0 - 32767)", "Hex ($0 - $7FFF)", "Symbolic"}}},
		Operation:  "See description",
		Coding:     "00CCCCCC0NNAAAAAAAAAAAAAAAA10100",
		Summary: ", like the `RDA` instruction, reads delay memory and adds it to `ACC`, " +
			"but the address `D` is offset by LFO `N`. " +
			"The flags in `C` select the LFO output (`SIN`, `COS`, `REG`, `COMPC`, `COMPA`, `RPTR2`, `NA`) " +
			"and how the interpolation coefficient is applied.",
		Example: "chorus\tMEM\t4096\n\ncho\trda,\tSIN0,\tSIN|REG|COMPC,\tchorus^\ncho\trda,\tSIN0,\tSIN,\tchorus^+1\nwra\tchorus,\t0",
	},
	{
		Opcode:     "CHO SOF",
		Parameters: []Parameter{choSelect, choFlags, {"D", 16, []string{"Real (S.15)", "Hex ($0000 - $FFFF)", "Symbolic"}}},
		Operation:  "See description",
		Coding:     "10CCCCCC0NNDDDDDDDDDDDDDDDD10100",
		Summary: ", like the `SOF` instruction, scales `ACC` and adds the offset `D`, " +
			"but the scale comes from LFO `N` as selected by the flags in `C`. " +
			"It is used for crossfading between pitch shifter taps.",
		Example: "pitch\tMEM\t4096\n\ncho\tsof,\tRMP0,\tNA|COMPC,\t0\ncho\trda,\tRMP0,\tNA,\tpitch",
	},
	{
		Opcode:     "CHO RDAL",
		Parameters: []Parameter{{"N", 2, []string{"LFO select: SIN0,COS0,SIN1,COS1,RMP0,RMP1", "Symbolic"}}},
		Operation:  "LFO[N] -> ACC",
		Coding:     "11CCCCCC0NN000000000000000010100",
		Summary: " loads the current value of LFO `N` into `ACC`. " +
			"It is useful to drive other parameters from an LFO or to send it to a DAC for inspection.",
		Example: "cho\trdal,\tSIN1\nwrax\tDACR,\t0\t; monitor the LFO",
	},
	{
		Opcode:     "RAW",
		Parameters: []Parameter{{"N", 32, []string{"Binary", "Hex ($00000000 - $FFFFFFFF)", "Symbolic"}}},
		Operation:  "N -> PROGRAM",
		Coding:     "NNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNN",
		Summary: " inserts `N` into the program as a literal instruction word. " +
			"It gives access to encodings the mnemonics do not cover.",
		Example: "raw\t$0000000E\t; same as CLR",
	},
}

var directives = []*Directive{
	{
		Keyword: "EQU",
		Summary: " allows one to define symbolic operands in order to increase the readability of the source code. " +
			"Both `NAME EQU value` and `EQU NAME value` are accepted. " +
			"The value may be any expression of numbers and previously defined names. " +
			"Redefining a name is allowed but reported as a warning.",
		Example: "gain\tEQU\t0.5\nEQU\tinput\tADCL\n\nrdax\tinput,\tgain",
	},
	{
		Keyword: "MEM",
		Summary: " allocates a block of delay memory. " +
			"`NAME MEM size` defines `NAME` as the first address of the block, `NAME^` as its middle and `NAME#` as its end. " +
			"Blocks are placed one after another in the 32768 sample delay memory, and running out of memory is an error.",
		Example: "echo\tMEM\t16384\n\nrda\techo#,\t0.5\nrda\techo^,\t0.25\nwra\techo,\t0",
	},
}
