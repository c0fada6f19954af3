// Package machine implements a small line-oriented command language over
// named big-integer registers. It is the single entry point through which
// the REPL, one-line -e programs and script files drive the bigint
// operations.
//
// A line holds one or more commands separated by ';'. Text after '#' is a
// comment. Destination registers are created on first use; source
// registers must already exist.
//
//	set a 0x8000000000000000
//	shl1 b a        # b = a << 1
//	assert b 0x10000000000000000
package machine
