/*
Package semtok encodes highlight information for FV-1 assembly tokens into the
LSP semantic token stream.

🎨 Encoding Overview:
--------------------
Every token becomes five integers, relative to the token encoded before it:

	+------------+--------------+--------+-----------+-----------+
	| line delta | column delta | length | type      | modifiers |
	+------------+--------------+--------+-----------+-----------+
	      |             |                     |            |
	  0 on the     absolute when         index into   one bit per
	  same line    line delta > 0        TokenTypes   modifier

Example for "Delay MEM REG0":

	DELAY  -> 0, 0, 5, variable(8), definition(1<<1)
	MEM    -> 0, 6, 3, operator(21), 0
	REG0   -> 0, 4, 4, variable(8), readonly|defaultLibrary

The legend order matches the LSP 3.17 SemanticTokenTypes and
SemanticTokenModifiers enumerations, and is advertised to the client as is.
*/
package semtok
