/*
Package taxon implements TAXON, a data-interchange format defined as a
strict syntactic superset of JSON.

 Grammar (extends RFC 8259; differences from JSON are marked):

 document   ::= ws value ws
 value      ::= object | array | string | number | "true" | "false" | "null"
 object     ::= "{" ws "}" | "{" members "}"
 members    ::= pair ("," pair)*
 pair       ::= string ws ":" ws value
 array      ::= "[" ws "]" | "[" elements "]"
 elements   ::= value ("," value)*
 string     ::= '"' char* '"'
 number     ::= ["-" | "+"] digit+ ["." digit+] [("e"|"E") ["-"|"+"] digit+]
                                    ^^^ leading "+" sign is a TAXON extension

Nine value alternatives:

	null, boolean, integer (int64), number (float64, may be non-finite),
	string, binary, time (ms since Unix epoch), array, object

JSON's text model only has six of these (no integer/binary/time — its
"number" collapses integer and floating point together). TAXON recovers the
other three, and disambiguates integer from floating-point number, through
annotators: ordinary JSON strings of the shape "$<letter>:<body>".

	$l:<decimal>         integer,  e.g. "$l:-9223372036854775808"
	$d:<decimal|nan|inf|-inf>  non-finite or re-typed number, e.g. "$d:nan"
	$t:<decimal>         time, milliseconds since the Unix epoch
	$h:<hex>             binary, hex body
	$b:<base64>          binary, standard-alphabet base64 body
	$s:<literal>         escape hatch: a plain string that happens to start
	                     with "$" and would otherwise look like an annotator

With OptJSONMode a finite number is written as a plain JSON number and reads
back unchanged; an integer is also written as a plain JSON number, so it
reads back as a number rather than an integer (losing precision above 2^53).
Annotators are only recognized (on parse) and emitted (on format) outside
that mode. Every other TAXON document, with its
annotators stripped back to plain strings, is already valid JSON: a TAXON
reader degrades any matching JSON input to the string/number/bool/null/
array/object it would mean under plain JSON, and a JSON reader degrades a
TAXON document to a pile of oddly-prefixed strings rather than failing to
parse it.

The package centers on three collaborators: Value, a tagged union of the
nine alternatives with copy-on-write array/object/string/binary payloads;
Parser (parser.go/token.go/codepoint.go/annotator.go), which builds a Value
from a Source without recursing into itself on nested arrays or objects;
and Formatter (format.go), which serializes a Value back to a Sink, also
without recursion. Both use an explicit heap-allocated work-stack in place
of native call-stack recursion, so nesting depth is bounded only by memory
(see OptBypassNestingLimit), not by goroutine stack size.
*/
package taxon
