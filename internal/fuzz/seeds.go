package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var seedSuites = []string{
	"",
	`$"adds" 1 + 1 $eq 2;`,
	"use std::fmt;\n$\"a vector\" {\n    let mut v = Vec::new();\n    $\"starts empty\" v.is_empty();\n    $\"pushed\" {\n        v.push(1);\n        $\"has length one\" v.len() $eq 1;\n    }\n}\n",
	`$"t" a $EQ b;`,
	`$"bad" x $ne;`,
	`$ x;`,
	`$"outer" { $"inner" }`,
	`$r#"raw "name""# ok();`,
	`$"dup" a(); $"dup" b();`,
	`$"a" x $eq $"b" y;`,
	`$"unterminated`,
	`$"t" { ( ] }`,
	"$\"\xff\xfe\" x;",
	`$"τεστ ünïcode" 1 $ne 2;`,
	`$"((" f(); $"[]<>" g();`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range seedSuites {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
