package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var seeds = []string{
	"let n = #name(of: Int.self)\n",
	"#name(of: Swift.Array<[String: Int]>.self)",
	"#name()",
	"#name",
	"#name(of: 1, 2)",
	"#name(of: `self`)",
	"#name(of: .self)",
	"#name(of: a.b.c.self, d: #name(of: e))",
	"#name(of: (a, [b])?.c!.self)",
	"#name(of: x[0](y).self",
	"#name(of: <#ExampleType.self#>)",
	"\"#name(of: Int.self)\" // #name(of: X.self)\n/* #name() /* nested */ */",
	"#\"raw #name(of: Y.self)\"#",
	"\"\"\"\n#name(of: Z.self)\n\"\"\"",
	"#selector(foo) #available(iOS 15, *)",
	"#name(of: Array<Int.self)",
	"#name(of: a < b, c > (d))",
	"#name(",
	"\"unterminated",
	"/* open",
	"<#open",
	"\xff\xfe#name(of: é.self)",
	"#name(of: T\r\n.self)",
}

func addSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
