package baddirective

// Row is never closed.
//
//annogen:testData([{a: 1}
type Row struct {
	A int
}
