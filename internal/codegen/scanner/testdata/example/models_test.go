package example

type FromTest struct{}
