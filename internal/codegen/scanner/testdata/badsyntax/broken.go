package badsyntax

type Broken struct {
