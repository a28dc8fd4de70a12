package main

import (
	"github.com/wetrycode/feedgen/example/catalog"
)

func main() {
	catalog.Start()
}
