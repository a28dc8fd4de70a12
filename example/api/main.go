package main

import (
	"github.com/wetrycode/feedgen/api"
	"github.com/wetrycode/feedgen/example/catalog"
)

func main() {
	server := api.NewFeedgenAPI(catalog.Engine)
	server.Server("0.0.0.0:12138")
}
