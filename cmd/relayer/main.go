package main

import (
	"github.com/dwarvesf/casper-bridge-relayer/internal/server"
)

func main() {
	server.Init()
}
