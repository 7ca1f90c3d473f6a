package main

import (
	"github.com/King-RAM/kno-url/cmd"
)

func main() {
	cmd.Execute()
}
