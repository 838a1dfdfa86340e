package main

import (
	"os"

	"summerschool.lol/lolcoin/cmd/cli"
)

func main() {
	err := cli.Run()
	if err != nil {
		os.Exit(1)
	}
}
