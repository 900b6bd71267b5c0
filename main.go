package main

import (
	"fmt"
	"os"

	"billbuddy/statements/cmd/balances"
	"billbuddy/statements/cmd/parse"
	"billbuddy/statements/cmd/root"
	"billbuddy/statements/cmd/server"
)

func init() {
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(balances.Cmd)
	root.Cmd.AddCommand(server.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
