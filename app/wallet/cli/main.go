package main

import "github.com/ammadhh/blockdate/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
