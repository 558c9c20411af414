package main

import "github.com/Manu343726/or1kdbg/cmd"

func main() {
	cmd.Execute()
}
