package main

import "github.com/dmorell/atelier/cmd"

func main() {
	cmd.Execute()
}
