package main

import "github.com/spinlab/magsweep/cmd"

func main() {
	cmd.Execute()
}
