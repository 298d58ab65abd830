package main

import "github.com/sadopc/woolywalk/cmd"

func main() {
	cmd.Execute()
}
