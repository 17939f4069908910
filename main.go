package main

import "github.com/ZelongGuo/dislocation/cmd"

func main() {
	cmd.Execute()
}
