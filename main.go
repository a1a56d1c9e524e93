package main

import "github.com/Alturino/fooddelivery/cmd"

func main() {
	cmd.Start()
}
