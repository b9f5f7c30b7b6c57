package main

import "github.com/RyanBlaney/mapdata/cmd"

func main() {
	cmd.Execute()
}
