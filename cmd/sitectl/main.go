package main

import "hotellink/cmd/sitectl/cmd"

func main() {
	cmd.Execute()
}
