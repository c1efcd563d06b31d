package main

import "playlist-archiver/cmd"

func main() {
	cmd.Execute()
}
