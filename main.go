package main

import "flats-scraper/cmd"

func main() {
	cmd.Execute()
}
