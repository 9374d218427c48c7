package main

import "smarttasks/cmd/st/root"

func main() {
	root.Execute()
}
