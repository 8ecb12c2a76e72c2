// Package main is the entry point for the typegen command.
package main

func main() {
	Execute()
}
