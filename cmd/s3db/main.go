/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/forattini-dev/s3db/cmd/s3db/cmd"
)

func main() {
	cmd.Execute()
}
