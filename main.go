package main

import (
	"bq2kafka/cmd"
)

func main() {
	cmd.Execute()
}
