// Command casetta runs and inspects energy facility simulations.
package main

import "github.com/sarchlab/casetta/casetta/cmd"

func main() {
	cmd.Execute()
}
