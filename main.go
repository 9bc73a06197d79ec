// Public domain.

package main

import "github.com/gqp-mc/mocha/internal/mochaprog"

func main() {
	mochaprog.Main()
}
