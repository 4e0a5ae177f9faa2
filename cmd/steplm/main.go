// Command steplm runs forward stepwise AIC feature selection for linear
// regression on matrices stored in files.
package main

func main() {
	Execute()
}
